//go:build windows

package sysinfo

import (
	"golang.org/x/sys/windows/registry"
)

// uninstallHives are the registry locations where installers record
// applications, covering 64-bit, 32-bit and per-user installs.
var uninstallHives = []struct {
	root registry.Key
	path string
}{
	{registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.CURRENT_USER, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
}

type registryAppInventory struct{}

func platformAppInventory() appInventory {
	return registryAppInventory{}
}

func (registryAppInventory) List() ([]installedApp, error) {
	var apps []installedApp
	for _, hive := range uninstallHives {
		key, err := registry.OpenKey(hive.root, hive.path, registry.READ)
		if err != nil {
			continue
		}
		names, err := key.ReadSubKeyNames(-1)
		if err != nil {
			key.Close()
			continue
		}
		for _, name := range names {
			sub, err := registry.OpenKey(hive.root, hive.path+`\`+name, registry.READ)
			if err != nil {
				continue
			}
			// Entries without a DisplayName are uninstall bookkeeping,
			// not applications.
			displayName, _, err := sub.GetStringValue("DisplayName")
			if err != nil || displayName == "" {
				sub.Close()
				continue
			}
			version, _, err := sub.GetStringValue("DisplayVersion")
			if err != nil {
				version = "Unknown"
			}
			publisher, _, err := sub.GetStringValue("Publisher")
			if err != nil {
				publisher = "Unknown"
			}
			apps = append(apps, installedApp{
				Name:      displayName,
				Version:   version,
				Publisher: publisher,
			})
			sub.Close()
		}
		key.Close()
	}
	return apps, nil
}

// osVersionDetail supplements host info with the registry build details.
func osVersionDetail() string {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.READ)
	if err != nil {
		return ""
	}
	defer key.Close()

	out := ""
	if product, _, err := key.GetStringValue("ProductName"); err == nil {
		out += "  Product Name: " + product + "\n"
	}
	if build, _, err := key.GetStringValue("CurrentBuild"); err == nil {
		out += "  Build Number: " + build + "\n"
	}
	if display, _, err := key.GetStringValue("DisplayVersion"); err == nil {
		out += "  Display Version: " + display + "\n"
	}
	return out
}
