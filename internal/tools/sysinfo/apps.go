package sysinfo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"hostkit/internal/logging"
	"hostkit/internal/tools"
)

// installedApp is one entry of the application inventory.
type installedApp struct {
	Name      string
	Version   string
	Publisher string
}

// appInventory is the platform capability for listing installed applications.
// Platforms without an inventory source return errUnsupportedInventory.
type appInventory interface {
	List() ([]installedApp, error)
}

var errUnsupportedInventory = fmt.Errorf("application inventory is not supported on this platform")

// ListInstalledApplicationsTool returns a tool listing installed applications.
func (ts *ToolSet) ListInstalledApplicationsTool() *tools.Tool {
	return &tools.Tool{
		Name:        "list_installed_applications",
		Description: "List installed applications (Windows registry-backed)",
		Category:    tools.CategorySystem,
		Execute:     ts.executeListInstalledApplications,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeListInstalledApplications(ctx context.Context, args map[string]any) (string, error) {
	apps, err := ts.apps.List()
	if err != nil {
		if err == errUnsupportedInventory {
			return "This function is currently only available on Windows systems", nil
		}
		return "", err
	}

	apps = dedupeApps(apps)
	sort.Slice(apps, func(i, j int) bool {
		return strings.ToLower(apps[i].Name) < strings.ToLower(apps[j].Name)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Installed Applications (%d found):\n\n", len(apps))
	for _, app := range apps {
		fmt.Fprintf(&b, "Name: %s\n", app.Name)
		fmt.Fprintf(&b, "  Version: %s\n", app.Version)
		fmt.Fprintf(&b, "  Publisher: %s\n\n", app.Publisher)
	}

	logging.Get(logging.CategorySystem).Debug("list_installed_applications: %d entries", len(apps))
	return b.String(), nil
}

// dedupeApps removes entries that appear in multiple registry hives.
func dedupeApps(apps []installedApp) []installedApp {
	seen := make(map[string]bool, len(apps))
	out := apps[:0]
	for _, app := range apps {
		key := app.Name + "\x00" + app.Version
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, app)
	}
	return out
}
