//go:build !windows

package sysinfo

type unsupportedAppInventory struct{}

func platformAppInventory() appInventory {
	return unsupportedAppInventory{}
}

func (unsupportedAppInventory) List() ([]installedApp, error) {
	return nil, errUnsupportedInventory
}

// osVersionDetail has no registry to consult outside Windows.
func osVersionDetail() string {
	return ""
}
