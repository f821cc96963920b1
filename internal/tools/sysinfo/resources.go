package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"

	"hostkit/internal/tools"
	"hostkit/internal/units"
)

// GetSystemResourcesTool returns a tool summarizing CPU, memory and disk load.
func (ts *ToolSet) GetSystemResourcesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_system_resources",
		Description: "Get overall CPU, memory, swap and disk usage",
		Category:    tools.CategorySystem,
		Execute:     ts.executeGetSystemResources,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeGetSystemResources(ctx context.Context, args map[string]any) (string, error) {
	var b strings.Builder
	b.WriteString("System Resources:\n\n")

	b.WriteString("CPU:\n")
	// One-second sample window, same as a top-style reading.
	if percents, err := cpu.PercentWithContext(ctx, time.Second, false); err == nil && len(percents) > 0 {
		fmt.Fprintf(&b, "  Usage: %.1f%%\n", percents[0])
	}
	if count, err := cpu.Counts(true); err == nil {
		fmt.Fprintf(&b, "  Cores: %d\n", count)
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 && infos[0].Mhz > 0 {
		fmt.Fprintf(&b, "  Frequency: %.0f MHz\n", infos[0].Mhz)
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return "", fmt.Errorf("failed to read memory stats: %w", err)
	}
	b.WriteString("\nMemory:\n")
	fmt.Fprintf(&b, "  Total: %s\n", units.FormatSize(vm.Total))
	fmt.Fprintf(&b, "  Available: %s\n", units.FormatSize(vm.Available))
	fmt.Fprintf(&b, "  Used: %s (%.1f%%)\n", units.FormatSize(vm.Used), vm.UsedPercent)

	if swap, err := mem.SwapMemory(); err == nil {
		b.WriteString("\nSwap:\n")
		fmt.Fprintf(&b, "  Total: %s\n", units.FormatSize(swap.Total))
		fmt.Fprintf(&b, "  Used: %s (%.1f%%)\n", units.FormatSize(swap.Used), swap.UsedPercent)
	}

	root := "/"
	if runtime.GOOS == "windows" {
		root = "C:\\"
	}
	if du, err := disk.Usage(root); err == nil {
		fmt.Fprintf(&b, "\nDisk (%s):\n", root)
		fmt.Fprintf(&b, "  Total: %s\n", units.FormatSize(du.Total))
		fmt.Fprintf(&b, "  Used: %s (%.1f%%)\n", units.FormatSize(du.Used), du.UsedPercent)
		fmt.Fprintf(&b, "  Free: %s\n", units.FormatSize(du.Free))
	}

	return b.String(), nil
}

// GetHardwareInformationTool returns a tool describing CPU, memory, disks and
// network interfaces.
func (ts *ToolSet) GetHardwareInformationTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_hardware_information",
		Description: "Get hardware information (CPU, memory, disks, interfaces)",
		Category:    tools.CategorySystem,
		Execute:     ts.executeGetHardwareInformation,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeGetHardwareInformation(ctx context.Context, args map[string]any) (string, error) {
	var b strings.Builder
	b.WriteString("Hardware Information:\n\n")

	b.WriteString("CPU:\n")
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		fmt.Fprintf(&b, "  Processor: %s\n", infos[0].ModelName)
	}
	fmt.Fprintf(&b, "  Architecture: %s\n", runtime.GOARCH)
	if physical, err := cpu.Counts(false); err == nil {
		fmt.Fprintf(&b, "  Physical cores: %d\n", physical)
	}
	if logical, err := cpu.Counts(true); err == nil {
		fmt.Fprintf(&b, "  Total cores: %d\n", logical)
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 && infos[0].Mhz > 0 {
		fmt.Fprintf(&b, "  Frequency: %.2f MHz\n", infos[0].Mhz)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		b.WriteString("\nMemory:\n")
		fmt.Fprintf(&b, "  Total: %s\n", units.FormatSize(vm.Total))
		fmt.Fprintf(&b, "  Available: %s\n", units.FormatSize(vm.Available))
	}

	b.WriteString("\nDisk Drives:\n")
	partitions, err := disk.Partitions(false)
	if err != nil {
		fmt.Fprintf(&b, "  unavailable: %v\n", err)
	}
	for _, p := range partitions {
		// A partition that cannot be statted degrades to one line; the
		// rest of the listing continues.
		usage, err := disk.Usage(p.Mountpoint)
		if err != nil {
			fmt.Fprintf(&b, "  %s: Permission denied\n", p.Device)
			continue
		}
		fmt.Fprintf(&b, "  %s\n", p.Device)
		fmt.Fprintf(&b, "    Mountpoint: %s\n", p.Mountpoint)
		fmt.Fprintf(&b, "    File system: %s\n", p.Fstype)
		fmt.Fprintf(&b, "    Total Size: %s\n", units.FormatSize(usage.Total))
		fmt.Fprintf(&b, "    Used: %s\n", units.FormatSize(usage.Used))
		fmt.Fprintf(&b, "    Free: %s\n", units.FormatSize(usage.Free))
	}

	b.WriteString("\nNetwork Interfaces:\n")
	if ifaces, err := gnet.Interfaces(); err == nil {
		for _, iface := range ifaces {
			up := "No"
			for _, flag := range iface.Flags {
				if strings.EqualFold(flag, "up") {
					up = "Yes"
					break
				}
			}
			fmt.Fprintf(&b, "  %s:\n", iface.Name)
			fmt.Fprintf(&b, "    Up: %s\n", up)
			fmt.Fprintf(&b, "    MTU: %d\n", iface.MTU)
		}
	}

	return b.String(), nil
}

// GetTemperatureInformationTool returns a tool listing thermal sensors.
func (ts *ToolSet) GetTemperatureInformationTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_temperature_information",
		Description: "Get temperature readings from system sensors",
		Category:    tools.CategorySystem,
		Execute:     ts.executeGetTemperatureInformation,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeGetTemperatureInformation(ctx context.Context, args map[string]any) (string, error) {
	// gopsutil reports per-sensor warnings alongside partial data; only a
	// fully empty reading counts as "no sensors".
	sensors, _ := host.SensorsTemperatures()
	if len(sensors) == 0 {
		return "No temperature sensors found on this system", nil
	}

	var b strings.Builder
	b.WriteString("Temperature Information:\n\n")
	for _, s := range sensors {
		label := s.SensorKey
		if label == "" {
			label = "Unknown"
		}
		fmt.Fprintf(&b, "  %s: %.1f°C", label, s.Temperature)
		if s.High > 0 {
			fmt.Fprintf(&b, " (High: %.1f°C)", s.High)
		}
		if s.Critical > 0 {
			fmt.Fprintf(&b, " (Critical: %.1f°C)", s.Critical)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// GetOSVersionTool returns a tool reporting operating system details.
func (ts *ToolSet) GetOSVersionTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_os_version",
		Description: "Get operating system name, version and kernel details",
		Category:    tools.CategorySystem,
		Execute:     ts.executeGetOSVersion,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeGetOSVersion(ctx context.Context, args map[string]any) (string, error) {
	info, err := host.Info()
	if err != nil {
		return "", fmt.Errorf("failed to read host info: %w", err)
	}

	var b strings.Builder
	b.WriteString("Operating System Information:\n")
	fmt.Fprintf(&b, "  Hostname: %s\n", info.Hostname)
	fmt.Fprintf(&b, "  OS: %s\n", info.OS)
	fmt.Fprintf(&b, "  Platform: %s %s\n", info.Platform, info.PlatformVersion)
	fmt.Fprintf(&b, "  Kernel: %s (%s)\n", info.KernelVersion, info.KernelArch)

	// Registry-backed detail on Windows, empty elsewhere.
	b.WriteString(osVersionDetail())

	return b.String(), nil
}
