package sysinfo

import (
	"context"
	"fmt"
	"strings"

	"github.com/distatus/battery"

	"hostkit/internal/tools"
)

// GetBatteryStatusTool returns a tool reporting battery charge and state.
func (ts *ToolSet) GetBatteryStatusTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_battery_status",
		Description: "Get battery charge, power state and time estimate",
		Category:    tools.CategorySystem,
		Execute:     ts.executeGetBatteryStatus,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeGetBatteryStatus(ctx context.Context, args map[string]any) (string, error) {
	// Partial read errors still surface whatever batteries were readable.
	batteries, _ := battery.GetAll()
	if len(batteries) == 0 {
		return "No battery found on this system", nil
	}

	var b strings.Builder
	b.WriteString("Battery Status:\n")
	for i, bat := range batteries {
		if len(batteries) > 1 {
			fmt.Fprintf(&b, "Battery %d:\n", i)
		}
		percent := 0.0
		if bat.Full > 0 {
			percent = bat.Current / bat.Full * 100
		}
		fmt.Fprintf(&b, "  Charge: %.1f%%\n", percent)

		plugged := "No"
		switch bat.State.Raw {
		case battery.Charging, battery.Full, battery.Idle:
			plugged = "Yes"
		}
		fmt.Fprintf(&b, "  Power plugged: %s\n", plugged)
		b.WriteString(batteryTimeEstimate(bat))
	}
	return b.String(), nil
}

// batteryTimeEstimate derives time-to-empty or time-to-full from the charge
// rate. A zero rate means the estimate is unknown.
func batteryTimeEstimate(bat *battery.Battery) string {
	switch bat.State.Raw {
	case battery.Discharging:
		if bat.ChargeRate > 0 {
			return fmt.Sprintf("  Time remaining: %s\n", formatHoursMinutes(bat.Current/bat.ChargeRate))
		}
		return "  Time remaining: Unknown\n"
	case battery.Charging:
		if bat.ChargeRate > 0 {
			return fmt.Sprintf("  Time until charged: %s\n", formatHoursMinutes((bat.Full-bat.Current)/bat.ChargeRate))
		}
		return "  Time until charged: Unknown\n"
	default:
		return "  Time remaining: Unlimited (plugged in)\n"
	}
}

func formatHoursMinutes(hours float64) string {
	if hours < 0 {
		hours = 0
	}
	totalMinutes := int(hours * 60)
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}
