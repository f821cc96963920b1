// Package units provides human-readable formatting for byte counts.
package units

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatSize converts a byte count to the largest 1024-based unit whose
// displayed value stays below 1024, with one decimal place.
func FormatSize(bytes uint64) string {
	value := float64(bytes)
	for _, unit := range sizeUnits[:len(sizeUnits)-1] {
		if value < 1024.0 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[len(sizeUnits)-1])
}
