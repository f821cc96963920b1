package procs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"hostkit/internal/units"
)

// procEntry is one row of a process table snapshot.
type procEntry struct {
	PID        int32
	Name       string
	CPUPercent float64
	MemoryRSS  uint64
	Status     string
}

// snapshotFunc enumerates processes. Swappable in tests.
type snapshotFunc func() ([]procEntry, error)

// liveSnapshot walks the process table via gopsutil. Individual processes
// that exit mid-scan or deny access are skipped, never fatal.
func liveSnapshot() ([]procEntry, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate processes: %w", err)
	}

	entries := make([]procEntry, 0, len(procs))
	for _, p := range procs {
		entry := procEntry{PID: p.Pid, Name: "N/A", Status: "N/A"}
		if name, err := p.Name(); err == nil && name != "" {
			entry.Name = name
		}
		if cpu, err := p.CPUPercent(); err == nil {
			entry.CPUPercent = cpu
		}
		if mem, err := p.MemoryInfo(); err == nil && mem != nil {
			entry.MemoryRSS = mem.RSS
		}
		if status, err := p.Status(); err == nil && len(status) > 0 {
			entry.Status = strings.Join(status, ",")
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// renderTable produces the fixed-width PID/CPU/Memory/Status/Name table used
// by list_processes and find_process_by_name.
func renderTable(entries []procEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-8s %-12s %-12s %s\n", "PID", "CPU%", "Memory", "Status", "Name")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-8d %-8.1f %-12s %-12s %s\n",
			e.PID, e.CPUPercent, units.FormatSize(e.MemoryRSS), e.Status, e.Name)
	}
	return b.String()
}

func sortByPID(entries []procEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].PID < entries[j].PID })
}

func sortByCPU(entries []procEntry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CPUPercent > entries[j].CPUPercent })
}

func sortByMemory(entries []procEntry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].MemoryRSS > entries[j].MemoryRSS })
}

// filterByName keeps entries whose name contains the query, case-insensitive.
func filterByName(entries []procEntry, query string) []procEntry {
	q := strings.ToLower(query)
	var out []procEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}
