package procs

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"hostkit/internal/units"
)

// ParentRef identifies the parent of an inspected process.
type ParentRef struct {
	PID  int32  `json:"pid"`
	Name string `json:"name"`
}

// MemoryUsage carries human-readable resident and virtual sizes.
type MemoryUsage struct {
	RSS string `json:"rss"`
	VMS string `json:"vms"`
}

// ProcessInfoRecord is the JSON payload produced by get_process_info.
// Fields the caller is not permitted to read degrade to "N/A" or null
// instead of failing the whole lookup.
type ProcessInfoRecord struct {
	PID        int32       `json:"pid"`
	Name       string      `json:"name"`
	Exe        string      `json:"exe"`
	Cwd        string      `json:"cwd"`
	Status     string      `json:"status"`
	CreateTime string      `json:"create_time"`
	CPUPercent float64     `json:"cpu_percent"`
	MemoryInfo MemoryUsage `json:"memory_info"`
	NumThreads int32       `json:"num_threads"`
	Username   string      `json:"username"`
	Parent     *ParentRef  `json:"parent"`
	Cmdline    string      `json:"cmdline"`
}

func inspectProcess(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", fmt.Errorf("%w: pid %d", ErrProcessNotFound, pid)
	}

	name, err := p.Name()
	if err != nil {
		return "", fmt.Errorf("%w: pid %d", ErrAccessDenied, pid)
	}

	record := ProcessInfoRecord{
		PID:     pid,
		Name:    name,
		Exe:     "N/A",
		Cwd:     "N/A",
		Status:  "N/A",
		Cmdline: "N/A",
		MemoryInfo: MemoryUsage{
			RSS: units.FormatSize(0),
			VMS: units.FormatSize(0),
		},
		Username:   "N/A",
		CreateTime: "N/A",
	}

	if exe, err := p.Exe(); err == nil {
		record.Exe = exe
	}
	if cwd, err := p.Cwd(); err == nil {
		record.Cwd = cwd
	}
	if status, err := p.Status(); err == nil && len(status) > 0 {
		record.Status = strings.Join(status, ",")
	}
	if created, err := p.CreateTime(); err == nil {
		record.CreateTime = time.UnixMilli(created).Format("2006-01-02T15:04:05")
	}
	if cpu, err := p.CPUPercent(); err == nil {
		record.CPUPercent = cpu
	}
	if mem, err := p.MemoryInfo(); err == nil && mem != nil {
		record.MemoryInfo.RSS = units.FormatSize(mem.RSS)
		record.MemoryInfo.VMS = units.FormatSize(mem.VMS)
	}
	if threads, err := p.NumThreads(); err == nil {
		record.NumThreads = threads
	}
	if user, err := p.Username(); err == nil {
		record.Username = user
	}
	if parent, err := p.Parent(); err == nil && parent != nil {
		ref := &ParentRef{PID: parent.Pid, Name: "N/A"}
		if pname, err := parent.Name(); err == nil {
			ref.Name = pname
		}
		record.Parent = ref
	}
	if args, err := p.CmdlineSlice(); err == nil && len(args) > 0 {
		record.Cmdline = strings.Join(args, " ")
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode process info: %w", err)
	}
	return string(out), nil
}
