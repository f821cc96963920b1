package procs

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"hostkit/internal/units"
)

// maxTreeDepth bounds the descent into child processes. A healthy process
// tree is far shallower than this; the guard protects against cyclic or
// corrupt parent chains reported by the kernel.
const maxTreeDepth = 32

// treeSource abstracts process lookup for the tree walker.
type treeSource interface {
	// Describe returns the display fields for a PID. ErrAccessDenied marks
	// a process that exists but cannot be read.
	Describe(pid int32) (name string, cpuPercent float64, memoryRSS uint64, err error)
	// Children returns the direct child PIDs of a process.
	Children(pid int32) ([]int32, error)
}

// liveTreeSource reads from the running system via gopsutil.
type liveTreeSource struct{}

func (liveTreeSource) Describe(pid int32) (string, float64, uint64, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: pid %d", ErrProcessNotFound, pid)
	}
	name, err := p.Name()
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: pid %d", ErrAccessDenied, pid)
	}
	cpu, _ := p.CPUPercent()
	var rss uint64
	if mem, err := p.MemoryInfo(); err == nil && mem != nil {
		rss = mem.RSS
	}
	return name, cpu, rss, nil
}

func (liveTreeSource) Children(pid int32) ([]int32, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("%w: pid %d", ErrProcessNotFound, pid)
	}
	children, err := p.Children()
	if err != nil {
		// gopsutil reports "no children" as an error; treat it as a leaf.
		return nil, nil
	}
	pids := make([]int32, 0, len(children))
	for _, child := range children {
		pids = append(pids, child.Pid)
	}
	return pids, nil
}

// renderTree walks the process tree rooted at pid, appending one line per
// process into an explicit accumulator. Unreadable nodes render as
// <access denied> and terminate their branch.
func renderTree(src treeSource, pid int32) (string, error) {
	if _, _, _, err := src.Describe(pid); err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Process Tree for PID %d:\n", pid)
	appendTree(&b, src, pid, 0)
	return b.String(), nil
}

func appendTree(b *strings.Builder, src treeSource, pid int32, depth int) {
	indent := strings.Repeat("  ", depth)
	if depth >= maxTreeDepth {
		fmt.Fprintf(b, "%s├─ %d <max depth reached>\n", indent, pid)
		return
	}

	name, cpu, rss, err := src.Describe(pid)
	if err != nil {
		fmt.Fprintf(b, "%s├─ %d <access denied>\n", indent, pid)
		return
	}
	fmt.Fprintf(b, "%s├─ %d %s (CPU: %.1f%%, Memory: %s)\n",
		indent, pid, name, cpu, units.FormatSize(rss))

	children, err := src.Children(pid)
	if err != nil {
		return
	}
	for _, child := range children {
		appendTree(b, src, child, depth+1)
	}
}
