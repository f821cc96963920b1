package procs

import (
	"context"
	"fmt"
	"strings"

	"hostkit/internal/logging"
	"hostkit/internal/tools"
	"hostkit/internal/units"
)

// ToolSet bundles the process inspection tools.
type ToolSet struct {
	snapshot snapshotFunc
	tree     treeSource
}

// NewToolSet creates a process tool set reading from the live system.
func NewToolSet() *ToolSet {
	return &ToolSet{
		snapshot: liveSnapshot,
		tree:     liveTreeSource{},
	}
}

// RegisterAll registers every process tool with the given registry.
func (ts *ToolSet) RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		ts.ListProcessesTool(),
		ts.GetProcessInfoTool(),
		ts.GetProcessTreeTool(),
		ts.GetTopCPUProcessesTool(),
		ts.GetTopMemoryProcessesTool(),
		ts.FindProcessByNameTool(),
		ts.CheckIfProcessRunningTool(),
	}
	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// ListProcessesTool returns a tool listing the full process table.
func (ts *ToolSet) ListProcessesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "list_processes",
		Description: "List all running processes with PID, name, CPU and memory usage",
		Category:    tools.CategoryProcess,
		Execute:     ts.executeListProcesses,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeListProcesses(ctx context.Context, args map[string]any) (string, error) {
	entries, err := ts.snapshot()
	if err != nil {
		return "", err
	}
	sortByPID(entries)

	logging.Get(logging.CategoryProcess).Debug("list_processes: %d entries", len(entries))
	return fmt.Sprintf("Running Processes (%d total):\n%s", len(entries), renderTable(entries)), nil
}

// GetProcessInfoTool returns a tool producing a JSON process record.
func (ts *ToolSet) GetProcessInfoTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_process_info",
		Description: "Get detailed information about a specific process by PID",
		Category:    tools.CategoryProcess,
		Execute:     ts.executeGetProcessInfo,
		Schema: tools.ToolSchema{
			Required: []string{"pid"},
			Properties: map[string]tools.Property{
				"pid": {
					Type:        "integer",
					Description: "Process ID to inspect",
				},
			},
		},
	}
}

func (ts *ToolSet) executeGetProcessInfo(ctx context.Context, args map[string]any) (string, error) {
	pid := tools.IntArg(args, "pid", 0)
	if pid <= 0 {
		return "", fmt.Errorf("pid must be a positive integer")
	}
	return inspectProcess(int32(pid))
}

// GetProcessTreeTool returns a tool rendering parent/child relationships.
func (ts *ToolSet) GetProcessTreeTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_process_tree",
		Description: "Show the process tree for a given PID (parent/child relationships)",
		Category:    tools.CategoryProcess,
		Execute:     ts.executeGetProcessTree,
		Schema: tools.ToolSchema{
			Required: []string{"pid"},
			Properties: map[string]tools.Property{
				"pid": {
					Type:        "integer",
					Description: "PID of the root of the tree",
				},
			},
		},
	}
}

func (ts *ToolSet) executeGetProcessTree(ctx context.Context, args map[string]any) (string, error) {
	pid := tools.IntArg(args, "pid", 0)
	if pid <= 0 {
		return "", fmt.Errorf("pid must be a positive integer")
	}
	return renderTree(ts.tree, int32(pid))
}

// GetTopCPUProcessesTool returns a tool listing the heaviest CPU consumers.
func (ts *ToolSet) GetTopCPUProcessesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_top_cpu_processes",
		Description: "Get the top N processes by CPU usage",
		Category:    tools.CategoryProcess,
		Execute:     ts.executeTopCPU,
		Schema: tools.ToolSchema{
			Required: []string{},
			Properties: map[string]tools.Property{
				"limit": {
					Type:        "integer",
					Description: "Number of processes to return (default: 5)",
					Default:     5,
				},
			},
		},
	}
}

func (ts *ToolSet) executeTopCPU(ctx context.Context, args map[string]any) (string, error) {
	limit := tools.IntArg(args, "limit", 5)
	if limit <= 0 {
		limit = 5
	}
	entries, err := ts.snapshot()
	if err != nil {
		return "", err
	}
	sortByCPU(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top %d processes by CPU usage:\n", limit)
	fmt.Fprintf(&b, "%-8s %-8s %s\n", "PID", "CPU%", "Name")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-8d %-8.1f %s\n", e.PID, e.CPUPercent, e.Name)
	}
	return b.String(), nil
}

// GetTopMemoryProcessesTool returns a tool listing the heaviest memory consumers.
func (ts *ToolSet) GetTopMemoryProcessesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_top_memory_processes",
		Description: "Get the top N processes by memory usage",
		Category:    tools.CategoryProcess,
		Execute:     ts.executeTopMemory,
		Schema: tools.ToolSchema{
			Required: []string{},
			Properties: map[string]tools.Property{
				"limit": {
					Type:        "integer",
					Description: "Number of processes to return (default: 5)",
					Default:     5,
				},
			},
		},
	}
}

func (ts *ToolSet) executeTopMemory(ctx context.Context, args map[string]any) (string, error) {
	limit := tools.IntArg(args, "limit", 5)
	if limit <= 0 {
		limit = 5
	}
	entries, err := ts.snapshot()
	if err != nil {
		return "", err
	}
	sortByMemory(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top %d processes by memory usage:\n", limit)
	fmt.Fprintf(&b, "%-8s %-12s %s\n", "PID", "Memory", "Name")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-8d %-12s %s\n", e.PID, units.FormatSize(e.MemoryRSS), e.Name)
	}
	return b.String(), nil
}

// FindProcessByNameTool returns a tool matching processes by partial name.
func (ts *ToolSet) FindProcessByNameTool() *tools.Tool {
	return &tools.Tool{
		Name:        "find_process_by_name",
		Description: "Find processes by name (partial, case-insensitive match)",
		Category:    tools.CategoryProcess,
		Execute:     ts.executeFindByName,
		Schema: tools.ToolSchema{
			Required: []string{"name"},
			Properties: map[string]tools.Property{
				"name": {
					Type:        "string",
					Description: "Process name or fragment to search for",
				},
			},
		},
	}
}

func (ts *ToolSet) executeFindByName(ctx context.Context, args map[string]any) (string, error) {
	name := tools.StringArg(args, "name", "")
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	entries, err := ts.snapshot()
	if err != nil {
		return "", err
	}
	matches := filterByName(entries, name)
	if len(matches) == 0 {
		return fmt.Sprintf("No processes found matching '%s'", name), nil
	}
	sortByPID(matches)
	return fmt.Sprintf("Found %d process(es) matching '%s':\n%s",
		len(matches), name, renderTable(matches)), nil
}

// CheckIfProcessRunningTool returns a tool answering whether a named process exists.
func (ts *ToolSet) CheckIfProcessRunningTool() *tools.Tool {
	return &tools.Tool{
		Name:        "check_if_process_running",
		Description: "Check if a process with the given name is currently running",
		Category:    tools.CategoryProcess,
		Execute:     ts.executeCheckRunning,
		Schema: tools.ToolSchema{
			Required: []string{"name"},
			Properties: map[string]tools.Property{
				"name": {
					Type:        "string",
					Description: "Process name or fragment to look for",
				},
			},
		},
	}
}

func (ts *ToolSet) executeCheckRunning(ctx context.Context, args map[string]any) (string, error) {
	name := tools.StringArg(args, "name", "")
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	entries, err := ts.snapshot()
	if err != nil {
		return "", err
	}
	matches := filterByName(entries, name)
	if len(matches) == 0 {
		return fmt.Sprintf("No processes found matching '%s'", name), nil
	}
	sortByPID(matches)

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d process(es) matching '%s':\n", len(matches), name)
	for _, e := range matches {
		fmt.Fprintf(&b, "  PID %d: %s\n", e.PID, e.Name)
	}
	return b.String(), nil
}
