package procs

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"hostkit/internal/tools"
)

func fakeSnapshot(entries []procEntry) snapshotFunc {
	return func() ([]procEntry, error) {
		out := make([]procEntry, len(entries))
		copy(out, entries)
		return out, nil
	}
}

var sampleEntries = []procEntry{
	{PID: 300, Name: "nginx", CPUPercent: 2.5, MemoryRSS: 50 * 1024 * 1024, Status: "sleeping"},
	{PID: 1, Name: "systemd", CPUPercent: 0.1, MemoryRSS: 10 * 1024 * 1024, Status: "sleeping"},
	{PID: 42, Name: "postgres", CPUPercent: 9.8, MemoryRSS: 900 * 1024 * 1024, Status: "running"},
}

func TestRegisterAll(t *testing.T) {
	ts := NewToolSet()
	registry := tools.NewRegistry()
	if err := ts.RegisterAll(registry); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	for _, name := range []string{
		"list_processes", "get_process_info", "get_process_tree",
		"get_top_cpu_processes", "get_top_memory_processes",
		"find_process_by_name", "check_if_process_running",
	} {
		if !registry.Has(name) {
			t.Errorf("tool %q not registered", name)
		}
	}
}

func TestListProcessesSortedByPID(t *testing.T) {
	ts := &ToolSet{snapshot: fakeSnapshot(sampleEntries)}

	out, err := ts.executeListProcesses(context.Background(), nil)
	if err != nil {
		t.Fatalf("list_processes: %v", err)
	}
	if !strings.Contains(out, "Running Processes (3 total):") {
		t.Errorf("missing header:\n%s", out)
	}
	iSystemd := strings.Index(out, "systemd")
	iPostgres := strings.Index(out, "postgres")
	iNginx := strings.Index(out, "nginx")
	if !(iSystemd < iPostgres && iPostgres < iNginx) {
		t.Errorf("rows not in PID order:\n%s", out)
	}
	if !strings.Contains(out, "900.0 MB") {
		t.Errorf("memory column not humanized:\n%s", out)
	}
}

func TestTopCPU(t *testing.T) {
	ts := &ToolSet{snapshot: fakeSnapshot(sampleEntries)}

	out, err := ts.executeTopCPU(context.Background(), map[string]any{"limit": 2})
	if err != nil {
		t.Fatalf("top cpu: %v", err)
	}
	if !strings.Contains(out, "Top 2 processes by CPU usage:") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "postgres") || !strings.Contains(out, "nginx") {
		t.Errorf("expected the two heaviest consumers:\n%s", out)
	}
	if strings.Contains(out, "systemd") {
		t.Errorf("limit not applied:\n%s", out)
	}
	if strings.Index(out, "postgres") > strings.Index(out, "nginx") {
		t.Errorf("not sorted by CPU descending:\n%s", out)
	}
}

func TestTopMemory(t *testing.T) {
	ts := &ToolSet{snapshot: fakeSnapshot(sampleEntries)}

	out, err := ts.executeTopMemory(context.Background(), map[string]any{"limit": 1})
	if err != nil {
		t.Fatalf("top memory: %v", err)
	}
	if !strings.Contains(out, "postgres") {
		t.Errorf("heaviest process missing:\n%s", out)
	}
	if strings.Contains(out, "nginx") || strings.Contains(out, "systemd") {
		t.Errorf("limit not applied:\n%s", out)
	}
}

func TestFindProcessByName(t *testing.T) {
	ts := &ToolSet{snapshot: fakeSnapshot(sampleEntries)}

	out, err := ts.executeFindByName(context.Background(), map[string]any{"name": "NGI"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !strings.Contains(out, "Found 1 process(es) matching 'NGI':") {
		t.Errorf("case-insensitive match failed:\n%s", out)
	}
	if !strings.Contains(out, "nginx") {
		t.Errorf("match row missing:\n%s", out)
	}

	out, err = ts.executeFindByName(context.Background(), map[string]any{"name": "ghost"})
	if err != nil {
		t.Fatalf("find no match: %v", err)
	}
	if out != "No processes found matching 'ghost'" {
		t.Errorf("unexpected no-match output: %q", out)
	}

	if _, err := ts.executeFindByName(context.Background(), nil); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestCheckIfProcessRunning(t *testing.T) {
	ts := &ToolSet{snapshot: fakeSnapshot(sampleEntries)}

	out, err := ts.executeCheckRunning(context.Background(), map[string]any{"name": "s"})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	// systemd and postgres both contain "s".
	if !strings.Contains(out, "Found 2 process(es) matching 's':") {
		t.Errorf("unexpected match count:\n%s", out)
	}
	if !strings.Contains(out, "PID 1: systemd") || !strings.Contains(out, "PID 42: postgres") {
		t.Errorf("missing PID lines:\n%s", out)
	}
}

func TestGetProcessInfoRejectsBadPID(t *testing.T) {
	ts := NewToolSet()
	for _, pid := range []any{0, -3} {
		if _, err := ts.executeGetProcessInfo(context.Background(), map[string]any{"pid": pid}); err == nil {
			t.Errorf("pid %v: expected error", pid)
		}
	}
}

// fakeTree is an in-memory process hierarchy for tree walker tests.
type fakeTree struct {
	names    map[int32]string
	children map[int32][]int32
	denied   map[int32]bool
}

func (f *fakeTree) Describe(pid int32) (string, float64, uint64, error) {
	if f.denied[pid] {
		return "", 0, 0, fmt.Errorf("%w: pid %d", ErrAccessDenied, pid)
	}
	name, ok := f.names[pid]
	if !ok {
		return "", 0, 0, fmt.Errorf("%w: pid %d", ErrProcessNotFound, pid)
	}
	return name, 1.0, 1024, nil
}

func (f *fakeTree) Children(pid int32) ([]int32, error) {
	return f.children[pid], nil
}

func TestRenderTree(t *testing.T) {
	src := &fakeTree{
		names: map[int32]string{
			100: "parent",
			101: "child-a",
			102: "child-b",
			103: "grandchild",
		},
		children: map[int32][]int32{
			100: {101, 102},
			102: {103},
		},
	}

	out, err := renderTree(src, 100)
	if err != nil {
		t.Fatalf("renderTree: %v", err)
	}
	want := []string{
		"Process Tree for PID 100:",
		"├─ 100 parent (CPU: 1.0%, Memory: 1.0 KB)",
		"  ├─ 101 child-a",
		"  ├─ 102 child-b",
		"    ├─ 103 grandchild",
	}
	for _, line := range want {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestRenderTreeAccessDeniedBranch(t *testing.T) {
	src := &fakeTree{
		names: map[int32]string{
			200: "parent",
			201: "secret",
		},
		children: map[int32][]int32{
			200: {201},
			201: {202},
		},
		denied: map[int32]bool{201: true},
	}

	out, err := renderTree(src, 200)
	if err != nil {
		t.Fatalf("renderTree: %v", err)
	}
	if !strings.Contains(out, "  ├─ 201 <access denied>") {
		t.Errorf("denied branch not marked:\n%s", out)
	}
	// The denied branch terminates; its children never render.
	if strings.Contains(out, "202") {
		t.Errorf("walked past a denied node:\n%s", out)
	}
}

func TestRenderTreeRootErrors(t *testing.T) {
	src := &fakeTree{names: map[int32]string{}, denied: map[int32]bool{9: true}}

	if _, err := renderTree(src, 1234); err == nil {
		t.Error("expected error for unknown root")
	}
	if _, err := renderTree(src, 9); err == nil {
		t.Error("expected error for denied root")
	}
}

func TestRenderTreeDepthGuard(t *testing.T) {
	// A process that claims itself as its own child would loop forever
	// without the depth guard.
	src := &fakeTree{
		names:    map[int32]string{7: "ouroboros"},
		children: map[int32][]int32{7: {7}},
	}

	out, err := renderTree(src, 7)
	if err != nil {
		t.Fatalf("renderTree: %v", err)
	}
	if !strings.Contains(out, "<max depth reached>") {
		t.Errorf("depth guard did not trigger:\n%s", out)
	}
	if n := strings.Count(out, "ouroboros"); n != maxTreeDepth {
		t.Errorf("rendered %d levels, want %d", n, maxTreeDepth)
	}
}

func TestFilterByName(t *testing.T) {
	got := filterByName(sampleEntries, "SYSTEM")
	if len(got) != 1 || got[0].Name != "systemd" {
		t.Errorf("filterByName: %+v", got)
	}
	if got := filterByName(sampleEntries, "zzz"); got != nil {
		t.Errorf("expected nil for no matches, got %+v", got)
	}
}
