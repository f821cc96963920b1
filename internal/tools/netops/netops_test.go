package netops

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"hostkit/internal/config"
	"hostkit/internal/tools"
)

func newTestSet(conns []connEntry, pc processController) *ToolSet {
	ts := NewToolSet(config.Default())
	ts.connections = func() ([]connEntry, error) {
		out := make([]connEntry, len(conns))
		copy(out, conns)
		return out, nil
	}
	if pc != nil {
		ts.procs = pc
	}
	ts.killGrace = 50 * time.Millisecond
	return ts
}

// fakeController is an in-memory process table for kill/naming tests.
type fakeController struct {
	names      map[int32]string
	cmdlines   map[int32]string
	running    map[int32]bool
	stubborn   map[int32]bool // survives Terminate, dies on Kill
	terminated []int32
	killed     []int32
}

func (f *fakeController) Name(pid int32) (string, error) {
	name, ok := f.names[pid]
	if !ok {
		return "", fmt.Errorf("access denied")
	}
	return name, nil
}

func (f *fakeController) Cmdline(pid int32) (string, error) {
	return f.cmdlines[pid], nil
}

func (f *fakeController) Terminate(pid int32) error {
	f.terminated = append(f.terminated, pid)
	if !f.stubborn[pid] {
		f.running[pid] = false
	}
	return nil
}

func (f *fakeController) Kill(pid int32) error {
	f.killed = append(f.killed, pid)
	f.running[pid] = false
	return nil
}

func (f *fakeController) IsRunning(pid int32) (bool, error) {
	return f.running[pid], nil
}

func TestRegisterAll(t *testing.T) {
	ts := NewToolSet(config.Default())
	registry := tools.NewRegistry()
	if err := ts.RegisterAll(registry); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	for _, name := range []string{
		"ping_host", "check_port_open", "get_network_interfaces",
		"get_active_connections", "kill_process_on_port",
		"find_running_dev_servers", "check_common_dev_ports",
	} {
		if !registry.Has(name) {
			t.Errorf("tool %q not registered", name)
		}
	}
}

func TestCheckPortOpen(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	ts := NewToolSet(config.Default())

	out, err := ts.executeCheckPortOpen(context.Background(), map[string]any{
		"host": "127.0.0.1",
		"port": port,
	})
	if err != nil {
		t.Fatalf("check_port_open: %v", err)
	}
	if !strings.Contains(out, "is OPEN") {
		t.Errorf("expected OPEN for a listening port: %s", out)
	}

	ln.Close()
	out, err = ts.executeCheckPortOpen(context.Background(), map[string]any{
		"host": "127.0.0.1",
		"port": port,
	})
	if err != nil {
		t.Fatalf("check_port_open closed: %v", err)
	}
	if !strings.Contains(out, "CLOSED or filtered") {
		t.Errorf("expected CLOSED for a free port: %s", out)
	}
}

func TestCheckPortOpenValidation(t *testing.T) {
	ts := NewToolSet(config.Default())
	for _, args := range []map[string]any{
		{"port": 80},
		{"host": "localhost"},
		{"host": "localhost", "port": 0},
		{"host": "localhost", "port": 70000},
	} {
		if _, err := ts.executeCheckPortOpen(context.Background(), args); err == nil {
			t.Errorf("args %v: expected validation error", args)
		}
	}
}

func TestGetActiveConnections(t *testing.T) {
	conns := []connEntry{
		{Proto: "TCP", LocalIP: "127.0.0.1", LocalPort: 8080, RemoteIP: "10.0.0.2", RemotePort: 51000, Status: "ESTABLISHED", PID: 1234},
		{Proto: "UDP", LocalIP: "0.0.0.0", LocalPort: 53},
	}
	ts := newTestSet(conns, nil)

	out, err := ts.executeGetActiveConnections(context.Background(), nil)
	if err != nil {
		t.Fatalf("get_active_connections: %v", err)
	}
	if !strings.Contains(out, "127.0.0.1:8080") || !strings.Contains(out, "10.0.0.2:51000") {
		t.Errorf("addresses missing:\n%s", out)
	}
	if !strings.Contains(out, "ESTABLISHED") || !strings.Contains(out, "1234") {
		t.Errorf("status/pid missing:\n%s", out)
	}
	// The UDP row has no remote peer, status or pid.
	if strings.Count(out, "N/A") < 3 {
		t.Errorf("expected N/A placeholders:\n%s", out)
	}
}

func TestKillProcessOnPort(t *testing.T) {
	pc := &fakeController{
		names:   map[int32]string{100: "node", 200: "vite"},
		running: map[int32]bool{100: true, 200: true},
		stubborn: map[int32]bool{
			200: true,
		},
	}
	conns := []connEntry{
		{Proto: "TCP", LocalIP: "127.0.0.1", LocalPort: 3000, Status: "LISTEN", PID: 100},
		{Proto: "TCP", LocalIP: "::1", LocalPort: 3000, Status: "LISTEN", PID: 100},
		{Proto: "TCP", LocalIP: "127.0.0.1", LocalPort: 5173, Status: "LISTEN", PID: 200},
	}
	ts := newTestSet(conns, pc)

	out, err := ts.executeKillProcessOnPort(context.Background(), map[string]any{"port": 3000})
	if err != nil {
		t.Fatalf("kill: %v", err)
	}
	if !strings.Contains(out, "Terminated: PID 100 (node)") {
		t.Errorf("graceful termination not reported:\n%s", out)
	}
	// Same PID listening twice on the port is only signalled once.
	if len(pc.terminated) != 1 {
		t.Errorf("terminated %v, want exactly one signal", pc.terminated)
	}
	if len(pc.killed) != 0 {
		t.Errorf("hard kill used on a cooperative process: %v", pc.killed)
	}

	out, err = ts.executeKillProcessOnPort(context.Background(), map[string]any{"port": 5173})
	if err != nil {
		t.Fatalf("kill stubborn: %v", err)
	}
	if !strings.Contains(out, "Force killed: PID 200 (vite)") {
		t.Errorf("force kill not reported:\n%s", out)
	}
	if len(pc.killed) != 1 || pc.killed[0] != 200 {
		t.Errorf("killed %v, want [200]", pc.killed)
	}
}

func TestKillProcessOnPortNoMatch(t *testing.T) {
	ts := newTestSet(nil, &fakeController{})
	out, err := ts.executeKillProcessOnPort(context.Background(), map[string]any{"port": 4444})
	if err != nil {
		t.Fatal(err)
	}
	if out != "No processes found running on port 4444" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestFindRunningDevServers(t *testing.T) {
	pc := &fakeController{
		names:    map[int32]string{10: "node", 20: "java"},
		cmdlines: map[int32]string{10: "node server.js --port 3000"},
		running:  map[int32]bool{10: true, 20: true},
	}
	conns := []connEntry{
		{Proto: "TCP", LocalIP: "127.0.0.1", LocalPort: 3000, Status: "LISTEN", PID: 10},
		{Proto: "TCP", LocalIP: "0.0.0.0", LocalPort: 9999, Status: "LISTEN", PID: 20},
		{Proto: "TCP", LocalIP: "127.0.0.1", LocalPort: 3000, Status: "ESTABLISHED", PID: 10},
	}
	ts := newTestSet(conns, pc)

	out, err := ts.executeFindRunningDevServers(context.Background(), nil)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !strings.Contains(out, "Port 3000:") || !strings.Contains(out, "PID 10 - node") {
		t.Errorf("dev server missing:\n%s", out)
	}
	if !strings.Contains(out, "Command: node server.js --port 3000") {
		t.Errorf("cmdline missing:\n%s", out)
	}
	// 9999 is not a common dev port; established connections are not listeners.
	if strings.Contains(out, "9999") {
		t.Errorf("non-dev port included:\n%s", out)
	}
	if strings.Count(out, "Port 3000:") != 1 {
		t.Errorf("established connection counted as listener:\n%s", out)
	}

	out, err = ts.executeFindRunningDevServers(context.Background(), map[string]any{"check_common_ports": false})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if !strings.Contains(out, "Port 9999:") {
		t.Errorf("all-ports mode missed 9999:\n%s", out)
	}
}

func TestFindRunningDevServersEmpty(t *testing.T) {
	ts := newTestSet(nil, &fakeController{})
	out, err := ts.executeFindRunningDevServers(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No processes found listening on common development ports") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestCheckCommonDevPorts(t *testing.T) {
	pc := &fakeController{
		names:   map[int32]string{10: "node"},
		running: map[int32]bool{10: true},
	}
	conns := []connEntry{
		{Proto: "TCP", LocalIP: "127.0.0.1", LocalPort: 3000, Status: "LISTEN", PID: 10},
		{Proto: "TCP", LocalIP: "127.0.0.1", LocalPort: 8888, Status: "LISTEN", PID: 66},
	}
	ts := newTestSet(conns, pc)

	out, err := ts.executeCheckCommonDevPorts(context.Background(), nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "Port 3000 (React/Node.js dev server): OPEN") {
		t.Errorf("open port not reported:\n%s", out)
	}
	if !strings.Contains(out, "node (PID 10)") {
		t.Errorf("occupant missing:\n%s", out)
	}
	// PID 66 is not in the fake table, so naming it is denied.
	if !strings.Contains(out, "PID 66 (access denied)") {
		t.Errorf("denied occupant missing:\n%s", out)
	}
	if !strings.Contains(out, "Port 4200 (Angular dev server): CLOSED") {
		t.Errorf("closed port not reported:\n%s", out)
	}
	// Every known dev port appears exactly once.
	for port := range devPortDescriptions {
		if !strings.Contains(out, fmt.Sprintf("Port %4d", port)) {
			t.Errorf("port %d missing:\n%s", port, out)
		}
	}
}

func TestCheckCommonDevPortsFollowsConfiguredPorts(t *testing.T) {
	pc := &fakeController{
		names:   map[int32]string{10: "node"},
		running: map[int32]bool{10: true},
	}
	conns := []connEntry{
		{Proto: "TCP", LocalIP: "127.0.0.1", LocalPort: 4321, Status: "LISTEN", PID: 10},
		{Proto: "TCP", LocalIP: "127.0.0.1", LocalPort: 3000, Status: "LISTEN", PID: 10},
	}
	ts := newTestSet(conns, pc)
	ts.devPorts = []int{4321, 5173}

	out, err := ts.executeCheckCommonDevPorts(context.Background(), nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "Port 4321 (development server): OPEN") {
		t.Errorf("configured port not checked:\n%s", out)
	}
	if !strings.Contains(out, "Port 5173 (Vite dev server): CLOSED") {
		t.Errorf("known label missing:\n%s", out)
	}
	// 3000 was dropped from the configured set, so its listener is ignored.
	if strings.Contains(out, "Port 3000") {
		t.Errorf("unconfigured port reported:\n%s", out)
	}
}

func TestGetNetworkInterfaces(t *testing.T) {
	ts := NewToolSet(config.Default())
	out, err := ts.executeGetNetworkInterfaces(context.Background(), nil)
	if err != nil {
		t.Skipf("interface enumeration unavailable: %v", err)
	}
	if !strings.HasPrefix(out, "Network Interfaces:") {
		t.Errorf("unexpected header: %q", out)
	}
}

func TestPingHostValidation(t *testing.T) {
	ts := NewToolSet(config.Default())
	if _, err := ts.executePingHost(context.Background(), nil); err == nil {
		t.Error("expected error for missing hostname")
	}
}

func TestWaitForExit(t *testing.T) {
	pc := &fakeController{running: map[int32]bool{1: true}}
	if waitForExit(pc, 1, 120*time.Millisecond) {
		t.Error("reported exit for a process that keeps running")
	}
	pc.running[1] = false
	if !waitForExit(pc, 1, 120*time.Millisecond) {
		t.Error("did not notice the process exit")
	}
}
