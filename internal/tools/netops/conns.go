package netops

import (
	"fmt"
	"strings"
	"syscall"
	"time"

	gnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// connEntry is one row of the connection table.
type connEntry struct {
	Proto      string
	LocalIP    string
	LocalPort  uint32
	RemoteIP   string
	RemotePort uint32
	Status     string
	PID        int32
}

// connsFunc snapshots the inet connection table. Swappable in tests.
type connsFunc func() ([]connEntry, error)

func liveConnections() ([]connEntry, error) {
	conns, err := gnet.Connections("inet")
	if err != nil {
		return nil, fmt.Errorf("failed to read connection table: %w", err)
	}

	entries := make([]connEntry, 0, len(conns))
	for _, c := range conns {
		proto := "UDP"
		if c.Type == syscall.SOCK_STREAM {
			proto = "TCP"
		}
		entries = append(entries, connEntry{
			Proto:      proto,
			LocalIP:    c.Laddr.IP,
			LocalPort:  c.Laddr.Port,
			RemoteIP:   c.Raddr.IP,
			RemotePort: c.Raddr.Port,
			Status:     c.Status,
			PID:        c.Pid,
		})
	}
	return entries, nil
}

func (e connEntry) localAddr() string {
	if e.LocalIP == "" {
		return "N/A"
	}
	return fmt.Sprintf("%s:%d", e.LocalIP, e.LocalPort)
}

func (e connEntry) remoteAddr() string {
	if e.RemoteIP == "" {
		return "N/A"
	}
	return fmt.Sprintf("%s:%d", e.RemoteIP, e.RemotePort)
}

func (e connEntry) listening() bool {
	return strings.EqualFold(e.Status, "LISTEN")
}

// processController abstracts the process operations port management needs,
// so tests can run against a fake instead of the live system.
type processController interface {
	Name(pid int32) (string, error)
	Cmdline(pid int32) (string, error)
	Terminate(pid int32) error
	Kill(pid int32) error
	IsRunning(pid int32) (bool, error)
}

type liveProcessController struct{}

func (liveProcessController) Name(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Name()
}

func (liveProcessController) Cmdline(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Cmdline()
}

func (liveProcessController) Terminate(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}
	return p.Terminate()
}

func (liveProcessController) Kill(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}

func (liveProcessController) IsRunning(pid int32) (bool, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return false, nil
	}
	return p.IsRunning()
}

// waitForExit polls until the process stops or the grace period expires.
func waitForExit(pc processController, pid int32, grace time.Duration) bool {
	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		running, err := pc.IsRunning(pid)
		if err != nil || !running {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	running, err := pc.IsRunning(pid)
	return err != nil || !running
}
