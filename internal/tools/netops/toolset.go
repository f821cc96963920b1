package netops

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	gnet "github.com/shirou/gopsutil/v3/net"

	"hostkit/internal/config"
	"hostkit/internal/logging"
	"hostkit/internal/tools"
)

// dialFunc opens a TCP connection with a timeout. Swappable in tests.
type dialFunc func(network, addr string, timeout time.Duration) (net.Conn, error)

// ToolSet bundles the network tools and their probe settings.
type ToolSet struct {
	pingCount    int
	pingTimeout  time.Duration
	probeTimeout time.Duration
	killGrace    time.Duration
	devPorts     []int

	connections connsFunc
	procs       processController
	dial        dialFunc
}

// NewToolSet creates a network tool set using the live system and the probe
// settings from cfg.
func NewToolSet(cfg *config.Config) *ToolSet {
	return &ToolSet{
		pingCount:    cfg.Network.PingCount,
		pingTimeout:  cfg.PingTimeout(),
		probeTimeout: cfg.PortProbeTimeout(),
		killGrace:    cfg.KillGracePeriod(),
		devPorts:     cfg.Network.DevPorts,
		connections:  liveConnections,
		procs:        liveProcessController{},
		dial:         net.DialTimeout,
	}
}

// RegisterAll registers every network tool with the given registry.
func (ts *ToolSet) RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		ts.PingHostTool(),
		ts.CheckPortOpenTool(),
		ts.GetNetworkInterfacesTool(),
		ts.GetActiveConnectionsTool(),
		ts.KillProcessOnPortTool(),
		ts.FindRunningDevServersTool(),
		ts.CheckCommonDevPortsTool(),
	}
	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// PingHostTool returns a tool wrapping the system ping command.
func (ts *ToolSet) PingHostTool() *tools.Tool {
	return &tools.Tool{
		Name:        "ping_host",
		Description: "Ping a hostname and return response times",
		Category:    tools.CategoryNetwork,
		Execute:     ts.executePingHost,
		Schema: tools.ToolSchema{
			Required: []string{"hostname"},
			Properties: map[string]tools.Property{
				"hostname": {
					Type:        "string",
					Description: "Hostname or IP address to ping",
				},
			},
		},
	}
}

func (ts *ToolSet) executePingHost(ctx context.Context, args map[string]any) (string, error) {
	hostname := tools.StringArg(args, "hostname", "")
	if hostname == "" {
		return "", fmt.Errorf("hostname is required")
	}

	countFlag := "-c"
	if runtime.GOOS == "windows" {
		countFlag = "-n"
	}
	count := ts.pingCount
	if count <= 0 {
		count = 4
	}

	ctx, cancel := context.WithTimeout(ctx, ts.pingTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ping", countFlag, strconv.Itoa(count), hostname)
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("ping to '%s' timed out after %s", hostname, ts.pingTimeout)
	}
	if err != nil {
		if _, lookErr := exec.LookPath("ping"); lookErr != nil {
			return "", fmt.Errorf("ping command not available: %w", lookErr)
		}
		return fmt.Sprintf("Ping to '%s' failed:\n%s", hostname, out), nil
	}

	logging.Get(logging.CategoryNetwork).Debug("ping_host: %s ok", hostname)
	return fmt.Sprintf("Ping to '%s' successful:\n%s", hostname, out), nil
}

// CheckPortOpenTool returns a tool probing a single TCP port.
func (ts *ToolSet) CheckPortOpenTool() *tools.Tool {
	return &tools.Tool{
		Name:        "check_port_open",
		Description: "Check if a specific TCP port is open on a host",
		Category:    tools.CategoryNetwork,
		Execute:     ts.executeCheckPortOpen,
		Schema: tools.ToolSchema{
			Required: []string{"host", "port"},
			Properties: map[string]tools.Property{
				"host": {
					Type:        "string",
					Description: "Hostname or IP address to probe",
				},
				"port": {
					Type:        "integer",
					Description: "TCP port number (1-65535)",
				},
			},
		},
	}
}

func (ts *ToolSet) executeCheckPortOpen(ctx context.Context, args map[string]any) (string, error) {
	host := tools.StringArg(args, "host", "")
	if host == "" {
		return "", fmt.Errorf("host is required")
	}
	port := tools.IntArg(args, "port", 0)
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := ts.dial("tcp", addr, ts.probeTimeout)
	if err != nil {
		return fmt.Sprintf("Port %d on %s is CLOSED or filtered", port, host), nil
	}
	conn.Close()

	logging.Get(logging.CategoryNetwork).Debug("check_port_open: %s open", addr)
	return fmt.Sprintf("Port %d on %s is OPEN", port, host), nil
}

// GetNetworkInterfacesTool returns a tool listing interfaces and addresses.
func (ts *ToolSet) GetNetworkInterfacesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_network_interfaces",
		Description: "List all network interfaces and their IP addresses",
		Category:    tools.CategoryNetwork,
		Execute:     ts.executeGetNetworkInterfaces,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeGetNetworkInterfaces(ctx context.Context, args map[string]any) (string, error) {
	ifaces, err := gnet.Interfaces()
	if err != nil {
		return "", fmt.Errorf("failed to list network interfaces: %w", err)
	}

	var b strings.Builder
	b.WriteString("Network Interfaces:\n")
	for _, iface := range ifaces {
		fmt.Fprintf(&b, "\n%s:\n", iface.Name)
		for _, addr := range iface.Addrs {
			ip := addr.Addr
			if i := strings.IndexByte(ip, '/'); i >= 0 {
				ip = ip[:i]
			}
			if strings.Contains(ip, ":") {
				fmt.Fprintf(&b, "  IPv6: %s\n", ip)
			} else {
				fmt.Fprintf(&b, "  IPv4: %s\n", ip)
			}
		}
		if iface.HardwareAddr != "" {
			fmt.Fprintf(&b, "  MAC: %s\n", iface.HardwareAddr)
		}
	}
	return b.String(), nil
}

// GetActiveConnectionsTool returns a tool rendering the connection table.
func (ts *ToolSet) GetActiveConnectionsTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_active_connections",
		Description: "Show active network connections",
		Category:    tools.CategoryNetwork,
		Execute:     ts.executeGetActiveConnections,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeGetActiveConnections(ctx context.Context, args map[string]any) (string, error) {
	entries, err := ts.connections()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Active Network Connections:\n")
	fmt.Fprintf(&b, "%-8s %-22s %-22s %-12s %-8s\n",
		"Protocol", "Local Address", "Remote Address", "Status", "PID")
	b.WriteString(strings.Repeat("-", 80) + "\n")

	for _, e := range entries {
		status := e.Status
		if status == "" {
			status = "N/A"
		}
		pid := "N/A"
		if e.PID > 0 {
			pid = strconv.Itoa(int(e.PID))
		}
		fmt.Fprintf(&b, "%-8s %-22s %-22s %-12s %-8s\n",
			e.Proto, e.localAddr(), e.remoteAddr(), status, pid)
	}

	logging.Get(logging.CategoryNetwork).Debug("get_active_connections: %d entries", len(entries))
	return b.String(), nil
}
