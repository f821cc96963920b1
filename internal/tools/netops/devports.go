package netops

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"hostkit/internal/logging"
	"hostkit/internal/tools"
)

// devPortDescriptions labels the conventional development server ports. The
// set of ports actually checked comes from configuration; ports without an
// entry here get a generic label.
var devPortDescriptions = map[int]string{
	3000: "React/Node.js dev server",
	3001: "Alternative React dev server",
	4200: "Angular dev server",
	5000: "Flask/Express dev server",
	5173: "Vite dev server",
	8000: "Django/Python dev server",
	8080: "Tomcat/Alternative web server",
	8888: "Jupyter Notebook",
	9000: "Various dev tools",
}

func devPortLabel(port int) string {
	if label, ok := devPortDescriptions[port]; ok {
		return label
	}
	return "development server"
}

// KillProcessOnPortTool returns a tool that terminates whatever owns a port.
func (ts *ToolSet) KillProcessOnPortTool() *tools.Tool {
	return &tools.Tool{
		Name:        "kill_process_on_port",
		Description: "Kill the process(es) listening on a specific port",
		Category:    tools.CategoryNetwork,
		Execute:     ts.executeKillProcessOnPort,
		Schema: tools.ToolSchema{
			Required: []string{"port"},
			Properties: map[string]tools.Property{
				"port": {
					Type:        "integer",
					Description: "Port whose owning process should be killed",
				},
			},
		},
	}
}

func (ts *ToolSet) executeKillProcessOnPort(ctx context.Context, args map[string]any) (string, error) {
	port := tools.IntArg(args, "port", 0)
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}

	entries, err := ts.connections()
	if err != nil {
		return "", err
	}

	seen := make(map[int32]bool)
	var results []string
	for _, e := range entries {
		if int(e.LocalPort) != port || e.PID <= 0 || seen[e.PID] {
			continue
		}
		seen[e.PID] = true
		results = append(results, ts.killPID(e.PID))
	}

	if len(results) == 0 {
		return fmt.Sprintf("No processes found running on port %d", port), nil
	}

	logging.Get(logging.CategoryNetwork).Info("kill_process_on_port: %d (%d processes)", port, len(results))
	return fmt.Sprintf("Port %d cleanup results:\n%s", port, strings.Join(results, "\n")), nil
}

// killPID terminates one process: polite signal first, hard kill only after
// the grace period runs out.
func (ts *ToolSet) killPID(pid int32) string {
	name, err := ts.procs.Name(pid)
	if err != nil {
		name = "unknown"
	}
	label := fmt.Sprintf("PID %d (%s)", pid, name)

	if err := ts.procs.Terminate(pid); err != nil {
		return fmt.Sprintf("Could not kill %s: %v", label, err)
	}
	if waitForExit(ts.procs, pid, ts.killGrace) {
		return fmt.Sprintf("Terminated: %s", label)
	}
	if err := ts.procs.Kill(pid); err != nil {
		return fmt.Sprintf("Could not kill %s: %v", label, err)
	}
	return fmt.Sprintf("Force killed: %s", label)
}

// FindRunningDevServersTool returns a tool listing listeners on dev ports.
func (ts *ToolSet) FindRunningDevServersTool() *tools.Tool {
	return &tools.Tool{
		Name:        "find_running_dev_servers",
		Description: "Find running development servers by their listening ports",
		Category:    tools.CategoryNetwork,
		Execute:     ts.executeFindRunningDevServers,
		Schema: tools.ToolSchema{
			Required: []string{},
			Properties: map[string]tools.Property{
				"check_common_ports": {
					Type:        "boolean",
					Description: "Restrict to the common development ports (default: true); false lists every listener",
					Default:     true,
				},
			},
		},
	}
}

func (ts *ToolSet) executeFindRunningDevServers(ctx context.Context, args map[string]any) (string, error) {
	commonOnly := tools.BoolArg(args, "check_common_ports", true)

	entries, err := ts.connections()
	if err != nil {
		return "", err
	}

	wanted := make(map[int]bool, len(ts.devPorts))
	for _, p := range ts.devPorts {
		wanted[p] = true
	}

	type listener struct {
		pid     int32
		name    string
		cmdline string
		address string
	}
	byPort := make(map[int][]listener)
	for _, e := range entries {
		if !e.listening() {
			continue
		}
		port := int(e.LocalPort)
		if commonOnly && !wanted[port] {
			continue
		}
		l := listener{pid: e.PID, address: e.LocalIP, name: "Unknown", cmdline: "Access denied"}
		if e.PID > 0 {
			if name, err := ts.procs.Name(e.PID); err == nil {
				l.name = name
				l.cmdline = name
				if cmdline, err := ts.procs.Cmdline(e.PID); err == nil && cmdline != "" {
					if len(cmdline) > 100 {
						cmdline = cmdline[:97] + "..."
					}
					l.cmdline = cmdline
				}
			}
		}
		byPort[port] = append(byPort[port], l)
	}

	if len(byPort) == 0 {
		portType := "any"
		if commonOnly {
			portType = "common development"
		}
		return fmt.Sprintf("No processes found listening on %s ports", portType), nil
	}

	ports := make([]int, 0, len(byPort))
	for p := range byPort {
		ports = append(ports, p)
	}
	sort.Ints(ports)

	var b strings.Builder
	b.WriteString("Running Development Servers:\n\n")
	for _, port := range ports {
		fmt.Fprintf(&b, "Port %d:\n", port)
		for _, l := range byPort[port] {
			fmt.Fprintf(&b, "  PID %d - %s\n", l.pid, l.name)
			fmt.Fprintf(&b, "    Address: %s:%d\n", l.address, port)
			if l.cmdline != l.name {
				fmt.Fprintf(&b, "    Command: %s\n", l.cmdline)
			}
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// CheckCommonDevPortsTool returns a tool reporting open/closed status of the
// conventional development ports.
func (ts *ToolSet) CheckCommonDevPortsTool() *tools.Tool {
	return &tools.Tool{
		Name:        "check_common_dev_ports",
		Description: "Check the status of common development ports",
		Category:    tools.CategoryNetwork,
		Execute:     ts.executeCheckCommonDevPorts,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeCheckCommonDevPorts(ctx context.Context, args map[string]any) (string, error) {
	entries, err := ts.connections()
	if err != nil {
		return "", err
	}

	wanted := make(map[int]bool, len(ts.devPorts))
	for _, p := range ts.devPorts {
		wanted[p] = true
	}

	type occupant struct {
		address string
		process string
	}
	active := make(map[int][]occupant)
	for _, e := range entries {
		if !e.listening() {
			continue
		}
		port := int(e.LocalPort)
		if !wanted[port] {
			continue
		}
		proc := "Unknown process"
		if e.PID > 0 {
			if name, err := ts.procs.Name(e.PID); err == nil {
				proc = fmt.Sprintf("%s (PID %d)", name, e.PID)
			} else {
				proc = fmt.Sprintf("PID %d (access denied)", e.PID)
			}
		}
		active[port] = append(active[port], occupant{address: e.LocalIP, process: proc})
	}

	ports := make([]int, 0, len(wanted))
	for p := range wanted {
		ports = append(ports, p)
	}
	sort.Ints(ports)

	var b strings.Builder
	b.WriteString("Common Development Ports Status:\n\n")
	for _, port := range ports {
		status := "CLOSED"
		details := ""
		if occupants, ok := active[port]; ok {
			status = "OPEN"
			details = "\n"
			for _, o := range occupants {
				details += fmt.Sprintf("    - %s:%d - %s\n", o.address, port, o.process)
			}
		}
		fmt.Fprintf(&b, "Port %4d (%s): %s%s\n", port, devPortLabel(port), status, details)
	}
	return b.String(), nil
}
