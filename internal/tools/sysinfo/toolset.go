package sysinfo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"hostkit/internal/logging"
	"hostkit/internal/tools"
)

// maxEnvValueLen truncates very long environment values for readability.
const maxEnvValueLen = 100

// ToolSet bundles the system inspection tools.
type ToolSet struct {
	environ func() []string
	apps    appInventory
}

// NewToolSet creates a system tool set reading from the live host.
func NewToolSet() *ToolSet {
	return &ToolSet{
		environ: os.Environ,
		apps:    platformAppInventory(),
	}
}

// RegisterAll registers every system tool with the given registry.
func (ts *ToolSet) RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		ts.GetEnvironmentVariablesTool(),
		ts.CheckCommandExistsTool(),
		ts.GetSystemResourcesTool(),
		ts.GetBatteryStatusTool(),
		ts.GetTemperatureInformationTool(),
		ts.GetHardwareInformationTool(),
		ts.GetOSVersionTool(),
		ts.ListInstalledApplicationsTool(),
		ts.ListInstalledPackagesTool(),
	}
	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// GetEnvironmentVariablesTool returns a tool listing the process environment.
func (ts *ToolSet) GetEnvironmentVariablesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_environment_variables",
		Description: "List environment variables, sorted by name",
		Category:    tools.CategorySystem,
		Execute:     ts.executeGetEnvironmentVariables,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeGetEnvironmentVariables(ctx context.Context, args map[string]any) (string, error) {
	env := ts.environ()
	sort.Strings(env)

	var b strings.Builder
	b.WriteString("Environment Variables:\n")
	for _, kv := range env {
		key, value, _ := strings.Cut(kv, "=")
		if len(value) > maxEnvValueLen {
			value = value[:maxEnvValueLen-3] + "..."
		}
		fmt.Fprintf(&b, "%s=%s\n", key, value)
	}

	logging.Get(logging.CategorySystem).Debug("get_environment_variables: %d entries", len(env))
	return b.String(), nil
}

// CheckCommandExistsTool returns a tool performing a PATH lookup.
func (ts *ToolSet) CheckCommandExistsTool() *tools.Tool {
	return &tools.Tool{
		Name:        "check_command_exists",
		Description: "Check if a command/program is available in PATH",
		Category:    tools.CategorySystem,
		Execute:     ts.executeCheckCommandExists,
		Schema: tools.ToolSchema{
			Required: []string{"command"},
			Properties: map[string]tools.Property{
				"command": {
					Type:        "string",
					Description: "Command name to look up",
				},
			},
		},
	}
}

func (ts *ToolSet) executeCheckCommandExists(ctx context.Context, args map[string]any) (string, error) {
	command := tools.StringArg(args, "command", "")
	if command == "" {
		return "", fmt.Errorf("command is required")
	}

	path, err := exec.LookPath(command)
	if err != nil {
		return fmt.Sprintf("Command '%s' is not available in PATH", command), nil
	}
	return fmt.Sprintf("Command '%s' is available at: %s", command, path), nil
}
