package sysinfo

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"hostkit/internal/logging"
	"hostkit/internal/tools"
)

// packageManagerTimeout bounds the package listing subprocess.
const packageManagerTimeout = 30 * time.Second

// packageManagers are probed in order; the first one on PATH wins.
var packageManagers = []struct {
	name string
	args []string
}{
	{"dpkg-query", []string{"-W", "-f", "${Package}==${Version}\n"}},
	{"rpm", []string{"-qa", "--qf", "%{NAME}==%{VERSION}-%{RELEASE}\n"}},
	{"brew", []string{"list", "--versions"}},
}

// ListInstalledPackagesTool returns a tool listing system packages through
// the host's package manager.
func (ts *ToolSet) ListInstalledPackagesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "list_installed_packages",
		Description: "List installed system packages (dpkg, rpm or brew)",
		Category:    tools.CategorySystem,
		Execute:     ts.executeListInstalledPackages,
		Schema:      tools.ToolSchema{Required: []string{}, Properties: map[string]tools.Property{}},
	}
}

func (ts *ToolSet) executeListInstalledPackages(ctx context.Context, args map[string]any) (string, error) {
	for _, pm := range packageManagers {
		if _, err := exec.LookPath(pm.name); err != nil {
			continue
		}

		ctx, cancel := context.WithTimeout(ctx, packageManagerTimeout)
		defer cancel()

		out, err := exec.CommandContext(ctx, pm.name, pm.args...).Output()
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out after %s", pm.name, packageManagerTimeout)
		}
		if err != nil {
			return "", fmt.Errorf("%s failed: %w", pm.name, err)
		}

		lines := strings.Split(strings.TrimSpace(string(out)), "\n")
		if len(lines) == 1 && lines[0] == "" {
			return "No packages found", nil
		}
		sort.Strings(lines)

		logging.Get(logging.CategorySystem).Debug("list_installed_packages: %s (%d entries)", pm.name, len(lines))
		return fmt.Sprintf("Installed packages via %s (%d total):\n%s",
			pm.name, len(lines), strings.Join(lines, "\n")), nil
	}
	return "No supported package manager found on this system", nil
}
