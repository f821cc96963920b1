package gitops

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hostkit/internal/config"
	"hostkit/internal/tools"
)

// ToolSet bundles the git tools and their subprocess timeouts.
type ToolSet struct {
	timeout     time.Duration // status, branches, config
	longTimeout time.Duration // log, diff
	run         runner
}

// NewToolSet creates a git tool set using the live git binary and the
// timeouts from cfg.
func NewToolSet(cfg *config.Config) *ToolSet {
	return &ToolSet{
		timeout:     cfg.GitTimeout(),
		longTimeout: cfg.GitLongTimeout(),
		run:         liveRunner,
	}
}

// RegisterAll registers every git tool with the given registry.
func (ts *ToolSet) RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		ts.GitStatusTool(),
		ts.GitLogTool(),
		ts.GitBranchesTool(),
		ts.GitDiffTool(),
		ts.GitConfigTool(),
	}
	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

func directoryProperty() map[string]tools.Property {
	return map[string]tools.Property{
		"directory": {
			Type:        "string",
			Description: "Repository directory (default: current directory)",
			Default:     ".",
		},
	}
}

// GitStatusTool returns a tool reporting working tree status.
func (ts *ToolSet) GitStatusTool() *tools.Tool {
	return &tools.Tool{
		Name:        "git_status",
		Description: "Check Git repository status",
		Category:    tools.CategoryGit,
		Execute:     ts.executeGitStatus,
		Schema: tools.ToolSchema{
			Required:   []string{},
			Properties: directoryProperty(),
		},
	}
}

func (ts *ToolSet) executeGitStatus(ctx context.Context, args map[string]any) (string, error) {
	directory := tools.StringArg(args, "directory", ".")

	out, err := ts.run(ctx, directory, ts.timeout, "status", "--porcelain", "-b")
	if err != nil {
		return "", err
	}
	return parseStatus(directory, out.Stdout), nil
}

// GitLogTool returns a tool showing recent commit history.
func (ts *ToolSet) GitLogTool() *tools.Tool {
	props := directoryProperty()
	props["limit"] = tools.Property{
		Type:        "integer",
		Description: "Number of commits to show (default: 5)",
		Default:     5,
	}
	return &tools.Tool{
		Name:        "git_log",
		Description: "Show Git commit history",
		Category:    tools.CategoryGit,
		Execute:     ts.executeGitLog,
		Schema: tools.ToolSchema{
			Required:   []string{},
			Properties: props,
		},
	}
}

func (ts *ToolSet) executeGitLog(ctx context.Context, args map[string]any) (string, error) {
	directory := tools.StringArg(args, "directory", ".")
	limit := tools.IntArg(args, "limit", 5)
	if limit <= 0 {
		limit = 5
	}

	out, err := ts.run(ctx, directory, ts.longTimeout,
		"log", "--max-count="+strconv.Itoa(limit), "--oneline", "--graph", "--decorate")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Stdout) == "" {
		return fmt.Sprintf("No commits found in repository '%s'", directory), nil
	}
	return fmt.Sprintf("Git Log for '%s' (last %d commits):\n\n%s", directory, limit, out.Stdout), nil
}

// GitBranchesTool returns a tool listing local and remote branches.
func (ts *ToolSet) GitBranchesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "git_branches",
		Description: "List Git branches",
		Category:    tools.CategoryGit,
		Execute:     ts.executeGitBranches,
		Schema: tools.ToolSchema{
			Required:   []string{},
			Properties: directoryProperty(),
		},
	}
}

func (ts *ToolSet) executeGitBranches(ctx context.Context, args map[string]any) (string, error) {
	directory := tools.StringArg(args, "directory", ".")

	local, err := ts.run(ctx, directory, ts.timeout, "branch")
	if err != nil {
		return "", err
	}
	// A failing remote listing is not fatal; the local listing stands alone.
	remote, err := ts.run(ctx, directory, ts.timeout, "branch", "-r")
	remoteOut := ""
	if err == nil {
		remoteOut = remote.Stdout
	}
	return parseBranches(directory, local.Stdout, remoteOut), nil
}

// GitDiffTool returns a tool showing unstaged differences.
func (ts *ToolSet) GitDiffTool() *tools.Tool {
	props := directoryProperty()
	props["file_path"] = tools.Property{
		Type:        "string",
		Description: "Limit the diff to one file (default: whole tree)",
		Default:     "",
	}
	return &tools.Tool{
		Name:        "git_diff",
		Description: "Show Git differences",
		Category:    tools.CategoryGit,
		Execute:     ts.executeGitDiff,
		Schema: tools.ToolSchema{
			Required:   []string{},
			Properties: props,
		},
	}
}

func (ts *ToolSet) executeGitDiff(ctx context.Context, args map[string]any) (string, error) {
	directory := tools.StringArg(args, "directory", ".")
	filePath := tools.StringArg(args, "file_path", "")

	gitArgs := []string{"diff"}
	if filePath != "" {
		gitArgs = append(gitArgs, filePath)
	}
	out, err := ts.run(ctx, directory, ts.longTimeout, gitArgs...)
	if err != nil {
		return "", err
	}

	target := ""
	if filePath != "" {
		target = fmt.Sprintf(" for file '%s'", filePath)
	}
	if strings.TrimSpace(out.Stdout) == "" {
		return fmt.Sprintf("No differences found%s in repository '%s'", target, directory), nil
	}
	return fmt.Sprintf("Git Diff%s for '%s':\n\n%s", target, directory, out.Stdout), nil
}

// GitConfigTool returns a tool listing git configuration.
func (ts *ToolSet) GitConfigTool() *tools.Tool {
	return &tools.Tool{
		Name:        "git_config",
		Description: "Show Git configuration",
		Category:    tools.CategoryGit,
		Execute:     ts.executeGitConfig,
		Schema: tools.ToolSchema{
			Required:   []string{},
			Properties: directoryProperty(),
		},
	}
}

func (ts *ToolSet) executeGitConfig(ctx context.Context, args map[string]any) (string, error) {
	directory := tools.StringArg(args, "directory", ".")

	out, err := ts.run(ctx, directory, ts.timeout, "config", "--list")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Stdout) == "" {
		return "No Git configuration found", nil
	}
	return parseConfig(directory, out.Stdout), nil
}
