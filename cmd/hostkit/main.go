package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"hostkit/internal/config"
	"hostkit/internal/logging"
	"hostkit/internal/pathsafe"
	"hostkit/internal/server"
	"hostkit/internal/tools"
	"hostkit/internal/tools/fsops"
	"hostkit/internal/tools/gitops"
	"hostkit/internal/tools/netops"
	"hostkit/internal/tools/procs"
	"hostkit/internal/tools/sysinfo"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hostkit",
	Short: "hostkit - host introspection and file manipulation tool server",
	Long: `hostkit exposes filesystem, process, network, system and git tools
over the Model Context Protocol (stdio JSON-RPC), or directly from the
command line for scripting.

Filesystem tools are confined to a sandbox root when one is configured.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}

		workspace, err := os.Getwd()
		if err != nil {
			workspace = "."
		}
		if err := logging.Initialize(workspace, logging.Options{
			DebugMode:  cfg.Logging.DebugMode,
			Level:      cfg.Logging.Level,
			JSONFormat: cfg.Logging.JSONFormat,
			Categories: cfg.Logging.Categories,
		}); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// serveCmd runs the MCP stdio server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout",
	Long: `Serves line-delimited JSON-RPC 2.0 on stdin/stdout implementing the
MCP methods initialize, ping, tools/list and tools/call. Stdout carries
protocol frames only; logs go to .hostkit/logs/.`,
	RunE: runServe,
}

// toolsCmd lists the registered tools
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List registered tools and their schemas",
	RunE:  runTools,
}

// callCmd dispatches one tool invocation without an MCP client
var callCmd = &cobra.Command{
	Use:   "call [tool]",
	Short: "Invoke a single tool directly",
	Long: `Runs one tool and prints its output. Arguments are passed either as
repeated --arg key=value pairs or as a single --json object.

Example:
  hostkit call read_file --arg file_path=notes.txt
  hostkit call git_log --json '{"directory":".","limit":3}'`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

var (
	callArgs []string
	callJSON string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	callCmd.Flags().StringArrayVar(&callArgs, "arg", nil, "tool argument as key=value (repeatable)")
	callCmd.Flags().StringVar(&callJSON, "json", "", "tool arguments as a JSON object")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(callCmd)
}

// buildRegistry wires every tool set into one registry.
func buildRegistry(cfg *config.Config) (*tools.Registry, error) {
	resolver, err := pathsafe.NewResolver(cfg.Sandbox.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid sandbox root: %w", err)
	}

	registry := tools.NewRegistry()
	if err := fsops.NewToolSet(resolver).RegisterAll(registry); err != nil {
		return nil, err
	}
	if err := procs.NewToolSet().RegisterAll(registry); err != nil {
		return nil, err
	}
	if err := netops.NewToolSet(cfg).RegisterAll(registry); err != nil {
		return nil, err
	}
	if err := sysinfo.NewToolSet().RegisterAll(registry); err != nil {
		return nil, err
	}
	if err := gitops.NewToolSet(cfg).RegisterAll(registry); err != nil {
		return nil, err
	}
	return registry, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Get(logging.CategoryServer).Info("%s %s serving %d tools on stdio",
		cfg.Name, cfg.Version, registry.Count())
	return server.New(cfg.Name, cfg.Version, registry).Serve(ctx, os.Stdin, os.Stdout)
}

func runTools(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	categories := []tools.ToolCategory{
		tools.CategoryFilesystem,
		tools.CategoryProcess,
		tools.CategoryNetwork,
		tools.CategorySystem,
		tools.CategoryGit,
	}
	for _, category := range categories {
		tl := registry.GetByCategory(category)
		if len(tl) == 0 {
			continue
		}
		fmt.Printf("%s (%d):\n", category, len(tl))
		for _, tool := range tl {
			fmt.Printf("  %-28s %s\n", tool.Name, tool.Description)
			if len(tool.Schema.Required) > 0 {
				fmt.Printf("  %-28s required: %s\n", "", strings.Join(tool.Schema.Required, ", "))
			}
		}
		fmt.Println()
	}
	return nil
}

func runCall(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	toolArgs, err := parseCallArgs(callArgs, callJSON)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := registry.Execute(ctx, args[0], toolArgs)
	if result == nil {
		return err
	}
	if !result.IsSuccess() {
		return fmt.Errorf("%s failed after %dms: %w", result.ToolName, result.DurationMs, result.Error)
	}
	fmt.Println(result.Result)
	return nil
}

// parseCallArgs merges --json and --arg inputs; --arg pairs win on conflict.
func parseCallArgs(pairs []string, jsonArgs string) (map[string]any, error) {
	out := make(map[string]any)
	if jsonArgs != "" {
		if err := json.Unmarshal([]byte(jsonArgs), &out); err != nil {
			return nil, fmt.Errorf("invalid --json value: %w", err)
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q, want key=value", pair)
		}
		out[key] = coerceArg(value)
	}
	return out, nil
}

// coerceArg maps obvious literals onto schema types; everything else stays
// a string.
func coerceArg(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	var n float64
	if err := json.Unmarshal([]byte(value), &n); err == nil {
		return n
	}
	return value
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
