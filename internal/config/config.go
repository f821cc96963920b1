// Package config loads hostkit configuration from a JSON or YAML file,
// applies defaults, and supports a small set of environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all hostkit configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`

	// Filesystem sandbox
	Sandbox SandboxConfig `yaml:"sandbox" json:"sandbox"`

	// Git subprocess settings
	Git GitConfig `yaml:"git" json:"git"`

	// Network probe settings
	Network NetworkConfig `yaml:"network" json:"network"`

	// Logging
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SandboxConfig confines filesystem tools to a root directory.
// An empty root leaves path resolution unrestricted.
type SandboxConfig struct {
	Root string `yaml:"root" json:"root"`
}

// GitConfig configures the git subprocess wrappers.
type GitConfig struct {
	Timeout     string `yaml:"timeout" json:"timeout"`           // status/branches/config
	LongTimeout string `yaml:"long_timeout" json:"long_timeout"` // log/diff
}

// NetworkConfig configures connectivity probes.
type NetworkConfig struct {
	PingCount        int    `yaml:"ping_count" json:"ping_count"`
	PingTimeout      string `yaml:"ping_timeout" json:"ping_timeout"`
	PortProbeTimeout string `yaml:"port_probe_timeout" json:"port_probe_timeout"`
	KillGracePeriod  string `yaml:"kill_grace_period" json:"kill_grace_period"`
	DevPorts         []int  `yaml:"dev_ports" json:"dev_ports"`
}

// LoggingConfig configures the categorized logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode"`
	Level      string          `yaml:"level" json:"level"`
	JSONFormat bool            `yaml:"json_format" json:"json_format"`
	Categories map[string]bool `yaml:"categories" json:"categories"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Name:    "hostkit",
		Version: "1.0.0",
		Git: GitConfig{
			Timeout:     "10s",
			LongTimeout: "15s",
		},
		Network: NetworkConfig{
			PingCount:        4,
			PingTimeout:      "30s",
			PortProbeTimeout: "5s",
			KillGracePeriod:  "3s",
			DevPorts:         []int{3000, 3001, 4200, 5000, 5173, 8000, 8080, 8888, 9000},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path. An empty path or a missing file yields
// the defaults. The format is chosen by extension: .yaml/.yml or .json.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else {
			switch strings.ToLower(filepath.Ext(path)) {
			case ".yaml", ".yml":
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
				}
			default:
				if err := json.Unmarshal(data, cfg); err != nil {
					return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
				}
			}
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies HOSTKIT_* environment variables on top of the
// file values. Only settings that make sense per-invocation are exposed.
func applyEnvOverrides(cfg *Config) {
	if root, ok := os.LookupEnv("HOSTKIT_SANDBOX_ROOT"); ok {
		cfg.Sandbox.Root = root
	}
	if debug, ok := os.LookupEnv("HOSTKIT_DEBUG"); ok {
		cfg.Logging.DebugMode = debug == "1" || strings.EqualFold(debug, "true")
	}
	if level, ok := os.LookupEnv("HOSTKIT_LOG_LEVEL"); ok {
		cfg.Logging.Level = level
	}
}

// GitTimeout returns the parsed short git timeout.
func (c *Config) GitTimeout() time.Duration {
	return parseDuration(c.Git.Timeout, 10*time.Second)
}

// GitLongTimeout returns the parsed timeout for log/diff invocations.
func (c *Config) GitLongTimeout() time.Duration {
	return parseDuration(c.Git.LongTimeout, 15*time.Second)
}

// PingTimeout returns the parsed ping subprocess timeout.
func (c *Config) PingTimeout() time.Duration {
	return parseDuration(c.Network.PingTimeout, 30*time.Second)
}

// PortProbeTimeout returns the parsed TCP dial timeout.
func (c *Config) PortProbeTimeout() time.Duration {
	return parseDuration(c.Network.PortProbeTimeout, 5*time.Second)
}

// KillGracePeriod returns how long to wait between terminate and kill.
func (c *Config) KillGracePeriod() time.Duration {
	return parseDuration(c.Network.KillGracePeriod, 3*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
