// Package logging provides config-driven categorized logging for hostkit.
// Each category writes to its own file under <workspace>/.hostkit/logs.
// When debug mode is off, logging is a silent no-op; the stdio protocol
// channel must never be polluted, so nothing is ever written to stdout.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and registration
	CategoryServer  Category = "server"  // Protocol frames, dispatch
	CategoryTools   Category = "tools"   // Tool execution lifecycle
	CategoryFS      Category = "fs"      // Filesystem operations
	CategoryProcess Category = "process" // Process enumeration
	CategoryNetwork Category = "network" // Sockets, ping, ports
	CategorySystem  Category = "system"  // Resources, hardware, inventory
	CategoryGit     Category = "git"     // Git subprocess activity
)

// Options controls logger behavior. It mirrors config.LoggingConfig to avoid
// a circular import with the config package.
type Options struct {
	DebugMode  bool
	Level      string // debug, info, warn, error
	JSONFormat bool
	Categories map[string]bool // nil means all categories enabled
}

// Logger is a category-scoped logger backed by zap.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu      sync.RWMutex
	loggers = make(map[Category]*Logger)
	opts    Options
	logsDir string
)

// Initialize sets up the logging directory and resets per-category loggers.
// Should be called once at startup with the workspace path.
func Initialize(workspace string, o Options) error {
	mu.Lock()
	defer mu.Unlock()

	opts = o
	loggers = make(map[Category]*Logger)

	if !o.DebugMode {
		return nil
	}

	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}
	logsDir = filepath.Join(workspace, ".hostkit", "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	return nil
}

// Get returns the logger for a category, creating it on first use.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := newLogger(category)
	loggers[category] = l
	return l
}

func newLogger(category Category) *Logger {
	if !opts.DebugMode || !categoryEnabled(category) {
		return &Logger{category: category, sugar: zap.NewNop().Sugar()}
	}

	file, err := os.OpenFile(
		filepath.Join(logsDir, string(category)+".log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] cannot open log file for %s: %v\n", category, err)
		return &Logger{category: category, sugar: zap.NewNop().Sugar()}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if opts.JSONFormat {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(file), parseLevel(opts.Level))
	sugar := zap.New(core).Named(string(category)).Sugar()
	return &Logger{category: category, sugar: sugar}
}

func categoryEnabled(category Category) bool {
	if opts.Categories == nil {
		return true
	}
	enabled, ok := opts.Categories[string(category)]
	return !ok || enabled
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debug logs at debug level with printf formatting.
func (l *Logger) Debug(format string, args ...any) { l.sugar.Debugf(format, args...) }

// Info logs at info level with printf formatting.
func (l *Logger) Info(format string, args ...any) { l.sugar.Infof(format, args...) }

// Warn logs at warn level with printf formatting.
func (l *Logger) Warn(format string, args ...any) { l.sugar.Warnf(format, args...) }

// Error logs at error level with printf formatting.
func (l *Logger) Error(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Sync flushes all category loggers. Called on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	for _, l := range loggers {
		_ = l.sugar.Sync()
	}
}

// Convenience helpers for the hottest categories.

// Tools logs tool execution at info level.
func Tools(format string, args ...any) { Get(CategoryTools).Info(format, args...) }

// ToolsDebug logs tool execution at debug level.
func ToolsDebug(format string, args ...any) { Get(CategoryTools).Debug(format, args...) }

// Server logs protocol activity at info level.
func Server(format string, args ...any) { Get(CategoryServer).Info(format, args...) }

// ServerDebug logs protocol activity at debug level.
func ServerDebug(format string, args ...any) { Get(CategoryServer).Debug(format, args...) }
