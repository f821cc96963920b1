package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledIsNoOp(t *testing.T) {
	if err := Initialize("", Options{DebugMode: false}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// Must not panic or create anything.
	Get(CategoryTools).Info("hello %s", "world")
	Tools("more output")
	Sync()
}

func TestEnabledWritesCategoryFile(t *testing.T) {
	ws := t.TempDir()
	if err := Initialize(ws, Options{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Get(CategoryFS).Info("wrote %d bytes", 42)
	Sync()

	data, err := os.ReadFile(filepath.Join(ws, ".hostkit", "logs", "fs.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "wrote 42 bytes") {
		t.Errorf("log file missing entry, got: %s", data)
	}
}

func TestCategoryFilter(t *testing.T) {
	ws := t.TempDir()
	err := Initialize(ws, Options{
		DebugMode:  true,
		Level:      "debug",
		Categories: map[string]bool{"git": false},
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Get(CategoryGit).Info("should be dropped")
	Sync()

	if _, err := os.Stat(filepath.Join(ws, ".hostkit", "logs", "git.log")); err == nil {
		t.Error("disabled category should not create a log file")
	}
}

func TestLevelFilter(t *testing.T) {
	ws := t.TempDir()
	if err := Initialize(ws, Options{DebugMode: true, Level: "warn"}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	l := Get(CategoryNetwork)
	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line")
	Sync()

	data, _ := os.ReadFile(filepath.Join(ws, ".hostkit", "logs", "network.log"))
	out := string(data)
	if strings.Contains(out, "info line") || strings.Contains(out, "debug line") {
		t.Errorf("level filter leaked lower levels: %s", out)
	}
	if !strings.Contains(out, "warn line") {
		t.Errorf("warn line missing: %s", out)
	}
}
