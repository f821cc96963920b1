package gitops

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hostkit/internal/config"
	"hostkit/internal/tools"
)

// fakeRunner records invocations and serves canned output per subcommand.
type fakeRunner struct {
	outputs map[string]gitOutput
	errs    map[string]error
	calls   [][]string
}

func (f *fakeRunner) run(ctx context.Context, dir string, timeout time.Duration, args ...string) (gitOutput, error) {
	f.calls = append(f.calls, args)
	key := args[0]
	if err, ok := f.errs[key]; ok && err != nil {
		return gitOutput{}, err
	}
	return f.outputs[key], nil
}

func newTestSet(f *fakeRunner) *ToolSet {
	ts := NewToolSet(config.Default())
	ts.run = f.run
	return ts
}

func TestRegisterAll(t *testing.T) {
	ts := NewToolSet(config.Default())
	registry := tools.NewRegistry()
	if err := ts.RegisterAll(registry); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	for _, name := range []string{"git_status", "git_log", "git_branches", "git_diff", "git_config"} {
		if !registry.Has(name) {
			t.Errorf("tool %q not registered", name)
		}
	}
}

func TestGitStatusClean(t *testing.T) {
	f := &fakeRunner{outputs: map[string]gitOutput{
		"status": {Stdout: "## main...origin/main\n"},
	}}
	ts := newTestSet(f)

	out, err := ts.executeGitStatus(context.Background(), nil)
	if err != nil {
		t.Fatalf("git_status: %v", err)
	}
	if !strings.Contains(out, "Branch: main...origin/main") {
		t.Errorf("branch line missing:\n%s", out)
	}
	if !strings.Contains(out, "No changes detected") {
		t.Errorf("clean tree not reported:\n%s", out)
	}
}

func TestGitStatusChanges(t *testing.T) {
	porcelain := strings.Join([]string{
		"## feature/x",
		"?? new.txt",
		" M lib/core.go",
		"D  gone.txt",
		"XY odd.bin",
	}, "\n") + "\n"
	f := &fakeRunner{outputs: map[string]gitOutput{"status": {Stdout: porcelain}}}
	ts := newTestSet(f)

	out, err := ts.executeGitStatus(context.Background(), map[string]any{"directory": "/repo"})
	if err != nil {
		t.Fatalf("git_status: %v", err)
	}
	for _, want := range []string{
		"Git Status for '/repo':",
		"Branch: feature/x",
		"  Untracked: new.txt",
		"  Modified (not staged): lib/core.go",
		"  Deleted: gone.txt",
		"  Status: XY: odd.bin",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGitStatusNotARepo(t *testing.T) {
	f := &fakeRunner{errs: map[string]error{
		"status": fmt.Errorf("%w: /tmp", ErrNotARepo),
	}}
	ts := newTestSet(f)

	_, err := ts.executeGitStatus(context.Background(), map[string]any{"directory": "/tmp"})
	if !errors.Is(err, ErrNotARepo) {
		t.Errorf("got %v, want ErrNotARepo", err)
	}
}

func TestGitLog(t *testing.T) {
	f := &fakeRunner{outputs: map[string]gitOutput{
		"log": {Stdout: "* abc1234 (HEAD -> main) latest\n* def5678 earlier\n"},
	}}
	ts := newTestSet(f)

	out, err := ts.executeGitLog(context.Background(), map[string]any{"limit": 2})
	if err != nil {
		t.Fatalf("git_log: %v", err)
	}
	if !strings.Contains(out, "(last 2 commits)") || !strings.Contains(out, "abc1234") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if got := f.calls[0]; got[1] != "--max-count=2" {
		t.Errorf("limit not passed to git: %v", got)
	}
}

func TestGitLogEmpty(t *testing.T) {
	f := &fakeRunner{outputs: map[string]gitOutput{"log": {}}}
	ts := newTestSet(f)

	out, err := ts.executeGitLog(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No commits found") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestGitBranches(t *testing.T) {
	// Both `branch` and `branch -r` hit the same fake key; the combined
	// output exercises local and remote parsing together.
	f := &fakeRunner{outputs: map[string]gitOutput{
		"branch": {Stdout: "* main\n  develop\n"},
	}}
	ts := newTestSet(f)

	out, err := ts.executeGitBranches(context.Background(), nil)
	if err != nil {
		t.Fatalf("git_branches: %v", err)
	}
	if !strings.Contains(out, "* main (current)") {
		t.Errorf("current branch not marked:\n%s", out)
	}
	if !strings.Contains(out, "  develop") {
		t.Errorf("other branch missing:\n%s", out)
	}
	if len(f.calls) != 2 {
		t.Errorf("expected local and remote invocations, got %v", f.calls)
	}
}

func TestParseBranchesSkipsOriginHead(t *testing.T) {
	out := parseBranches(".", "* main\n", "  origin/HEAD -> origin/main\n  origin/main\n")
	if strings.Contains(out, "origin/HEAD") {
		t.Errorf("origin/HEAD should be skipped:\n%s", out)
	}
	if !strings.Contains(out, "origin/main") {
		t.Errorf("remote branch missing:\n%s", out)
	}
}

func TestGitDiff(t *testing.T) {
	f := &fakeRunner{outputs: map[string]gitOutput{
		"diff": {Stdout: "diff --git a/x b/x\n+added\n"},
	}}
	ts := newTestSet(f)

	out, err := ts.executeGitDiff(context.Background(), map[string]any{"file_path": "x"})
	if err != nil {
		t.Fatalf("git_diff: %v", err)
	}
	if !strings.Contains(out, "Git Diff for file 'x'") || !strings.Contains(out, "+added") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if got := f.calls[0]; len(got) != 2 || got[1] != "x" {
		t.Errorf("file path not passed: %v", got)
	}
}

func TestGitDiffNoChanges(t *testing.T) {
	f := &fakeRunner{outputs: map[string]gitOutput{"diff": {}}}
	ts := newTestSet(f)

	out, err := ts.executeGitDiff(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No differences found in repository") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestGitConfig(t *testing.T) {
	listing := strings.Join([]string{
		"user.name=Dev",
		"user.email=dev@example.com",
		"color.ui=auto",
		"alias.st=status",
	}, "\n")
	f := &fakeRunner{outputs: map[string]gitOutput{"config": {Stdout: listing}}}
	ts := newTestSet(f)

	out, err := ts.executeGitConfig(context.Background(), nil)
	if err != nil {
		t.Fatalf("git_config: %v", err)
	}
	if !strings.Contains(out, "Key Settings:") || !strings.Contains(out, "user.name = Dev") {
		t.Errorf("key settings missing:\n%s", out)
	}
	if !strings.Contains(out, "Other Settings (2 total):") {
		t.Errorf("other settings missing:\n%s", out)
	}
	// Key settings come before the remainder.
	if strings.Index(out, "user.email") > strings.Index(out, "color.ui") {
		t.Errorf("ordering wrong:\n%s", out)
	}
}

func TestParseConfigTruncatesRemainder(t *testing.T) {
	var lines []string
	for i := 0; i < 15; i++ {
		lines = append(lines, fmt.Sprintf("section.key%02d=value", i))
	}
	out := parseConfig(".", strings.Join(lines, "\n"))
	if !strings.Contains(out, "Other Settings (15 total):") {
		t.Errorf("count missing:\n%s", out)
	}
	if !strings.Contains(out, "... and 5 more") {
		t.Errorf("truncation marker missing:\n%s", out)
	}
}

func TestGitMissing(t *testing.T) {
	f := &fakeRunner{errs: map[string]error{"status": ErrGitMissing}}
	ts := newTestSet(f)

	_, err := ts.executeGitStatus(context.Background(), nil)
	if !errors.Is(err, ErrGitMissing) {
		t.Errorf("got %v, want ErrGitMissing", err)
	}
}
