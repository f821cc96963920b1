// Package gitops wraps the git command line for repository inspection.
//
// Every invocation runs with an explicit working directory and a bounded
// timeout, and is never retried. A missing git binary and a directory that
// is not a repository are classified as distinct errors.
package gitops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"hostkit/internal/logging"
)

var (
	// ErrGitMissing indicates git is not installed or not in PATH.
	ErrGitMissing = errors.New("git is not installed or not in PATH")

	// ErrNotARepo indicates the directory is not inside a git repository.
	ErrNotARepo = errors.New("not a git repository")

	// ErrGitTimeout indicates the git subprocess exceeded its deadline.
	ErrGitTimeout = errors.New("git command timed out")
)

// gitOutput is the captured result of one git invocation.
type gitOutput struct {
	Stdout string
	Stderr string
}

// runner executes git with arguments in a directory. Swappable in tests.
type runner func(ctx context.Context, dir string, timeout time.Duration, args ...string) (gitOutput, error)

func liveRunner(ctx context.Context, dir string, timeout time.Duration, args ...string) (gitOutput, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return gitOutput{}, ErrGitMissing
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := gitOutput{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctx.Err() == context.DeadlineExceeded {
		return out, fmt.Errorf("%w after %s: git %s", ErrGitTimeout, timeout, strings.Join(args, " "))
	}
	if err != nil {
		if strings.Contains(strings.ToLower(out.Stderr), "not a git repository") {
			return out, fmt.Errorf("%w: %s", ErrNotARepo, dir)
		}
		return out, fmt.Errorf("git %s failed: %s", args[0], strings.TrimSpace(out.Stderr))
	}

	logging.Get(logging.CategoryGit).Debug("git %s in %s ok", strings.Join(args, " "), dir)
	return out, nil
}
