// Package pathsafe resolves caller-supplied paths to canonical absolute
// locations, optionally confining them to a sandbox root.
package pathsafe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrTraversal is returned when a resolved path escapes the sandbox root,
// whether via ".." segments, an absolute-path override, or a symlink.
var ErrTraversal = errors.New("path escapes the sandbox root")

// Resolver turns user-supplied paths into canonical absolute paths.
// With a base directory set, every resolved path must stay under it.
// The zero value (or a nil receiver) resolves against the process working
// directory with no restriction.
type Resolver struct {
	base string
}

// NewResolver creates a resolver confined to base. An empty base yields an
// unrestricted resolver. The base itself is canonicalized up front so that
// later prefix checks compare like with like.
func NewResolver(base string) (*Resolver, error) {
	if base == "" {
		return &Resolver{}, nil
	}
	canon, err := canonical(base)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize base %s: %w", base, err)
	}
	return &Resolver{base: canon}, nil
}

// Base returns the canonical sandbox root, or "" when unrestricted.
func (r *Resolver) Base() string {
	if r == nil {
		return ""
	}
	return r.base
}

// Resolve canonicalizes path. When a base is configured, relative paths are
// joined onto it and the result must remain under it; absolute paths are
// checked as-is so an absolute override cannot slip out of the sandbox.
func (r *Resolver) Resolve(path string) (string, error) {
	if path == "" {
		return "", errors.New("path cannot be empty")
	}

	if r == nil || r.base == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		return filepath.Clean(abs), nil
	}

	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(r.base, candidate)
	}

	resolved, err := canonical(candidate)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize path %s: %w", path, err)
	}

	if resolved != r.base && !strings.HasPrefix(resolved, r.base+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrTraversal, path)
	}
	return resolved, nil
}

// canonical returns the absolute, cleaned, symlink-resolved form of path.
// The path itself may not exist yet (writes create files), so symlinks are
// resolved through the deepest existing ancestor and the non-existent tail
// is re-joined afterwards. A raw-string prefix check without this pass could
// be bypassed by a symlink inside the base pointing elsewhere.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	existing := abs
	var tail []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			for i := len(tail) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, tail[i])
			}
			return resolved, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			// Nothing on the way exists; the cleaned form is canonical.
			return abs, nil
		}
		tail = append(tail, filepath.Base(existing))
		existing = parent
	}
}
