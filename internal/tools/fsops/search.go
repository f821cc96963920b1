package fsops

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hostkit/internal/logging"
	"hostkit/internal/tools"
)

// SearchFilesTool returns a tool for finding files whose names match a
// glob-style pattern.
func (ts *ToolSet) SearchFilesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "search_files",
		Description: "Search for files matching a glob pattern",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeSearchFiles,
		Schema: tools.ToolSchema{
			Required: []string{"pattern"},
			Properties: map[string]tools.Property{
				"pattern": {
					Type:        "string",
					Description: "Glob pattern to search for (e.g., \"*.go\", \"test_*.txt\")",
				},
				"directory": {
					Type:        "string",
					Description: "Directory to search in (default: current directory)",
					Default:     ".",
				},
				"recursive": {
					Type:        "boolean",
					Description: "Whether to search subdirectories (default: true)",
					Default:     true,
				},
				"case_sensitive": {
					Type:        "boolean",
					Description: "Whether the match is case-sensitive (default: false)",
					Default:     false,
				},
			},
		},
	}
}

func (ts *ToolSet) executeSearchFiles(ctx context.Context, args map[string]any) (string, error) {
	pattern := tools.StringArg(args, "pattern", "")
	if pattern == "" {
		return "", fmt.Errorf("pattern is required")
	}

	base, err := ts.resolve(tools.StringArg(args, "directory", "."))
	if err != nil {
		return "", err
	}
	recursive := tools.BoolArg(args, "recursive", true)
	caseSensitive := tools.BoolArg(args, "case_sensitive", false)

	info, err := os.Stat(base)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, base)
		}
		return "", fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, base)
	}

	matchName := func(name string) bool {
		if !caseSensitive {
			name = strings.ToLower(name)
		}
		p := pattern
		if !caseSensitive {
			p = strings.ToLower(p)
		}
		ok, err := filepath.Match(p, name)
		return err == nil && ok
	}

	var matches []string
	if recursive {
		err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable subtrees are skipped, not fatal
			}
			if d.IsDir() {
				return nil
			}
			if matchName(d.Name()) {
				rel, err := filepath.Rel(base, path)
				if err != nil {
					return nil
				}
				matches = append(matches, rel)
			}
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to walk directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(base)
		if err != nil {
			return "", fmt.Errorf("failed to read directory: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && matchName(entry.Name()) {
				matches = append(matches, entry.Name())
			}
		}
	}

	logging.Get(logging.CategoryFS).Debug("search_files: %s in %s (%d matches)", pattern, base, len(matches))

	if len(matches) == 0 {
		return fmt.Sprintf("No files found matching pattern '%s' in '%s'", pattern, base), nil
	}
	sort.Strings(matches)
	return fmt.Sprintf("Found %d files matching '%s':\n%s", len(matches), pattern, strings.Join(matches, "\n")), nil
}
