package fsops

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"hostkit/internal/logging"
	"hostkit/internal/tools"
	"hostkit/internal/units"
)

// ListDirectoryTool returns a tool for listing directory contents.
func (ts *ToolSet) ListDirectoryTool() *tools.Tool {
	return &tools.Tool{
		Name:        "list_directory",
		Description: "List the contents of a directory",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeListDirectory,
		Schema: tools.ToolSchema{
			Required: []string{},
			Properties: map[string]tools.Property{
				"dir_path": {
					Type:        "string",
					Description: "Path to the directory to list (default: current directory)",
					Default:     ".",
				},
				"include_hidden": {
					Type:        "boolean",
					Description: "Whether to include hidden files/directories (default: false)",
					Default:     false,
				},
				"detailed": {
					Type:        "boolean",
					Description: "Whether to include size, permissions and modified time (default: false)",
					Default:     false,
				},
			},
		},
	}
}

func (ts *ToolSet) executeListDirectory(ctx context.Context, args map[string]any) (string, error) {
	path, err := ts.resolve(tools.StringArg(args, "dir_path", "."))
	if err != nil {
		return "", err
	}
	includeHidden := tools.BoolArg(args, "include_hidden", false)
	detailed := tools.BoolArg(args, "detailed", false)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("failed to read directory: %w", err)
	}

	var items []string
	for _, entry := range entries {
		name := entry.Name()
		if !includeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		if !detailed {
			kind := "[FILE]"
			if entry.IsDir() {
				kind = "[DIR]"
			}
			items = append(items, fmt.Sprintf("%s %s", kind, name))
			continue
		}

		// Entries can vanish between ReadDir and Info; degrade per entry.
		fi, err := entry.Info()
		if err != nil {
			items = append(items, fmt.Sprintf("?    %10s %6s %19s %s", "-", "-", "-", name))
			continue
		}
		kind := "FILE"
		if entry.IsDir() {
			kind = "DIR"
		}
		items = append(items, fmt.Sprintf("%-4s %10d %6s %s %s",
			kind, fi.Size(), fmt.Sprintf("%#o", fi.Mode().Perm()),
			fi.ModTime().Format("2006-01-02 15:04:05"), name))
	}

	if len(items) == 0 {
		return fmt.Sprintf("Directory '%s' is empty", path), nil
	}
	sort.Strings(items)

	header := "CONTENTS"
	if detailed {
		header = "TYPE       SIZE  PERMS       MODIFIED           NAME"
	}

	logging.Get(logging.CategoryFS).Debug("list_directory: %s (%d entries)", path, len(items))
	return fmt.Sprintf("Directory listing for '%s':\n%s\n%s", path, header, strings.Join(items, "\n")), nil
}

// CreateDirectoryTool returns a tool for creating a directory.
func (ts *ToolSet) CreateDirectoryTool() *tools.Tool {
	return &tools.Tool{
		Name:        "create_directory",
		Description: "Create a directory",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeCreateDirectory,
		Schema: tools.ToolSchema{
			Required: []string{"dir_path"},
			Properties: map[string]tools.Property{
				"dir_path": {
					Type:        "string",
					Description: "Path to the directory to create",
				},
				"parents": {
					Type:        "boolean",
					Description: "Whether to create parent directories if they don't exist (default: true)",
					Default:     true,
				},
			},
		},
	}
}

func (ts *ToolSet) executeCreateDirectory(ctx context.Context, args map[string]any) (string, error) {
	path, err := ts.resolve(tools.StringArg(args, "dir_path", ""))
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrAlreadyExists, path)
	}

	if tools.BoolArg(args, "parents", true) {
		err = os.MkdirAll(path, 0o755)
	} else {
		err = os.Mkdir(path, 0o755)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	logging.Get(logging.CategoryFS).Info("create_directory: %s", path)
	return fmt.Sprintf("Successfully created directory '%s'", path), nil
}

// DeleteDirectoryTool returns a tool for deleting a directory.
func (ts *ToolSet) DeleteDirectoryTool() *tools.Tool {
	return &tools.Tool{
		Name:        "delete_directory",
		Description: "Delete a directory",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeDeleteDirectory,
		Schema: tools.ToolSchema{
			Required: []string{"dir_path"},
			Properties: map[string]tools.Property{
				"dir_path": {
					Type:        "string",
					Description: "Path to the directory to delete",
				},
				"recursive": {
					Type:        "boolean",
					Description: "Whether to delete the directory and all its contents (default: false)",
					Default:     false,
				},
			},
		},
	}
}

func (ts *ToolSet) executeDeleteDirectory(ctx context.Context, args map[string]any) (string, error) {
	path, err := ts.resolve(tools.StringArg(args, "dir_path", ""))
	if err != nil {
		return "", err
	}
	recursive := tools.BoolArg(args, "recursive", false)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, path)
	}

	if recursive {
		if err := os.RemoveAll(path); err != nil {
			return "", fmt.Errorf("failed to delete directory: %w", err)
		}
		logging.Get(logging.CategoryFS).Info("delete_directory: %s (recursive)", path)
		return fmt.Sprintf("Successfully deleted directory '%s' and all its contents", path), nil
	}

	// Non-recursive removal only succeeds on empty directories and must not
	// modify a non-empty one.
	if err := os.Remove(path); err != nil {
		entries, readErr := os.ReadDir(path)
		if readErr == nil && len(entries) > 0 {
			return "", fmt.Errorf("%w: %s (use recursive=true)", ErrNotEmpty, path)
		}
		return "", fmt.Errorf("failed to delete directory: %w", err)
	}

	logging.Get(logging.CategoryFS).Info("delete_directory: %s", path)
	return fmt.Sprintf("Successfully deleted empty directory '%s'", path), nil
}

// sizeColumn is shared by the detailed listing and file info rendering.
func sizeColumn(size int64) string {
	if size < 0 {
		return "0.0 B"
	}
	return units.FormatSize(uint64(size))
}
