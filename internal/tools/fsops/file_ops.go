package fsops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"hostkit/internal/logging"
	"hostkit/internal/tools"
)

// ReadFileTool returns a tool for reading file contents.
func (ts *ToolSet) ReadFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        "read_file",
		Description: "Read the contents of a file",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeReadFile,
		Schema: tools.ToolSchema{
			Required: []string{"file_path"},
			Properties: map[string]tools.Property{
				"file_path": {
					Type:        "string",
					Description: "Path to the file to read",
				},
				"encoding": {
					Type:        "string",
					Description: "Text encoding to use (default: utf-8)",
					Default:     "utf-8",
				},
			},
		},
	}
}

func (ts *ToolSet) executeReadFile(ctx context.Context, args map[string]any) (string, error) {
	encoding := tools.StringArg(args, "encoding", "utf-8")
	if err := checkEncoding(encoding); err != nil {
		return "", err
	}

	path, err := ts.resolve(tools.StringArg(args, "file_path", ""))
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	text, err := decodeContent(data, encoding)
	if err != nil {
		return "", err
	}

	logging.Get(logging.CategoryFS).Debug("read_file: %s (%d bytes)", path, len(data))
	return text, nil
}

// WriteFileTool returns a tool for writing content to a file.
func (ts *ToolSet) WriteFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        "write_file",
		Description: "Write content to a file, creating it if it doesn't exist",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeWriteFile,
		Schema: tools.ToolSchema{
			Required: []string{"file_path", "content"},
			Properties: map[string]tools.Property{
				"file_path": {
					Type:        "string",
					Description: "Path to the file to write",
				},
				"content": {
					Type:        "string",
					Description: "Content to write to the file",
				},
				"encoding": {
					Type:        "string",
					Description: "Text encoding to use (default: utf-8)",
					Default:     "utf-8",
				},
				"create_dirs": {
					Type:        "boolean",
					Description: "Create parent directories if they don't exist (default: true)",
					Default:     true,
				},
			},
		},
	}
}

func (ts *ToolSet) executeWriteFile(ctx context.Context, args map[string]any) (string, error) {
	encoding := tools.StringArg(args, "encoding", "utf-8")
	if err := checkEncoding(encoding); err != nil {
		return "", err
	}

	path, err := ts.resolve(tools.StringArg(args, "file_path", ""))
	if err != nil {
		return "", err
	}
	content := tools.StringArg(args, "content", "")

	if tools.BoolArg(args, "create_dirs", true) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("failed to create parent directories: %w", err)
		}
	}

	data, err := encodeContent(content, encoding)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logging.Get(logging.CategoryFS).Debug("write_file: %s (%d bytes)", path, len(content))
	return fmt.Sprintf("Successfully wrote %d characters to '%s'", len([]rune(content)), path), nil
}

// DeleteFileTool returns a tool for deleting a single file.
func (ts *ToolSet) DeleteFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        "delete_file",
		Description: "Delete a file",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeDeleteFile,
		Schema: tools.ToolSchema{
			Required: []string{"file_path"},
			Properties: map[string]tools.Property{
				"file_path": {
					Type:        "string",
					Description: "Path to the file to delete",
				},
			},
		},
	}
}

func (ts *ToolSet) executeDeleteFile(ctx context.Context, args map[string]any) (string, error) {
	path, err := ts.resolve(tools.StringArg(args, "file_path", ""))
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s (use delete_directory)", ErrNotAFile, path)
	}

	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("failed to delete file: %w", err)
	}

	logging.Get(logging.CategoryFS).Info("delete_file: %s", path)
	return fmt.Sprintf("Successfully deleted file '%s'", path), nil
}

// CopyFileTool returns a tool for copying a file.
func (ts *ToolSet) CopyFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        "copy_file",
		Description: "Copy a file from source to destination",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeCopyFile,
		Schema: tools.ToolSchema{
			Required: []string{"source_path", "destination_path"},
			Properties: map[string]tools.Property{
				"source_path": {
					Type:        "string",
					Description: "Path to the source file",
				},
				"destination_path": {
					Type:        "string",
					Description: "Path to the destination",
				},
				"overwrite": {
					Type:        "boolean",
					Description: "Whether to overwrite the destination if it exists (default: false)",
					Default:     false,
				},
			},
		},
	}
}

func (ts *ToolSet) executeCopyFile(ctx context.Context, args map[string]any) (string, error) {
	src, err := ts.resolve(tools.StringArg(args, "source_path", ""))
	if err != nil {
		return "", err
	}
	dst, err := ts.resolve(tools.StringArg(args, "destination_path", ""))
	if err != nil {
		return "", err
	}
	overwrite := tools.BoolArg(args, "overwrite", false)

	srcInfo, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: source %s", ErrNotFound, src)
		}
		return "", fmt.Errorf("failed to stat source: %w", err)
	}
	if srcInfo.IsDir() {
		return "", fmt.Errorf("%w: source %s", ErrNotAFile, src)
	}

	if _, err := os.Stat(dst); err == nil && !overwrite {
		return "", fmt.Errorf("%w: destination %s (use overwrite=true to replace it)", ErrAlreadyExists, dst)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination directories: %w", err)
	}

	if err := copyFileContents(src, dst, srcInfo); err != nil {
		return "", err
	}

	logging.Get(logging.CategoryFS).Info("copy_file: %s -> %s", src, dst)
	return fmt.Sprintf("Successfully copied '%s' to '%s'", src, dst), nil
}

// copyFileContents copies bytes and preserves mode and modification time.
func copyFileContents(src, dst string, srcInfo os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy contents: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to flush destination: %w", err)
	}

	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to preserve permissions: %w", err)
	}
	mtime := srcInfo.ModTime()
	if err := os.Chtimes(dst, mtime, mtime); err != nil {
		return fmt.Errorf("failed to preserve timestamps: %w", err)
	}
	return nil
}

// MoveFileTool returns a tool for moving/renaming a file.
func (ts *ToolSet) MoveFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        "move_file",
		Description: "Move a file from source to destination",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeMoveFile,
		Schema: tools.ToolSchema{
			Required: []string{"source_path", "destination_path"},
			Properties: map[string]tools.Property{
				"source_path": {
					Type:        "string",
					Description: "Path to the source file",
				},
				"destination_path": {
					Type:        "string",
					Description: "Path to the destination",
				},
				"overwrite": {
					Type:        "boolean",
					Description: "Whether to overwrite the destination if it exists (default: false)",
					Default:     false,
				},
			},
		},
	}
}

func (ts *ToolSet) executeMoveFile(ctx context.Context, args map[string]any) (string, error) {
	src, err := ts.resolve(tools.StringArg(args, "source_path", ""))
	if err != nil {
		return "", err
	}
	dst, err := ts.resolve(tools.StringArg(args, "destination_path", ""))
	if err != nil {
		return "", err
	}
	overwrite := tools.BoolArg(args, "overwrite", false)

	srcInfo, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: source %s", ErrNotFound, src)
		}
		return "", fmt.Errorf("failed to stat source: %w", err)
	}

	if _, err := os.Stat(dst); err == nil && !overwrite {
		return "", fmt.Errorf("%w: destination %s (use overwrite=true to replace it)", ErrAlreadyExists, dst)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination directories: %w", err)
	}

	// Atomic rename first; copy+delete fallback for cross-device moves.
	if err := os.Rename(src, dst); err != nil {
		if !isCrossDeviceError(err) {
			return "", fmt.Errorf("failed to move: %w", err)
		}
		if srcInfo.IsDir() {
			return "", fmt.Errorf("cannot move directory across filesystems: %s", src)
		}
		if err := copyFileContents(src, dst, srcInfo); err != nil {
			return "", fmt.Errorf("cross-device move failed: %w", err)
		}
		if err := os.Remove(src); err != nil {
			return "", fmt.Errorf("failed to remove source after copy: %w", err)
		}
	}

	logging.Get(logging.CategoryFS).Info("move_file: %s -> %s", src, dst)
	return fmt.Sprintf("Successfully moved '%s' to '%s'", src, dst), nil
}

func isCrossDeviceError(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err == syscall.EXDEV
	}
	return false
}
