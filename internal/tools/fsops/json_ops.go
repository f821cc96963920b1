package fsops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"hostkit/internal/logging"
	"hostkit/internal/tools"
)

// FormatJSONFileTool returns a tool that pretty-prints a JSON file in place.
func (ts *ToolSet) FormatJSONFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        "format_json_file",
		Description: "Format/pretty-print a JSON file with 2-space indentation",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeFormatJSONFile,
		Schema: tools.ToolSchema{
			Required: []string{"file_path"},
			Properties: map[string]tools.Property{
				"file_path": {
					Type:        "string",
					Description: "Path to the JSON file to format",
				},
			},
		},
	}
}

func (ts *ToolSet) executeFormatJSONFile(ctx context.Context, args map[string]any) (string, error) {
	path, err := ts.statJSONFile(args)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// json.Indent keeps member order and raw string bytes, so non-ASCII
	// characters pass through literally and a second pass is a no-op.
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", fmt.Errorf("invalid JSON in file '%s': %w", path, err)
	}
	buf.WriteByte('\n')

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logging.Get(logging.CategoryFS).Info("format_json_file: %s", path)
	return fmt.Sprintf("Successfully formatted JSON file '%s'", path), nil
}

// ValidateJSONFileTool returns a tool that checks whether a file is valid JSON.
func (ts *ToolSet) ValidateJSONFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        "validate_json_file",
		Description: "Check if a JSON file is valid",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeValidateJSONFile,
		Schema: tools.ToolSchema{
			Required: []string{"file_path"},
			Properties: map[string]tools.Property{
				"file_path": {
					Type:        "string",
					Description: "Path to the JSON file to validate",
				},
			},
		},
	}
}

func (ts *ToolSet) executeValidateJSONFile(ctx context.Context, args map[string]any) (string, error) {
	path, err := ts.statJSONFile(args)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if !json.Valid(data) {
		// Re-parse to surface the position of the failure.
		var v any
		parseErr := json.Unmarshal(data, &v)
		return "", fmt.Errorf("invalid JSON in file '%s': %v", path, parseErr)
	}

	return fmt.Sprintf("JSON file '%s' is valid", path), nil
}

// statJSONFile resolves the file_path argument and requires a regular file.
func (ts *ToolSet) statJSONFile(args map[string]any) (string, error) {
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
	return path, nil
}
