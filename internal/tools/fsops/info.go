package fsops

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hostkit/internal/logging"
	"hostkit/internal/tools"
)

// FileInfoRecord is the JSON payload produced by get_file_info.
// It is a point-in-time snapshot, never cached.
type FileInfoRecord struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	SizeHuman   string `json:"size_human"`
	Permissions string `json:"permissions"`
	OwnerUID    int    `json:"owner_uid"`
	GroupGID    int    `json:"group_gid"`
	Created     string `json:"created"`
	Modified    string `json:"modified"`
	Accessed    string `json:"accessed"`
	Extension   string `json:"extension,omitempty"`
}

// GetFileInfoTool returns a tool producing detailed file metadata.
func (ts *ToolSet) GetFileInfoTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_file_info",
		Description: "Get detailed information about a file or directory",
		Category:    tools.CategoryFilesystem,
		Execute:     ts.executeGetFileInfo,
		Schema: tools.ToolSchema{
			Required: []string{"file_path"},
			Properties: map[string]tools.Property{
				"file_path": {
					Type:        "string",
					Description: "Path to the file or directory",
				},
			},
		},
	}
}

func (ts *ToolSet) executeGetFileInfo(ctx context.Context, args map[string]any) (string, error) {
	path, err := ts.resolve(tools.StringArg(args, "file_path", ""))
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to stat path: %w", err)
	}

	kind := "file"
	if info.IsDir() {
		kind = "directory"
	}

	uid, gid := ownership(info)
	created, accessed := extraTimes(info)

	record := FileInfoRecord{
		Path:        path,
		Name:        info.Name(),
		Type:        kind,
		Size:        info.Size(),
		SizeHuman:   sizeColumn(info.Size()),
		Permissions: fmt.Sprintf("%#o", info.Mode().Perm()),
		OwnerUID:    uid,
		GroupGID:    gid,
		Created:     created.Format("2006-01-02T15:04:05"),
		Modified:    info.ModTime().Format("2006-01-02T15:04:05"),
		Accessed:    accessed.Format("2006-01-02T15:04:05"),
	}
	if !info.IsDir() {
		record.Extension = filepath.Ext(path)
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode file info: %w", err)
	}

	logging.Get(logging.CategoryFS).Debug("get_file_info: %s", path)
	return string(out), nil
}
