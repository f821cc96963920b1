package fsops

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"hostkit/internal/pathsafe"
	"hostkit/internal/tools"
)

// ToolSet bundles the filesystem tools around a shared path resolver.
type ToolSet struct {
	resolver *pathsafe.Resolver
}

// NewToolSet creates a filesystem tool set. A nil resolver resolves against
// the process working directory without a sandbox.
func NewToolSet(resolver *pathsafe.Resolver) *ToolSet {
	return &ToolSet{resolver: resolver}
}

// RegisterAll registers every filesystem tool with the given registry.
func (ts *ToolSet) RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		ts.ReadFileTool(),
		ts.WriteFileTool(),
		ts.DeleteFileTool(),
		ts.ListDirectoryTool(),
		ts.CreateDirectoryTool(),
		ts.DeleteDirectoryTool(),
		ts.SearchFilesTool(),
		ts.GetFileInfoTool(),
		ts.CopyFileTool(),
		ts.MoveFileTool(),
		ts.FormatJSONFileTool(),
		ts.ValidateJSONFileTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

func (ts *ToolSet) resolve(path string) (string, error) {
	return ts.resolver.Resolve(path)
}

// codecFor maps a caller-supplied encoding name to its codec. UTF-8 and its
// ASCII subset pass through untransformed and return nil. The bare "utf-16"
// spelling resolves byte order from the BOM, falling back to little-endian;
// the le/be spellings fix the byte order and carry no BOM.
func codecFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8", "ascii", "us-ascii":
		return nil, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16le", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16be", "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, name)
	}
}

// checkEncoding validates the caller-supplied encoding name.
func checkEncoding(name string) error {
	_, err := codecFor(name)
	return err
}

// decodeContent transcodes raw file bytes into a UTF-8 string.
func decodeContent(data []byte, name string) (string, error) {
	codec, err := codecFor(name)
	if err != nil {
		return "", err
	}
	if codec == nil {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s", ErrDecode, name)
		}
		return string(data), nil
	}
	out, err := codec.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecode, name)
	}
	return string(out), nil
}

// encodeContent transcodes UTF-8 content into the bytes to store.
func encodeContent(content, name string) ([]byte, error) {
	codec, err := codecFor(name)
	if err != nil {
		return nil, err
	}
	if codec == nil {
		return []byte(content), nil
	}
	out, err := codec.NewEncoder().Bytes([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to encode content as %s: %w", name, err)
	}
	return out, nil
}
