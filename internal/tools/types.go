// Package tools provides the tool registry and dispatch layer for hostkit.
//
// Each tool is a named, stateless operation with a declared parameter schema.
// Tools are registered once at startup and invoked either through the MCP
// stdio server or directly from the CLI.
package tools

import (
	"context"
	"encoding/json"
)

// ToolCategory groups tools by the host facility they inspect.
type ToolCategory string

const (
	// CategoryFilesystem covers file and directory CRUD, search, JSON helpers.
	CategoryFilesystem ToolCategory = "filesystem"

	// CategoryProcess covers process table listing, trees, top-N queries.
	CategoryProcess ToolCategory = "process"

	// CategoryNetwork covers sockets, interfaces, ping, port probes.
	CategoryNetwork ToolCategory = "network"

	// CategorySystem covers resources, hardware, environment, inventory.
	CategorySystem ToolCategory = "system"

	// CategoryGit covers git subprocess queries.
	CategoryGit ToolCategory = "git"
)

// Property describes a single parameter property for JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
}

// ToolSchema defines the JSON schema for tool arguments.
type ToolSchema struct {
	// Required lists parameters that must be provided.
	Required []string `json:"required"`

	// Properties describes each parameter.
	Properties map[string]Property `json:"properties"`
}

// InputSchema renders the schema as an MCP-style JSON schema object.
func (s ToolSchema) InputSchema() json.RawMessage {
	required := s.Required
	if required == nil {
		required = []string{}
	}
	properties := s.Properties
	if properties == nil {
		properties = map[string]Property{}
	}
	out, err := json.Marshal(map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	})
	if err != nil {
		return json.RawMessage(`{"type":"object"}`)
	}
	return out
}

// ExecuteFunc is the signature for tool execution.
// Returns the result payload as text and any error.
type ExecuteFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool defines a named, independently invocable operation.
type Tool struct {
	// Name is the stable identifier the tool is registered under.
	Name string

	// Description explains what the tool does, for tools/list consumers.
	Description string

	// Category classifies the tool by host facility.
	Category ToolCategory

	// Execute runs the tool with the given arguments.
	Execute ExecuteFunc

	// Schema defines the expected arguments.
	Schema ToolSchema
}

// Validate checks if the tool definition is valid.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	return nil
}

// ToolResult wraps the result of tool execution with metadata.
type ToolResult struct {
	// ToolName identifies which tool was executed.
	ToolName string

	// CallID correlates this invocation across log categories.
	CallID string

	// Result is the text output from the tool.
	Result string

	// Error is set if the tool failed.
	Error error

	// DurationMs is how long execution took.
	DurationMs int64
}

// IsSuccess returns true if the tool executed without error.
func (r *ToolResult) IsSuccess() bool {
	return r.Error == nil
}
