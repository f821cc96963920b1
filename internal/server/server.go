// Package server exposes the tool registry over MCP: line-delimited
// JSON-RPC 2.0 on stdin/stdout.
//
// Stdout carries protocol frames only; all logging goes to the categorized
// log files. Tool failures are reported inside the result payload with
// isError set, protocol-level problems as JSON-RPC error objects.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"hostkit/internal/logging"
	"hostkit/internal/tools"
)

// protocolVersion is the MCP revision this server speaks.
const protocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// contentBlock is one element of a tools/call result payload.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callResult struct {
	Content []contentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// Server serves the MCP protocol over a reader/writer pair.
type Server struct {
	name     string
	version  string
	registry *tools.Registry

	in  io.Reader
	out io.Writer

	writeMu sync.Mutex
}

// New creates a server for the given registry. name and version identify the
// server in the initialize handshake.
func New(name, version string, registry *tools.Registry) *Server {
	return &Server{
		name:     name,
		version:  version,
		registry: registry,
	}
}

// Serve reads requests from in and writes responses to out until in is
// exhausted or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.in = in
	s.out = out

	scanner := bufio.NewScanner(in)
	// Tool arguments can carry whole file contents in a single frame.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req rpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeError(nil, codeParseError, fmt.Sprintf("parse error: %v", err))
			continue
		}
		s.dispatch(ctx, &req)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("transport read failed: %w", err)
	}
	return nil
}

// dispatch routes one request or notification.
func (s *Server) dispatch(ctx context.Context, req *rpcRequest) {
	logging.Get(logging.CategoryServer).Debug("request: %s", req.Method)

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "notifications/initialized":
		// Handshake acknowledgement; nothing to track and no response due.
	case "ping":
		s.writeResult(req.ID, struct{}{})
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(ctx, req)
	default:
		// Unknown notifications are ignored per JSON-RPC; unknown
		// requests get a method-not-found error.
		if req.ID != nil {
			s.writeError(req.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
		}
	}
}

func (s *Server) handleInitialize(req *rpcRequest) {
	s.writeResult(req.ID, map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]string{
			"name":    s.name,
			"version": s.version,
		},
	})
}

// toolDescriptor is the tools/list wire form of one tool.
type toolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

func (s *Server) handleToolsList(req *rpcRequest) {
	all := s.registry.All()
	descriptors := make([]toolDescriptor, 0, len(all))
	for _, tool := range all {
		descriptors = append(descriptors, toolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.Schema.InputSchema(),
		})
	}
	s.writeResult(req.ID, map[string]any{"tools": descriptors})
}

func (s *Server) handleToolsCall(ctx context.Context, req *rpcRequest) {
	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.writeError(req.ID, codeInvalidParams, fmt.Sprintf("invalid params: %v", err))
		return
	}
	if params.Name == "" {
		s.writeError(req.ID, codeInvalidParams, "tool name is required")
		return
	}
	if !s.registry.Has(params.Name) {
		s.writeError(req.ID, codeInvalidParams, fmt.Sprintf("unknown tool: %s", params.Name))
		return
	}

	result, err := s.registry.Execute(ctx, params.Name, params.Arguments)
	if result == nil {
		s.writeError(req.ID, codeInternalError, err.Error())
		return
	}

	// Tool and validation failures travel as result payloads with isError;
	// the protocol call itself succeeded.
	payload := callResult{
		Content: []contentBlock{{Type: "text", Text: result.Result}},
	}
	if !result.IsSuccess() {
		payload.Content = []contentBlock{{Type: "text", Text: result.Error.Error()}}
		payload.IsError = true
	}

	logging.Get(logging.CategoryServer).Info("tools/call %s id=%s done in %dms ok=%v",
		params.Name, result.CallID, result.DurationMs, result.IsSuccess())
	s.writeResult(req.ID, payload)
}

func (s *Server) writeResult(id json.RawMessage, result any) {
	s.write(rpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) writeError(id json.RawMessage, code int, message string) {
	s.write(rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

func (s *Server) write(resp rpcResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Get(logging.CategoryServer).Error("failed to marshal response: %v", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.out.Write(append(data, '\n')); err != nil {
		logging.Get(logging.CategoryServer).Error("failed to write response: %v", err)
	}
}
