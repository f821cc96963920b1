package tools

import (
	"context"
	"strings"
	"testing"
)

func nopExecute(ctx context.Context, args map[string]any) (string, error) {
	return "", nil
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if reg.Count() != 0 {
		t.Errorf("new registry should be empty, got %d tools", reg.Count())
	}
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	tool := &Tool{
		Name:        "test_tool",
		Description: "A test tool",
		Category:    CategorySystem,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			return "success", nil
		},
	}

	if err := reg.Register(tool); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got := reg.Get("test_tool")
	if got == nil {
		t.Fatal("Get returned nil for registered tool")
	}
	if got.Name != "test_tool" {
		t.Errorf("got name %q, want %q", got.Name, "test_tool")
	}
	if !reg.Has("test_tool") {
		t.Error("Has returned false for registered tool")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()

	tool := &Tool{Name: "dupe", Category: CategorySystem, Execute: nopExecute}
	if err := reg.Register(tool); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := reg.Register(tool); err == nil {
		t.Fatal("expected error for duplicate registration")
	}
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name string
		tool *Tool
	}{
		{"empty name", &Tool{Name: "", Execute: nopExecute}},
		{"nil execute", &Tool{Name: "test", Execute: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := reg.Register(tt.tool); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestGetByCategory(t *testing.T) {
	reg := NewRegistry()

	for _, tool := range []*Tool{
		{Name: "net_b", Category: CategoryNetwork, Execute: nopExecute},
		{Name: "net_a", Category: CategoryNetwork, Execute: nopExecute},
		{Name: "fs_1", Category: CategoryFilesystem, Execute: nopExecute},
	} {
		reg.MustRegister(tool)
	}

	network := reg.GetByCategory(CategoryNetwork)
	if len(network) != 2 {
		t.Fatalf("expected 2 network tools, got %d", len(network))
	}
	if network[0].Name != "net_a" || network[1].Name != "net_b" {
		t.Errorf("category listing not sorted by name: %s, %s", network[0].Name, network[1].Name)
	}
}

func TestExecute(t *testing.T) {
	reg := NewRegistry()

	tool := &Tool{
		Name:     "echo",
		Category: CategorySystem,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			msg, _ := args["message"].(string)
			return "Echo: " + msg, nil
		},
		Schema: ToolSchema{
			Required:   []string{"message"},
			Properties: map[string]Property{"message": {Type: "string"}},
		},
	}
	reg.MustRegister(tool)

	result, err := reg.Execute(context.Background(), "echo", map[string]any{"message": "hello"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Result != "Echo: hello" {
		t.Errorf("got result %q, want %q", result.Result, "Echo: hello")
	}
	if !result.IsSuccess() {
		t.Error("expected IsSuccess to be true")
	}
	if result.CallID == "" {
		t.Error("expected a call ID on the result")
	}

	// Missing required arg.
	if _, err := reg.Execute(context.Background(), "echo", map[string]any{}); err == nil {
		t.Error("expected error for missing required arg")
	}

	// Unknown tool.
	if _, err := reg.Execute(context.Background(), "nonexistent", map[string]any{}); err == nil {
		t.Error("expected error for nonexistent tool")
	}
}

func TestNamesAndAllSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		reg.MustRegister(&Tool{Name: name, Category: CategorySystem, Execute: nopExecute})
	}

	names := reg.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}

	all := reg.All()
	for i, n := range want {
		if all[i].Name != n {
			t.Fatalf("All() order = %v at %d, want %v", all[i].Name, i, n)
		}
	}
}

func TestInputSchema(t *testing.T) {
	s := ToolSchema{
		Required: []string{"path"},
		Properties: map[string]Property{
			"path": {Type: "string", Description: "a path"},
		},
	}
	raw := string(s.InputSchema())
	for _, substr := range []string{`"type":"object"`, `"required":["path"]`, `"path"`} {
		if !strings.Contains(raw, substr) {
			t.Errorf("InputSchema() missing %q in %s", substr, raw)
		}
	}

	// Empty schema still renders a valid object schema.
	empty := ToolSchema{}
	raw = string(empty.InputSchema())
	if !strings.Contains(raw, `"required":[]`) {
		t.Errorf("empty schema should render empty required list, got %s", raw)
	}
}

func TestArgAccessors(t *testing.T) {
	args := map[string]any{
		"s":     "value",
		"empty": "",
		"b":     true,
		"f":     float64(42),
		"i":     7,
	}

	if got := StringArg(args, "s", "def"); got != "value" {
		t.Errorf("StringArg = %q", got)
	}
	if got := StringArg(args, "empty", "def"); got != "def" {
		t.Errorf("StringArg empty = %q, want default", got)
	}
	if got := StringArg(args, "missing", "def"); got != "def" {
		t.Errorf("StringArg missing = %q", got)
	}
	if !BoolArg(args, "b", false) {
		t.Error("BoolArg = false, want true")
	}
	if BoolArg(args, "missing", false) {
		t.Error("BoolArg missing should return default")
	}
	if got := IntArg(args, "f", 0); got != 42 {
		t.Errorf("IntArg float64 = %d, want 42", got)
	}
	if got := IntArg(args, "i", 0); got != 7 {
		t.Errorf("IntArg int = %d, want 7", got)
	}
	if got := IntArg(args, "missing", 5); got != 5 {
		t.Errorf("IntArg missing = %d, want 5", got)
	}
}
