package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jadenj13/fileagent/internals/conversation"
)

type stubTool struct {
	name string
	run  func(json.RawMessage) (string, error)
}

func (s stubTool) Name() string        { return s.name }
func (s stubTool) Description() string { return "stub" }
func (s stubTool) Schema() Schema      { return Schema{} }

func (s stubTool) Execute(_ context.Context, raw json.RawMessage) (string, error) {
	return s.run(raw)
}

func TestInvoke(t *testing.T) {
	reg, err := NewRegistry(
		stubTool{name: "echo", run: func(raw json.RawMessage) (string, error) { return string(raw), nil }},
		stubTool{name: "fail", run: func(json.RawMessage) (string, error) { return "", errors.New("boom") }},
		stubTool{name: "panic", run: func(json.RawMessage) (string, error) { panic("bad") }},
	)
	require.NoError(t, err)
	inv := NewInvoker(reg, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		use     conversation.ToolUse
		want    string
		wantErr bool
	}{
		{
			name: "success",
			use:  conversation.ToolUse{ID: "t1", Name: "echo", Input: json.RawMessage(`{"a":1}`)},
			want: `{"a":1}`,
		},
		{
			name:    "action failure",
			use:     conversation.ToolUse{ID: "t2", Name: "fail"},
			want:    "boom",
			wantErr: true,
		},
		{
			name:    "unknown tool",
			use:     conversation.ToolUse{ID: "t3", Name: "rm_rf"},
			want:    "unknown tool: rm_rf",
			wantErr: true,
		},
		{
			name:    "panicking tool",
			use:     conversation.ToolUse{ID: "t4", Name: "panic"},
			want:    "tool panic panicked: bad",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inv.Invoke(ctx, tt.use)
			require.Equal(t, tt.use.ID, got.ToolUseID)
			require.Equal(t, tt.want, got.Content)
			require.Equal(t, tt.wantErr, got.IsError)
		})
	}
}

func TestInvokeBuiltinErrorsBecomeResults(t *testing.T) {
	reg, err := NewRegistry(Builtins(Workspace{Root: t.TempDir()})...)
	require.NoError(t, err)

	got := NewInvoker(reg, nil).Invoke(context.Background(), conversation.ToolUse{
		ID:    "toolu_1",
		Name:  "read_file",
		Input: json.RawMessage(`{"path":"missing.txt"}`),
	})
	require.True(t, got.IsError)
	require.Contains(t, got.Content, "not found")
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	ok := func(json.RawMessage) (string, error) { return "", nil }
	_, err := NewRegistry(stubTool{name: "a", run: ok}, stubTool{name: "a", run: ok})
	require.Error(t, err)

	_, err = NewRegistry(stubTool{name: "", run: ok})
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	reg, err := NewRegistry(Builtins(Workspace{})...)
	require.NoError(t, err)

	tool, err := reg.Lookup("edit_file")
	require.NoError(t, err)
	require.Equal(t, "edit_file", tool.Name())

	_, err = reg.Lookup("write_file")
	require.ErrorIs(t, err, ErrUnknownTool)
}
