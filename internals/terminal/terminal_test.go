package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderLines(t *testing.T) {
	r := NewReader(strings.NewReader("first\n\nthird"))
	ctx := context.Background()

	for _, want := range []string{"first", "", "third"} {
		got, err := r.ReadLine(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := r.ReadLine(ctx)
	require.ErrorIs(t, err, io.EOF)
	_, err = r.ReadLine(ctx)
	require.ErrorIs(t, err, io.EOF)
}

func TestReaderLongLine(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	r := NewReader(strings.NewReader(long + "\r\nnext\n"))
	ctx := context.Background()

	got, err := r.ReadLine(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(long))

	got, err = r.ReadLine(ctx)
	require.NoError(t, err)
	require.Equal(t, "next", got)

	_, err = r.ReadLine(ctx)
	require.ErrorIs(t, err, io.EOF)
}

func TestReaderCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	r := NewReader(pr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.ReadLine(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Prompt()
	p.AgentText("hello")
	p.ToolCall("read_file", json.RawMessage(`{"path":"a.txt"}`))
	p.ToolCall("list_files", nil)

	require.Equal(t, "You: Claude: hello\ntool: read_file({\"path\":\"a.txt\"})\ntool: list_files({})\n", buf.String())
}
