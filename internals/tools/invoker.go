package tools

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jadenj13/fileagent/internals/conversation"
)

// Invoker runs one tool_use against the registry. Failures of any kind come
// back as error results; Invoke never fails itself.
type Invoker struct {
	registry *Registry
	log      *slog.Logger
}

func NewInvoker(registry *Registry, log *slog.Logger) *Invoker {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Invoker{registry: registry, log: log}
}

func (i *Invoker) Invoke(ctx context.Context, use conversation.ToolUse) conversation.ToolResult {
	tool, err := i.registry.Lookup(use.Name)
	if err != nil {
		i.log.Warn("unknown tool requested", "tool", use.Name, "id", use.ID)
		return errorResult(use.ID, err)
	}

	start := time.Now()
	out, err := execute(ctx, tool, use)
	i.log.Debug("tool executed", "tool", use.Name, "id", use.ID,
		"duration", time.Since(start), "error", err != nil)
	if err != nil {
		return errorResult(use.ID, err)
	}
	return conversation.ToolResult{ToolUseID: use.ID, Content: out}
}

func execute(ctx context.Context, tool Tool, use conversation.ToolUse) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", use.Name, r)
		}
	}()
	return tool.Execute(ctx, use.Input)
}

func errorResult(id string, err error) conversation.ToolResult {
	return conversation.ToolResult{ToolUseID: id, Content: err.Error(), IsError: true}
}
