// Package agent drives the conversation: it alternates inference calls with
// sequential tool rounds until the model answers without requesting tools.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jadenj13/fileagent/internals/conversation"
	"github.com/jadenj13/fileagent/internals/tools"
)

type State int

const (
	AwaitingOperatorInput State = iota
	Inferring
	DispatchingTools
)

var stateNames = [...]string{"awaiting_operator_input", "inferring", "dispatching_tools"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", s)
	}
	return stateNames[s]
}

type Gateway interface {
	Complete(ctx context.Context, system string, messages []conversation.Message, defs []tools.Definition) (conversation.Message, error)
}

type Executor interface {
	Invoke(ctx context.Context, use conversation.ToolUse) conversation.ToolResult
}

type Input interface {
	ReadLine(ctx context.Context) (string, error)
}

type Output interface {
	Prompt()
	AgentText(text string)
	ToolCall(name string, input json.RawMessage)
}

type Agent struct {
	gateway Gateway
	exec    Executor
	defs    []tools.Definition
	system  string
	out     Output
	log     *slog.Logger

	conv  *conversation.Conversation
	state State
}

type Option func(*Agent)

func WithLogger(log *slog.Logger) Option {
	return func(a *Agent) { a.log = log }
}

func WithSystemPrompt(system string) Option {
	return func(a *Agent) { a.system = system }
}

func WithOutput(out Output) Option {
	return func(a *Agent) { a.out = out }
}

func New(gateway Gateway, exec Executor, defs []tools.Definition, opts ...Option) *Agent {
	a := &Agent{
		gateway: gateway,
		exec:    exec,
		defs:    defs,
		out:     discard{},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		conv:    conversation.New(),
		state:   AwaitingOperatorInput,
	}
	for _, o := range opts {
		o(a)
	}
	a.log = a.log.With("session", uuid.NewString())
	return a
}

func (a *Agent) State() State { return a.state }

// Conversation returns a copy of the history so far.
func (a *Agent) Conversation() []conversation.Message { return a.conv.Messages() }

// Run reads operator lines until input ends or ctx is cancelled. Only
// inference and conversation failures are returned.
func (a *Agent) Run(ctx context.Context, in Input) error {
	for {
		a.out.Prompt()
		text, err := in.ReadLine(ctx)
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			a.log.Info("operator input closed", "messages", a.conv.Len())
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		if err := a.Turn(ctx, text); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Turn handles one operator input through to an answer with no tool requests.
// Blank input is ignored. An assistant response with no content is not
// recorded, so the history then holds the last user message of this turn
// directly followed by the next operator message.
func (a *Agent) Turn(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	if err := a.conv.Append(conversation.UserText(input)); err != nil {
		return fmt.Errorf("append operator input: %w", err)
	}

	defer func() { a.state = AwaitingOperatorInput }()

	for round := 0; ; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.state = Inferring
		resp, err := a.gateway.Complete(ctx, a.system, a.conv.Messages(), a.defs)
		if err != nil {
			return fmt.Errorf("inference (round %d): %w", round, err)
		}
		if len(resp.Content) == 0 {
			a.log.Warn("model returned no content", "round", round)
			return nil
		}
		if err := a.conv.Append(resp); err != nil {
			return fmt.Errorf("append assistant message: %w", err)
		}

		var pending []conversation.ToolUse
		for _, b := range resp.Content {
			switch b := b.(type) {
			case conversation.Text:
				a.out.AgentText(b.Text)
			case conversation.ToolUse:
				pending = append(pending, b)
			}
		}
		if len(pending) == 0 {
			a.log.Debug("turn complete", "rounds", round+1)
			return nil
		}

		a.state = DispatchingTools
		a.log.Info("executing tools", "count", len(pending), "round", round)

		results := make([]conversation.ToolResult, 0, len(pending))
		for _, use := range pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			a.out.ToolCall(use.Name, use.Input)
			result := a.exec.Invoke(ctx, use)
			a.log.Info("tool executed", "tool", use.Name, "id", use.ID,
				"is_error", result.IsError, "preview", preview(result.Content, 120))
			results = append(results, result)
		}

		if err := a.conv.Append(conversation.UserResults(results)); err != nil {
			return fmt.Errorf("append tool results: %w", err)
		}
	}
}

type discard struct{}

func (discard) Prompt()                          {}
func (discard) AgentText(string)                 {}
func (discard) ToolCall(string, json.RawMessage) {}

// preview shortens s to at most n bytes without splitting a rune.
func preview(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut] + "…"
}
