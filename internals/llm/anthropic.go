package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jadenj13/fileagent/internals/conversation"
	"github.com/jadenj13/fileagent/internals/tools"
)

const (
	DefaultModel     = anthropic.Model("claude-haiku-4-5")
	DefaultMaxTokens = 1024
)

type Client struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	reqOpts   []option.RequestOption
	log       *slog.Logger
}

type Option func(*Client)

func WithModel(model anthropic.Model) Option {
	return func(c *Client) { c.model = model }
}

func WithMaxTokens(n int64) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithRequestOptions passes extra SDK options (base URL, HTTP client, headers).
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *Client) { c.reqOpts = append(c.reqOpts, opts...) }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	// Retries are left to whoever supervises the process.
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, c.reqOpts...)
	c.client = anthropic.NewClient(reqOpts...)
	return c
}

func (c *Client) Model() anthropic.Model { return c.model }

// Complete sends the whole conversation plus the tool definitions and returns
// the assistant message. Block order is preserved as the service emitted it.
func (c *Client) Complete(ctx context.Context, system string, messages []conversation.Message, defs []tools.Definition) (conversation.Message, error) {
	apiMessages, err := toAPIMessages(messages)
	if err != nil {
		return conversation.Message{}, err
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  apiMessages,
		Tools:     toAPITools(defs),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return conversation.Message{}, fmt.Errorf("anthropic api: %w", err)
	}

	c.log.Debug("inference complete",
		"model", resp.Model,
		"stop_reason", resp.StopReason,
		"blocks", len(resp.Content),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	return c.fromAPIContent(resp.Content), nil
}

func (c *Client) fromAPIContent(blocks []anthropic.ContentBlockUnion) conversation.Message {
	msg := conversation.Message{Role: conversation.RoleAssistant}
	for _, b := range blocks {
		switch b.Type {
		case "text":
			msg.Content = append(msg.Content, conversation.Text{Text: b.Text})
		case "tool_use":
			msg.Content = append(msg.Content, conversation.ToolUse{
				ID:    b.ID,
				Name:  b.Name,
				Input: append([]byte(nil), b.Input...),
			})
		default:
			c.log.Warn("skipping unsupported content block", "type", b.Type)
		}
	}
	return msg
}
