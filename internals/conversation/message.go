// Package conversation holds the message model exchanged with the model and
// the append-only log that forms the inference context.
package conversation

import "encoding/json"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Block is one unit of message content. The set of implementations is closed.
type Block interface {
	blockType() string
}

type Text struct {
	Text string
}

// ToolUse is a model request to run a tool. ID correlates it with exactly one
// ToolResult in the following user message.
type ToolUse struct {
	ID    string
	Name  string
	Input json.RawMessage
}

type ToolResult struct {
	ToolUseID string
	Content   string
	IsError   bool
}

func (Text) blockType() string       { return "text" }
func (ToolUse) blockType() string    { return "tool_use" }
func (ToolResult) blockType() string { return "tool_result" }

type Message struct {
	Role    Role
	Content []Block
}

func UserText(text string) Message {
	return Message{Role: RoleUser, Content: []Block{Text{Text: text}}}
}

func UserResults(results []ToolResult) Message {
	blocks := make([]Block, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, r)
	}
	return Message{Role: RoleUser, Content: blocks}
}

// ToolUses returns the tool-use blocks of m in order.
func (m Message) ToolUses() []ToolUse {
	var out []ToolUse
	for _, b := range m.Content {
		if tu, ok := b.(ToolUse); ok {
			out = append(out, tu)
		}
	}
	return out
}

func (m Message) Texts() []string {
	var out []string
	for _, b := range m.Content {
		if t, ok := b.(Text); ok {
			out = append(out, t.Text)
		}
	}
	return out
}

func (m Message) clone() Message {
	c := Message{Role: m.Role, Content: make([]Block, len(m.Content))}
	copy(c.Content, m.Content)
	return c
}
