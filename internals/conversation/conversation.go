package conversation

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRole       = errors.New("invalid role")
	ErrEmptyMessage      = errors.New("message has no content")
	ErrMisplacedBlock    = errors.New("block not allowed for role")
	ErrDuplicateToolUse  = errors.New("duplicate tool_use id")
	ErrUnresolvedToolUse = errors.New("tool_use without result")
	ErrUnknownToolUse    = errors.New("tool_result references unknown tool_use")
	ErrDuplicateResult   = errors.New("duplicate tool_result")
	ErrInvalidToolUse    = errors.New("invalid tool_use")
)

// Conversation is the ordered, append-only message log sent to inference.
// Every tool use in an assistant message must be answered by exactly one
// result in the very next message, which must be a user message.
type Conversation struct {
	messages []Message
	seen     map[string]struct{}
	pending  []string
}

func New() *Conversation {
	return &Conversation{seen: make(map[string]struct{})}
}

func (c *Conversation) Append(m Message) error {
	if len(m.Content) == 0 {
		return fmt.Errorf("append %s message: %w", m.Role, ErrEmptyMessage)
	}

	switch m.Role {
	case RoleAssistant:
		if err := c.checkAssistant(m); err != nil {
			return err
		}
	case RoleUser:
		if err := c.checkUser(m); err != nil {
			return err
		}
	default:
		return fmt.Errorf("append message: %w %q", ErrInvalidRole, m.Role)
	}

	c.messages = append(c.messages, m.clone())

	if m.Role == RoleAssistant {
		for _, tu := range m.ToolUses() {
			c.seen[tu.ID] = struct{}{}
			c.pending = append(c.pending, tu.ID)
		}
	} else {
		c.pending = nil
	}
	return nil
}

func (c *Conversation) checkAssistant(m Message) error {
	if len(c.pending) > 0 {
		return fmt.Errorf("append assistant message: %w: %v", ErrUnresolvedToolUse, c.pending)
	}
	ids := make(map[string]struct{})
	for i, b := range m.Content {
		switch b := b.(type) {
		case ToolResult:
			return fmt.Errorf("assistant block %d: %w: tool_result", i, ErrMisplacedBlock)
		case ToolUse:
			if b.ID == "" {
				return fmt.Errorf("assistant block %d: %w: empty id", i, ErrInvalidToolUse)
			}
			_, dup := ids[b.ID]
			_, old := c.seen[b.ID]
			if dup || old {
				return fmt.Errorf("assistant block %d: %w %q", i, ErrDuplicateToolUse, b.ID)
			}
			ids[b.ID] = struct{}{}
		}
	}
	return nil
}

func (c *Conversation) checkUser(m Message) error {
	want := make(map[string]bool, len(c.pending))
	for _, id := range c.pending {
		want[id] = false
	}
	for i, b := range m.Content {
		switch b := b.(type) {
		case ToolUse:
			return fmt.Errorf("user block %d: %w: tool_use", i, ErrMisplacedBlock)
		case ToolResult:
			answered, ok := want[b.ToolUseID]
			if !ok {
				return fmt.Errorf("user block %d: %w %q", i, ErrUnknownToolUse, b.ToolUseID)
			}
			if answered {
				return fmt.Errorf("user block %d: %w %q", i, ErrDuplicateResult, b.ToolUseID)
			}
			want[b.ToolUseID] = true
		}
	}
	for _, id := range c.pending {
		if !want[id] {
			return fmt.Errorf("append user message: %w %q", ErrUnresolvedToolUse, id)
		}
	}
	return nil
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.clone()
	}
	return out
}

// Pending returns the tool-use ids of the last assistant message that have
// no result yet.
func (c *Conversation) Pending() []string {
	return append([]string(nil), c.pending...)
}

func (c *Conversation) Len() int { return len(c.messages) }
