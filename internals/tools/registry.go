// Package tools holds the fixed set of local capabilities the model may call
// and the invoker that turns a tool_use block into a tool_result block.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownTool     = errors.New("unknown tool")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

type Tool interface {
	Name() string
	Description() string
	Schema() Schema
	Execute(ctx context.Context, input json.RawMessage) (string, error)
}

// Schema describes a tool's object-typed input.
type Schema struct {
	Properties map[string]Property
	Required   []string
}

type Property struct {
	Type        string
	Description string
}

// Definition is what gets advertised to the model. It never carries the action.
type Definition struct {
	Name        string
	Description string
	Schema      Schema
}

type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry builds a registry over a fixed tool set. Names must be unique.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("register tool: empty name")
		}
		if _, ok := r.tools[name]; ok {
			return nil, fmt.Errorf("register tool: duplicate name %q", name)
		}
		r.tools[name] = t
		r.order = append(r.order, name)
	}
	return r, nil
}

func (r *Registry) Lookup(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// Definitions returns the advertised view of every tool in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			Schema:      t.Schema(),
		})
	}
	return out
}

func decodeInput(name string, raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: decode %s input: %s", ErrInvalidArgument, name, err)
	}
	return nil
}
