// Package terminal is the operator side of the chat: a line reader that
// honours cancellation and a printer for prompts, agent text and tool traces.
package terminal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type line struct {
	text string
	err  error
}

// Reader reads operator lines. A single goroutine pumps the underlying reader
// so ReadLine can return on context cancellation while a read is blocked.
type Reader struct {
	lines chan line
}

func NewReader(r io.Reader) *Reader {
	rd := &Reader{lines: make(chan line)}
	go rd.pump(r)
	return rd
}

func (r *Reader) pump(src io.Reader) {
	br := bufio.NewReader(src)
	for {
		text, err := br.ReadString('\n')
		if err != nil {
			if text != "" {
				r.lines <- line{text: strings.TrimSuffix(text, "\r")}
			}
			r.lines <- line{err: err}
			close(r.lines)
			return
		}
		text = strings.TrimSuffix(text, "\n")
		r.lines <- line{text: strings.TrimSuffix(text, "\r")}
	}
}

// ReadLine returns the next line without its line ending, io.EOF at end of
// input. Lines have no length limit.
func (r *Reader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

type Printer struct {
	w     io.Writer
	you   lipgloss.Style
	agent lipgloss.Style
	tool  lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		you:   r.NewStyle().Foreground(lipgloss.Color("12")),
		agent: r.NewStyle().Foreground(lipgloss.Color("11")),
		tool:  r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (p *Printer) Banner(model string) {
	fmt.Fprintf(p.w, "Chat with Claude (model: %s, use 'ctrl-c' to quit)\n", model)
}

func (p *Printer) Prompt() {
	fmt.Fprintf(p.w, "%s: ", p.you.Render("You"))
}

func (p *Printer) AgentText(text string) {
	fmt.Fprintf(p.w, "%s: %s\n", p.agent.Render("Claude"), text)
}

func (p *Printer) ToolCall(name string, input json.RawMessage) {
	args := string(input)
	if args == "" {
		args = "{}"
	}
	fmt.Fprintf(p.w, "%s: %s(%s)\n", p.tool.Render("tool"), name, args)
}
