package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ardenfx/stagehand/pkg/ports"
	"github.com/charmbracelet/glamour"
)

type menuItem struct {
	label     string
	actionID  ports.ActionID
	separator bool
	submenu   *Menu
}

// Menu implements ports.Menu over a printable tree.
type Menu struct {
	title string
	items []menuItem
}

func (m *Menu) Title() string { return m.title }

func (m *Menu) AddMenu(title string) ports.Menu {
	sub := &Menu{title: title}
	m.items = append(m.items, menuItem{label: title, submenu: sub})
	return sub
}

func (m *Menu) AddAction(label string, id ports.ActionID) {
	m.items = append(m.items, menuItem{label: label, actionID: id})
}

func (m *Menu) AddSeparator() {
	m.items = append(m.items, menuItem{separator: true})
}

func (m *Menu) Clear() { m.items = nil }

func (m *Menu) markdown(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, item := range m.items {
		switch {
		case item.separator:
			// Separators have no textual rendering.
		case item.submenu != nil:
			fmt.Fprintf(b, "%s- **%s**\n", indent, item.submenu.title)
			item.submenu.markdown(b, depth+1)
		default:
			fmt.Fprintf(b, "%s- %s  `#%d`\n", indent, item.label, item.actionID)
		}
	}
}

// Sink implements ports.MenuSink for terminals. The menu tree renders as
// markdown; each action prints its id so it can be triggered from the
// CLI.
type Sink struct {
	out        io.Writer
	menus      []*Menu
	dispatcher func(ports.ActionID)
	render     func(string) (string, error)
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithSinkOutput redirects rendered output.
func WithSinkOutput(w io.Writer) SinkOption {
	return func(s *Sink) { s.out = w }
}

// NewSink creates a terminal menu sink.
func NewSink(opts ...SinkOption) *Sink {
	s := &Sink{out: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil || r == nil {
		s.render = func(md string) (string, error) { return md, nil }
	} else {
		s.render = r.Render
	}
	return s
}

func (s *Sink) FindMenu(title string) (ports.Menu, bool) {
	for _, m := range s.menus {
		if m.title == title {
			return m, true
		}
	}
	return nil, false
}

func (s *Sink) NewMenu(title string) ports.Menu {
	m := &Menu{title: title}
	s.menus = append(s.menus, m)
	return m
}

func (s *Sink) SetDispatcher(fn func(ports.ActionID)) {
	s.dispatcher = fn
}

// Trigger dispatches the action with the given id, as if it had been
// clicked.
func (s *Sink) Trigger(id ports.ActionID) {
	if s.dispatcher != nil {
		s.dispatcher(id)
	}
}

// Print renders the named menu tree to the sink's output.
func (s *Sink) Print(title string) error {
	m, ok := s.FindMenu(title)
	if !ok {
		return fmt.Errorf("no menu named %q", title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	m.(*Menu).markdown(&b, 0)

	rendered, err := s.render(b.String())
	if err != nil {
		// Fall back to the raw markdown rather than dropping the menu.
		rendered = b.String()
	}
	_, err = io.WriteString(s.out, rendered)
	return err
}
