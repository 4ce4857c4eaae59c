package hostmock

import "github.com/ardenfx/stagehand/pkg/ports"

// MenuItem is one recorded entry in a mock menu: an action, a separator,
// or a nested submenu.
type MenuItem struct {
	Label     string
	ActionID  ports.ActionID
	Separator bool
	Submenu   *Menu
}

// Menu implements ports.Menu over an inspectable tree.
type Menu struct {
	MenuTitle string
	Items     []MenuItem
}

func (m *Menu) Title() string { return m.MenuTitle }

func (m *Menu) AddMenu(title string) ports.Menu {
	sub := &Menu{MenuTitle: title}
	m.Items = append(m.Items, MenuItem{Label: title, Submenu: sub})
	return sub
}

func (m *Menu) AddAction(label string, id ports.ActionID) {
	m.Items = append(m.Items, MenuItem{Label: label, ActionID: id})
}

func (m *Menu) AddSeparator() {
	m.Items = append(m.Items, MenuItem{Separator: true})
}

func (m *Menu) Clear() { m.Items = nil }

// Submenu returns the nested menu with the given title, if present.
func (m *Menu) Submenu(title string) *Menu {
	for _, item := range m.Items {
		if item.Submenu != nil && item.Submenu.MenuTitle == title {
			return item.Submenu
		}
	}
	return nil
}

// Actions returns the labels of direct (non-submenu) action entries.
func (m *Menu) Actions() []string {
	var out []string
	for _, item := range m.Items {
		if item.Submenu == nil && !item.Separator {
			out = append(out, item.Label)
		}
	}
	return out
}

// MenuSink implements ports.MenuSink over mock menus.
type MenuSink struct {
	Menus      []*Menu
	Dispatcher func(ports.ActionID)
}

func (s *MenuSink) FindMenu(title string) (ports.Menu, bool) {
	for _, m := range s.Menus {
		if m.MenuTitle == title {
			return m, true
		}
	}
	return nil, false
}

func (s *MenuSink) NewMenu(title string) ports.Menu {
	m := &Menu{MenuTitle: title}
	s.Menus = append(s.Menus, m)
	return m
}

func (s *MenuSink) SetDispatcher(fn func(ports.ActionID)) {
	s.Dispatcher = fn
}

// Trigger simulates the host firing the action with the given id.
func (s *MenuSink) Trigger(id ports.ActionID) {
	if s.Dispatcher != nil {
		s.Dispatcher(id)
	}
}

// Root returns the first top-level menu with the given title.
func (s *MenuSink) Root(title string) *Menu {
	m, ok := s.FindMenu(title)
	if !ok {
		return nil
	}
	return m.(*Menu)
}
