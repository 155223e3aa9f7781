package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"auditor/internal/tasks"
)

// Shell is the standalone window: menubar, toolbar, a table with one
// column per layout column, and a status bar.
type Shell struct {
	*core
	table table.Model
}

var _ TaskView = (*Shell)(nil)

func NewShell(list *tasks.List, layout Layout, opts ...Option) *Shell {
	s := &Shell{core: newCore(list, layout, opts, true)}
	st := table.DefaultStyles()
	st.Header = st.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(subtle).BorderBottom(true).Bold(true)
	st.Selected = st.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Bold(false)
	s.table = table.New(table.WithColumns(s.columns()), table.WithFocused(true), table.WithHeight(10))
	s.table.SetStyles(st)
	return s
}

func (s *Shell) List() *tasks.List { return s.list }

func (s *Shell) Close() error { return s.close() }

func (s *Shell) Init() tea.Cmd { return s.init() }

func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := s.update(msg)
	s.sync()
	return s, cmd
}

// sync pushes the projected rows into the table. The table never sees
// key messages; the cursor belongs to the core.
func (s *Shell) sync() {
	s.table.SetColumns(s.columns())
	rows := make([]table.Row, 0, len(s.rows))
	for _, r := range s.rows {
		tr := make(table.Row, 0, len(s.layout.Columns))
		for _, col := range s.layout.Columns {
			v := cellText(r, col.Field)
			if col.Field == FieldTitle && s.selected[r.Handle] {
				v = "» " + v
			}
			tr = append(tr, v)
		}
		rows = append(rows, tr)
	}
	s.table.SetRows(rows)
	if s.width > 0 {
		s.table.SetWidth(s.width)
	}
	s.table.SetHeight(max(3, s.height-s.chromeHeight()))
	s.table.SetCursor(s.cursor)
}

func (s *Shell) chromeHeight() int {
	h := 2 // status line and gap
	if len(s.layout.Menus) > 0 {
		h++
	}
	if len(s.layout.Toolbar) > 0 {
		h += 2
	}
	if s.layout.ShowHeaders {
		h += 2
	}
	if m := s.modal(); m != "" {
		h += lipgloss.Height(m)
	}
	if s.menu.open {
		h += len(s.layout.Menus[s.menu.menu].Items) + 2
	}
	return h
}

func (s *Shell) columns() []table.Column {
	cols := make([]table.Column, 0, len(s.layout.Columns))
	for _, c := range s.layout.Columns {
		title := ""
		if s.layout.ShowHeaders {
			title = c.Title
			if c.Sort != tasks.SortNone && c.Sort == s.sort.Column {
				if s.sort.Descending {
					title += " ▼"
				} else {
					title += " ▲"
				}
			}
		}
		cols = append(cols, table.Column{Title: title, Width: c.Width})
	}
	return cols
}

func (s *Shell) View() string {
	if s.doc != nil {
		return s.doc.view()
	}
	var parts []string
	if len(s.layout.Menus) > 0 {
		parts = append(parts, s.menubar())
		if s.menu.open {
			parts = append(parts, s.dropdown())
		}
	}
	if len(s.layout.Toolbar) > 0 {
		parts = append(parts, toolbar(s.layout.Toolbar))
	}
	if s.loading {
		parts = append(parts, s.loadingView())
		return strings.Join(parts, "\n")
	}
	if len(s.rows) == 0 {
		parts = append(parts, statusStyle.Render("No tasks. Press ctrl+n to create one."))
	} else {
		parts = append(parts, s.table.View())
	}
	if m := s.modal(); m != "" {
		parts = append(parts, m)
	}
	if s.layout.StatusBar {
		parts = append(parts, s.statusLine())
	}
	return strings.Join(parts, "\n")
}

func (s *Shell) menubar() string {
	items := []string{titleStyle.Render(s.layout.Title)}
	for i, m := range s.layout.Menus {
		if s.menu.open && i == s.menu.menu {
			items = append(items, menuOpenStyle.Render(m.Title))
		} else {
			items = append(items, menuStyle.Render(m.Title))
		}
	}
	items = append(items, statusStyle.Render("(f10 menu)"))
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (s *Shell) dropdown() string {
	m := s.layout.Menus[s.menu.menu]
	lines := make([]string, 0, len(m.Items))
	for i, it := range m.Items {
		line := padRight(it.Label, 22) + statusStyle.Render(it.Accel)
		if i == s.menu.item {
			line = menuOpenStyle.Render(padRight(it.Label, 22) + it.Accel)
		}
		lines = append(lines, line)
	}
	return dropdownStyle.Render(strings.Join(lines, "\n"))
}

func toolbar(items []ToolItem) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		label := it.Label
		if b, ok := keys.binding(it.Cmd); ok {
			label += " (" + b.Help().Key + ")"
		}
		out = append(out, toolStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func cellText(r tasks.Row, f Field) string {
	switch f {
	case FieldDone:
		if r.Task.Done {
			return "[x]"
		}
		return "[ ]"
	case FieldTitle:
		if r.Label == "" {
			return string(r.Handle)
		}
		return r.Label
	case FieldStart:
		return r.DisplayStart
	case FieldEnd:
		return r.DisplayEnd
	case FieldPriority:
		return r.Task.Priority
	}
	return ""
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s + " "
}
