package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"auditor/internal/tasks"
)

// Embedded is the reduced view a host application places in its plugin
// slot: titles only, no headers and no menubar.
type Embedded struct {
	*core
	items list.Model
}

var _ TaskView = (*Embedded)(nil)

type item struct {
	row      tasks.Row
	selected bool
}

func (i item) Title() string {
	t := cellText(i.row, FieldTitle)
	if i.row.Task.Done {
		t = "✓ " + t
	}
	if i.selected {
		return selectedPrefix() + t
	}
	return t
}

func (i item) Description() string { return "" }

func (i item) FilterValue() string { return i.row.Task.Title }

func NewEmbedded(tl *tasks.List, layout Layout, opts ...Option) *Embedded {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)
	lm := list.New(nil, d, 0, 0)
	lm.Title = layout.Title
	lm.SetShowTitle(layout.Title != "")
	lm.SetShowStatusBar(false)
	lm.SetFilteringEnabled(false)
	lm.SetShowHelp(false)
	lm.DisableQuitKeybindings()
	return &Embedded{core: newCore(tl, layout, opts, false), items: lm}
}

func (e *Embedded) List() *tasks.List { return e.list }

func (e *Embedded) Close() error { return e.close() }

func (e *Embedded) Init() tea.Cmd { return e.init() }

func (e *Embedded) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := e.update(msg)
	e.sync()
	return e, cmd
}

func (e *Embedded) sync() {
	its := make([]list.Item, 0, len(e.rows))
	for _, r := range e.rows {
		its = append(its, item{row: r, selected: e.selected[r.Handle]})
	}
	e.items.SetItems(its)
	w, h := e.width, e.height-4
	if w <= 0 {
		w = 40
	}
	e.items.SetSize(w, max(3, h))
	e.items.Select(e.cursor)
}

func (e *Embedded) View() string {
	if e.doc != nil {
		return e.doc.view()
	}
	var parts []string
	if len(e.layout.Toolbar) > 0 {
		parts = append(parts, toolbar(e.layout.Toolbar))
	}
	switch {
	case e.loading:
		parts = append(parts, e.loadingView())
	case len(e.rows) == 0:
		parts = append(parts, statusStyle.Render("No tasks"))
	default:
		parts = append(parts, e.items.View())
	}
	if m := e.modal(); m != "" {
		parts = append(parts, m)
	}
	if e.status != "" {
		parts = append(parts, statusStyle.Render(e.status))
	}
	parts = append(parts, e.helpView())
	return strings.Join(parts, "\n")
}
