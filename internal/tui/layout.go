package tui

import "auditor/internal/tasks"

// Command is a user action a TaskView can run. Menus, toolbar entries
// and key bindings all resolve to one.
type Command int

const (
	CmdNone Command = iota
	CmdNew
	CmdEdit
	CmdSelectAll
	CmdToggleSelect
	CmdDelete
	CmdCycleView
	CmdViewAll
	CmdViewCompleted
	CmdViewRemaining
	CmdPreferences
	CmdAbout
	CmdHelp
	CmdDetail
	CmdExport
	CmdImport
	CmdReport
	CmdSortNext
	CmdSortFlip
	CmdEditTitle
	CmdEditPriority
	CmdToggleDone
	CmdEditStart
	CmdEditEnd
	CmdReload
	CmdClose
)

// Field names a value shown in a column.
type Field int

const (
	FieldDone Field = iota
	FieldTitle
	FieldStart
	FieldEnd
	FieldPriority
)

type MenuItem struct {
	Label string
	Accel string // shown next to the label only
	Cmd   Command
}

type Menu struct {
	Title string
	Items []MenuItem
}

type ToolItem struct {
	Label string
	Cmd   Command
}

type Column struct {
	Title string
	Field Field
	Sort  tasks.SortColumn
	Width int
}

// Layout describes the chrome around the task table. Views copy the
// tables they are given and never modify them.
type Layout struct {
	Title       string
	Menus       []Menu
	Toolbar     []ToolItem
	Columns     []Column
	ShowHeaders bool
	StatusBar   bool
}

func (l Layout) clone() Layout {
	out := l
	out.Menus = make([]Menu, len(l.Menus))
	for i, m := range l.Menus {
		out.Menus[i] = Menu{Title: m.Title, Items: append([]MenuItem(nil), m.Items...)}
	}
	out.Toolbar = append([]ToolItem(nil), l.Toolbar...)
	out.Columns = append([]Column(nil), l.Columns...)
	return out
}

var defaultMenus = []Menu{
	{Title: "File", Items: []MenuItem{
		{"New task", "ctrl+n", CmdNew},
		{"Export archive", "E", CmdExport},
		{"Import archive", "I", CmdImport},
		{"Write report", "R", CmdReport},
		{"Reload", "ctrl+r", CmdReload},
		{"Quit", "ctrl+q", CmdClose},
	}},
	{Title: "Edit", Items: []MenuItem{
		{"Edit selected", "ctrl+e", CmdEdit},
		{"Select all", "ctrl+a", CmdSelectAll},
		{"Delete selected", "del", CmdDelete},
		{"Toggle done", "d", CmdToggleDone},
		{"Preferences", "ctrl+p", CmdPreferences},
	}},
	{Title: "View", Items: []MenuItem{
		{"Next view", "v", CmdCycleView},
		{"All tasks", "1", CmdViewAll},
		{"Completed tasks", "2", CmdViewCompleted},
		{"Remaining tasks", "3", CmdViewRemaining},
		{"Sort by next column", "s", CmdSortNext},
		{"Reverse sort", "S", CmdSortFlip},
	}},
	{Title: "Help", Items: []MenuItem{
		{"Contents", "F1", CmdHelp},
		{"About", "A", CmdAbout},
	}},
}

var defaultToolbar = []ToolItem{
	{"New task", CmdNew},
	{"Edit task", CmdEdit},
	{"Select all", CmdSelectAll},
	{"Delete task", CmdDelete},
}

var defaultColumns = []Column{
	{Title: "Done", Field: FieldDone, Sort: tasks.SortDone, Width: 4},
	{Title: "Title", Field: FieldTitle, Sort: tasks.SortTitle, Width: 32},
	{Title: "Beginning", Field: FieldStart, Sort: tasks.SortStart, Width: 24},
	{Title: "Completion", Field: FieldEnd, Sort: tasks.SortEnd, Width: 24},
	{Title: "Priority", Field: FieldPriority, Sort: tasks.SortPriority, Width: 9},
}

// DefaultLayout is the standalone window: menubar, toolbar, every column
// with headers and a status bar.
func DefaultLayout() Layout {
	return Layout{
		Title:       "Auditor",
		Menus:       defaultMenus,
		Toolbar:     defaultToolbar,
		Columns:     defaultColumns,
		ShowHeaders: true,
		StatusBar:   true,
	}.clone()
}

// EmbeddedLayout is the reduced plugin view: titles only, no headers.
func EmbeddedLayout() Layout {
	tb := append(append([]ToolItem(nil), defaultToolbar...), ToolItem{"Preferences", CmdPreferences})
	return Layout{
		Title:   "Tasks",
		Toolbar: tb,
		Columns: []Column{{Title: "Title", Field: FieldTitle, Sort: tasks.SortTitle, Width: 40}},
	}.clone()
}
