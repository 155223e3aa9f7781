package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type binding struct {
	key.Binding
	cmd Command
}

type keymap struct {
	up, down, pgUp, pgDown, top, bottom key.Binding
	menu                                key.Binding
	commands                            []binding
}

func newKeymap() keymap {
	b := func(cmd Command, help string, keys ...string) binding {
		return binding{key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help)), cmd}
	}
	return keymap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		pgUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		pgDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdown", "page down")),
		top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		menu:   key.NewBinding(key.WithKeys("f10"), key.WithHelp("f10", "menu")),
		commands: []binding{
			b(CmdNew, "new", "ctrl+n", "n"),
			b(CmdEdit, "edit", "ctrl+e", "e"),
			b(CmdSelectAll, "select all", "ctrl+a"),
			b(CmdToggleSelect, "toggle select", " "),
			b(CmdDelete, "delete", "delete", "x"),
			b(CmdCycleView, "next view", "v"),
			b(CmdViewAll, "all", "1"),
			b(CmdViewCompleted, "completed", "2"),
			b(CmdViewRemaining, "remaining", "3"),
			b(CmdPreferences, "preferences", "ctrl+p"),
			b(CmdHelp, "help", "f1", "?"),
			b(CmdAbout, "about", "A"),
			b(CmdDetail, "details", "enter"),
			b(CmdExport, "export zip", "E"),
			b(CmdImport, "import zip", "I"),
			b(CmdReport, "report", "R"),
			b(CmdSortNext, "sort column", "s"),
			b(CmdSortFlip, "reverse sort", "S"),
			b(CmdEditTitle, "title", "t"),
			b(CmdEditPriority, "priority", "p"),
			b(CmdToggleDone, "done", "d"),
			b(CmdEditStart, "beginning", "b"),
			b(CmdEditEnd, "completion", "c"),
			b(CmdReload, "reload", "ctrl+r"),
			b(CmdClose, "quit", "q", "ctrl+q", "ctrl+c"),
		},
	}
}

var keys = newKeymap()

func (k keymap) lookup(msg tea.KeyMsg) Command {
	for _, b := range k.commands {
		if key.Matches(msg, b.Binding) {
			return b.cmd
		}
	}
	return CmdNone
}

func (k keymap) binding(cmd Command) (key.Binding, bool) {
	for _, b := range k.commands {
		if b.cmd == cmd {
			return b.Binding, true
		}
	}
	return key.Binding{}, false
}

// ShortHelp implements help.KeyMap.
func (k keymap) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, c := range []Command{CmdNew, CmdEdit, CmdDelete, CmdToggleDone, CmdCycleView, CmdHelp, CmdClose} {
		if b, ok := k.binding(c); ok {
			out = append(out, b)
		}
	}
	return out
}

// FullHelp implements help.KeyMap.
func (k keymap) FullHelp() [][]key.Binding {
	cols := [][]key.Binding{{k.up, k.down, k.pgUp, k.pgDown, k.top, k.bottom, k.menu}}
	var col []key.Binding
	for _, b := range k.commands {
		col = append(col, b.Binding)
		if len(col) == 7 {
			cols = append(cols, col)
			col = nil
		}
	}
	if len(col) > 0 {
		cols = append(cols, col)
	}
	return cols
}
