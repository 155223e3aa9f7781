package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"auditor/internal/config"
	"auditor/internal/tasks"
)

// editLayout is the form dates are offered in for editing.
const editLayout = "2006-01-02 15:04"

type promptKind int

const (
	promptTitle promptKind = iota
	promptPriority
	promptStart
	promptEnd
	promptExport
	promptImport
	promptReport
)

var promptLabels = map[promptKind]string{
	promptTitle:    "Title",
	promptPriority: "Priority (tab completes)",
	promptStart:    "Beginning (" + editLayout + ", now, or empty)",
	promptEnd:      "Completion (" + editLayout + ", now, or empty)",
	promptExport:   "Export archive to",
	promptImport:   "Import archive from",
	promptReport:   "Write report to",
}

type prompt struct {
	kind   promptKind
	handle tasks.Handle
	input  textinput.Model

	// priority completion state
	prefix     string
	completing bool
}

func (c *core) openPrompt(kind promptKind, h tasks.Handle, value string) tea.Cmd {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Prompt = "> "
	ti.SetValue(value)
	ti.CursorEnd()
	c.prompt = &prompt{kind: kind, handle: h, input: ti}
	return c.prompt.input.Focus()
}

func (p *prompt) view() string {
	return promptStyle.Render(promptLabels[p.kind] + "\n" + p.input.View() + "\n(enter to apply, esc to cancel)")
}

func (c *core) handlePrompt(msg tea.KeyMsg) tea.Cmd {
	p := c.prompt
	switch msg.String() {
	case "esc", "ctrl+c":
		c.prompt = nil
		return nil
	case "enter":
		c.prompt = nil
		return c.submitPrompt(p)
	case "tab":
		if p.kind == promptPriority {
			if !p.completing {
				p.prefix = p.input.Value()
				p.completing = true
			}
			p.input.SetValue(tasks.CompletePriority(p.prefix, p.input.Value()))
			p.input.CursorEnd()
		}
		return nil
	}
	p.completing = false
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (c *core) submitPrompt(p *prompt) tea.Cmd {
	v := p.input.Value()
	switch p.kind {
	case promptTitle:
		c.apply(c.list.SetTitle(p.handle, v))
	case promptPriority:
		c.apply(c.list.SetPriority(p.handle, strings.TrimSpace(v)))
	case promptStart, promptEnd:
		at, err := parseWhen(v, c.opts.dateFormat, c.now())
		if err != nil {
			c.fail(err)
			return nil
		}
		if p.kind == promptStart {
			c.apply(c.list.SetStart(p.handle, at))
		} else {
			c.apply(c.list.SetEnd(p.handle, at))
		}
	case promptExport:
		rows := c.targetRows()
		if len(rows) == 0 {
			c.status = "Nothing to export"
			return nil
		}
		c.status = fmt.Sprintf("Exporting %d tasks...", len(rows))
		return exportTasksCmd(rows, expandPath(v))
	case promptImport:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return importArchiveCmd(expandPath(v), c.list.Dir())
	case promptReport:
		return writeReportCmd(append([]tasks.Row(nil), c.rows...), c.mode, expandPath(v))
	}
	return nil
}

var formLabels = []string{"Title", "Priority", "Beginning", "Completion"}

// editForm edits every field of the queued tasks, one task at a time.
type editForm struct {
	queue  []tasks.Handle
	handle tasks.Handle
	field  int
	inputs []textinput.Model
	done   int
}

func (c *core) editSelected() tea.Cmd {
	hs := c.targets()
	if len(hs) == 0 {
		c.status = "Nothing selected"
		return nil
	}
	f := &editForm{queue: hs}
	for range formLabels {
		ti := textinput.New()
		ti.CharLimit = 512
		ti.Prompt = ""
		f.inputs = append(f.inputs, ti)
	}
	c.form = f
	return c.nextFormTask()
}

func (c *core) nextFormTask() tea.Cmd {
	f := c.form
	for len(f.queue) > 0 {
		h := f.queue[0]
		f.queue = f.queue[1:]
		r, ok := c.list.Row(h)
		if !ok {
			continue
		}
		f.handle = h
		vals := []string{r.Task.Title, r.Task.Priority, editValue(r.Task.Start), editValue(r.Task.End)}
		for i := range f.inputs {
			f.inputs[i].SetValue(vals[i])
			f.inputs[i].CursorEnd()
		}
		return f.focus(0)
	}
	c.status = fmt.Sprintf("Edited %d task(s)", f.done)
	c.form = nil
	return nil
}

func (f *editForm) focus(i int) tea.Cmd {
	n := len(f.inputs)
	f.field = (i%n + n) % n
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	return f.inputs[f.field].Focus()
}

func (c *core) handleForm(msg tea.KeyMsg) tea.Cmd {
	f := c.form
	switch msg.String() {
	case "esc", "ctrl+c":
		c.form = nil
		c.status = "Edit canceled"
		return nil
	case "tab", "down":
		return f.focus(f.field + 1)
	case "shift+tab", "up":
		return f.focus(f.field - 1)
	case "enter":
		err := c.applyForm()
		c.refresh()
		if err != nil {
			c.form = nil
			c.fail(err)
			return nil
		}
		f.done++
		return c.nextFormTask()
	}
	var cmd tea.Cmd
	f.inputs[f.field], cmd = f.inputs[f.field].Update(msg)
	return cmd
}

// applyForm saves the fields that changed.
func (c *core) applyForm() error {
	f := c.form
	r, ok := c.list.Row(f.handle)
	if !ok {
		return nil
	}
	var errs []error
	if v := f.inputs[0].Value(); v != r.Task.Title {
		errs = append(errs, c.list.SetTitle(f.handle, v))
	}
	if v := strings.TrimSpace(f.inputs[1].Value()); v != r.Task.Priority {
		errs = append(errs, c.list.SetPriority(f.handle, v))
	}
	if v := f.inputs[2].Value(); v != editValue(r.Task.Start) {
		at, err := parseWhen(v, c.opts.dateFormat, c.now())
		if err == nil {
			err = c.list.SetStart(f.handle, at)
		}
		errs = append(errs, err)
	}
	if v := f.inputs[3].Value(); v != editValue(r.Task.End) {
		at, err := parseWhen(v, c.opts.dateFormat, c.now())
		if err == nil {
			err = c.list.SetEnd(f.handle, at)
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (f *editForm) view() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Edit %s", f.handle)
	if len(f.queue) > 0 {
		fmt.Fprintf(&b, " (%d more)", len(f.queue))
	}
	b.WriteString("\n\n")
	for i, label := range formLabels {
		marker := "  "
		if i == f.field {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%-11s %s\n", marker, label, f.inputs[i].View())
	}
	b.WriteString("\n(tab next field, enter save, esc cancel)")
	return promptStyle.Render(b.String())
}

func editValue(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return at.Local().Format(editLayout)
}

// parseWhen reads a date typed by the user. Empty clears the date.
func parseWhen(s, displayLayout string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if strings.EqualFold(s, "now") {
		return now, nil
	}
	for _, layout := range []string{editLayout, "2006-01-02", time.RFC3339, displayLayout} {
		if at, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot read %q as a date, use %s", s, editLayout)
}

func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(config.UserHome(), p[2:])
	}
	return p
}
