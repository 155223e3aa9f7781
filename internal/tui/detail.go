package tui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"

	"auditor/internal/hooks"
	"auditor/internal/tasks"
	"auditor/internal/version"
)

const recentActivity = 10

// docView is a scrollable markdown page: task details, help or about.
type docView struct {
	title string
	raw   string
	vp    viewport.Model
}

func (c *core) showDoc(title, md string) {
	d := &docView{title: title, raw: md}
	d.resize(c.width, c.height)
	c.doc = d
}

func (d *docView) resize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	d.vp = viewport.New(width, max(3, height-3))
	d.vp.SetContent(renderMarkdown(d.raw, width))
}

func (d *docView) view() string {
	header := titleStyle.Render(d.title) + "  " + statusStyle.Render("(esc/q) back  (↑/↓ pgup/pgdown) scroll")
	return header + "\n\n" + d.vp.View()
}

func (c *core) handleDoc(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "h", "enter":
		c.doc = nil
		return nil
	}
	var cmd tea.Cmd
	c.doc.vp, cmd = c.doc.vp.Update(msg)
	return cmd
}

// renderMarkdown renders md for the terminal, falling back to the raw
// text when glamour cannot.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(max(20, width-4)))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// detailMarkdown describes one task. A renderTaskDetail hook may add
// sections of its own.
func detailMarkdown(r tasks.Row, env *hooks.HookEnv, debug bool) string {
	b := &strings.Builder{}
	title := r.Task.Title
	if title == "" {
		title = string(r.Handle)
	}
	fmt.Fprintf(b, "# %s\n\n", title)
	fmt.Fprintf(b, "- File: `%s`\n", r.Task.Filename())
	status := "open"
	if r.Task.Done {
		status = "done"
	}
	fmt.Fprintf(b, "- Status: %s\n", status)
	if r.Task.Priority != "" {
		fmt.Fprintf(b, "- Priority: %s\n", r.Task.Priority)
	}
	if r.DisplayStart != "" {
		fmt.Fprintf(b, "- Beginning: %s\n", r.DisplayStart)
	}
	if r.DisplayEnd != "" {
		fmt.Fprintf(b, "- Completion: %s\n", r.DisplayEnd)
	}
	if r.Label != r.Task.Title {
		fmt.Fprintf(b, "- Shown as: %s\n", r.Label)
	}

	if env != nil {
		if debug {
			log.Printf("[hooks] calling renderTaskDetail for %s", r.Handle)
		}
		if out, ok := env.CallExported("renderTaskDetail", r.HookValue()); ok {
			if m, ok := out.(map[string]any); ok {
				if secs, ok := m["sections"].([]any); ok {
					for _, sec := range secs {
						mm, ok := sec.(map[string]any)
						if !ok {
							continue
						}
						head, _ := mm["heading"].(string)
						body, _ := mm["body"].(string)
						if head != "" {
							fmt.Fprintf(b, "\n## %s\n\n", head)
						}
						if body != "" {
							fmt.Fprintf(b, "%s\n\n", body)
						}
					}
				}
			}
		}
	}
	return b.String()
}

func (c *core) aboutMarkdown() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "# %s\n\n", version.Banner())
	b.WriteString("A task and audit log kept as one file per task.\n\n")
	fmt.Fprintf(b, "- Task directory: `%s`\n", c.list.Dir())
	st := tasks.StatsOf(c.list.Rows())
	fmt.Fprintf(b, "- %d tasks, %d completed, %d remaining\n", st.Total, st.Completed, st.Remaining)
	if c.opts.hooks != nil {
		var active []string
		for _, name := range hooks.Names {
			if c.opts.hooks.Has(name) {
				active = append(active, name)
			}
		}
		if len(active) > 0 {
			fmt.Fprintf(b, "- Hooks: %s\n", strings.Join(active, ", "))
		}
	}
	if c.opts.activity == nil {
		return b.String()
	}
	entries, err := c.opts.activity.Recent(recentActivity)
	b.WriteString("\n## Recent activity\n\n")
	switch {
	case err != nil:
		fmt.Fprintf(b, "_Journal unavailable: %v_\n", err)
	case len(entries) == 0:
		b.WriteString("_Nothing recorded yet._\n")
	default:
		for _, e := range entries {
			title := tasks.CleanOneLine(e.Title, 60)
			if title == "" {
				title = string(e.Handle)
			}
			fmt.Fprintf(b, "- %s %s: %s\n", e.At.Local().Format("2006-01-02 15:04"), e.Action, title)
		}
	}
	return b.String()
}

func helpMarkdown(layout Layout) string {
	b := &strings.Builder{}
	b.WriteString("# Keys\n\n")
	b.WriteString("| Key | Action |\n|---|---|\n")
	for _, k := range []struct{ keys, help string }{
		{keys.up.Help().Key, "move up"},
		{keys.down.Help().Key, "move down"},
		{keys.pgUp.Help().Key + " / " + keys.pgDown.Help().Key, "page up / down"},
		{keys.top.Help().Key + " / " + keys.bottom.Help().Key, "first / last task"},
	} {
		fmt.Fprintf(b, "| `%s` | %s |\n", k.keys, k.help)
	}
	if len(layout.Menus) > 0 {
		fmt.Fprintf(b, "| `%s` | open the menu bar |\n", keys.menu.Help().Key)
	}
	for _, kb := range keys.commands {
		k := strings.Join(kb.Keys(), " ")
		if k == " " {
			k = "space"
		}
		fmt.Fprintf(b, "| `%s` | %s |\n", k, kb.Help().Desc)
	}
	b.WriteString("\n## Views\n\n")
	b.WriteString("`v` cycles All, Completed and Remaining tasks. `s` picks the sort column and `S` reverses it.\n")
	b.WriteString("\n## Dates\n\n")
	fmt.Fprintf(b, "Dates are typed as `%s` or `2006-01-02`. `now` means the current time and an empty value clears the date.\n", editLayout)
	return b.String()
}
