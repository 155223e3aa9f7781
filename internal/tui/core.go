package tui

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"auditor/internal/config"
	"auditor/internal/hooks"
	"auditor/internal/journal"
	"auditor/internal/tasks"
)

// TaskView is a bubbletea model presenting one task list. The view owns
// the list and closes it from Close.
type TaskView interface {
	tea.Model
	List() *tasks.List
	Close() error
}

// ActivitySource feeds the "Recent activity" part of the about box.
type ActivitySource interface {
	Recent(n int) ([]journal.Entry, error)
}

type options struct {
	exportDir  string
	dateFormat string
	activity   ActivitySource
	hooks      *hooks.HookEnv
	debug      bool
}

type Option func(*options)

func WithExportDir(dir string) Option { return func(o *options) { o.exportDir = dir } }

// WithDateFormat must match the layout the list renders with so edited
// dates can be read back in that form.
func WithDateFormat(layout string) Option {
	return func(o *options) {
		if layout != "" {
			o.dateFormat = layout
		}
	}
}

func WithActivity(src ActivitySource) Option { return func(o *options) { o.activity = src } }

func WithHooks(env *hooks.HookEnv) Option { return func(o *options) { o.hooks = env } }

func WithDebug(on bool) Option { return func(o *options) { o.debug = on } }

type startupMsg struct{}

type menuState struct {
	open       bool
	menu, item int
}

// core is the presenter shared by the shell and the embedded view. It
// holds the view state, runs commands against the list and renders the
// modal parts; hosts only draw the rows.
type core struct {
	list   *tasks.List
	layout Layout
	opts   options

	mode     tasks.ViewMode
	sort     tasks.SortSpec
	rows     []tasks.Row
	cursor   int
	selected map[tasks.Handle]bool

	width, height int
	loading       bool
	spin          spinner.Model
	help          help.Model
	status        string

	errText string
	confirm []tasks.Handle
	prompt  *prompt
	form    *editForm
	doc     *docView
	menu    menuState

	allowQuit bool
	closed    bool
	now       func() time.Time
}

func newCore(list *tasks.List, layout Layout, opts []Option, allowQuit bool) *core {
	o := options{dateFormat: config.DefaultDateFormat}
	for _, fn := range opts {
		fn(&o)
	}
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	return &core{
		list:      list,
		layout:    layout.clone(),
		opts:      o,
		selected:  map[tasks.Handle]bool{},
		loading:   true,
		spin:      sp,
		help:      help.New(),
		allowQuit: allowQuit,
		now:       time.Now,
	}
}

// init defers the first reload to a message so it runs inside Update
// once the first frame is on screen.
func (c *core) init() tea.Cmd {
	return tea.Batch(c.spin.Tick, func() tea.Msg { return startupMsg{} })
}

func (c *core) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width, c.height = msg.Width, msg.Height
		c.help.Width = msg.Width
		if c.doc != nil {
			c.doc.resize(c.width, c.height)
		}
		return nil
	case startupMsg:
		c.loading = false
		c.reload()
		return nil
	case spinner.TickMsg:
		if !c.loading {
			return nil
		}
		var cmd tea.Cmd
		c.spin, cmd = c.spin.Update(msg)
		return cmd
	case exportProgressMsg:
		c.status = fmt.Sprintf("Exporting %d/%d...", msg.current, msg.total)
		return waitForJob(msg.next)
	case exportDoneMsg:
		if msg.err != nil {
			c.fail(fmt.Errorf("export failed: %w", msg.err))
			return nil
		}
		if ap, _ := filepath.Abs(msg.path); ap != "" {
			msg.path = ap
		}
		c.status = fmt.Sprintf("Exported %d tasks to %s", msg.count, msg.path)
		return nil
	case importDoneMsg:
		c.reload()
		if msg.err != nil {
			c.fail(fmt.Errorf("import from %s: %w", msg.path, msg.err))
			return nil
		}
		c.status = fmt.Sprintf("Imported %d tasks from %s", msg.count, msg.path)
		return nil
	case reportDoneMsg:
		if msg.err != nil {
			c.fail(fmt.Errorf("report failed: %w", msg.err))
			return nil
		}
		c.status = "Report written to " + msg.path
		return nil
	case tea.KeyMsg:
		return c.handleKey(msg)
	}
	return nil
}

func (c *core) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case c.errText != "":
		c.errText = ""
		return nil
	case c.confirm != nil:
		return c.handleConfirm(msg)
	case c.prompt != nil:
		return c.handlePrompt(msg)
	case c.form != nil:
		return c.handleForm(msg)
	case c.doc != nil:
		return c.handleDoc(msg)
	case c.menu.open:
		return c.handleMenu(msg)
	case c.loading:
		if msg.String() == "ctrl+c" {
			return c.run(CmdClose)
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.up):
		c.move(-1)
	case key.Matches(msg, keys.down):
		c.move(1)
	case key.Matches(msg, keys.pgUp):
		c.move(-c.pageSize())
	case key.Matches(msg, keys.pgDown):
		c.move(c.pageSize())
	case key.Matches(msg, keys.top):
		c.cursor = 0
	case key.Matches(msg, keys.bottom):
		c.cursor = max(0, len(c.rows)-1)
	case key.Matches(msg, keys.menu):
		if len(c.layout.Menus) > 0 {
			c.menu = menuState{open: true}
		}
	default:
		return c.run(keys.lookup(msg))
	}
	return nil
}

// run executes one command. Every list operation happens here, inside
// Update; returned commands only do file work that never touches the
// list and report back with a message.
func (c *core) run(cmd Command) tea.Cmd {
	switch cmd {
	case CmdNew:
		return c.newTask()
	case CmdEdit:
		return c.editSelected()
	case CmdSelectAll:
		for _, r := range c.rows {
			c.selected[r.Handle] = true
		}
		c.status = fmt.Sprintf("%d selected", len(c.selected))
	case CmdToggleSelect:
		if r, ok := c.current(); ok {
			if c.selected[r.Handle] {
				delete(c.selected, r.Handle)
			} else {
				c.selected[r.Handle] = true
			}
		}
	case CmdDelete:
		c.askDelete()
	case CmdCycleView:
		c.setView(c.mode.Next())
	case CmdViewAll:
		c.setView(tasks.ViewAll)
	case CmdViewCompleted:
		c.setView(tasks.ViewCompleted)
	case CmdViewRemaining:
		c.setView(tasks.ViewRemaining)
	case CmdPreferences:
		c.status = "Preferences are not available yet"
	case CmdAbout:
		c.showDoc("About", c.aboutMarkdown())
	case CmdHelp:
		c.showDoc("Help", helpMarkdown(c.layout))
	case CmdDetail:
		if r, ok := c.current(); ok {
			c.showDoc(r.Label, detailMarkdown(r, c.opts.hooks, c.opts.debug))
		}
	case CmdExport:
		return c.openPrompt(promptExport, "", c.defaultPath("auditor-tasks", ".zip"))
	case CmdImport:
		return c.openPrompt(promptImport, "", "")
	case CmdReport:
		return c.openPrompt(promptReport, "", c.defaultPath("auditor-report", ".md"))
	case CmdSortNext:
		c.sort.Column = c.sort.Column.Next()
		c.refresh()
		c.status = "Sorted by " + c.sort.Column.String()
	case CmdSortFlip:
		c.sort.Descending = !c.sort.Descending
		c.refresh()
	case CmdEditTitle:
		if r, ok := c.current(); ok {
			return c.openPrompt(promptTitle, r.Handle, r.Task.Title)
		}
	case CmdEditPriority:
		if r, ok := c.current(); ok {
			return c.openPrompt(promptPriority, r.Handle, r.Task.Priority)
		}
	case CmdEditStart:
		if r, ok := c.current(); ok {
			return c.openPrompt(promptStart, r.Handle, editValue(r.Task.Start))
		}
	case CmdEditEnd:
		if r, ok := c.current(); ok {
			return c.openPrompt(promptEnd, r.Handle, editValue(r.Task.End))
		}
	case CmdToggleDone:
		var errs []error
		for _, h := range c.targets() {
			errs = append(errs, c.list.ToggleDone(h))
		}
		c.apply(errors.Join(errs...))
	case CmdReload:
		c.reload()
	case CmdClose:
		if c.allowQuit {
			return tea.Quit
		}
	}
	return nil
}

func (c *core) newTask() tea.Cmd {
	t, err := c.list.Add(nil)
	if err != nil {
		c.fail(err)
		return nil
	}
	c.refresh()
	c.focus(t.Handle())
	c.status = "Created " + string(t.Handle())
	return c.openPrompt(promptTitle, t.Handle(), t.Title)
}

func (c *core) askDelete() {
	hs := c.targets()
	if len(hs) == 0 {
		c.status = "Nothing selected"
		return
	}
	c.confirm = hs
}

func (c *core) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		hs := c.confirm
		c.confirm = nil
		err := c.list.RemoveSelected(hs)
		for _, h := range hs {
			delete(c.selected, h)
		}
		c.refresh()
		if err != nil {
			c.fail(err)
			return nil
		}
		c.status = fmt.Sprintf("Deleted %d task(s)", len(hs))
	case "n", "N", "esc", "ctrl+c":
		c.confirm = nil
		c.status = "Canceled"
	}
	return nil
}

func (c *core) handleMenu(msg tea.KeyMsg) tea.Cmd {
	menus := c.layout.Menus
	switch msg.String() {
	case "esc", "f10":
		c.menu = menuState{}
	case "left", "h":
		c.menu.menu = (c.menu.menu + len(menus) - 1) % len(menus)
		c.menu.item = 0
	case "right", "l":
		c.menu.menu = (c.menu.menu + 1) % len(menus)
		c.menu.item = 0
	case "up", "k":
		n := len(menus[c.menu.menu].Items)
		c.menu.item = (c.menu.item + n - 1) % n
	case "down", "j":
		n := len(menus[c.menu.menu].Items)
		c.menu.item = (c.menu.item + 1) % n
	case "enter":
		cmd := menus[c.menu.menu].Items[c.menu.item].Cmd
		c.menu = menuState{}
		return c.run(cmd)
	}
	return nil
}

func (c *core) setView(mode tasks.ViewMode) {
	c.mode = mode
	c.refresh()
	c.status = mode.String()
}

// refresh reprojects the list. The cursor stays on the same task when it
// is still visible; selections of hidden tasks are dropped.
func (c *core) refresh() {
	var keep tasks.Handle
	if r, ok := c.current(); ok {
		keep = r.Handle
	}
	c.rows = tasks.Project(c.list.Rows(), c.mode, c.sort)
	visible := make(map[tasks.Handle]bool, len(c.rows))
	for i, r := range c.rows {
		visible[r.Handle] = true
		if r.Handle == keep {
			c.cursor = i
		}
	}
	for h := range c.selected {
		if !visible[h] {
			delete(c.selected, h)
		}
	}
	c.clamp()
}

func (c *core) reload() {
	if err := c.list.ReloadAll(); err != nil {
		c.fail(err)
	}
	c.refresh()
	c.status = fmt.Sprintf("%d tasks", c.list.Len())
}

func (c *core) apply(err error) {
	c.refresh()
	if err != nil {
		c.fail(err)
	}
}

func (c *core) fail(err error) {
	if c.opts.debug {
		log.Printf("error: %v", err)
	}
	c.errText = err.Error()
}

func (c *core) focus(h tasks.Handle) {
	for i, r := range c.rows {
		if r.Handle == h {
			c.cursor = i
			return
		}
	}
}

func (c *core) move(delta int) {
	c.cursor += delta
	c.clamp()
}

func (c *core) clamp() {
	if c.cursor >= len(c.rows) {
		c.cursor = len(c.rows) - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

func (c *core) pageSize() int {
	return max(1, c.height-8)
}

func (c *core) current() (tasks.Row, bool) {
	if c.cursor < 0 || c.cursor >= len(c.rows) {
		return tasks.Row{}, false
	}
	return c.rows[c.cursor], true
}

// targets returns the selected handles in display order, or the cursor
// row when nothing is selected.
func (c *core) targets() []tasks.Handle {
	var out []tasks.Handle
	for _, r := range c.rows {
		if c.selected[r.Handle] {
			out = append(out, r.Handle)
		}
	}
	if len(out) > 0 {
		return out
	}
	if r, ok := c.current(); ok {
		return []tasks.Handle{r.Handle}
	}
	return nil
}

func (c *core) targetRows() []tasks.Row {
	if len(c.selected) == 0 {
		return append([]tasks.Row(nil), c.rows...)
	}
	var out []tasks.Row
	for _, r := range c.rows {
		if c.selected[r.Handle] {
			out = append(out, r)
		}
	}
	return out
}

func (c *core) defaultPath(prefix, ext string) string {
	base := c.opts.exportDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, fmt.Sprintf("%s-%s%s", prefix, c.now().Format("20060102-150405"), ext))
}

func (c *core) close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.list.Close()
}

func (c *core) statusLine() string {
	st := tasks.StatsOf(c.list.Rows())
	dir := "asc"
	if c.sort.Descending {
		dir = "desc"
	}
	parts := []string{
		c.mode.String(),
		fmt.Sprintf("%d shown", st.Count(c.mode)),
		fmt.Sprintf("%d done", st.Completed),
		fmt.Sprintf("%d open", st.Remaining),
	}
	if st.Urgent > 0 {
		parts = append(parts, fmt.Sprintf("%d urgent", st.Urgent))
	}
	if c.sort.Column != tasks.SortNone {
		parts = append(parts, "sort:"+c.sort.Column.String()+" "+dir)
	}
	if len(c.selected) > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", len(c.selected)))
	}
	line := strings.Join(parts, " · ")
	if c.status != "" {
		line += "  " + c.status
	}
	return statusStyle.Render(line)
}

// modal renders the box that currently owns the keyboard, if any.
func (c *core) modal() string {
	switch {
	case c.errText != "":
		return errorStyle.Render("Error\n\n" + c.errText + "\n\n(press any key)")
	case c.confirm != nil:
		return promptStyle.Render(fmt.Sprintf("Delete %d selected task(s)? [y/N]", len(c.confirm)))
	case c.prompt != nil:
		return c.prompt.view()
	case c.form != nil:
		return c.form.view()
	}
	return ""
}

func (c *core) loadingView() string {
	return fmt.Sprintf("%s Loading tasks...", c.spin.View())
}

func (c *core) helpView() string {
	return c.help.View(keys)
}
