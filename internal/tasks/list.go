package tasks

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"auditor/internal/hooks"
)

// ErrUnknownTask is returned for handles the list does not hold.
var ErrUnknownTask = errors.New("unknown task")

// Recorder receives one entry per persisted mutation.
type Recorder interface {
	Record(action string, handle Handle, title string) error
}

// Row is a task together with the fields derived for display. Rows are
// snapshots; they are rebuilt after every mutation.
type Row struct {
	Handle       Handle
	Task         Task
	Label        string
	DisplayStart string
	DisplayEnd   string
	Priority     Priority
}

type entry struct {
	task *Task
	row  Row
}

// List is the in-memory set of tasks of one task directory. Newest
// insertions come first.
type List struct {
	dir     string
	entries []*entry
	index   map[Handle]*entry

	layout  string
	now     func() time.Time
	journal Recorder
	hooks   *hooks.HookEnv
	logger  *log.Logger
}

type Option func(*List)

// WithDateFormat sets the time layout used for the display columns.
func WithDateFormat(layout string) Option {
	return func(l *List) {
		if layout != "" {
			l.layout = layout
		}
	}
}

func WithClock(now func() time.Time) Option { return func(l *List) { l.now = now } }

func WithJournal(r Recorder) Option { return func(l *List) { l.journal = r } }

func WithHooks(env *hooks.HookEnv) Option { return func(l *List) { l.hooks = env } }

// WithLogger sets where bulk-load failures are reported.
func WithLogger(lg *log.Logger) Option { return func(l *List) { l.logger = lg } }

func NewList(dir string, opts ...Option) *List {
	l := &List{
		dir:    dir,
		index:  map[Handle]*entry{},
		layout: "Mon Jan _2 15:04:05 2006",
		now:    time.Now,
		logger: log.New(os.Stderr, "auditor: ", 0),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *List) Dir() string { return l.dir }

func (l *List) Len() int { return len(l.entries) }

// Rows returns a snapshot of every row in list order.
func (l *List) Rows() []Row {
	out := make([]Row, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.row)
	}
	return out
}

func (l *List) Row(h Handle) (Row, bool) {
	e, ok := l.index[h]
	if !ok {
		return Row{}, false
	}
	return e.row, true
}

// Add inserts task at the head of the list. A nil task allocates a new
// file in the task directory, titles it DefaultTitle and saves it first.
func (l *List) Add(task *Task) (*Task, error) {
	if task == nil {
		path, err := NewFilename(l.dir)
		if err != nil {
			return nil, err
		}
		task = &Task{Title: DefaultTitle, path: path}
		if err := task.Save(); err != nil {
			_ = task.Unlink()
			return nil, err
		}
		l.record("create", task)
	}
	h := task.Handle()
	if old, ok := l.index[h]; ok {
		l.drop(old)
	}
	e := &entry{task: task, row: l.derive(task)}
	l.entries = append([]*entry{e}, l.entries...)
	l.index[h] = e
	return task, nil
}

// RemoveSelected unlinks and forgets each handle. Unknown handles are
// skipped; a task whose file cannot be removed stays in the list.
func (l *List) RemoveSelected(handles []Handle) error {
	var errs []error
	for _, h := range handles {
		e, ok := l.index[h]
		if !ok {
			continue
		}
		if err := e.task.Unlink(); err != nil {
			errs = append(errs, err)
			continue
		}
		l.record("delete", e.task)
		l.drop(e)
	}
	return errors.Join(errs...)
}

// RemoveAll forgets every task without touching the files.
func (l *List) RemoveAll() {
	l.entries = nil
	l.index = map[Handle]*entry{}
}

// ReloadAll replaces the list with the task files found in the task
// directory. The list is cleared first, so a directory that cannot be
// read leaves it empty; a missing directory is not an error. Files that fail
// to load are logged and skipped.
func (l *List) ReloadAll() error {
	l.RemoveAll()
	des, err := os.ReadDir(l.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", l.dir, err)
	}
	for _, de := range des {
		if !IsTaskFile(de.Name()) {
			continue
		}
		t, err := LoadTask(filepath.Join(l.dir, de.Name()))
		if err != nil {
			l.logger.Print(err)
			continue
		}
		if _, err := l.Add(t); err != nil {
			l.logger.Print(err)
		}
	}
	return nil
}

// SaveAll writes every task back to disk.
func (l *List) SaveAll() error {
	var errs []error
	for _, e := range l.entries {
		if err := e.task.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close saves everything and empties the list.
func (l *List) Close() error {
	err := l.SaveAll()
	l.RemoveAll()
	return err
}

func (l *List) SetTitle(h Handle, title string) error {
	return l.mutate(h, func(t *Task) { t.Title = ValidText(title) })
}

// SetPriority stores the label as typed; unknown labels sort as Unknown.
func (l *List) SetPriority(h Handle, label string) error {
	return l.mutate(h, func(t *Task) { t.Priority = ValidText(label) })
}

func (l *List) ToggleDone(h Handle) error {
	return l.mutate(h, func(t *Task) { t.SetDone(!t.Done, l.now()) })
}

func (l *List) SetStart(h Handle, at time.Time) error {
	return l.mutate(h, func(t *Task) { t.Start = at })
}

func (l *List) SetEnd(h Handle, at time.Time) error {
	return l.mutate(h, func(t *Task) { t.End = at })
}

func (l *List) mutate(h Handle, fn func(*Task)) error {
	e, ok := l.index[h]
	if !ok {
		return fmt.Errorf("%s: %w", h, ErrUnknownTask)
	}
	fn(e.task)
	e.row = l.derive(e.task)
	if err := e.task.Save(); err != nil {
		return err
	}
	l.record("save", e.task)
	notifySaved(l.hooks, e.row)
	return nil
}

func (l *List) drop(e *entry) {
	delete(l.index, e.task.Handle())
	for i, x := range l.entries {
		if x == e {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *List) derive(t *Task) Row {
	r := Row{
		Handle:       t.Handle(),
		Task:         *t,
		Label:        t.Title,
		DisplayStart: l.FormatTime(t.Start),
		DisplayEnd:   l.FormatTime(t.End),
		Priority:     ParsePriority(t.Priority),
	}
	return decorateRow(l.hooks, r)
}

// FormatTime renders a timestamp for display; the zero time is blank.
func (l *List) FormatTime(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return at.Local().Format(l.layout)
}

func (l *List) record(action string, t *Task) {
	if l.journal == nil {
		return
	}
	if err := l.journal.Record(action, t.Handle(), t.Title); err != nil {
		log.Printf("[journal] %s %s: %v", action, t.Handle(), err)
	}
}
