package tasks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
)

// FilePrefix marks task files inside the task directory.
const FilePrefix = "task."

// DefaultTitle is given to tasks created from scratch.
const DefaultTitle = "New task"

// Handle is the base filename of a task; it stays valid across
// filtering and sorting.
type Handle string

// Task is one record backed by its own file.
type Task struct {
	Title    string
	Done     bool
	Priority string
	Start    time.Time
	End      time.Time

	path string
}

// record is the on-disk shape of a Task when reading. Saving builds the
// document with encodeRecord so unset dates are left out and set ones
// are written as TOML datetimes.
type record struct {
	Title    string     `toml:"title"`
	Done     bool       `toml:"done"`
	Priority string     `toml:"priority,omitempty"`
	Start    *time.Time `toml:"start,omitempty"`
	End      *time.Time `toml:"end,omitempty"`
}

// LoadTask reads the task stored at path.
func LoadTask(path string) (*Task, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r record
	if err := toml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t := &Task{Title: r.Title, Done: r.Done, Priority: r.Priority, path: path}
	if r.Start != nil {
		t.Start = *r.Start
	}
	if r.End != nil {
		t.End = *r.End
	}
	return t, nil
}

// Filename returns the full path of the backing file.
func (t *Task) Filename() string { return t.path }

func (t *Task) Handle() Handle { return Handle(filepath.Base(t.path)) }

// SetDone flips the done flag. Completing a task stamps End when it is
// unset; reopening it clears End.
func (t *Task) SetDone(done bool, now time.Time) {
	t.Done = done
	if done {
		if t.End.IsZero() {
			t.End = now
		}
		return
	}
	t.End = time.Time{}
}

// Save writes the task to its backing file.
func (t *Task) Save() error {
	if t.path == "" {
		return errors.New("task has no filename")
	}
	t.Title = ValidText(t.Title)
	t.Priority = ValidText(t.Priority)
	b, err := toml.Marshal(t.encodeRecord())
	if err != nil {
		return err
	}
	if err := os.WriteFile(t.path, b, 0o600); err != nil {
		return fmt.Errorf("%s: %w", t.path, err)
	}
	return nil
}

func (t *Task) encodeRecord() map[string]any {
	doc := map[string]any{"title": t.Title, "done": t.Done}
	if t.Priority != "" {
		doc["priority"] = t.Priority
	}
	if !t.Start.IsZero() {
		doc["start"] = t.Start
	}
	if !t.End.IsZero() {
		doc["end"] = t.End
	}
	return doc
}

// ValidText replaces byte sequences that are not UTF-8, which a task
// file cannot hold.
func ValidText(s string) string { return strings.ToValidUTF8(s, "\uFFFD") }

// Unlink removes the backing file. A file that is already gone is fine.
func (t *Task) Unlink() error {
	if t.path == "" {
		return nil
	}
	if err := os.Remove(t.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// IsTaskFile reports whether a directory entry name belongs to a task.
func IsTaskFile(name string) bool {
	return strings.HasPrefix(name, FilePrefix) && len(name) > len(FilePrefix)
}

// NewFilename creates a new, empty, uniquely named task file inside dir,
// creating dir first when needed, and returns its path.
func NewFilename(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", dir, err)
	}
	for tries := 0; tries < 8; tries++ {
		p := filepath.Join(dir, FilePrefix+uuid.NewString())
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%s: %w", p, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("%s: %w", p, err)
		}
		return p, nil
	}
	return "", fmt.Errorf("%s: could not allocate a unique task file", dir)
}
