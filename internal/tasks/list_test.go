package tasks

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type recordedAction struct {
	action string
	handle Handle
}

type fakeJournal struct{ got []recordedAction }

func (f *fakeJournal) Record(action string, h Handle, title string) error {
	f.got = append(f.got, recordedAction{action, h})
	return nil
}

func newTestList(t *testing.T, opts ...Option) *List {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".auditor")
	fixed := time.Date(2024, 5, 1, 17, 30, 0, 0, time.Local)
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	return NewList(dir, opts...)
}

func taskFiles(t *testing.T, dir string) []string {
	t.Helper()
	des, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, de := range des {
		if IsTaskFile(de.Name()) {
			out = append(out, de.Name())
		}
	}
	return out
}

func TestAddNilCreatesFile(t *testing.T) {
	j := &fakeJournal{}
	l := newTestList(t, WithJournal(j))
	a, err := l.Add(nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	b, err := l.Add(nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if a.Handle() == b.Handle() {
		t.Fatalf("expected unique handles, got %s twice", a.Handle())
	}
	if !strings.HasPrefix(string(a.Handle()), FilePrefix) {
		t.Fatalf("handle %s lacks prefix", a.Handle())
	}
	if files := taskFiles(t, l.Dir()); len(files) != 2 {
		t.Fatalf("expected 2 task files, got %v", files)
	}
	r, ok := l.Row(a.Handle())
	if !ok {
		t.Fatal("row missing")
	}
	if r.Task.Title != DefaultTitle || r.Task.Done {
		t.Fatalf("unexpected new row %+v", r.Task)
	}
	// newest first
	if rows := l.Rows(); rows[0].Handle != b.Handle() {
		t.Fatalf("expected %s at head, got %s", b.Handle(), rows[0].Handle)
	}
	if len(j.got) != 2 || j.got[0].action != "create" {
		t.Fatalf("journal entries: %+v", j.got)
	}
}

func TestAddNilFailsWhenDirCannotBeCreated(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewList(filepath.Join(blocker, ".auditor"))
	if _, err := l.Add(nil); err == nil {
		t.Fatal("expected an allocation error")
	}
	if l.Len() != 0 {
		t.Fatalf("list should stay empty, has %d", l.Len())
	}
}

func TestMutationsMatchReload(t *testing.T) {
	l := newTestList(t)
	task, err := l.Add(nil)
	if err != nil {
		t.Fatal(err)
	}
	h := task.Handle()
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	if err := l.SetTitle(h, "Audit ledger"); err != nil {
		t.Fatal(err)
	}
	if err := l.SetPriority(h, "Urgent"); err != nil {
		t.Fatal(err)
	}
	if err := l.SetStart(h, start); err != nil {
		t.Fatal(err)
	}
	if err := l.ToggleDone(h); err != nil {
		t.Fatal(err)
	}
	before, _ := l.Row(h)
	if before.DisplayEnd == "" {
		t.Fatal("completing a task should fill the completion column")
	}

	fresh := NewList(l.Dir())
	if err := fresh.ReloadAll(); err != nil {
		t.Fatal(err)
	}
	after, ok := fresh.Row(h)
	if !ok {
		t.Fatal("task missing after reload")
	}
	if after.Task.Title != before.Task.Title || after.Task.Done != before.Task.Done ||
		after.Task.Priority != before.Task.Priority || after.Priority != PriorityUrgent {
		t.Fatalf("reload differs: %+v vs %+v", after.Task, before.Task)
	}
	if after.DisplayStart != before.DisplayStart || after.DisplayEnd != before.DisplayEnd {
		t.Fatalf("display fields differ: %q/%q vs %q/%q",
			after.DisplayStart, after.DisplayEnd, before.DisplayStart, before.DisplayEnd)
	}

	if err := l.ToggleDone(h); err != nil {
		t.Fatal(err)
	}
	r, _ := l.Row(h)
	if r.Task.Done || r.DisplayEnd != "" {
		t.Fatalf("reopened task should have no completion: %+v", r)
	}
}

func TestInvalidTitleSurvivesReload(t *testing.T) {
	l := newTestList(t)
	task, err := l.Add(nil)
	if err != nil {
		t.Fatal(err)
	}
	h := task.Handle()
	if err := l.SetTitle(h, "bad\xffbyte"); err != nil {
		t.Fatal(err)
	}
	before, _ := l.Row(h)
	fresh := NewList(l.Dir())
	if err := fresh.ReloadAll(); err != nil {
		t.Fatal(err)
	}
	after, ok := fresh.Row(h)
	if !ok {
		t.Fatal("task lost on reload")
	}
	if after.Task.Title != before.Task.Title || after.Task.Title != "bad\uFFFDbyte" {
		t.Fatalf("title %q, before %q", after.Task.Title, before.Task.Title)
	}
}

func TestReloadUnreadableDirectoryClearsList(t *testing.T) {
	l := newTestList(t)
	if _, err := l.Add(nil); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(l.Dir()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(l.Dir(), []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := l.ReloadAll(); err == nil {
		t.Fatal("expected an error")
	}
	if l.Len() != 0 {
		t.Fatalf("list should be cleared, have %d", l.Len())
	}
}

func TestReloadAbsentDirectory(t *testing.T) {
	l := newTestList(t)
	if err := l.ReloadAll(); err != nil {
		t.Fatalf("absent dir should not be an error: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty list, got %d", l.Len())
	}
}

func TestReloadSkipsForeignAndBrokenFiles(t *testing.T) {
	var logged bytes.Buffer
	l := newTestList(t, WithLogger(log.New(&logged, "", 0)))
	if _, err := l.Add(nil); err != nil {
		t.Fatal(err)
	}
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(l.Dir(), name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("notes.txt", `title = "not a task"`)
	write("journal.db", "binary")
	write("task.broken", "title = [unterminated")
	write("task.manual", `title = "Hand written"`+"\n"+`priority = "Low"`)

	if err := l.ReloadAll(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 tasks, got %d: %+v", l.Len(), l.Rows())
	}
	r, ok := l.Row("task.manual")
	if !ok || r.Task.Title != "Hand written" || r.Priority != PriorityLow {
		t.Fatalf("manual task not loaded: %+v", r)
	}
	if !strings.Contains(logged.String(), "task.broken") {
		t.Fatalf("broken file should be reported, log: %q", logged.String())
	}
}

func TestReloadReplacesList(t *testing.T) {
	l := newTestList(t)
	a, _ := l.Add(nil)
	b, _ := l.Add(nil)
	if err := os.Remove(a.Filename()); err != nil {
		t.Fatal(err)
	}
	if err := l.ReloadAll(); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 task, got %d", l.Len())
	}
	if _, ok := l.Row(b.Handle()); !ok {
		t.Fatal("remaining task missing")
	}
}

func TestRemoveSelected(t *testing.T) {
	l := newTestList(t)
	a, _ := l.Add(nil)
	b, _ := l.Add(nil)
	c, _ := l.Add(nil)
	if err := l.RemoveSelected([]Handle{a.Handle(), c.Handle(), "task.unknown"}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	files := taskFiles(t, l.Dir())
	if len(files) != 1 || files[0] != string(b.Handle()) {
		t.Fatalf("expected only %s on disk, got %v", b.Handle(), files)
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", l.Len())
	}
	// removing again is a silent no-op
	if err := l.RemoveSelected([]Handle{a.Handle()}); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestRemoveSelectedFileAlreadyGone(t *testing.T) {
	l := newTestList(t)
	a, _ := l.Add(nil)
	if err := os.Remove(a.Filename()); err != nil {
		t.Fatal(err)
	}
	if err := l.RemoveSelected([]Handle{a.Handle()}); err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if l.Len() != 0 {
		t.Fatal("row should be gone")
	}
}

func TestMutateUnknownHandle(t *testing.T) {
	l := newTestList(t)
	if err := l.SetTitle("task.nope", "x"); err == nil {
		t.Fatal("expected an error for an unknown handle")
	}
}

func TestSaveAllAndClose(t *testing.T) {
	l := newTestList(t)
	a, _ := l.Add(nil)
	a.Title = "changed behind the list's back"
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if l.Len() != 0 {
		t.Fatal("close should empty the list")
	}
	got, err := LoadTask(a.Filename())
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "changed behind the list's back" {
		t.Fatalf("save all did not persist, got %q", got.Title)
	}
}

func TestFormatTime(t *testing.T) {
	l := NewList(t.TempDir(), WithDateFormat("2006-01-02 15:04"))
	if s := l.FormatTime(time.Time{}); s != "" {
		t.Fatalf("zero time should be blank, got %q", s)
	}
	at := time.Date(2024, 2, 3, 4, 5, 0, 0, time.Local)
	if s := l.FormatTime(at); s != "2024-02-03 04:05" {
		t.Fatalf("unexpected format %q", s)
	}
}
