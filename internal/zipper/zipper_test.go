package zipper

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"auditor/internal/tasks"
)

func seed(t *testing.T, dir string, titles ...string) *tasks.List {
	t.Helper()
	l := tasks.NewList(dir)
	for _, title := range titles {
		tk, err := l.Add(nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := l.SetTitle(tk.Handle(), title); err != nil {
			t.Fatal(err)
		}
	}
	return l
}

func TestExportImport(t *testing.T) {
	root := t.TempDir()
	src := seed(t, filepath.Join(root, "src"), "Alpha", "Beta")

	var calls int
	zipPath := filepath.Join(root, "out", "tasks.zip")
	if err := ExportTasksWithProgress(src.Rows(), zipPath, func(cur, total int) { calls++ }); err != nil {
		t.Fatalf("export: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 progress calls, got %d", calls)
	}
	m, err := ReadManifest(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	if m.Version != 1 || len(m.Tasks) != 2 {
		t.Fatalf("unexpected manifest %+v", m)
	}

	// importing into the source dir must add copies, not overwrite
	n, err := ImportArchive(zipPath, src.Dir())
	if err != nil || n != 2 {
		t.Fatalf("import: n=%d err=%v", n, err)
	}
	if err := src.ReloadAll(); err != nil {
		t.Fatal(err)
	}
	if src.Len() != 4 {
		t.Fatalf("expected 4 tasks after import, got %d", src.Len())
	}
	titles := map[string]int{}
	for _, r := range src.Rows() {
		titles[r.Task.Title]++
	}
	if titles["Alpha"] != 2 || titles["Beta"] != 2 {
		t.Fatalf("unexpected titles %v", titles)
	}
}

func TestImportSkipsBrokenEntries(t *testing.T) {
	root := t.TempDir()
	zipPath := filepath.Join(root, "bad.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if err := writeJSON(zw, manifestName, Manifest{Version: 1}); err != nil {
		t.Fatal(err)
	}
	for name, body := range map[string]string{
		"task.good":  "title = \"ok\"\n",
		"task.bad":   "title = = \n",
		"readme.txt": "ignored",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dest := filepath.Join(root, "dest")
	n, err := ImportArchive(zipPath, dest)
	if n != 1 {
		t.Fatalf("expected 1 imported task, got %d", n)
	}
	if err == nil {
		t.Fatal("expected an error for the broken entry")
	}
	des, _ := os.ReadDir(dest)
	if len(des) != 1 {
		t.Fatalf("broken entry left behind: %v", des)
	}
}

func TestImportWithoutManifest(t *testing.T) {
	root := t.TempDir()
	zipPath := filepath.Join(root, "empty.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := zip.NewWriter(f).Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()
	if _, err := ImportArchive(zipPath, root); err == nil {
		t.Fatal("expected manifest error")
	}
}
