package zipper

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"auditor/internal/tasks"
)

const manifestName = "auditor-manifest.json"

// ProgressCallback is called during export with current progress (current, total)
type ProgressCallback func(current, total int)

type ManifestEntry struct {
	Handle tasks.Handle `json:"handle"`
	Title  string       `json:"title"`
	Done   bool         `json:"done"`
}

type Manifest struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Tasks      []ManifestEntry `json:"tasks"`
}

// ExportTasksWithProgress writes the backing files of rows into a single
// zip. progress may be nil.
func ExportTasksWithProgress(rows []tasks.Row, zipPath string, progress ProgressCallback) error {
	if err := os.MkdirAll(filepath.Dir(zipPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer f.Close()
	zw := zip.NewWriter(f)

	m := Manifest{Version: 1, ExportedAt: time.Now().UTC()}
	for _, r := range rows {
		m.Tasks = append(m.Tasks, ManifestEntry{Handle: r.Handle, Title: r.Task.Title, Done: r.Task.Done})
	}
	if err := writeJSON(zw, manifestName, m); err != nil {
		return err
	}
	for i, r := range rows {
		if progress != nil {
			progress(i, len(rows))
		}
		if err := addFile(zw, r.Task.Filename(), string(r.Handle)); err != nil {
			return err
		}
	}
	if progress != nil {
		progress(len(rows), len(rows))
	}
	return zw.Close()
}

// ReadManifest returns the manifest of an archive written by
// ExportTasksWithProgress.
func ReadManifest(zipPath string) (Manifest, error) {
	var m Manifest
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return m, err
	}
	defer r.Close()
	for _, f := range r.File {
		if f.Name != manifestName {
			continue
		}
		b, err := readAll(f)
		if err != nil {
			return m, err
		}
		if err := json.Unmarshal(b, &m); err != nil {
			return m, fmt.Errorf("invalid manifest in %s: %w", zipPath, err)
		}
		return m, nil
	}
	return m, fmt.Errorf("manifest missing in %s", zipPath)
}

// ImportArchive copies every task file of the archive into dir under a
// freshly allocated name, so imports never overwrite existing tasks.
// Entries that do not parse as tasks are skipped. It returns the number
// of tasks imported.
func ImportArchive(zipPath, dir string) (int, error) {
	if _, err := ReadManifest(zipPath); err != nil {
		return 0, err
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	n := 0
	var errs []error
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !tasks.IsTaskFile(path.Base(f.Name)) {
			continue
		}
		b, err := readAll(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		dst, err := tasks.NewFilename(dir)
		if err != nil {
			return n, errors.Join(append(errs, err)...)
		}
		if err := os.WriteFile(dst, b, 0o600); err != nil {
			errs = append(errs, err)
			_ = os.Remove(dst)
			continue
		}
		if _, err := tasks.LoadTask(dst); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
			_ = os.Remove(dst)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

func writeJSON(zw *zip.Writer, name string, v any) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func addFile(zw *zip.Writer, diskPath, zipRel string) error {
	f, err := os.Open(diskPath)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := zw.Create(strings.TrimLeft(zipRel, "/\\"))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

func readAll(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
