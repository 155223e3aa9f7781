package tasks

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteReport writes rows to filename as markdown, creating the parent
// directory when needed.
func WriteReport(filename string, rows []Row, mode ViewMode) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteMarkdown(f, rows, mode); err != nil {
		return err
	}
	return f.Close()
}

// WriteMarkdown renders rows as a markdown report: a summary line and one
// table row per task.
func WriteMarkdown(w io.Writer, rows []Row, mode ViewMode) error {
	const maxTitle = 80
	st := StatsOf(rows)
	b := &strings.Builder{}
	fmt.Fprintf(b, "# %s\n\n", mode)
	fmt.Fprintf(b, "%d tasks, %d completed, %d remaining\n\n", st.Total, st.Completed, st.Remaining)
	if len(rows) == 0 {
		b.WriteString("_No tasks._\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("| Done | Title | Beginning | Completion | Priority |\n")
	b.WriteString("|:---:|---|---|---|---|\n")
	for _, r := range rows {
		done := " "
		if r.Task.Done {
			done = "x"
		}
		title := escapeCell(CleanOneLine(r.Task.Title, maxTitle))
		if title == "" {
			title = "`" + string(r.Handle) + "`"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			done, title, escapeCell(r.DisplayStart), escapeCell(r.DisplayEnd), escapeCell(r.Task.Priority))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
