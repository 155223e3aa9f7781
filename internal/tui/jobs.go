package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"auditor/internal/tasks"
	"auditor/internal/zipper"
)

// exportProgressMsg reports one step of a running export; next yields
// the following message.
type exportProgressMsg struct {
	current, total int
	next           <-chan tea.Msg
}

type exportDoneMsg struct {
	count int
	path  string
	err   error
}

type importDoneMsg struct {
	count int
	path  string
	err   error
}

type reportDoneMsg struct {
	path string
	err  error
}

// exportTasksCmd zips the files behind rows. rows is a snapshot, so the
// command never reads the live list. Progress arrives as a chain of
// exportProgressMsg ending in exportDoneMsg.
func exportTasksCmd(rows []tasks.Row, zipPath string) tea.Cmd {
	return func() tea.Msg {
		// one slot per progress call plus the result, so the export never blocks
		ch := make(chan tea.Msg, len(rows)+2)
		go func() {
			defer close(ch)
			err := zipper.ExportTasksWithProgress(rows, zipPath, func(current, total int) {
				ch <- exportProgressMsg{current: current, total: total, next: ch}
			})
			ch <- exportDoneMsg{count: len(rows), path: zipPath, err: err}
		}()
		return <-ch
	}
}

func waitForJob(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// importArchiveCmd only writes new task files; the list is reloaded when
// the result message arrives.
func importArchiveCmd(zipPath, dir string) tea.Cmd {
	return func() tea.Msg {
		n, err := zipper.ImportArchive(zipPath, dir)
		return importDoneMsg{count: n, path: zipPath, err: err}
	}
}

func writeReportCmd(rows []tasks.Row, mode tasks.ViewMode, path string) tea.Cmd {
	return func() tea.Msg {
		return reportDoneMsg{path: path, err: tasks.WriteReport(path, rows, mode)}
	}
}
