package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"auditor/internal/app"
	"auditor/internal/config"
	"auditor/internal/tui"
)

const (
	exitOK    = 0
	exitUsage = 1
	exitInit  = 2
)

// interactive reports whether a terminal is attached.
var interactive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) || term.IsTerminal(int(os.Stdout.Fd()))
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("auditor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		fmt.Fprintln(stderr, "Usage: auditor")
		return exitUsage
	}

	log.SetOutput(stderr)
	log.SetPrefix("auditor: ")
	log.SetFlags(0)

	cfg := config.Default()
	if err := config.Load(config.Path(), &cfg); os.IsNotExist(err) {
		// first run: leave the defaults where the user can edit them
		if err := config.Save(config.Path(), cfg); err != nil {
			log.Printf("warning: failed to write config: %v", err)
		}
	} else if err != nil {
		log.Printf("warning: failed to load config: %v", err)
	}

	if !interactive() {
		return list(cfg, stdout)
	}

	if cfg.Debug {
		dir := filepath.Join(config.UserHome(), ".config", "auditor")
		if err := config.EnsureDir(dir); err == nil {
			if f, err := tea.LogToFile(filepath.Join(dir, "debug.log"), "auditor"); err == nil {
				defer f.Close()
			}
		}
	} else {
		// the screen belongs to the TUI
		log.SetOutput(io.Discard)
	}

	a, err := app.Open(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "auditor: %v\n", err)
		return exitInit
	}
	defer a.Close()

	view := tui.NewShell(a.List, tui.DefaultLayout(), a.ViewOptions()...)
	p := tea.NewProgram(view, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		view.Close()
		fmt.Fprintf(stderr, "auditor: tui error: %v\n", err)
		return exitInit
	}
	if err := view.Close(); err != nil {
		fmt.Fprintf(stderr, "auditor: saving tasks: %v\n", err)
	}
	return exitOK
}

// list prints the tasks when no terminal is attached.
func list(cfg config.Config, stdout io.Writer) int {
	a, err := app.Open(cfg)
	if err != nil {
		log.Print(err)
		return exitInit
	}
	defer a.Close()
	if err := a.List.ReloadAll(); err != nil {
		log.Print(err)
		return exitInit
	}
	rows := a.List.Rows()
	fmt.Fprintf(stdout, "%d tasks\n", len(rows))
	for _, r := range rows {
		mark := "[ ]"
		if r.Task.Done {
			mark = "[x]"
		}
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", mark, r.Handle, r.Label)
	}
	return exitOK
}
