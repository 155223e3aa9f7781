// Package app builds a task list with its journal and hooks from a
// Config. The standalone program and the plugin share it.
package app

import (
	"errors"
	"log"

	"auditor/internal/config"
	"auditor/internal/hooks"
	"auditor/internal/journal"
	"auditor/internal/tasks"
	"auditor/internal/tui"
)

type App struct {
	Config  config.Config
	List    *tasks.List
	Journal *journal.Store // nil when disabled or unavailable
	Hooks   *hooks.HookEnv
}

// Open never fails on a broken hook script or journal; both are logged
// and left out.
func Open(cfg config.Config) (*App, error) {
	if cfg.TaskDir == "" {
		return nil, errors.New("no task directory configured")
	}
	hooks.EnableDebug(cfg.Debug)
	env, err := hooks.LoadDir(cfg.HooksDir)
	if err != nil {
		log.Printf("[hooks] %s: %v", cfg.HooksDir, err)
	}
	a := &App{Config: cfg, Hooks: env}
	opts := []tasks.Option{tasks.WithDateFormat(cfg.DateFormat), tasks.WithHooks(env)}
	if p := cfg.JournalPath(); p != "" {
		j, err := journal.Open(p)
		if err != nil {
			log.Printf("[journal] disabled: %v", err)
		} else {
			a.Journal = j
			opts = append(opts, tasks.WithJournal(j))
		}
	}
	a.List = tasks.NewList(cfg.TaskDir, opts...)
	return a, nil
}

// ViewOptions configures a TaskView to match the list.
func (a *App) ViewOptions() []tui.Option {
	opts := []tui.Option{
		tui.WithExportDir(a.Config.ExportDir),
		tui.WithDateFormat(a.Config.DateFormat),
		tui.WithHooks(a.Hooks),
		tui.WithDebug(a.Config.Debug),
	}
	if a.Journal != nil {
		opts = append(opts, tui.WithActivity(a.Journal))
	}
	return opts
}

// Close releases the journal. The list belongs to the view.
func (a *App) Close() error {
	if a.Journal == nil {
		return nil
	}
	return a.Journal.Close()
}
