package tasks

import (
	"time"

	"auditor/internal/hooks"
)

// decorateRow lets a decorateTaskRow hook replace the label shown for a
// task. The stored title is never changed.
func decorateRow(env *hooks.HookEnv, r Row) Row {
	if env == nil {
		return r
	}
	if s, ok := env.CallString("decorateTaskRow", r.HookValue()); ok && s != "" {
		r.Label = CleanOneLine(s, 0)
	}
	return r
}

// notifySaved calls the taskSaved hook after a row reached disk.
func notifySaved(env *hooks.HookEnv, r Row) {
	if env == nil {
		return
	}
	env.Call("taskSaved", r.HookValue())
}

// HookValue is the object handed to script hooks.
func (r Row) HookValue() map[string]any {
	m := map[string]any{
		"handle":       string(r.Handle),
		"title":        r.Task.Title,
		"done":         r.Task.Done,
		"priority":     r.Priority.String(),
		"priorityText": r.Task.Priority,
	}
	if !r.Task.Start.IsZero() {
		m["start"] = r.Task.Start.Format(time.RFC3339)
	}
	if !r.Task.End.IsZero() {
		m["end"] = r.Task.End.Format(time.RFC3339)
	}
	return m
}
