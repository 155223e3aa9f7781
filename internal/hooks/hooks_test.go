package hooks

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDirAndCall(t *testing.T) {
	dir := t.TempDir()
	code := `export function decorateTaskRow(t) { return "[" + t.priority + "] " + t.title; }`
	if err := os.WriteFile(filepath.Join(dir, "a.js"), []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("nonsense("), 0o644); err != nil {
		t.Fatal(err)
	}
	env, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !env.Has("decorateTaskRow") {
		t.Fatal("expected decorateTaskRow to be defined")
	}
	got, ok := env.CallString("decorateTaskRow", map[string]any{"title": "Report", "priority": "High"})
	if !ok || got != "[High] Report" {
		t.Fatalf("unexpected result %q (ok=%v)", got, ok)
	}
}

func TestBrokenScriptIsSkipped(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.js"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	env, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if env.Has("decorateTaskRow") {
		t.Fatal("no hook should be defined")
	}
}

func TestNilEnv(t *testing.T) {
	var env *HookEnv
	if env.Has("taskSaved") {
		t.Fatal("nil env has no hooks")
	}
	if _, ok := env.CallString("taskSaved", nil); ok {
		t.Fatal("nil env call must report false")
	}
}

func TestMissingDir(t *testing.T) {
	env, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil || env == nil {
		t.Fatalf("missing dir should give empty env, got %v", err)
	}
}
