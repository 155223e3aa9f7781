package hooks

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dop251/goja"
)

// Known hook functions a script may define.
var Names = []string{"decorateTaskRow", "taskSaved", "renderTaskDetail"}

var debug bool

// EnableDebug turns on per-call logging.
func EnableDebug(on bool) { debug = on }

// HookEnv is a JavaScript runtime holding every *.js file of a hooks
// directory. A nil *HookEnv is valid and has no hooks.
type HookEnv struct{ rt *goja.Runtime }

// LoadDir evaluates the scripts of dir in name order. A missing directory
// yields an empty environment; scripts that fail to evaluate are logged
// and skipped.
func LoadDir(dir string) (*HookEnv, error) {
	env := New()
	if dir == "" {
		return env, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return env, nil
		}
		return env, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".js" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Printf("[hooks] read %s: %v", name, err)
			continue
		}
		if err := env.Eval(name, string(b)); err != nil {
			log.Printf("[hooks] error evaluating %s: %v", name, err)
		} else {
			log.Printf("[hooks] loaded %s", name)
		}
	}
	for _, name := range Names {
		if env.Has(name) {
			log.Printf("[hooks] function available: %s", name)
		}
	}
	return env, nil
}

// New returns an environment with the host helpers installed and no
// scripts loaded.
func New() *HookEnv {
	env := &HookEnv{rt: goja.New()}
	env.rt.Set("readText", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		b, err := os.ReadFile(call.Arguments[0].String())
		if err != nil {
			return goja.Null()
		}
		return env.rt.ToValue(string(b))
	})
	env.rt.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, a := range call.Arguments {
			parts = append(parts, a.String())
		}
		log.Printf("[hooks] %s", strings.Join(parts, " "))
		return goja.Undefined()
	})
	return env
}

// Eval runs one script. Simple ESM export prefixes are stripped so hook
// files can be shared with module-aware tooling.
func (h *HookEnv) Eval(name, code string) error {
	code = strings.ReplaceAll(code, "export function ", "function ")
	code = strings.ReplaceAll(code, "export const ", "const ")
	code = strings.ReplaceAll(code, "export let ", "let ")
	code = strings.ReplaceAll(code, "export var ", "var ")
	_, err := h.rt.RunScript(name, code)
	return err
}

// Has reports whether fn is defined as a function.
func (h *HookEnv) Has(fn string) bool {
	if h == nil || h.rt == nil {
		return false
	}
	_, ok := goja.AssertFunction(h.rt.Get(fn))
	return ok
}

func (h *HookEnv) Call(fn string, arg any) (goja.Value, bool) {
	if h == nil || h.rt == nil {
		return goja.Undefined(), false
	}
	v := h.rt.Get(fn)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return goja.Undefined(), false
	}
	f, ok := goja.AssertFunction(v)
	if !ok {
		log.Printf("[hooks] symbol is not a function: %s", fn)
		return goja.Undefined(), false
	}
	rv, err := f(goja.Undefined(), h.rt.ToValue(arg))
	if err != nil {
		log.Printf("[hooks] error calling %s: %v", fn, err)
		return goja.Undefined(), false
	}
	if debug {
		log.Printf("[hooks] %s returned: %#v", fn, rv.Export())
	}
	return rv, true
}

func (h *HookEnv) CallString(fn string, arg any) (string, bool) {
	rv, ok := h.Call(fn, arg)
	if !ok || goja.IsUndefined(rv) || goja.IsNull(rv) {
		return "", false
	}
	return rv.String(), true
}

func (h *HookEnv) CallExported(fn string, arg any) (any, bool) {
	if rv, ok := h.Call(fn, arg); ok {
		return rv.Export(), true
	}
	return nil, false
}
