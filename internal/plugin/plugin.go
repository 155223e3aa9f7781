// Package plugin exposes the embedded task view through the init, destroy
// and widget entry points a host application calls.
package plugin

import (
	"errors"

	"auditor/internal/app"
	"auditor/internal/config"
	"auditor/internal/tui"
)

// Helper is what the host hands to Init.
type Helper struct {
	Config config.Config
}

type Definition struct {
	Name        string
	Icon        string
	Description string
	Init        func(Helper) (*Instance, error)
	Destroy     func(*Instance) error
	Widget      func(*Instance) tui.TaskView
}

// Instance is one loaded copy of the plugin.
type Instance struct {
	helper Helper
	app    *app.App
	view   tui.TaskView
}

var Auditor = Definition{
	Name:    "Auditor",
	Icon:    "auditor",
	Init:    initAuditor,
	Destroy: destroyAuditor,
	Widget:  widget,
}

func initAuditor(h Helper) (*Instance, error) {
	a, err := app.Open(h.Config)
	if err != nil {
		return nil, err
	}
	v := tui.NewEmbedded(a.List, tui.EmbeddedLayout(), a.ViewOptions()...)
	return &Instance{helper: h, app: a, view: v}, nil
}

// destroyAuditor saves every task and releases the journal. The host
// must not use the widget afterwards.
func destroyAuditor(in *Instance) error {
	if in == nil {
		return nil
	}
	var errs []error
	if in.view != nil {
		errs = append(errs, in.view.Close())
	}
	if in.app != nil {
		errs = append(errs, in.app.Close())
	}
	return errors.Join(errs...)
}

func widget(in *Instance) tui.TaskView {
	if in == nil {
		return nil
	}
	return in.view
}
