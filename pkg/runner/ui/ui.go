// Package ui launches the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"log"

	"tableflip.dev/pods/pkg/app"
	teaui "tableflip.dev/pods/pkg/tui/app"
)

type UI struct {
	Service *app.Service
	Page    app.Page
	Logger  *log.Logger
}

func (d *UI) Do(ctx context.Context) error {
	if d.Service == nil {
		return errors.New("ui: no service")
	}
	return teaui.Run(ctx, d.Service, teaui.Options{Page: d.Page, Logger: d.Logger})
}
