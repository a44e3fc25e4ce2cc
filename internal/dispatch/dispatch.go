// Package dispatch performs the actions of a jump: optionally typing keys into
// the chosen pane, then moving focus to it.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Actions is the subset of the multiplexer used to act on a pane.
type Actions interface {
	SendKeys(ctx context.Context, paneID, keys string) error
	SwitchClient(ctx context.Context, paneID string) error
	SelectPane(ctx context.Context, paneID string) error
}

// Dispatcher sends keys and focuses panes.
type Dispatcher struct {
	Mux Actions
	Log *logrus.Entry // nil disables logging
}

// Jump sends keys (when non-empty) and then focuses the pane. A send-keys
// failure aborts before any focus change.
func (d *Dispatcher) Jump(ctx context.Context, paneID, keys string) error {
	if keys != "" {
		d.debugf(paneID, "sending keys %q", keys)
		if err := d.Mux.SendKeys(ctx, paneID, keys); err != nil {
			return fmt.Errorf("send keys: %w", err)
		}
	}
	return d.Focus(ctx, paneID)
}

// Focus switches the client to the pane. switch-client also works across
// sessions but needs an attached client; when it fails, select-pane is tried.
// Both causes are reported when neither succeeds.
func (d *Dispatcher) Focus(ctx context.Context, paneID string) error {
	switchErr := d.Mux.SwitchClient(ctx, paneID)
	if switchErr == nil {
		d.debugf(paneID, "switched client")
		return nil
	}
	d.debugf(paneID, "switch-client failed, falling back to select-pane: %v", switchErr)

	if err := d.Mux.SelectPane(ctx, paneID); err != nil {
		return fmt.Errorf("focus pane %s: %w", paneID, errors.Join(switchErr, err))
	}
	d.debugf(paneID, "selected pane")
	return nil
}

func (d *Dispatcher) debugf(paneID, format string, args ...any) {
	if d.Log == nil {
		return
	}
	d.Log.WithField("pane", paneID).Debugf(format, args...)
}
