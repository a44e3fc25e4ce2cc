// Package mux provides an abstraction over terminal multiplexers (tmux, zellij).
//
// This package is pure transport: it lists panes and runs focus and key
// actions. Deciding which pane to act on happens in the selector package.
package mux

import (
	"context"

	"github.com/timvw/tmux-jump/internal/model"
)

// Multiplexer abstracts terminal multiplexer operations.
// Implementations exist for tmux and (future) zellij.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux", "zellij").
	Name() string

	// ListPanes returns every pane across all sessions, in the order the
	// multiplexer emits them. The locator decides whether each pane carries
	// its shell PID or the multiplexer-reported current command.
	ListPanes(ctx context.Context, locator model.LocatorKind) ([]model.Pane, error)

	// SendKeys sends a key sequence to a pane.
	SendKeys(ctx context.Context, paneID, keys string) error

	// SwitchClient moves the attached client to the pane's session, window and pane.
	SwitchClient(ctx context.Context, paneID string) error

	// SelectPane makes the pane active within its window.
	SelectPane(ctx context.Context, paneID string) error
}
