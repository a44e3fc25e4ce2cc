package mux

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/timvw/tmux-jump/internal/model"
)

// paneFieldSep separates list-panes columns. Not expected in pane ids, pids,
// command names or paths.
const paneFieldSep = "|"

// Tmux implements the Multiplexer interface for tmux.
type Tmux struct {
	bin string
	run func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewTmux creates a new tmux multiplexer using the tmux binary in PATH.
func NewTmux() *Tmux {
	return &Tmux{bin: "tmux", run: exec.CommandContext}
}

// WithExec allows tests to override the exec implementation.
func (t *Tmux) WithExec(fn func(context.Context, string, ...string) *exec.Cmd) {
	t.run = fn
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// paneFormat returns the list-panes -F format for a locator.
func paneFormat(locator model.LocatorKind) string {
	middle := "#{pane_pid}"
	if locator == model.LocatorCommand {
		middle = "#{pane_current_command}"
	}
	return strings.Join([]string{"#{pane_id}", middle, "#{pane_current_path}"}, paneFieldSep)
}

// ListPanes returns all tmux panes across all sessions.
//
// A non-zero exit from tmux (e.g. no server running) is not an error: its
// stdout is parsed as usual, which normally yields no panes. Only a failure to
// start tmux is returned.
func (t *Tmux) ListPanes(ctx context.Context, locator model.LocatorKind) ([]model.Pane, error) {
	out, err := t.exec(ctx, "list-panes", "-a", "-F", paneFormat(locator))
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("tmux list-panes: %w", err)
		}
	}
	return parsePanes(out, locator), nil
}

// parsePanes splits list-panes output into panes. Lines with other than
// exactly three fields are dropped.
func parsePanes(out string, locator model.LocatorKind) []model.Pane {
	var panes []model.Pane
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		parts := strings.Split(line, paneFieldSep)
		if len(parts) != 3 {
			continue
		}
		pane := model.Pane{ID: parts[0], Path: parts[2]}
		if locator == model.LocatorCommand {
			pane.Command = parts[1]
		} else {
			pane.PID = parts[1]
		}
		panes = append(panes, pane)
	}
	return panes
}

// SendKeys sends keys to a pane. The sequence is passed as a single argument,
// so tmux key names ("C-c", "Enter") are honoured.
func (t *Tmux) SendKeys(ctx context.Context, paneID, keys string) error {
	if _, err := t.exec(ctx, "send-keys", "-t", paneID, keys); err != nil {
		return fmt.Errorf("tmux send-keys -t %s: %w", paneID, err)
	}
	return nil
}

// SwitchClient switches the current client to the pane. Works from a
// different session than the target.
func (t *Tmux) SwitchClient(ctx context.Context, paneID string) error {
	if _, err := t.exec(ctx, "switch-client", "-t", paneID); err != nil {
		return fmt.Errorf("tmux switch-client -t %s: %w", paneID, err)
	}
	return nil
}

// SelectPane makes the pane the active pane of its window.
func (t *Tmux) SelectPane(ctx context.Context, paneID string) error {
	if _, err := t.exec(ctx, "select-pane", "-t", paneID); err != nil {
		return fmt.Errorf("tmux select-pane -t %s: %w", paneID, err)
	}
	return nil
}

// exec runs a tmux command and returns its stdout. On a non-zero exit the
// stdout is still returned alongside an error carrying tmux's stderr.
func (t *Tmux) exec(ctx context.Context, args ...string) (string, error) {
	cmd := t.run(ctx, t.bin, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
