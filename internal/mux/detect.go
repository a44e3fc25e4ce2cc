package mux

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Detect auto-detects the active terminal multiplexer.
// It checks environment variables first, then falls back to checking
// whether the multiplexer binary is installed.
func Detect() (Multiplexer, error) {
	if os.Getenv("TMUX") != "" {
		return NewTmux(), nil
	}
	if os.Getenv("ZELLIJ") != "" {
		return nil, fmt.Errorf("zellij support is not yet implemented")
	}

	if tmuxPath, err := exec.LookPath("tmux"); err == nil && tmuxPath != "" {
		return NewTmux(), nil
	}

	return nil, fmt.Errorf("no supported terminal multiplexer detected (set $TMUX or install tmux)")
}

// FromName creates a Multiplexer by name. "auto" and the empty string detect.
func FromName(name string) (Multiplexer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tmux":
		return NewTmux(), nil
	case "", "auto":
		return Detect()
	case "zellij":
		return nil, fmt.Errorf("zellij support is not yet implemented")
	default:
		return nil, fmt.Errorf("unknown multiplexer: %q (supported: tmux, auto)", name)
	}
}

// SelfPane returns the pane the current process runs in, or "" outside tmux.
func SelfPane() string {
	return os.Getenv("TMUX_PANE")
}
