package model

import (
	"fmt"
	"strings"
)

// Process is a single entry of the system process table.
type Process struct {
	// PID is the process ID as printed by ps.
	PID string `json:"pid"`
	// PPID is the parent process ID.
	PPID string `json:"ppid"`
	// Command is the full command line, embedded spaces preserved.
	Command string `json:"command"`
}

// LocatorKind selects what the pane listing reports in its second column.
type LocatorKind string

const (
	// LocatorPID lists the pane's shell PID; the foreground command is
	// resolved through the process table.
	LocatorPID LocatorKind = "pid"
	// LocatorCommand lists the multiplexer's own notion of the pane's
	// current command. Cheaper, but only one level below the shell.
	LocatorCommand LocatorKind = "command"
)

// ParseLocatorKind normalizes a locator name.
func ParseLocatorKind(value string) (LocatorKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "pid":
		return LocatorPID, nil
	case "command", "cmd":
		return LocatorCommand, nil
	default:
		return "", fmt.Errorf("unknown locator %q (supported: pid, command)", value)
	}
}

// Pane is one line of the multiplexer's pane listing.
type Pane struct {
	// ID is the multiplexer's pane handle (e.g., "%3" for tmux).
	ID string `json:"id"`
	// PID is the pane's shell PID. Set when listed with LocatorPID.
	PID string `json:"pid,omitempty"`
	// Command is the multiplexer-reported current command. Set when listed
	// with LocatorCommand.
	Command string `json:"command,omitempty"`
	// Path is the pane's current working directory as reported by the
	// multiplexer. It may contain symlinks.
	Path string `json:"path"`
}

// Candidate is a pane that passed all filters.
type Candidate struct {
	// PaneID is the multiplexer's pane handle.
	PaneID string `json:"pane_id"`
	// Path is the canonical (absolute, symlink-free) pane directory.
	Path string `json:"path"`
	// Command is the effective command the process filter matched against.
	Command string `json:"command"`
}

// MatchPolicy decides how the process filter is compared to a command.
type MatchPolicy string

const (
	// MatchSubstring accepts commands containing the filter, so processes
	// started with extra arguments still match.
	MatchSubstring MatchPolicy = "substring"
	// MatchExact accepts only commands equal to the filter.
	MatchExact MatchPolicy = "exact"
)

// ParseMatchPolicy normalizes a match policy name.
func ParseMatchPolicy(value string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "substring", "contains":
		return MatchSubstring, nil
	case "exact", "equal":
		return MatchExact, nil
	default:
		return "", fmt.Errorf("unknown match policy %q (supported: substring, exact)", value)
	}
}

// Filters narrows the pane listing down to candidates.
type Filters struct {
	// Process is the process-name pattern. Required.
	Process string
	// Directory is an optional canonical directory; panes outside it are dropped.
	Directory string
	// Policy is the process-name comparison. Zero value means substring.
	Policy MatchPolicy
}

// Describe renders the filters for a no-match diagnostic.
func (f Filters) Describe() string {
	if f.Directory != "" {
		return fmt.Sprintf("'%s' in '%s'", f.Process, f.Directory)
	}
	return fmt.Sprintf("'%s'", f.Process)
}
