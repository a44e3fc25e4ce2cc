// Package selector turns a pane listing into ranked jump candidates.
//
// Filtering resolves each pane's effective command, applies the process and
// directory filters, and canonicalizes paths. Ranking orders the survivors by
// proximity to the caller's working directory.
package selector

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/timvw/tmux-jump/internal/model"
)

// MatchCommand applies the process-name filter to an effective command.
func MatchCommand(policy model.MatchPolicy, command, process string) bool {
	if policy == model.MatchExact {
		return command == process
	}
	return strings.Contains(command, process)
}

// Matcher narrows panes down to candidates.
type Matcher struct {
	Filters model.Filters

	// Resolve maps a shell pid to its foreground command. Required for panes
	// listed by pid; panes listed by command never call it.
	Resolve func(pid string) (string, bool)

	// Canonicalize resolves pane paths. Defaults to Canonicalize.
	Canonicalize func(path string) (string, error)

	// ExcludePane is skipped unconditionally (the pane running tmux-jump).
	ExcludePane string

	// Log receives one debug line per dropped pane. Nil disables.
	Log *logrus.Entry
}

// Filter returns the candidates in listing order. Panes that cannot be
// resolved or whose path no longer exists are dropped, never reported as errors.
func (m *Matcher) Filter(panes []model.Pane) []model.Candidate {
	canonicalize := m.Canonicalize
	if canonicalize == nil {
		canonicalize = Canonicalize
	}

	candidates := make([]model.Candidate, 0, len(panes))
	for _, p := range panes {
		if m.ExcludePane != "" && p.ID == m.ExcludePane {
			m.drop(p, "invoking pane")
			continue
		}

		command, ok := m.effectiveCommand(p)
		if !ok {
			m.drop(p, "no foreground process")
			continue
		}
		if !MatchCommand(m.Filters.Policy, command, m.Filters.Process) {
			continue
		}

		path, err := canonicalize(p.Path)
		if err != nil {
			m.drop(p, "path not canonicalizable: "+err.Error())
			continue
		}
		if m.Filters.Directory != "" && !Within(path, m.Filters.Directory) {
			m.drop(p, "outside "+m.Filters.Directory)
			continue
		}

		candidates = append(candidates, model.Candidate{PaneID: p.ID, Path: path, Command: command})
	}
	return candidates
}

func (m *Matcher) effectiveCommand(p model.Pane) (string, bool) {
	if p.PID == "" {
		return p.Command, p.Command != ""
	}
	if m.Resolve == nil {
		return "", false
	}
	return m.Resolve(p.PID)
}

func (m *Matcher) drop(p model.Pane, reason string) {
	if m.Log == nil {
		return
	}
	m.Log.WithFields(logrus.Fields{"pane": p.ID, "path": p.Path}).Debugf("skipping pane: %s", reason)
}
