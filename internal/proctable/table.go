// Package proctable snapshots the system process table and resolves the
// foreground process of a shell.
//
// The table is built from a single "ps -eo pid=,ppid=,args=" call and never
// refreshed: one snapshot serves every pane of a run.
package proctable

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/timvw/tmux-jump/internal/model"
)

// Table maps process IDs to their parent and command line.
type Table struct {
	procs    map[string]model.Process
	children map[string][]string // ppid -> child pids, lowest pid first
}

// Parse builds a Table from ps output. Each line is split into at most three
// whitespace-delimited fields; the command keeps its embedded spaces.
// Lines with fewer than three fields are skipped.
func Parse(out string) *Table {
	t := &Table{
		procs:    make(map[string]model.Process),
		children: make(map[string][]string),
	}
	for _, line := range strings.Split(out, "\n") {
		fields := splitFields(line, 3)
		if len(fields) < 3 {
			continue
		}
		t.add(model.Process{PID: fields[0], PPID: fields[1], Command: fields[2]})
	}
	for ppid := range t.children {
		sortPIDs(t.children[ppid])
	}
	return t
}

// FromProcesses builds a Table from already parsed records.
func FromProcesses(procs []model.Process) *Table {
	t := &Table{
		procs:    make(map[string]model.Process, len(procs)),
		children: make(map[string][]string),
	}
	for _, p := range procs {
		t.add(p)
	}
	for ppid := range t.children {
		sortPIDs(t.children[ppid])
	}
	return t
}

func (t *Table) add(p model.Process) {
	if old, ok := t.procs[p.PID]; ok {
		// Duplicate pid: last line wins, drop the stale child edge.
		t.children[old.PPID] = removePID(t.children[old.PPID], p.PID)
	}
	t.procs[p.PID] = p
	t.children[p.PPID] = append(t.children[p.PPID], p.PID)
}

// Len returns the number of processes in the table.
func (t *Table) Len() int {
	return len(t.procs)
}

// Get returns the process with the given pid.
func (t *Table) Get(pid string) (model.Process, bool) {
	p, ok := t.procs[pid]
	return p, ok
}

// Children returns the pids whose parent is pid, lowest pid first.
func (t *Table) Children(pid string) []string {
	return t.children[pid]
}

// splitFields splits s on runs of whitespace into at most n fields. The last
// field holds the remainder of the line with only its surrounding whitespace
// trimmed.
func splitFields(s string, n int) []string {
	var fields []string
	rest := strings.TrimSpace(s)
	for rest != "" {
		if len(fields) == n-1 {
			fields = append(fields, rest)
			break
		}
		idx := strings.IndexFunc(rest, unicode.IsSpace)
		if idx < 0 {
			fields = append(fields, rest)
			break
		}
		fields = append(fields, rest[:idx])
		rest = strings.TrimLeftFunc(rest[idx:], unicode.IsSpace)
	}
	return fields
}

// sortPIDs orders numerically; non-numeric pids sort lexically after numeric ones.
func sortPIDs(pids []string) {
	sort.SliceStable(pids, func(i, j int) bool {
		a, errA := strconv.Atoi(pids[i])
		b, errB := strconv.Atoi(pids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return pids[i] < pids[j]
		}
	})
}

func removePID(pids []string, pid string) []string {
	out := pids[:0]
	for _, p := range pids {
		if p != pid {
			out = append(out, p)
		}
	}
	return out
}
