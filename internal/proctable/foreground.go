package proctable

// DefaultMaxDepth bounds the descent from a shell to its foreground process.
// Real pane trees are a handful of levels deep (shell, wrapper, tool).
const DefaultMaxDepth = 32

// Foreground returns the command of the deepest descendant of shellPID, using
// DefaultMaxDepth. See ForegroundDepth.
func (t *Table) Foreground(shellPID string) (string, bool) {
	return t.ForegroundDepth(shellPID, DefaultMaxDepth)
}

// ForegroundDepth walks from shellPID to a leaf process, following the child
// with the lowest pid at each level, and returns the leaf's command.
// It returns false when shellPID has no children (an idle shell).
//
// Parent links alone do not say which child owns the terminal, so this is a
// heuristic. The walk stops after maxDepth levels or when it would revisit a
// pid, returning the command of the last process reached.
func (t *Table) ForegroundDepth(shellPID string, maxDepth int) (string, bool) {
	if maxDepth < 1 {
		maxDepth = 1
	}
	visited := map[string]bool{shellPID: true}
	current := ""
	pid := shellPID
	for depth := 0; depth < maxDepth; depth++ {
		next := ""
		for _, child := range t.children[pid] {
			if !visited[child] {
				next = child
				break
			}
		}
		if next == "" {
			break
		}
		visited[next] = true
		current = next
		pid = next
	}
	if current == "" {
		return "", false
	}
	return t.procs[current].Command, true
}
