package proctable

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// psArgs asks for every process with no header. "args=" is the full command
// line and must stay last since it may contain spaces.
var psArgs = []string{"-eo", "pid=,ppid=,args="}

// Source produces a process table snapshot.
type Source interface {
	Snapshot(ctx context.Context) (*Table, error)
}

// PS snapshots the process table with the ps utility.
type PS struct {
	bin string
	run func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewPS returns a PS that runs the ps binary found in PATH.
func NewPS() *PS {
	return &PS{bin: "ps", run: exec.CommandContext}
}

// WithExec allows tests to override the exec implementation.
func (p *PS) WithExec(fn func(context.Context, string, ...string) *exec.Cmd) {
	p.run = fn
}

// Snapshot runs ps once and parses its output. A non-zero exit still yields
// whatever was printed; only a failure to start ps is an error.
func (p *PS) Snapshot(ctx context.Context) (*Table, error) {
	cmd := p.run(ctx, p.bin, psArgs...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("ps: %w", err)
		}
	}
	return Parse(string(out)), nil
}
