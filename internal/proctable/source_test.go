package proctable

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"strconv"
	"testing"
)

func helperCmd(ctx context.Context, stdout string, exit int) *exec.Cmd {
	cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
	cmd.Env = append(os.Environ(),
		"GO_WANT_HELPER_PROCESS=1",
		"PROCTABLE_HELPER_STDOUT="+stdout,
		"PROCTABLE_HELPER_EXIT="+strconv.Itoa(exit),
	)
	return cmd
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if stdout := os.Getenv("PROCTABLE_HELPER_STDOUT"); stdout != "" {
		_, _ = fmt.Fprint(os.Stdout, stdout)
	}
	exitCode, _ := strconv.Atoi(os.Getenv("PROCTABLE_HELPER_EXIT"))
	os.Exit(exitCode)
}

func TestPSSnapshot(t *testing.T) {
	var gotName string
	var gotArgs []string
	ps := NewPS()
	ps.WithExec(func(ctx context.Context, name string, args ...string) *exec.Cmd {
		gotName, gotArgs = name, args
		return helperCmd(ctx, "  100     1 -zsh\n  200   100 vim main.go\n", 0)
	})

	table, err := ps.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if gotName != "ps" {
		t.Errorf("command name = %q, want %q", gotName, "ps")
	}
	if want := []string{"-eo", "pid=,ppid=,args="}; !reflect.DeepEqual(gotArgs, want) {
		t.Errorf("command args = %#v, want %#v", gotArgs, want)
	}
	if cmd, ok := table.Foreground("100"); !ok || cmd != "vim main.go" {
		t.Errorf("Foreground(100) = %q, %v; want %q, true", cmd, ok, "vim main.go")
	}
}

func TestPSSnapshot_NonZeroExitKeepsOutput(t *testing.T) {
	ps := NewPS()
	ps.WithExec(func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return helperCmd(ctx, "1 0 init\n", 1)
	})

	table, err := ps.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestPSSnapshot_LaunchFailure(t *testing.T) {
	ps := NewPS()
	ps.WithExec(func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "/nonexistent/ps-binary-for-test")
	})

	if _, err := ps.Snapshot(context.Background()); err == nil {
		t.Fatal("Snapshot() expected error when ps cannot start")
	}
}
