package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timvw/tmux-jump/internal/jump"
	"github.com/timvw/tmux-jump/internal/model"
	"github.com/timvw/tmux-jump/internal/mux"
	"github.com/timvw/tmux-jump/internal/proctable"
	"github.com/timvw/tmux-jump/internal/selector"
)

type fakeMux struct {
	panes   []model.Pane
	actions []string
}

func (f *fakeMux) Name() string { return "tmux" }

func (f *fakeMux) ListPanes(context.Context, model.LocatorKind) ([]model.Pane, error) {
	return f.panes, nil
}

func (f *fakeMux) SendKeys(_ context.Context, paneID, keys string) error {
	f.actions = append(f.actions, "send-keys "+paneID+" "+keys)
	return nil
}

func (f *fakeMux) SwitchClient(_ context.Context, paneID string) error {
	f.actions = append(f.actions, "switch-client "+paneID)
	return nil
}

func (f *fakeMux) SelectPane(_ context.Context, paneID string) error {
	f.actions = append(f.actions, "select-pane "+paneID)
	return nil
}

type fakeSource struct{ table *proctable.Table }

func (f fakeSource) Snapshot(context.Context) (*proctable.Table, error) { return f.table, nil }

// harness counts every collaborator the command tree reaches for.
type harness struct {
	mux        *fakeMux
	muxCalls   int
	psCalls    int
	pickCalls  int
	stdout     bytes.Buffer
	pickResult string
}

func (h *harness) deps() *deps {
	return &deps{
		newMux: func(string) (mux.Multiplexer, error) {
			h.muxCalls++
			return h.mux, nil
		},
		newSource: func() proctable.Source {
			h.psCalls++
			return fakeSource{table: proctable.Parse("100 1 -zsh\n101 100 vim main.go\n200 1 -zsh\n201 200 nvim\n")}
		},
		newPicker: func(string) jump.Chooser {
			return func(_ context.Context, ranked []model.Candidate) (model.Candidate, bool, error) {
				h.pickCalls++
				for _, c := range ranked {
					if c.PaneID == h.pickResult {
						return c, true, nil
					}
				}
				return model.Candidate{}, false, nil
			}
		},
		stdout: &h.stdout,
	}
}

func (h *harness) run(args ...string) error {
	root := newRootCmd(h.deps())
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

// isolate gives the command an empty home and working directory and clears
// every environment variable that would leak the developer's setup in.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"TMUX_PANE", "TMUX_JUMP_MUX", "TMUX_JUMP_MATCH", "TMUX_JUMP_LOCATOR", "TMUX_JUMP_MAX_DEPTH",
		"TMUX_JUMP_INCLUDE_SELF", "TMUX_JUMP_PICK", "TMUX_JUMP_THEME", "TMUX_JUMP_LOG_LEVEL",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_HEADERS",
	} {
		t.Setenv(key, "")
	}
	dir, err := selector.Canonicalize(t.TempDir())
	require.NoError(t, err)
	testChdir(t, dir)
	return dir
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	dir := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func TestUsageErrorsInvokeNoCollaborator(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"vim", "--bogus"}},
		{"missing process", []string{}},
		{"flag without value", []string{"vim", "--keys"}},
		{"too many arguments", []string{"vim", "/tmp", "extra"}},
		{"directory twice", []string{"vim", "/tmp", "-d", "/tmp"}},
		{"unknown locator", []string{"vim", "--locator", "tty"}},
		{"list unknown flag", []string{"list", "vim", "--bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			h := &harness{mux: &fakeMux{}}

			err := h.run(tt.args...)
			require.Error(t, err)
			assert.Equal(t, jump.CodeUsage, jump.CodeOf(err), "err: %v", err)
			assert.Zero(t, h.muxCalls, "multiplexer created")
			assert.Zero(t, h.psCalls, "process table read")
			assert.Empty(t, h.mux.actions)
		})
	}
}

func TestMissingDirectoryIsPathError(t *testing.T) {
	cwd := isolate(t)
	h := &harness{mux: &fakeMux{}}

	err := h.run("vim", filepath.Join(cwd, "does-not-exist"))
	require.Error(t, err)
	assert.Equal(t, jump.CodePath, jump.CodeOf(err))
	assert.Zero(t, h.muxCalls)
}

func TestJump(t *testing.T) {
	cwd := isolate(t)
	other := mkdir(t, t.TempDir(), "other")
	h := &harness{mux: &fakeMux{panes: []model.Pane{
		{ID: "%1", PID: "100", Path: other},
		{ID: "%2", PID: "200", Path: cwd},
	}}}

	require.NoError(t, h.run("vim", "-k", "Escape"))
	assert.Equal(t, []string{"send-keys %2 Escape", "switch-client %2"}, h.mux.actions)
}

func TestJump_ExactAndDirectory(t *testing.T) {
	cwd := isolate(t)
	proj := mkdir(t, cwd, "proj")
	h := &harness{mux: &fakeMux{panes: []model.Pane{
		{ID: "%1", PID: "200", Path: proj},
		{ID: "%2", PID: "100", Path: cwd},
		{ID: "%3", PID: "100", Path: proj},
	}}}

	require.NoError(t, h.run("--exact", "-d", proj, "vim main.go"))
	assert.Equal(t, []string{"switch-client %3"}, h.mux.actions)
}

func TestJump_NoMatchNamesFilters(t *testing.T) {
	cwd := isolate(t)
	h := &harness{mux: &fakeMux{panes: []model.Pane{{ID: "%1", PID: "100", Path: cwd}}}}

	err := h.run("emacs", cwd)
	require.Error(t, err)
	assert.Equal(t, jump.CodeNoMatch, jump.CodeOf(err))
	assert.Equal(t, "no pane found running 'emacs' in '"+cwd+"'", err.Error())

	var out bytes.Buffer
	reportError(&out, err)
	assert.Equal(t, "tmux-jump: no pane found running 'emacs' in '"+cwd+"'\n", out.String())
}

func TestJump_ExcludesInvokingPane(t *testing.T) {
	cwd := isolate(t)
	t.Setenv("TMUX_PANE", "%2")
	other := mkdir(t, cwd, "other")
	h := &harness{mux: &fakeMux{panes: []model.Pane{
		{ID: "%1", PID: "100", Path: other},
		{ID: "%2", PID: "100", Path: cwd},
	}}}

	require.NoError(t, h.run("vim"))
	assert.Equal(t, []string{"switch-client %1"}, h.mux.actions)

	h.mux.actions = nil
	require.NoError(t, h.run("vim", "--include-self"))
	assert.Equal(t, []string{"switch-client %2"}, h.mux.actions)
}

func TestJump_Pick(t *testing.T) {
	cwd := isolate(t)
	h := &harness{
		mux: &fakeMux{panes: []model.Pane{
			{ID: "%1", PID: "100", Path: cwd},
			{ID: "%2", PID: "200", Path: cwd},
		}},
		pickResult: "%2",
	}

	require.NoError(t, h.run("vim", "--pick"))
	assert.Equal(t, 1, h.pickCalls)
	assert.Equal(t, []string{"switch-client %2"}, h.mux.actions)

	h.mux.actions = nil
	h.pickResult = ""
	err := h.run("vim", "--pick")
	assert.Equal(t, jump.CodeCancelled, jump.CodeOf(err))
	assert.Empty(t, h.mux.actions)
}

func TestList(t *testing.T) {
	cwd := isolate(t)
	sub := mkdir(t, cwd, "sub")
	elsewhere := t.TempDir()
	elsewhere, err := selector.Canonicalize(elsewhere)
	require.NoError(t, err)

	h := &harness{mux: &fakeMux{panes: []model.Pane{
		{ID: "%1", PID: "100", Path: elsewhere},
		{ID: "%2", PID: "200", Path: sub},
		{ID: "%3", PID: "100", Path: cwd},
	}}}

	require.NoError(t, h.run("list", "vim"))
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	assert.Equal(t, []string{
		"%3\t" + cwd + "\tvim main.go",
		"%2\t" + sub + "\tnvim",
		"%1\t" + elsewhere + "\tvim main.go",
	}, lines)
	assert.Empty(t, h.mux.actions)
}

func TestList_NoMatchPrintsNothing(t *testing.T) {
	isolate(t)
	h := &harness{mux: &fakeMux{}}

	require.NoError(t, h.run("list", "vim"))
	assert.Empty(t, h.stdout.String())
}

func TestVersion(t *testing.T) {
	isolate(t)
	h := &harness{mux: &fakeMux{}}

	require.NoError(t, h.run("version"))
	assert.Equal(t, "tmux-jump "+Version+"\n", h.stdout.String())
	assert.Zero(t, h.muxCalls)
}

func TestReportError_PlainError(t *testing.T) {
	var out bytes.Buffer
	reportError(&out, errors.New("boom"))
	assert.Equal(t, "tmux-jump: boom\n", out.String())
}

// testChdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it
// changes the working directory, sets PWD, and restores both on cleanup.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
	if filepath.IsAbs(dir) {
		t.Setenv("PWD", dir)
	}
}
