package selector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timvw/tmux-jump/internal/model"
)

func TestMatchCommand(t *testing.T) {
	tests := []struct {
		name    string
		policy  model.MatchPolicy
		command string
		process string
		want    bool
	}{
		{"substring matches with arguments", model.MatchSubstring, "/usr/bin/vim file.txt", "vim", true},
		{"substring matches nvim", model.MatchSubstring, "nvim", "vim", true},
		{"substring rejects unrelated", model.MatchSubstring, "emacs -nw", "vim", false},
		{"zero policy behaves as substring", "", "nvim main.go", "vim", true},
		{"exact matches equal", model.MatchExact, "vim", "vim", true},
		{"exact distinguishes nvim", model.MatchExact, "nvim", "vim", false},
		{"exact rejects arguments", model.MatchExact, "vim file.txt", "vim", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchCommand(tt.policy, tt.command, tt.process))
		})
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		path, dir string
		want      bool
	}{
		{"/home/user/proj", "/home/user", true},
		{"/home/user", "/home/user", true},
		{"/home/user/proj2", "/home/user/proj", false},
		{"/home/foobar", "/home/foo", false},
		{"/home/foo/bar", "/home/foo", true},
		{"/anything", "/", true},
		{"/home", "/home/user", false},
	}

	for _, tt := range tests {
		t.Run(tt.path+" in "+tt.dir, func(t *testing.T) {
			assert.Equal(t, tt.want, Within(tt.path, tt.dir))
		})
	}
}

func TestCanonicalize(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	target := filepath.Join(root, "real")
	require.NoError(t, os.Mkdir(target, 0o755))
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(target, link))

	got, err := Canonicalize(link)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	got, err = Canonicalize(filepath.Join(target, ".", "..", "real"))
	require.NoError(t, err)
	assert.Equal(t, target, got)

	_, err = Canonicalize(filepath.Join(root, "gone"))
	assert.Error(t, err)

	_, err = Canonicalize("")
	assert.Error(t, err)
}

func TestExpandUser(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, ExpandUser("~"))
	assert.Equal(t, filepath.Join(home, "src"), ExpandUser("~/src"))
	assert.Equal(t, "/abs/path", ExpandUser("/abs/path"))
	assert.Equal(t, "~other/x", ExpandUser("~other/x"))
}

// fakeCanonicalize treats every path except "/gone" as existing and canonical.
func fakeCanonicalize(path string) (string, error) {
	if path == "/gone" {
		return "", errors.New("no such file or directory")
	}
	return filepath.Clean(path), nil
}

func TestMatcherFilter(t *testing.T) {
	foreground := map[string]string{
		"100": "vim main.go",
		"200": "nvim notes.md",
		"300": "htop",
		"500": "vim old.txt",
		"600": "vim x",
	}
	resolve := func(pid string) (string, bool) {
		cmd, ok := foreground[pid]
		return cmd, ok
	}
	panes := []model.Pane{
		{ID: "%1", PID: "100", Path: "/home/user/proj"},
		{ID: "%2", PID: "200", Path: "/home/user/proj2"},
		{ID: "%3", PID: "300", Path: "/home/user/proj"},
		{ID: "%4", PID: "400", Path: "/home/user/proj"}, // idle shell
		{ID: "%5", PID: "500", Path: "/gone"},
		{ID: "%6", PID: "600", Path: "/home/user/proj"},
	}

	t.Run("substring without directory", func(t *testing.T) {
		m := &Matcher{
			Filters:      model.Filters{Process: "vim"},
			Resolve:      resolve,
			Canonicalize: fakeCanonicalize,
		}
		got := m.Filter(panes)
		ids := candidateIDs(got)
		assert.Equal(t, []string{"%1", "%2", "%6"}, ids)
		assert.Equal(t, "vim main.go", got[0].Command)
	})

	t.Run("directory filter is segment safe", func(t *testing.T) {
		m := &Matcher{
			Filters:      model.Filters{Process: "vim", Directory: "/home/user/proj"},
			Resolve:      resolve,
			Canonicalize: fakeCanonicalize,
		}
		assert.Equal(t, []string{"%1", "%6"}, candidateIDs(m.Filter(panes)))
	})

	t.Run("exact policy", func(t *testing.T) {
		m := &Matcher{
			Filters:      model.Filters{Process: "htop", Policy: model.MatchExact},
			Resolve:      resolve,
			Canonicalize: fakeCanonicalize,
		}
		assert.Equal(t, []string{"%3"}, candidateIDs(m.Filter(panes)))
	})

	t.Run("excluded pane", func(t *testing.T) {
		m := &Matcher{
			Filters:      model.Filters{Process: "vim"},
			Resolve:      resolve,
			Canonicalize: fakeCanonicalize,
			ExcludePane:  "%1",
		}
		assert.Equal(t, []string{"%2", "%6"}, candidateIDs(m.Filter(panes)))
	})
}

func TestMatcherFilter_CommandLocator(t *testing.T) {
	panes := []model.Pane{
		{ID: "%1", Command: "zsh", Path: "/a"},
		{ID: "%2", Command: "nvim", Path: "/b"},
		{ID: "%3", Command: "", Path: "/c"},
	}
	m := &Matcher{
		Filters:      model.Filters{Process: "vim"},
		Canonicalize: fakeCanonicalize,
	}
	got := m.Filter(panes)
	require.Len(t, got, 1)
	assert.Equal(t, model.Candidate{PaneID: "%2", Path: "/b", Command: "nvim"}, got[0])
}

func TestMatcherFilter_DeletedDirectory(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	dir := filepath.Join(root, "doomed")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.Remove(dir))

	m := &Matcher{
		Filters: model.Filters{Process: "vim"},
		Resolve: func(string) (string, bool) { return "vim", true },
	}
	assert.Empty(t, m.Filter([]model.Pane{{ID: "%1", PID: "1", Path: dir}}))
}

func TestRank(t *testing.T) {
	candidates := []model.Candidate{
		{PaneID: "A", Path: "/x/y"},
		{PaneID: "B", Path: "/x"},
		{PaneID: "C", Path: "/z"},
	}

	tests := []struct {
		name string
		cwd  string
		want string
	}{
		{"exact match wins regardless of order", "/x", "B"},
		{"no candidate in or below cwd falls back to first", "/x/y/z", "A"},
		{"unrelated cwd falls back to first", "/q", "A"},
		{"unknown cwd keeps listing order", "", "A"},
		{"exact match on first", "/x/y", "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(candidates, tt.cwd)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.PaneID)
		})
	}
}

func TestRank_Tiers(t *testing.T) {
	candidates := []model.Candidate{
		{PaneID: "other", Path: "/srv"},
		{PaneID: "below1", Path: "/home/u/proj/a"},
		{PaneID: "sibling", Path: "/home/u/project"},
		{PaneID: "exact", Path: "/home/u/proj"},
		{PaneID: "below2", Path: "/home/u/proj/b"},
	}

	got := Rank(candidates, "/home/u/proj")
	assert.Equal(t, []string{"exact", "below1", "below2", "other", "sibling"}, candidateIDs(got))
	assert.Equal(t, "other", candidates[0].PaneID, "input must not be reordered")
}

func TestSelect_Empty(t *testing.T) {
	_, ok := Select(nil, "/x")
	assert.False(t, ok)
}

func candidateIDs(cs []model.Candidate) []string {
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.PaneID)
	}
	return ids
}
