package selector

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize returns the absolute, symlink-resolved form of path. It fails
// when the path does not exist, e.g. a directory deleted while its pane is open.
func Canonicalize(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// ExpandUser expands a leading ~ to the current user's home directory.
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Within reports whether path is dir or lies beneath it. Both must be clean
// absolute paths. Comparison is per path segment, so "/home/foobar" is not
// within "/home/foo".
func Within(path, dir string) bool {
	if path == dir {
		return true
	}
	sep := string(filepath.Separator)
	if dir == sep {
		return strings.HasPrefix(path, sep)
	}
	return strings.HasPrefix(path, dir+sep)
}
