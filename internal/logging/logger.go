// Package logging provides per-component logrus loggers writing to stderr.
//
// Level precedence: TMUX_JUMP_LOG_LEVEL, then the configured level, then
// "warn". Verbose mode forces debug.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// EnvLevel names the environment variable that overrides the log level.
const EnvLevel = "TMUX_JUMP_LOG_LEVEL"

const defaultLevel = logrus.WarnLevel

var (
	base      = newBase(os.Stderr)
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

func newBase(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(defaultLevel)
	l.SetFormatter(newFormatter(w))
	return l
}

func newFormatter(w io.Writer) logrus.Formatter {
	colors := false
	if f, ok := w.(*os.File); ok {
		colors = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &logrus.TextFormatter{
		DisableTimestamp: true,
		ForceColors:      colors,
		DisableColors:    !colors,
	}
}

// Configure sets the level shared by every component logger.
func Configure(level string, verbose bool) {
	base.SetLevel(ResolveLevel(level, verbose))
}

// SetOutput redirects every component logger. Used by tests.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
	base.SetFormatter(newFormatter(w))
}

// ResolveLevel applies the level precedence. Unknown names fall back to warn.
func ResolveLevel(level string, verbose bool) logrus.Level {
	if verbose {
		return logrus.DebugLevel
	}
	if v := os.Getenv(EnvLevel); v != "" {
		level = v
	}
	if strings.TrimSpace(level) == "" {
		return defaultLevel
	}
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return defaultLevel
	}
	return parsed
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}
	logger := base.WithField("component", component)
	loggers[component] = logger
	return logger
}
