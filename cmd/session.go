package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/timvw/tmux-jump/internal/config"
	"github.com/timvw/tmux-jump/internal/jump"
	"github.com/timvw/tmux-jump/internal/logging"
	"github.com/timvw/tmux-jump/internal/model"
	"github.com/timvw/tmux-jump/internal/mux"
	telem "github.com/timvw/tmux-jump/internal/otel"
	"github.com/timvw/tmux-jump/internal/selector"
)

// session is everything a command needs after flags, config and arguments
// have been reconciled.
type session struct {
	ctx    context.Context
	cfg    *config.Config
	jumper *jump.Jumper
	req    jump.Request
	tel    *telem.Telemetry
}

func (s *session) close() {
	if s.tel != nil {
		s.tel.Shutdown(context.Background())
	}
}

// prepare validates arguments before touching any collaborator: usage and
// path problems never reach ps or tmux.
func prepare(cmd *cobra.Command, args []string, opts *options, d *deps) (*session, error) {
	process := args[0]
	directory, err := directoryArg(args, opts)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, jump.WrapError(err, jump.CodeUsage, "load configuration")
	}
	if err := applyFlags(cmd, opts, cfg); err != nil {
		return nil, err
	}
	logging.Configure(cfg.LogLevel, opts.verbose)
	log := logging.NewLogger("cmd")
	if cfg.ConfigFile != "" {
		log.WithField("file", cfg.ConfigFile).Debug("config loaded")
	}

	filters := model.Filters{Process: process, Policy: cfg.Policy}
	if directory != "" {
		canonical, err := selector.Canonicalize(selector.ExpandUser(directory))
		if err != nil {
			return nil, jump.WrapError(err, jump.CodePath, "directory '%s' cannot be resolved", directory).
				WithDetail("directory", directory)
		}
		filters.Directory = canonical
	}

	cwd := workingDirectory(log)

	m, err := d.newMux(cfg.Mux)
	if err != nil {
		return nil, jump.WrapError(err, jump.CodeCollaborator, "multiplexer")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	telem.Version = Version
	tel, err := telem.Init(ctx, telem.Config{Endpoint: cfg.OTELEndpoint, Headers: cfg.OTELHeaders})
	if err != nil {
		log.WithError(err).Warn("otel init failed")
	}
	var metrics *telem.Metrics
	if tel != nil {
		metrics = tel.Metrics
	}

	exclude := ""
	if !cfg.IncludeSelf {
		exclude = mux.SelfPane()
	}

	j := &jump.Jumper{
		Mux:         m,
		Processes:   d.newSource(),
		Locator:     cfg.LocatorKind,
		MaxDepth:    cfg.MaxDepth,
		ExcludePane: exclude,
		Log:         logging.NewLogger("jump"),
		Metrics:     metrics,
	}

	log.WithFields(logrus.Fields{
		"process":   filters.Process,
		"directory": filters.Directory,
		"policy":    filters.Policy,
		"locator":   cfg.LocatorKind,
		"cwd":       cwd,
		"exclude":   exclude,
	}).Debug("request")

	return &session{
		ctx:    ctx,
		cfg:    cfg,
		jumper: j,
		req:    jump.Request{Filters: filters, Cwd: cwd},
		tel:    tel,
	}, nil
}

// directoryArg reconciles the positional and flagged directory.
func directoryArg(args []string, opts *options) (string, error) {
	positional := ""
	if len(args) > 1 {
		positional = args[1]
	}
	if positional != "" && opts.directory != "" {
		return "", jump.NewError(jump.CodeUsage, "directory given both as argument and with --directory")
	}
	if positional != "" {
		return positional, nil
	}
	return opts.directory, nil
}

// applyFlags overrides config values with the flags the user actually set.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("mux") {
		cfg.Mux = opts.mux
	}
	if flags.Changed("locator") {
		cfg.Locator = opts.locator
	}
	if flags.Changed("exact") {
		if opts.exact {
			cfg.Match = string(model.MatchExact)
		} else {
			cfg.Match = string(model.MatchSubstring)
		}
	}
	if flags.Changed("include-self") {
		cfg.IncludeSelf = opts.includeSelf
	}
	if flags.Changed("pick") {
		cfg.Pick = opts.pick
	}
	if flags.Changed("theme") {
		cfg.Theme = strings.ToLower(opts.theme)
	}
	if err := cfg.Validate(); err != nil {
		return jump.WrapError(err, jump.CodeUsage, "invalid option")
	}
	return nil
}

// workingDirectory returns the canonical cwd, or "" when it is gone; ranking
// then falls back to listing order.
func workingDirectory(log *logrus.Entry) string {
	wd, err := os.Getwd()
	if err != nil {
		log.WithError(err).Debug("no working directory")
		return ""
	}
	canonical, err := selector.Canonicalize(wd)
	if err != nil {
		log.WithError(err).Debug("working directory not canonicalizable")
		return ""
	}
	return canonical
}
