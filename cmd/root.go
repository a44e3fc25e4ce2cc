package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-jump/internal/jump"
	"github.com/timvw/tmux-jump/internal/logging"
	"github.com/timvw/tmux-jump/internal/mux"
	"github.com/timvw/tmux-jump/internal/picker"
	"github.com/timvw/tmux-jump/internal/proctable"
)

// deps are the collaborators commands reach for. Tests swap them out.
type deps struct {
	newMux    func(name string) (mux.Multiplexer, error)
	newSource func() proctable.Source
	newPicker func(theme string) jump.Chooser
	stdout    io.Writer
}

func defaultDeps() *deps {
	return &deps{
		newMux:    mux.FromName,
		newSource: func() proctable.Source { return proctable.NewPS() },
		newPicker: func(theme string) jump.Chooser {
			return picker.New(picker.ThemeByName(theme)).Choose
		},
		stdout: os.Stdout,
	}
}

// options holds the flag values of one invocation.
type options struct {
	directory   string
	keys        string
	exact       bool
	locator     string
	mux         string
	pick        bool
	includeSelf bool
	theme       string
	verbose     bool
}

func newRootCmd(d *deps) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tmux-jump <process> [directory]",
		Short: "Jump to the tmux pane running a process",
		Long: `tmux-jump finds the tmux pane whose foreground process matches <process>
and switches to it.

The foreground process is resolved through the process table, so an editor
started from a shell is found even though tmux only knows about the shell.
With a directory, only panes at or below it are considered. When several
panes match, the one closest to the current directory wins: exactly in it,
then below it, then tmux's listing order.

Keys given with --keys are sent to the pane before switching (tmux key
names, e.g. "C-c" or "Escape").`,
		Example: `  tmux-jump vim
  tmux-jump vim ~/src/project
  tmux-jump -d ~/src/project -k Escape nvim
  tmux-jump --pick python`,
		Args:          processArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJump(cmd, args, opts, d)
		},
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return jump.WrapError(err, jump.CodeUsage, "usage")
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.directory, "directory", "d", "", "only consider panes at or below this directory")
	pf.BoolVar(&opts.exact, "exact", false, "match the process name exactly instead of as a substring")
	pf.StringVar(&opts.locator, "locator", "", "how to find a pane's process: pid (walk the process table) or command (tmux's pane_current_command)")
	pf.StringVar(&opts.mux, "mux", "", "terminal multiplexer: tmux, auto (default: auto)")
	pf.BoolVar(&opts.includeSelf, "include-self", false, "consider the pane tmux-jump runs in")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log each pipeline step to stderr")

	f := root.Flags()
	f.StringVarP(&opts.keys, "keys", "k", "", "keys to send to the pane before switching")
	f.BoolVar(&opts.pick, "pick", false, "choose interactively when several panes match")
	f.StringVar(&opts.theme, "theme", "", "chooser theme: dark, light")

	root.AddCommand(newListCmd(opts, d))
	root.AddCommand(newVersionCmd(d))
	return root
}

// processArgs accepts <process> [directory].
func processArgs(_ *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return jump.NewError(jump.CodeUsage, "missing process name")
	case len(args) > 2:
		return jump.NewError(jump.CodeUsage, "expected <process> [directory], got %d arguments", len(args))
	case args[0] == "":
		return jump.NewError(jump.CodeUsage, "process name must not be empty")
	}
	return nil
}

func runJump(cmd *cobra.Command, args []string, opts *options, d *deps) error {
	s, err := prepare(cmd, args, opts, d)
	if err != nil {
		return err
	}
	defer s.close()

	if opts.keys != "" {
		s.req.Keys = opts.keys
	}
	if s.cfg.Pick && d.newPicker != nil {
		s.jumper.Choose = d.newPicker(s.cfg.Theme)
	}

	_, err = s.jumper.Run(s.ctx, s.req)
	return err
}

// Execute runs the root command and exits non-zero on any failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(defaultDeps()).ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints the one-line diagnostic and logs classified details.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "tmux-jump: %v\n", err)

	var jerr *jump.Error
	if errors.As(err, &jerr) {
		entry := logging.NewLogger("cmd").WithField("code", jerr.Code)
		for k, v := range jerr.Details {
			entry = entry.WithField(k, v)
		}
		entry.Debug("run failed")
	}
}
