package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(opts *options, d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list <process> [directory]",
		Short: "List matching panes, best first, without jumping",
		Long: `List the panes tmux-jump would consider, in ranked order.

Each line is "pane_id<TAB>path<TAB>command". The first line is the pane
tmux-jump would switch to. Nothing is printed when no pane matches.`,
		Args: processArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := prepare(cmd, args, opts, d)
			if err != nil {
				return err
			}
			defer s.close()

			ranked, err := s.jumper.Candidates(s.ctx, s.req)
			if err != nil {
				return err
			}
			for _, c := range ranked {
				fmt.Fprintf(d.stdout, "%s\t%s\t%s\n", c.PaneID, c.Path, c.Command)
			}
			return nil
		},
	}
}
