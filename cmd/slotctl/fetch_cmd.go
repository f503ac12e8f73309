package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/slotctl/internal/git"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fetch",
		Short:   "Fetch origin, ignoring the fetch cooldown",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := loadContainer()
			if err != nil {
				return err
			}
			if err := git.Fetch(ctx, l.Paths.RepoDir); err != nil {
				return err
			}
			l.State.LastFetchAt = time.Now()
			if err := l.persist(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "fetched origin")
			return nil
		},
	}
	return cmd
}
