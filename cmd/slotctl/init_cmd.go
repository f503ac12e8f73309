package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raphi011/slotctl/internal/bootstrap"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init <url>",
		Short:   "Initialize a slotctl container in the current directory",
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Create a slotctl container in the current directory: a bare clone of
<url> plus the slot_count worktree slots configured by default.

The bare clone's fetch refspec is reconfigured so refs/heads/* stays free
for per-slot branches; origin's branches live under refs/remotes/origin/*.`,
		Example: `  slotctl init git@github.com:org/repo.git`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			workDir, err := os.Getwd()
			if err != nil {
				return err
			}
			paths, err := bootstrap.Init(ctx, workDir, args[0])
			if err != nil {
				return err
			}
			color.Green("initialized slotctl container at %s", paths.Root)
			fmt.Fprintf(cmd.OutOrStdout(), "bare repository: %s\n", paths.RepoDir)
			return nil
		},
	}
	return cmd
}
