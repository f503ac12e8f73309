package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/slotctl/internal/git"
	"github.com/raphi011/slotctl/internal/reconcile"
	"github.com/raphi011/slotctl/internal/stash"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clean",
		Short:   "Reconcile state, archive stale stashes, and prune worktrees",
		GroupID: GroupUtil,
		Args:    cobra.NoArgs,
		Long: `Run the maintenance steps checkout performs automatically: reconcile
persisted state against git's worktree registry and the filesystem, archive
stashes older than archive_after_days whose branch no longer exists on
origin, then prune git's stale worktree administrative files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := loadContainer()
			if err != nil {
				return err
			}

			if err := reconcile.Reconcile(ctx, l.Paths.RepoDir, l.Paths.Root, l.State); err != nil {
				return err
			}

			scanResult, err := stash.ArchiveScan(ctx, l.Paths.RepoDir, l.Paths.StashesDir, l.Paths.ArchiveDir, l.Config.ArchiveAfterDays, "")
			if err != nil {
				return err
			}

			if err := git.WorktreePrune(ctx, l.Paths.RepoDir); err != nil {
				return err
			}

			if err := l.persist(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "reconciled state and pruned worktrees")
			for _, b := range scanResult.Archived {
				fmt.Fprintf(out, "archived stale stash for %s\n", b)
			}
			return nil
		},
	}
	return cmd
}
