package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raphi011/slotctl/internal/orchestrator"
)

func newCheckoutCmd() *cobra.Command {
	var (
		create     bool
		noRestore  bool
		startPoint string
	)

	cmd := &cobra.Command{
		Use:     "checkout [-b] <branch> [start-point]",
		Short:   "Assign a slot to a branch, restoring any stashed work",
		Aliases: []string{"co"},
		GroupID: GroupCore,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Assign a worktree slot to <branch>. If a slot already holds the branch
it is reused; otherwise a slot is selected (vacant first, then the
least-recently-used non-pinned slot), its previous occupant stashed and
evicted, and <branch> checked out.

Use -b to create a new branch, optionally from an explicit start point.`,
		Example: `  slotctl checkout feature-x              # existing local or remote branch
  slotctl checkout -b feature-y            # new branch from origin's default
  slotctl checkout -b feature-y main       # new branch from an explicit start point
  slotctl checkout --no-restore feature-x  # skip restoring its stash`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if create && len(args) == 2 {
				startPoint = args[1]
			}

			workDir, err := os.Getwd()
			if err != nil {
				return err
			}

			res, err := orchestrator.Checkout(ctx, workDir, orchestrator.Options{
				Branch:          args[0],
				Create:          create,
				StartPoint:      startPoint,
				SuppressRestore: noRestore,
				ShellPID:        os.Getppid(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			color.Green("%s -> %s", res.Slot, res.SlotPath)
			if res.DWIMTracking {
				fmt.Fprintf(out, "created local tracking branch for origin/%s\n", res.Branch)
			}
			if res.StashRestored != nil {
				fmt.Fprintf(out, "restored stash from %s\n", res.StashRestored.CreatedAt.Format("2006-01-02 15:04"))
			}
			if res.StashArchivedNotice {
				fmt.Fprintf(out, "a stash for %s was archived; restore it yourself with `slotctl stash show %s`\n", res.Branch, res.Branch)
			}
			for _, b := range res.Archived {
				fmt.Fprintf(out, "archived stale stash for %s\n", b)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&create, "create", "b", false, "create a new branch")
	cmd.Flags().BoolVar(&noRestore, "no-restore", false, "skip restoring the branch's stash")
	return cmd
}
