package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raphi011/slotctl/internal/stash"
)

func newStashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stash",
		Short:   "Inspect and manage branch stashes",
		GroupID: GroupStash,
	}
	cmd.AddCommand(newStashListCmd())
	cmd.AddCommand(newStashShowCmd())
	cmd.AddCommand(newStashApplyCmd())
	cmd.AddCommand(newStashDropCmd())
	return cmd
}

func newStashListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every stashed branch, active and archived",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadContainer()
			if err != nil {
				return err
			}
			records, err := stash.List(l.Paths.StashesDir)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BRANCH\tSTATUS\tCREATED")
			for _, rec := range records {
				status := string(rec.Status)
				if rec.Status == stash.StatusArchived {
					status = color.YellowString(status)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.Branch, status, rec.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func newStashShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <branch>",
		Short: "Print the diff held in a branch's stash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := loadContainer()
			if err != nil {
				return err
			}
			patch, rec, err := stash.Show(ctx, l.Paths.RepoDir, l.Paths.StashesDir, args[0])
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("no stash recorded for %q", args[0])
			}
			_, err = cmd.OutOrStdout().Write(patch)
			return err
		},
	}
}

func newStashApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <branch>",
		Short: "Apply a branch's stash into the slot that currently holds it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := loadContainer()
			if err != nil {
				return err
			}
			branch := args[0]
			var slotDir string
			for name, rec := range l.State.Slots {
				if rec.Branch == branch {
					slotDir = filepath.Join(l.Paths.Root, name)
					break
				}
			}
			if slotDir == "" {
				return fmt.Errorf("%q is not checked out in any slot; use `slotctl checkout %s` first", branch, branch)
			}
			outcome, _, err := stash.Restore(ctx, l.Paths.RepoDir, l.Paths.StashesDir, slotDir, branch)
			if err != nil {
				return err
			}
			switch outcome {
			case stash.OutcomeRestored:
				fmt.Fprintf(cmd.OutOrStdout(), "restored stash for %s\n", branch)
			case stash.OutcomeConflict:
				color.Yellow("stash for %s applied with conflicts; resolve them in %s", branch, slotDir)
			case stash.OutcomeNone:
				fmt.Fprintf(cmd.OutOrStdout(), "no active stash for %s\n", branch)
			}
			return nil
		},
	}
}

func newStashDropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <branch>",
		Short: "Discard a branch's stash entirely",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := loadContainer()
			if err != nil {
				return err
			}
			if err := stash.Drop(ctx, l.Paths.RepoDir, l.Paths.StashesDir, l.Paths.ArchiveDir, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dropped stash for %s\n", args[0])
			return nil
		},
	}
}
