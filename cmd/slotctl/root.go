package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/slotctl/internal/log"
)

var (
	verbose bool
	quiet   bool
)

var errMutuallyExclusive = errors.New("--verbose and --quiet are mutually exclusive")

const (
	GroupCore  = "core"
	GroupStash = "stash"
	GroupUtil  = "util"
)

var rootCmd = &cobra.Command{
	Use:   "slotctl",
	Short: "Bounded worktree slot pool with dirty-state preservation",
	Long: `slotctl turns a git clone into a fixed-size pool of reusable worktree
slots. Checking out a branch reassigns a slot, stashing and later restoring
any uncommitted work the slot held, so switching branches never costs you
a dirty working tree.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose && quiet {
			return errMutuallyExclusive
		}
		cmd.SetContext(log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet)))
		return nil
	},
}

func Execute() error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show git commands as they run")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupStash, Title: "Stash Commands:"},
		&cobra.Group{ID: GroupUtil, Title: "Utility Commands:"},
	)

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCheckoutCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newStashCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newPinCmd())
	rootCmd.AddCommand(newUnpinCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newShellInitCmd())
}
