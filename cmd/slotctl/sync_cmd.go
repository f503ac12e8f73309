package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/slotctl/internal/overlay"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		Short:   "Re-establish the shared file and directory overlay in every slot",
		GroupID: GroupUtil,
		Args:    cobra.NoArgs,
		Long: `Re-run the overlay step (component F) across every slot without a
checkout: useful after editing shared/ directly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := loadContainer()
			if err != nil {
				return err
			}
			slotDirs := make([]string, 0, len(l.State.SlotOrder))
			for _, name := range l.State.SlotOrder {
				slotDirs = append(slotDirs, filepath.Join(l.Paths.Root, name))
			}
			if err := overlay.SyncAll(ctx, slotDirs, l.Paths.SharedDir, l.Config.Shared); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced overlay across %d slots\n", len(slotDirs))
			return nil
		},
	}
}
