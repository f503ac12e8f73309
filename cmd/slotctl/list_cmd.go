package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List every slot and what it currently holds",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadContainer()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLOT\tBRANCH\tPINNED\tLAST USED")
			for _, name := range l.State.SlotOrder {
				rec := l.State.Slots[name]
				branch := rec.Branch
				if branch == "" {
					branch = color.YellowString("(vacant)")
				}
				pinned := ""
				if rec.Pinned {
					pinned = color.CyanString("yes")
				}
				lastUsed := "-"
				if !rec.LastUsedAt.IsZero() {
					lastUsed = rec.LastUsedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, branch, pinned, lastUsed)
			}
			return tw.Flush()
		},
	}
	return cmd
}
