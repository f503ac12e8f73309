package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "pin <slot>",
		Short:   "Exempt a slot from eviction",
		GroupID: GroupUtil,
		Args:    cobra.ExactArgs(1),
		RunE:    runSetPinned(true),
	}
}

func newUnpinCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "unpin <slot>",
		Short:   "Make a slot eligible for eviction again",
		GroupID: GroupUtil,
		Args:    cobra.ExactArgs(1),
		RunE:    runSetPinned(false),
	}
}

func runSetPinned(pinned bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		l, err := loadContainer()
		if err != nil {
			return err
		}
		name := args[0]
		rec, ok := l.State.Slots[name]
		if !ok {
			return fmt.Errorf("no such slot %q", name)
		}
		rec.Pinned = pinned
		l.State.Slots[name] = rec
		if err := l.persist(); err != nil {
			return err
		}
		verb := "pinned"
		if !pinned {
			verb = "unpinned"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, name)
		return nil
	}
}
