package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/slotctl/internal/shellgen"
)

func newShellInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "shell-init <bash|zsh|fish>",
		Short:   "Print the shell function that lets checkout change your directory",
		GroupID: GroupUtil,
		Args:    cobra.ExactArgs(1),
		Long: `slotctl itself cannot change its parent shell's working directory. Add
the output of this command to your shell's startup file to install a
wrapper function that does: it runs the real slotctl binary, then cds into
whatever slot it selected.`,
		Example: `  echo 'eval "$(slotctl shell-init bash)"' >> ~/.bashrc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := shellgen.Generate(shellgen.Shell(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), script)
			return nil
		},
	}
}
