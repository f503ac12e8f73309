package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/raphi011/slotctl/internal/cmd"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor surfaces a Git subprocess's own exit code when it is the
// first unhandled error; anything else exits 1.
func exitCodeFor(err error) int {
	var f *cmd.Failure
	if errors.As(err, &f) && f.ExitCode > 0 {
		return f.ExitCode
	}
	return 1
}
