package git

import (
	"context"
	"os/exec"
	"time"

	"github.com/raphi011/slotctl/internal/cmd"
	"github.com/raphi011/slotctl/internal/log"
)

// runCmd executes a command. A failure is returned as a cmd.Failure naming
// the argv and exit status; stderr is not captured into the error.
func runCmd(c *exec.Cmd) error {
	return cmd.Run(c)
}

// outputCmd executes a command and returns stdout. A failure is returned as
// a cmd.Failure naming the argv and exit status; stderr is not captured.
func outputCmd(c *exec.Cmd) ([]byte, error) {
	return cmd.Output(c)
}

// runGit executes a git command with context support and verbose logging.
func runGit(ctx context.Context, dir string, args ...string) error {
	done := log.FromContext(ctx).Command(dir, "git", args...)
	start := time.Now()
	err := cmd.RunContext(ctx, dir, "git", args...)
	done(time.Since(start))
	return err
}

// outputGit executes a git command with context support and verbose logging,
// returning stdout.
func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	done := log.FromContext(ctx).Command(dir, "git", args...)
	start := time.Now()
	out, err := cmd.OutputContext(ctx, dir, "git", args...)
	done(time.Since(start))
	return out, err
}
