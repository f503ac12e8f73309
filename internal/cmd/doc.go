// Package cmd provides helpers for executing git subprocesses under the
// stderr-inheritance boundary the rest of the module depends on.
//
// # Usage
//
//	c := exec.Command("git", "status")
//	c.Dir = repoDir
//	c.Stderr = os.Stderr
//	if err := cmd.Run(c); err != nil {
//	    return err // git's own stderr already reached the user; don't re-wrap it
//	}
//
// # Design Notes
//
// slotctl shells out to the git CLI rather than an embedded implementation,
// and deliberately does not buffer or re-wrap git's stderr: a caller adding
// "command failed: %w" text around a git error duplicates what the user
// already saw on their terminal.
package cmd
