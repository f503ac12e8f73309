package git

import (
	"context"
	"errors"
	"strings"

	"github.com/raphi011/slotctl/internal/cmd"
)

// StashPushU stashes all tracked and untracked changes in wtDir and
// returns the commit hash of the stash. Only `stash push --include-untracked`
// atomically captures untracked files and cleans the working tree in one
// step; `stash create` variants do not clean the tree. The stash is
// immediately dropped from the stack so repeated saves do not grow it — the
// caller is expected to pin the returned hash under its own ref.
func StashPushU(ctx context.Context, wtDir string) (string, error) {
	if err := runGit(ctx, wtDir, "stash", "push", "--include-untracked"); err != nil {
		return "", err
	}
	out, err := outputGit(ctx, wtDir, "rev-parse", "stash@{0}")
	if err != nil {
		return "", err
	}
	ref := strings.TrimSpace(string(out))
	if err := runGit(ctx, wtDir, "stash", "drop", "stash@{0}"); err != nil {
		return "", err
	}
	return ref, nil
}

// ApplyResult is the outcome of [StashApply].
type ApplyResult int

const (
	// ApplyRestored means the stash applied cleanly.
	ApplyRestored ApplyResult = iota
	// ApplyConflict means the stash applied with conflict markers left in
	// the working tree; the caller's record stays intact for a retry.
	ApplyConflict
)

// StashApply applies the stash commit ref to wtDir. It distinguishes a
// merge conflict (git exit code 1) from any other failure, which is
// returned as an error.
func StashApply(ctx context.Context, wtDir, ref string) (ApplyResult, error) {
	err := runGit(ctx, wtDir, "stash", "apply", ref)
	if err == nil {
		return ApplyRestored, nil
	}
	var f *cmd.Failure
	if errors.As(err, &f) && f.ExitCode == 1 {
		return ApplyConflict, nil
	}
	return 0, err
}

// DiffBinary returns a binary-safe patch of the tracked-file changes
// between commit and ref, run against repoDir (a bare repository has no
// working tree, so `stash show` cannot be used here).
func DiffBinary(ctx context.Context, repoDir, commit, ref string) ([]byte, error) {
	return outputGit(ctx, repoDir, "diff", "--binary", commit, ref)
}

// HasThirdParent reports whether ref (a stash commit) has a third parent,
// the root commit `stash push --include-untracked` creates when untracked
// files existed at stash time.
func HasThirdParent(ctx context.Context, repoDir, ref string) bool {
	return VerifyRevision(ctx, repoDir, ref+"^3")
}

// DiffTreeRootPatch returns the untracked-files patch segment of a stash
// commit's third parent. --root is required because that parent is itself
// a root commit with no history to diff against.
func DiffTreeRootPatch(ctx context.Context, repoDir, ref string) ([]byte, error) {
	return outputGit(ctx, repoDir, "diff-tree", "--root", "-r", "-p", "--binary", "--no-commit-id", ref+"^3")
}
