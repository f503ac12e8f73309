package git

import (
	"context"
	"strings"
)

// WorktreeEntry is one entry of `git worktree list --porcelain`.
type WorktreeEntry struct {
	Path   string
	Head   string
	Branch string // empty for a detached worktree
}

// WorktreeAdd creates a detached worktree at path checked out to commit.
func WorktreeAdd(ctx context.Context, repoDir, path, commit string) error {
	return runGit(ctx, repoDir, "worktree", "add", "--detach", path, commit)
}

// WorktreeRemove force-removes the worktree at path, regardless of any
// uncommitted changes left in it.
func WorktreeRemove(ctx context.Context, repoDir, path string) error {
	return runGit(ctx, repoDir, "worktree", "remove", "--force", path)
}

// WorktreePrune discards registrations for worktrees whose directory no
// longer exists on disk.
func WorktreePrune(ctx context.Context, repoDir string) error {
	return runGit(ctx, repoDir, "worktree", "prune")
}

// WorktreeList parses `git worktree list --porcelain`.
func WorktreeList(ctx context.Context, repoDir string) ([]WorktreeEntry, error) {
	out, err := outputGit(ctx, repoDir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}

	var entries []WorktreeEntry
	var cur *WorktreeEntry
	flush := func() {
		if cur != nil {
			entries = append(entries, *cur)
			cur = nil
		}
	}
	for _, line := range strings.Split(string(out), "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			cur = &WorktreeEntry{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "HEAD "):
			if cur != nil {
				cur.Head = strings.TrimPrefix(line, "HEAD ")
			}
		case strings.HasPrefix(line, "branch refs/heads/"):
			if cur != nil {
				cur.Branch = strings.TrimPrefix(line, "branch refs/heads/")
			}
		case line == "":
			flush()
		}
	}
	flush()
	return entries, nil
}

// Checkout switches wtDir to branch.
func Checkout(ctx context.Context, wtDir, branch string) error {
	return runGit(ctx, wtDir, "checkout", branch)
}

// CheckoutDetach detaches wtDir's HEAD from whatever branch it is on,
// without moving it.
func CheckoutDetach(ctx context.Context, wtDir string) error {
	return runGit(ctx, wtDir, "checkout", "--detach")
}

// CheckoutCreate creates branch in wtDir starting at startPoint and checks
// it out.
func CheckoutCreate(ctx context.Context, wtDir, branch, startPoint string) error {
	return runGit(ctx, wtDir, "checkout", "-b", branch, startPoint)
}

// CheckoutTrack creates a local branch named branch tracking
// origin/branch and checks it out.
func CheckoutTrack(ctx context.Context, wtDir, branch string) error {
	return runGit(ctx, wtDir, "checkout", "--track", "origin/"+branch)
}

// HardReset discards all tracked-file modifications in wtDir.
func HardReset(ctx context.Context, wtDir string) error {
	return runGit(ctx, wtDir, "reset", "--hard")
}

// CleanUntracked removes untracked files and directories from wtDir.
func CleanUntracked(ctx context.Context, wtDir string) error {
	return runGit(ctx, wtDir, "clean", "-fd")
}
