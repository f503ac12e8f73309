package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/raphi011/slotctl/internal/cmd"
)

// Fetch updates every remote-tracking ref and prunes ones that no longer
// exist on the remote.
func Fetch(ctx context.Context, repoDir string) error {
	return runGit(ctx, repoDir, "fetch", "--all", "--prune")
}

// RefExists reports whether name resolves to an object.
func RefExists(ctx context.Context, repoDir, name string) bool {
	c := exec.CommandContext(ctx, "git", "-C", repoDir, "show-ref", "--verify", "--quiet", name)
	return cmd.Silent(c) == nil
}

// VerifyRevision reports whether rev resolves to a valid object.
func VerifyRevision(ctx context.Context, repoDir, rev string) bool {
	c := exec.CommandContext(ctx, "git", "-C", repoDir, "rev-parse", "--verify", "--quiet", rev)
	return cmd.Silent(c) == nil
}

// UpdateRef points name at hash, creating it if absent.
func UpdateRef(ctx context.Context, repoDir, name, hash string) error {
	return runGit(ctx, repoDir, "update-ref", name, hash)
}

// DeleteRef removes name. Deleting an absent ref is a no-op for git itself.
func DeleteRef(ctx context.Context, repoDir, name string) error {
	return runGit(ctx, repoDir, "update-ref", "-d", name)
}

// CurrentBranch returns the checked-out branch of wtDir. ok is false for a
// detached HEAD, in which case branch is empty.
func CurrentBranch(ctx context.Context, wtDir string) (branch string, ok bool, err error) {
	out, err := outputGit(ctx, wtDir, "branch", "--show-current")
	if err != nil {
		return "", false, err
	}
	branch = strings.TrimSpace(string(out))
	return branch, branch != "", nil
}

// CurrentCommit returns the full hash of HEAD in dir.
func CurrentCommit(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// DefaultBranch resolves the remote's default branch: the origin/HEAD
// symref, falling back to main, then master, then the first remaining
// refs/remotes/origin/* ref.
func DefaultBranch(ctx context.Context, repoDir string) (string, error) {
	if out, err := outputGit(ctx, repoDir, "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		ref := strings.TrimSpace(string(out))
		if name, ok := strings.CutPrefix(ref, "refs/remotes/origin/"); ok {
			return name, nil
		}
	}

	for _, name := range []string{"main", "master"} {
		if VerifyRevision(ctx, repoDir, "refs/remotes/origin/"+name) {
			return name, nil
		}
	}

	out, err := outputGit(ctx, repoDir, "for-each-ref", "--format=%(refname)", "refs/remotes/origin")
	if err == nil {
		for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
			if line == "" || strings.HasSuffix(line, "/HEAD") {
				continue
			}
			return strings.TrimPrefix(line, "refs/remotes/origin/"), nil
		}
	}

	return "", fmt.Errorf("git: no remote-tracking branches found to determine default branch")
}

// RemoteBranchExists reports whether origin has a tracking ref for name.
func RemoteBranchExists(ctx context.Context, repoDir, name string) bool {
	return RefExists(ctx, repoDir, "refs/remotes/origin/"+name)
}

// Status returns the raw porcelain status output for wtDir.
func Status(ctx context.Context, wtDir string) (string, error) {
	out, err := outputGit(ctx, wtDir, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// IsTracked reports whether path is tracked by git in wtDir's index. It
// never surfaces git's stderr; callers only need the boolean.
func IsTracked(ctx context.Context, wtDir, path string) bool {
	c := exec.CommandContext(ctx, "git", "-C", wtDir, "ls-files", "--error-unmatch", path)
	return cmd.Silent(c) == nil
}

// CloneBare clones url as a bare repository at dest.
func CloneBare(ctx context.Context, url, dest string) error {
	return cmd.RunContext(ctx, "", "git", "clone", "--bare", url, dest)
}

// SetConfig sets key to val in repoDir's local config.
func SetConfig(ctx context.Context, repoDir, key, val string) error {
	return runGit(ctx, repoDir, "config", key, val)
}

// RemoteSetHeadAuto asks git to determine origin/HEAD from the remote.
func RemoteSetHeadAuto(ctx context.Context, repoDir string) error {
	return runGit(ctx, repoDir, "remote", "set-head", "origin", "--auto")
}

// ListLocalBranches returns the short names under refs/heads/*. Used by
// container init to clear the branches a bare clone mirrors directly into
// refs/heads/*, once they have been re-fetched into refs/remotes/origin/*.
func ListLocalBranches(ctx context.Context, repoDir string) ([]string, error) {
	out, err := outputGit(ctx, repoDir, "for-each-ref", "--format=%(refname)", "refs/heads")
	if err != nil {
		return nil, fmt.Errorf("git: list local branches: %w", err)
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		names = append(names, strings.TrimPrefix(line, "refs/heads/"))
	}
	return names, nil
}
