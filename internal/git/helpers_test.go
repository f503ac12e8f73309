package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// resolveTempDir creates a temp directory and resolves symlinks (needed on
// macOS, where /tmp is itself a symlink into /private/tmp).
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// configureTestRepo sets identity and disables signing so commits succeed
// in a CI sandbox with no global gitconfig.
func configureTestRepo(t *testing.T, repoPath string) {
	t.Helper()
	ctx := context.Background()
	for _, args := range [][]string{
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		if err := runGit(ctx, repoPath, args...); err != nil {
			t.Fatalf("failed to run git %v: %v", args, err)
		}
	}
}

// setupTestRepo creates a repo with a main branch and one commit, and
// returns its resolved path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	tmpDir := resolveTempDir(t)
	repoPath := filepath.Join(tmpDir, "test-repo")

	ctx := context.Background()
	if err := runGit(ctx, "", "init", "-b", "main", repoPath); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	configureTestRepo(t, repoPath)

	readme := filepath.Join(repoPath, "README.md")
	if err := os.WriteFile(readme, []byte("# test\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := runGit(ctx, repoPath, "add", "README.md"); err != nil {
		t.Fatalf("failed to add file: %v", err)
	}
	if err := runGit(ctx, repoPath, "commit", "-m", "Initial commit"); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return repoPath
}

// setupBareWithWorktree creates a bare repo plus one attached worktree
// checked out to main, mirroring the container's CTL/repo/ + slot layout.
func setupBareWithWorktree(t *testing.T) (bareDir, wtDir string) {
	t.Helper()
	src := setupTestRepo(t)
	tmpDir := filepath.Dir(src)

	bareDir = filepath.Join(tmpDir, "repo.git")
	ctx := context.Background()
	if err := runGit(ctx, "", "clone", "--bare", src, bareDir); err != nil {
		t.Fatalf("failed to clone bare: %v", err)
	}

	wtDir = filepath.Join(tmpDir, "wt-main")
	if err := runGit(ctx, bareDir, "worktree", "add", wtDir, "main"); err != nil {
		t.Fatalf("failed to add worktree: %v", err)
	}
	configureTestRepo(t, wtDir)
	return bareDir, wtDir
}
