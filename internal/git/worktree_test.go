package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWorktreeAdd_Detached(t *testing.T) {
	t.Parallel()
	bareDir, wtDir := setupBareWithWorktree(t)
	ctx := context.Background()

	commit, err := CurrentCommit(ctx, wtDir)
	if err != nil {
		t.Fatalf("CurrentCommit failed: %v", err)
	}

	slotPath := filepath.Join(filepath.Dir(wtDir), "slot-1")
	if err := WorktreeAdd(ctx, bareDir, slotPath, commit); err != nil {
		t.Fatalf("WorktreeAdd failed: %v", err)
	}

	if _, err := os.Stat(slotPath); err != nil {
		t.Fatalf("worktree dir should exist: %v", err)
	}
	_, ok, err := CurrentBranch(ctx, slotPath)
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if ok {
		t.Error("freshly added worktree should be detached")
	}
}

func TestWorktreeList(t *testing.T) {
	t.Parallel()
	bareDir, wtDir := setupBareWithWorktree(t)
	ctx := context.Background()

	entries, err := WorktreeList(ctx, bareDir)
	if err != nil {
		t.Fatalf("WorktreeList failed: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Path == wtDir {
			found = true
			if e.Branch != "main" {
				t.Errorf("entry branch = %q, want main", e.Branch)
			}
		}
	}
	if !found {
		t.Errorf("WorktreeList did not include %s: %+v", wtDir, entries)
	}
}

func TestWorktreeRemove(t *testing.T) {
	t.Parallel()
	bareDir, wtDir := setupBareWithWorktree(t)
	ctx := context.Background()

	if err := WorktreeRemove(ctx, bareDir, wtDir); err != nil {
		t.Fatalf("WorktreeRemove failed: %v", err)
	}
	if _, err := os.Stat(wtDir); !os.IsNotExist(err) {
		t.Error("worktree directory should be removed")
	}
}

func TestWorktreePrune(t *testing.T) {
	t.Parallel()
	bareDir, wtDir := setupBareWithWorktree(t)
	ctx := context.Background()

	if err := os.RemoveAll(wtDir); err != nil {
		t.Fatalf("failed to remove worktree dir: %v", err)
	}
	if err := WorktreePrune(ctx, bareDir); err != nil {
		t.Fatalf("WorktreePrune failed: %v", err)
	}

	entries, err := WorktreeList(ctx, bareDir)
	if err != nil {
		t.Fatalf("WorktreeList failed: %v", err)
	}
	for _, e := range entries {
		if e.Path == wtDir {
			t.Error("pruned worktree should not appear in list")
		}
	}
}

func TestCheckoutCreateAndTrack(t *testing.T) {
	t.Parallel()
	bareDir, wtDir := setupBareWithWorktree(t)
	ctx := context.Background()

	if err := CheckoutCreate(ctx, wtDir, "feature-x", "main"); err != nil {
		t.Fatalf("CheckoutCreate failed: %v", err)
	}
	branch, ok, err := CurrentBranch(ctx, wtDir)
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if !ok || branch != "feature-x" {
		t.Errorf("CurrentBranch = (%q, %v), want (feature-x, true)", branch, ok)
	}
	if !VerifyRevision(ctx, bareDir, "refs/heads/feature-x") {
		t.Error("refs/heads/feature-x should exist after CheckoutCreate")
	}
}

func TestHardResetAndCleanUntracked(t *testing.T) {
	t.Parallel()
	_, wtDir := setupBareWithWorktree(t)
	ctx := context.Background()

	tracked := filepath.Join(wtDir, "README.md")
	if err := os.WriteFile(tracked, []byte("modified\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	untracked := filepath.Join(wtDir, "scratch.txt")
	if err := os.WriteFile(untracked, []byte("junk\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := HardReset(ctx, wtDir); err != nil {
		t.Fatalf("HardReset failed: %v", err)
	}
	if err := CleanUntracked(ctx, wtDir); err != nil {
		t.Fatalf("CleanUntracked failed: %v", err)
	}

	content, err := os.ReadFile(tracked)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "# test\n" {
		t.Errorf("README.md = %q, want original content restored", content)
	}
	if _, err := os.Stat(untracked); !os.IsNotExist(err) {
		t.Error("untracked file should be removed by CleanUntracked")
	}
}
