package stash

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/raphi011/slotctl/internal/config"
	"github.com/raphi011/slotctl/internal/git"
)

// setupBareWithWorktree mirrors internal/git's helper of the same name,
// rebuilt here since that one is unexported to its own package.
func setupBareWithWorktree(t *testing.T) (bareDir, wtDir, stashesDir, archiveDir string) {
	t.Helper()
	ctx := context.Background()
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(tmpDir, "origin")
	run := func(dir string, args ...string) {
		t.Helper()
		c := exec.CommandContext(ctx, "git", args...)
		c.Dir = dir
		if out, err := c.CombinedOutput(); err != nil {
			t.Fatalf("git %v in %s: %v\n%s", args, dir, err, out)
		}
	}
	run("", "init", "-b", "main", src)
	run(src, "config", "user.email", "test@test.com")
	run(src, "config", "user.name", "Test User")
	run(src, "config", "commit.gpgsign", "false")
	if err := os.WriteFile(filepath.Join(src, "README.md"), []byte("# test\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run(src, "add", "README.md")
	run(src, "commit", "-m", "initial commit")

	bareDir = filepath.Join(tmpDir, "repo.git")
	if err := git.CloneBare(ctx, src, bareDir); err != nil {
		t.Fatalf("CloneBare failed: %v", err)
	}

	wtDir = filepath.Join(tmpDir, "slot-1")
	commit, err := git.CurrentCommit(ctx, src)
	if err != nil {
		t.Fatal(err)
	}
	if err := git.WorktreeAdd(ctx, bareDir, wtDir, commit); err != nil {
		t.Fatalf("WorktreeAdd failed: %v", err)
	}
	if err := git.Checkout(ctx, wtDir, "main"); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	run(wtDir, "config", "user.email", "test@test.com")
	run(wtDir, "config", "user.name", "Test User")
	run(wtDir, "config", "commit.gpgsign", "false")

	stashesDir = filepath.Join(tmpDir, "stashes")
	archiveDir = filepath.Join(stashesDir, "archive")
	if err := os.MkdirAll(stashesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return bareDir, wtDir, stashesDir, archiveDir
}

func emptyShared() (string, config.SharedConfig) {
	return "", config.SharedConfig{}
}

func TestSave_NoDirtyStateReturnsFalse(t *testing.T) {
	t.Parallel()
	bareDir, wtDir, stashesDir, _ := setupBareWithWorktree(t)
	sharedRoot, sharedCfg := emptyShared()

	saved, err := Save(context.Background(), bareDir, stashesDir, wtDir, "feature-x", sharedRoot, sharedCfg)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved {
		t.Error("Save should return false on a clean tree")
	}
}

func TestSaveRestore_RoundTrip(t *testing.T) {
	t.Parallel()
	bareDir, wtDir, stashesDir, _ := setupBareWithWorktree(t)
	sharedRoot, sharedCfg := emptyShared()
	ctx := context.Background()

	scratch := filepath.Join(wtDir, "scratch.txt")
	if err := os.WriteFile(scratch, []byte("wip\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	saved, err := Save(ctx, bareDir, stashesDir, wtDir, "feature-x", sharedRoot, sharedCfg)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !saved {
		t.Fatal("Save should return true for a dirty tree")
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Error("scratch.txt should be gone after Save")
	}

	rec, ok, err := loadRecord(stashesDir, "feature-x")
	if err != nil || !ok {
		t.Fatalf("metadata not written: ok=%v err=%v", ok, err)
	}
	if rec.Status != StatusActive {
		t.Errorf("Status = %v, want active", rec.Status)
	}

	outcome, restored, err := Restore(ctx, bareDir, stashesDir, wtDir, "feature-x")
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if outcome != OutcomeRestored {
		t.Fatalf("outcome = %v, want restored", outcome)
	}
	if restored.Branch != "feature-x" {
		t.Errorf("restored record branch = %q", restored.Branch)
	}
	content, err := os.ReadFile(scratch)
	if err != nil {
		t.Fatalf("scratch.txt should be restored: %v", err)
	}
	if string(content) != "wip\n" {
		t.Errorf("content = %q, want wip", content)
	}

	if _, ok, _ := loadRecord(stashesDir, "feature-x"); ok {
		t.Error("metadata should be removed after a restored outcome")
	}
	if git.RefExists(ctx, bareDir, anchorRef("feature-x")) {
		t.Error("anchor ref should be deleted after a restored outcome")
	}
}

func TestRestore_NoRecordYieldsNone(t *testing.T) {
	t.Parallel()
	bareDir, wtDir, stashesDir, _ := setupBareWithWorktree(t)

	outcome, rec, err := Restore(context.Background(), bareDir, stashesDir, wtDir, "never-saved")
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if outcome != OutcomeNone || rec != nil {
		t.Errorf("outcome = %v, rec = %v, want none/nil", outcome, rec)
	}
}

func TestDrop_RemovesRefAndMetadata(t *testing.T) {
	t.Parallel()
	bareDir, wtDir, stashesDir, archiveDir := setupBareWithWorktree(t)
	sharedRoot, sharedCfg := emptyShared()
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(wtDir, "scratch.txt"), []byte("wip\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Save(ctx, bareDir, stashesDir, wtDir, "feature-x", sharedRoot, sharedCfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := Drop(ctx, bareDir, stashesDir, archiveDir, "feature-x"); err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if _, ok, _ := loadRecord(stashesDir, "feature-x"); ok {
		t.Error("metadata should be gone after Drop")
	}
	if git.RefExists(ctx, bareDir, anchorRef("feature-x")) {
		t.Error("anchor ref should be gone after Drop")
	}
}

func TestTouch_BumpsLastUsedAt(t *testing.T) {
	t.Parallel()
	bareDir, wtDir, stashesDir, _ := setupBareWithWorktree(t)
	sharedRoot, sharedCfg := emptyShared()
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(wtDir, "scratch.txt"), []byte("wip\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Save(ctx, bareDir, stashesDir, wtDir, "feature-x", sharedRoot, sharedCfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	before, _, _ := loadRecord(stashesDir, "feature-x")

	if err := Touch(stashesDir, "feature-x"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	after, ok, _ := loadRecord(stashesDir, "feature-x")
	if !ok {
		t.Fatal("metadata missing after Touch")
	}
	if !after.LastUsedAt.After(before.LastUsedAt) && !after.LastUsedAt.Equal(before.LastUsedAt) {
		t.Errorf("LastUsedAt should not move backward: before=%v after=%v", before.LastUsedAt, after.LastUsedAt)
	}
}

func TestTouch_NoRecordIsNoop(t *testing.T) {
	t.Parallel()
	_, _, stashesDir, _ := setupBareWithWorktree(t)
	if err := Touch(stashesDir, "never-saved"); err != nil {
		t.Fatalf("Touch on missing record should not error: %v", err)
	}
}

func TestArchive_CompressesAndFreesRef(t *testing.T) {
	t.Parallel()
	bareDir, wtDir, stashesDir, archiveDir := setupBareWithWorktree(t)
	sharedRoot, sharedCfg := emptyShared()
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(wtDir, "tracked-change.txt"), []byte("new\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Save(ctx, bareDir, stashesDir, wtDir, "feature-x", sharedRoot, sharedCfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := Archive(ctx, bareDir, stashesDir, archiveDir, "feature-x"); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	rec, ok, err := loadRecord(stashesDir, "feature-x")
	if err != nil || !ok {
		t.Fatalf("metadata should survive archival: ok=%v err=%v", ok, err)
	}
	if rec.Status != StatusArchived {
		t.Errorf("Status = %v, want archived", rec.Status)
	}
	if rec.ArchivePath == "" {
		t.Fatal("ArchivePath should be set")
	}
	if _, err := os.Stat(rec.ArchivePath); err != nil {
		t.Errorf("archive file should exist at %s: %v", rec.ArchivePath, err)
	}
	if git.RefExists(ctx, bareDir, anchorRef("feature-x")) {
		t.Error("anchor ref should be freed after archival")
	}
}

func TestArchiveScan_SkipsExcludedAndRecent(t *testing.T) {
	t.Parallel()
	bareDir, wtDir, stashesDir, archiveDir := setupBareWithWorktree(t)
	sharedRoot, sharedCfg := emptyShared()
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(wtDir, "scratch.txt"), []byte("wip\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Save(ctx, bareDir, stashesDir, wtDir, "feature-x", sharedRoot, sharedCfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	result, err := ArchiveScan(ctx, bareDir, stashesDir, archiveDir, 7, "feature-x")
	if err != nil {
		t.Fatalf("ArchiveScan failed: %v", err)
	}
	if len(result.Archived) != 0 {
		t.Errorf("excluded branch should not be archived, got %v", result.Archived)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "feature-x" {
		t.Errorf("Skipped = %v, want [feature-x]", result.Skipped)
	}

	resultNoExclude, err := ArchiveScan(ctx, bareDir, stashesDir, archiveDir, 7, "")
	if err != nil {
		t.Fatalf("ArchiveScan failed: %v", err)
	}
	if len(resultNoExclude.Archived) != 0 {
		t.Errorf("fresh stash should be skipped for recency, got archived=%v", resultNoExclude.Archived)
	}
}

func TestList_ReturnsAllRecordsSortedByBranch(t *testing.T) {
	t.Parallel()
	bareDir, wtDir, stashesDir, _ := setupBareWithWorktree(t)
	sharedRoot, sharedCfg := emptyShared()
	ctx := context.Background()

	for _, branch := range []string{"zeta", "alpha"} {
		if err := os.WriteFile(filepath.Join(wtDir, branch+".txt"), []byte("wip\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Save(ctx, bareDir, stashesDir, wtDir, branch, sharedRoot, sharedCfg); err != nil {
			t.Fatalf("Save(%s) failed: %v", branch, err)
		}
	}

	records, err := List(stashesDir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List returned %d records, want 2", len(records))
	}
	if records[0].Branch != "alpha" || records[1].Branch != "zeta" {
		t.Errorf("List should sort by branch, got [%s, %s]", records[0].Branch, records[1].Branch)
	}
}

func TestShow_ActiveAndArchived(t *testing.T) {
	t.Parallel()
	bareDir, wtDir, stashesDir, archiveDir := setupBareWithWorktree(t)
	sharedRoot, sharedCfg := emptyShared()
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(wtDir, "scratch.txt"), []byte("wip content\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Save(ctx, bareDir, stashesDir, wtDir, "feature-x", sharedRoot, sharedCfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	patch, rec, err := Show(ctx, bareDir, stashesDir, "feature-x")
	if err != nil {
		t.Fatalf("Show (active) failed: %v", err)
	}
	if rec == nil || rec.Status != StatusActive {
		t.Fatalf("expected an active record, got %+v", rec)
	}
	if len(patch) == 0 {
		t.Error("active Show should return a non-empty patch")
	}

	if err := Archive(ctx, bareDir, stashesDir, archiveDir, "feature-x"); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	archivedPatch, archivedRec, err := Show(ctx, bareDir, stashesDir, "feature-x")
	if err != nil {
		t.Fatalf("Show (archived) failed: %v", err)
	}
	if archivedRec == nil || archivedRec.Status != StatusArchived {
		t.Fatalf("expected an archived record, got %+v", archivedRec)
	}
	if len(archivedPatch) == 0 {
		t.Error("archived Show should decompress and return a non-empty patch")
	}
}
