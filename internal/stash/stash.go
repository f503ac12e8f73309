// Package stash preserves a branch's uncommitted work across slot eviction.
// State lives in two places kept in lockstep: a per-branch metadata file
// under stashes/<encoded>.toml, and an anchor ref refs/wt/stashes/<encoded>
// in the bare repository that pins the stash commit so git never garbage
// collects it.
package stash

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/zstd"

	"github.com/raphi011/slotctl/internal/codec"
	"github.com/raphi011/slotctl/internal/config"
	"github.com/raphi011/slotctl/internal/git"
	"github.com/raphi011/slotctl/internal/log"
	"github.com/raphi011/slotctl/internal/overlay"
	"github.com/raphi011/slotctl/internal/storage"
)

// Status is a stash record's lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Record is one branch's stash metadata.
type Record struct {
	Branch      string
	Commit      string // HEAD at eviction
	StashRef    string
	CreatedAt   time.Time
	LastUsedAt  time.Time
	Status      Status
	ArchivedAt  time.Time // zero unless Status == StatusArchived
	ArchivePath string    // empty unless Status == StatusArchived
}

type fileRecord struct {
	Branch      string     `toml:"branch"`
	Commit      string     `toml:"commit"`
	StashRef    string     `toml:"stash_ref"`
	CreatedAt   time.Time  `toml:"created_at"`
	LastUsedAt  time.Time  `toml:"last_used_at"`
	Status      string     `toml:"status"`
	ArchivedAt  *time.Time `toml:"archived_at,omitempty"`
	ArchivePath *string    `toml:"archive_path,omitempty"`
}

func metadataPath(stashesDir, encoded string) string {
	return filepath.Join(stashesDir, encoded+".toml")
}

// loadRecord reads the metadata file for an already-encoded branch name. A
// missing file is reported via ok=false with no error.
func loadRecord(stashesDir, encoded string) (*Record, bool, error) {
	data, err := os.ReadFile(metadataPath(stashesDir, encoded))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var fr fileRecord
	if err := toml.Unmarshal(data, &fr); err != nil {
		return nil, false, fmt.Errorf("stash: parse metadata for %s: %w", encoded, err)
	}
	rec := &Record{
		Branch:     fr.Branch,
		Commit:     fr.Commit,
		StashRef:   fr.StashRef,
		CreatedAt:  fr.CreatedAt,
		LastUsedAt: fr.LastUsedAt,
		Status:     Status(fr.Status),
	}
	if fr.ArchivedAt != nil {
		rec.ArchivedAt = *fr.ArchivedAt
	}
	if fr.ArchivePath != nil {
		rec.ArchivePath = *fr.ArchivePath
	}
	return rec, true, nil
}

func saveRecord(stashesDir, encoded string, rec *Record) error {
	fr := fileRecord{
		Branch:     rec.Branch,
		Commit:     rec.Commit,
		StashRef:   rec.StashRef,
		CreatedAt:  rec.CreatedAt,
		LastUsedAt: rec.LastUsedAt,
		Status:     string(rec.Status),
	}
	if rec.Status == StatusArchived {
		at := rec.ArchivedAt
		fr.ArchivedAt = &at
		path := rec.ArchivePath
		fr.ArchivePath = &path
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(fr); err != nil {
		return err
	}
	return storage.WriteFileAtomic(metadataPath(stashesDir, encoded), buf.Bytes(), 0o644)
}

func deleteRecord(stashesDir, encoded string) error {
	err := os.Remove(metadataPath(stashesDir, encoded))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func anchorRef(encoded string) string {
	return "refs/wt/stashes/" + encoded
}

// List returns every stash record (active and archived) under stashesDir,
// sorted by branch name. Used by the CLI's `stash list`.
func List(stashesDir string) ([]*Record, error) {
	entries, err := os.ReadDir(stashesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []*Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		encoded := strings.TrimSuffix(e.Name(), ".toml")
		rec, ok, err := loadRecord(stashesDir, encoded)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Branch < records[j].Branch })
	return records, nil
}

// Lookup returns branch's stash record, active or archived, without
// mutating anything. Used by the CLI's stash subcommands and by the
// checkout orchestrator to decide whether a restore was skipped because
// the stash had already been archived.
func Lookup(stashesDir, branch string) (*Record, bool, error) {
	return loadRecord(stashesDir, codec.Encode(branch))
}

// Save captures slotDir's uncommitted work for branch. It first strips the
// overlay (infrastructure, not user state — leaving it in would break
// restore), then stashes only if the tree is actually dirty. Returns false
// if there was nothing to save. The caller must follow a true result with
// a hard reset and untracked clean; Save does not do this itself, since a
// failed eviction downstream should not silently discard work twice.
func Save(ctx context.Context, bareRepo, stashesDir, slotDir, branch string, sharedRoot string, sharedCfg config.SharedConfig) (bool, error) {
	if err := overlay.Remove(ctx, slotDir, sharedRoot, sharedCfg); err != nil {
		return false, fmt.Errorf("stash: remove overlay before save: %w", err)
	}

	status, err := git.Status(ctx, slotDir)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(status) == "" {
		return false, nil
	}

	commit, err := git.CurrentCommit(ctx, slotDir)
	if err != nil {
		return false, err
	}

	ref, err := git.StashPushU(ctx, slotDir)
	if err != nil {
		return false, err
	}

	encoded := codec.Encode(branch)
	if err := git.UpdateRef(ctx, bareRepo, anchorRef(encoded), ref); err != nil {
		return false, err
	}

	now := time.Now()
	rec := &Record{
		Branch:     branch,
		Commit:     commit,
		StashRef:   ref,
		CreatedAt:  now,
		LastUsedAt: now,
		Status:     StatusActive,
	}
	if err := saveRecord(stashesDir, encoded, rec); err != nil {
		return false, err
	}
	return true, nil
}

// Outcome is the result of [Restore].
type Outcome string

const (
	OutcomeNone     Outcome = "none"
	OutcomeRestored Outcome = "restored"
	OutcomeConflict Outcome = "conflict"
)

// Restore applies branch's active stash, if any, into slotDir.
func Restore(ctx context.Context, bareRepo, stashesDir, slotDir, branch string) (Outcome, *Record, error) {
	encoded := codec.Encode(branch)
	rec, ok, err := loadRecord(stashesDir, encoded)
	if err != nil {
		return "", nil, err
	}
	if !ok || rec.Status != StatusActive {
		return OutcomeNone, nil, nil
	}

	result, err := git.StashApply(ctx, slotDir, rec.StashRef)
	if err != nil {
		return "", nil, err
	}
	if result == git.ApplyConflict {
		return OutcomeConflict, rec, nil
	}

	if err := git.DeleteRef(ctx, bareRepo, anchorRef(encoded)); err != nil {
		return "", nil, err
	}
	if err := deleteRecord(stashesDir, encoded); err != nil {
		return "", nil, err
	}
	return OutcomeRestored, rec, nil
}

// Drop discards branch's stash entirely: anchor ref, archive file, and
// metadata. Absence of any of the three is not an error.
func Drop(ctx context.Context, bareRepo, stashesDir, archiveDir, branch string) error {
	encoded := codec.Encode(branch)
	if err := git.DeleteRef(ctx, bareRepo, anchorRef(encoded)); err != nil {
		return err
	}
	for _, ext := range []string{".patch.zst", ".patch"} {
		path := filepath.Join(archiveDir, encoded+ext)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return deleteRecord(stashesDir, encoded)
}

// Touch bumps branch's stash last_used_at to now, so it resists archival.
// A branch with no stash record is left alone; an archived record is
// bumped like an active one.
func Touch(stashesDir, branch string) error {
	encoded := codec.Encode(branch)
	rec, ok, err := loadRecord(stashesDir, encoded)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	rec.LastUsedAt = time.Now()
	return saveRecord(stashesDir, encoded, rec)
}

// Archive exports an active stash to a standalone patch and frees the
// anchor ref, only for records currently StatusActive.
func Archive(ctx context.Context, bareRepo, stashesDir, archiveDir, branch string) error {
	l := log.FromContext(ctx)
	encoded := codec.Encode(branch)
	rec, ok, err := loadRecord(stashesDir, encoded)
	if err != nil {
		return err
	}
	if !ok || rec.Status != StatusActive {
		return nil
	}

	patch, err := git.DiffBinary(ctx, bareRepo, rec.Commit, rec.StashRef)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Write(patch)
	if git.HasThirdParent(ctx, bareRepo, rec.StashRef) {
		untracked, err := git.DiffTreeRootPatch(ctx, bareRepo, rec.StashRef)
		if err != nil {
			return err
		}
		buf.WriteString("\n# untracked files\n")
		buf.Write(untracked)
	}

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return err
	}

	var archivePath string
	compressed, compErr := compressZstd(buf.Bytes())
	if compErr == nil {
		archivePath = filepath.Join(archiveDir, encoded+".patch.zst")
		if err := storage.WriteFileAtomic(archivePath, compressed, 0o644); err != nil {
			return err
		}
	} else {
		l.Printf("stash: zstd compression unavailable (%v), writing uncompressed patch for %s", compErr, branch)
		archivePath = filepath.Join(archiveDir, encoded+".patch")
		if err := storage.WriteFileAtomic(archivePath, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}

	if err := git.DeleteRef(ctx, bareRepo, anchorRef(encoded)); err != nil {
		return err
	}

	rec.Status = StatusArchived
	rec.ArchivedAt = time.Now()
	rec.ArchivePath = archivePath
	return saveRecord(stashesDir, encoded, rec)
}

// Show returns the diff for branch's stash, active or archived, for
// display purposes. An active record is diffed live against the bare
// repository; an archived one is read back from its patch file,
// transparently decompressing zstd archives.
func Show(ctx context.Context, bareRepo, stashesDir, branch string) ([]byte, *Record, error) {
	rec, ok, err := Lookup(stashesDir, branch)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, nil
	}

	if rec.Status == StatusActive {
		patch, err := git.DiffBinary(ctx, bareRepo, rec.Commit, rec.StashRef)
		if err != nil {
			return nil, rec, err
		}
		if git.HasThirdParent(ctx, bareRepo, rec.StashRef) {
			untracked, err := git.DiffTreeRootPatch(ctx, bareRepo, rec.StashRef)
			if err != nil {
				return nil, rec, err
			}
			patch = append(patch, "\n# untracked files\n"...)
			patch = append(patch, untracked...)
		}
		return patch, rec, nil
	}

	data, err := os.ReadFile(rec.ArchivePath)
	if err != nil {
		return nil, rec, err
	}
	if strings.HasSuffix(rec.ArchivePath, ".zst") {
		data, err = decompressZstd(data)
		if err != nil {
			return nil, rec, err
		}
	}
	return data, rec, nil
}

func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

func compressZstd(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ScanResult is the outcome of [ArchiveScan].
type ScanResult struct {
	Archived []string
	Skipped  []string
}

// ArchiveScan archives every active stash old enough, remote-gone, and not
// excludeBranch (the branch about to be restored in the same operation).
func ArchiveScan(ctx context.Context, bareRepo, stashesDir, archiveDir string, archiveAfterDays int, excludeBranch string) (ScanResult, error) {
	var result ScanResult

	entries, err := os.ReadDir(stashesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, err
	}

	threshold := time.Duration(archiveAfterDays) * 24 * time.Hour
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		encoded := strings.TrimSuffix(e.Name(), ".toml")

		rec, ok, err := loadRecord(stashesDir, encoded)
		if err != nil {
			return result, err
		}
		if !ok || rec.Status != StatusActive {
			continue
		}

		switch {
		case rec.Branch == excludeBranch:
			result.Skipped = append(result.Skipped, rec.Branch)
		case time.Since(rec.LastUsedAt) < threshold:
			result.Skipped = append(result.Skipped, rec.Branch)
		case git.RemoteBranchExists(ctx, bareRepo, rec.Branch):
			result.Skipped = append(result.Skipped, rec.Branch)
		default:
			if err := Archive(ctx, bareRepo, stashesDir, archiveDir, rec.Branch); err != nil {
				return result, err
			}
			result.Archived = append(result.Archived, rec.Branch)
		}
	}
	return result, nil
}
