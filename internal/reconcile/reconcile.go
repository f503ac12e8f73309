// Package reconcile brings the persisted slot state back into agreement
// with ground truth: git's own worktree registry and the directories
// actually present in the container. It is the module's self-healing
// pass — checkout and clean run it first, so drift caused by a
// user poking the filesystem directly, an interrupted prior run, or an
// external `git worktree` call never wedges the tool.
package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/raphi011/slotctl/internal/container"
	"github.com/raphi011/slotctl/internal/git"
	"github.com/raphi011/slotctl/internal/log"
	"github.com/raphi011/slotctl/internal/slotmgr"
	"github.com/raphi011/slotctl/internal/state"
)

func hasGitPointer(slotPath string) bool {
	_, err := os.Lstat(filepath.Join(slotPath, ".git"))
	return err == nil
}

func dirEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

func candidateNames(containerDir string, st *state.State, worktrees []git.WorktreeEntry) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	entries, err := os.ReadDir(containerDir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == container.DirName {
			continue
		}
		add(e.Name())
	}

	for _, name := range st.SlotOrder {
		add(name)
	}

	for _, wt := range worktrees {
		if filepath.Dir(wt.Path) == containerDir {
			add(filepath.Base(wt.Path))
		}
	}

	return names, nil
}

// Reconcile executes the §4.J pass over every slot candidate and mutates
// st in place. The caller persists state afterward.
func Reconcile(ctx context.Context, repoDir, containerDir string, st *state.State) error {
	l := log.FromContext(ctx)

	worktrees, err := git.WorktreeList(ctx, repoDir)
	if err != nil {
		return err
	}
	byPath := make(map[string]git.WorktreeEntry, len(worktrees))
	for _, wt := range worktrees {
		byPath[filepath.Clean(wt.Path)] = wt
	}

	names, err := candidateNames(containerDir, st, worktrees)
	if err != nil {
		return err
	}

	// knownSlots snapshots which names were already tracked slots before this
	// pass, so the corrupted-slot arm below only ever touches directories
	// reconcile itself owns — never an arbitrary sibling directory that
	// happens to share the container root.
	knownSlots := make(map[string]bool, len(st.SlotOrder))
	for _, name := range st.SlotOrder {
		knownSlots[name] = true
	}

	needsPrune := false

	for _, name := range names {
		slotPath := filepath.Join(containerDir, name)
		info, statErr := os.Stat(slotPath)
		onDisk := statErr == nil && info.IsDir()
		entry, registered := byPath[filepath.Clean(slotPath)]

		switch {
		case onDisk && !hasGitPointer(slotPath) && (knownSlots[name] || registered):
			// Corrupted slot: a name reconcile already owns (a tracked slot
			// or a path git's worktree registry still knows about) that is
			// missing its .git pointer. Only ever remove it when empty; a
			// non-empty directory is left alone for manual inspection.
			empty, derr := dirEmpty(slotPath)
			if derr != nil {
				return derr
			}
			if !empty {
				l.Printf("reconcile: %s is missing its .git pointer and is not empty; leaving it for manual inspection", name)
				removeEntry(st, name)
				continue
			}
			if err := os.Remove(slotPath); err != nil {
				return err
			}
			if err := git.WorktreePrune(ctx, repoDir); err != nil {
				return err
			}
			commit, cerr := slotmgr.ResolveDefaultCommit(ctx, repoDir)
			if cerr == nil {
				if err := git.WorktreeAdd(ctx, repoDir, slotPath, commit); err == nil {
					setVacant(st, name)
					continue
				}
			}
			removeEntry(st, name)

		case onDisk && !hasGitPointer(slotPath):
			// Not a slot reconcile owns and not a git worktree at all: an
			// orphan directory that happens to share the container root.
			// Warn and leave it untouched on disk.
			l.Printf("reconcile: %s is an orphan directory (not a registered git worktree)", name)
			removeEntry(st, name)

		case onDisk && registered:
			branch := entry.Branch // already empty for a detached worktree
			rec, existed := st.Slots[name]
			if !existed {
				rec = state.SlotRecord{LastUsedAt: time.Time{}}
				st.SlotOrder = append(st.SlotOrder, name)
			}
			rec.Branch = branch
			st.Slots[name] = rec

		case onDisk && !registered:
			l.Printf("reconcile: %s is an orphan directory (not a registered git worktree)", name)
			removeEntry(st, name)

		case !onDisk && registered:
			needsPrune = true
			removeEntry(st, name)

		default: // !onDisk && !registered
			removeEntry(st, name)
		}
	}

	if needsPrune {
		if err := git.WorktreePrune(ctx, repoDir); err != nil {
			return err
		}
	}
	return nil
}

func setVacant(st *state.State, name string) {
	rec, existed := st.Slots[name]
	if !existed {
		st.SlotOrder = append(st.SlotOrder, name)
	}
	rec.Branch = ""
	st.Slots[name] = rec
}

func removeEntry(st *state.State, name string) {
	if _, existed := st.Slots[name]; existed {
		delete(st.Slots, name)
		st.RemoveFromOrder(name)
	}
}
