// Package slotmgr implements the slot ↔ branch assignment policy: which
// slot a checkout lands in, which slots are created or removed when
// config.slot_count changes, and the bookkeeping mutations on
// internal/state that every other operation relies on being correct.
package slotmgr

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/raphi011/slotctl/internal/config"
	"github.com/raphi011/slotctl/internal/git"
	"github.com/raphi011/slotctl/internal/overlay"
	"github.com/raphi011/slotctl/internal/slotname"
	"github.com/raphi011/slotctl/internal/state"
	"github.com/raphi011/slotctl/internal/stash"
	"github.com/raphi011/slotctl/internal/tmpl"
)

// AllPinned is raised by SelectForCheckout when every candidate slot is
// pinned and none is vacant.
type AllPinned struct{}

func (e *AllPinned) Error() string {
	return "every slot is pinned; unpin one or raise slot_count"
}

// TargetBelowPinned is raised by AdjustSlotCount when shrinking below the
// number of pinned slots is impossible without unpinning one first.
type TargetBelowPinned struct {
	Pinned int
	Target int
}

func (e *TargetBelowPinned) Error() string {
	return fmt.Sprintf("cannot shrink to %d slots: %d are pinned", e.Target, e.Pinned)
}

func isVacant(rec state.SlotRecord) bool {
	return rec.Branch == ""
}

// FindSlotForBranch returns the slot currently holding branch, if any.
func FindSlotForBranch(st *state.State, branch string) (string, bool) {
	for _, name := range st.SlotOrder {
		if rec, ok := st.Slots[name]; ok && rec.Branch == branch {
			return name, true
		}
	}
	return "", false
}

// SelectForCheckout picks the slot a new checkout should land in: the
// first vacant slot in insertion order, else the non-pinned slot with the
// smallest LastUsedAt, else AllPinned.
func SelectForCheckout(st *state.State) (string, error) {
	for _, name := range st.SlotOrder {
		if rec, ok := st.Slots[name]; ok && isVacant(rec) {
			return name, nil
		}
	}

	var best string
	var bestTime time.Time
	found := false
	for _, name := range st.SlotOrder {
		rec, ok := st.Slots[name]
		if !ok || rec.Pinned {
			continue
		}
		if !found || rec.LastUsedAt.Before(bestTime) {
			best = name
			bestTime = rec.LastUsedAt
			found = true
		}
	}
	if !found {
		return "", &AllPinned{}
	}
	return best, nil
}

// MarkUsed sets slot's branch and LastUsedAt in-memory. The caller
// persists state afterward.
func MarkUsed(st *state.State, slot, branch string, now time.Time) {
	rec := st.Slots[slot]
	rec.Branch = branch
	rec.LastUsedAt = now
	st.Slots[slot] = rec
}

// MarkVacant clears slot's branch in-memory, preserving Pinned and
// LastUsedAt.
func MarkVacant(st *state.State, slot string) {
	rec := st.Slots[slot]
	rec.Branch = ""
	st.Slots[slot] = rec
}

// CreateSlots generates count fresh, collision-free slot names, adds a
// detached worktree at commit for each under containerDir, and returns
// the names in creation order.
func CreateSlots(ctx context.Context, repoDir, containerDir string, count int, commit string, forbidden map[string]bool) ([]string, error) {
	names := make([]string, 0, count)
	taken := make(map[string]bool, len(forbidden))
	for k, v := range forbidden {
		taken[k] = v
	}

	for i := 0; i < count; i++ {
		name, err := slotname.Generate(taken)
		if err != nil {
			return names, err
		}
		taken[name] = true

		slotPath := filepath.Join(containerDir, name)
		if err := git.WorktreeAdd(ctx, repoDir, slotPath, commit); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// ResolveDefaultCommit picks the commit a fresh vacant slot checks out:
// origin/<defaultBranch> when it resolves, else HEAD of repoDir. Used both
// when growing the slot pool and when the reconciler repairs a corrupted
// slot.
func ResolveDefaultCommit(ctx context.Context, repoDir string) (string, error) {
	if def, err := git.DefaultBranch(ctx, repoDir); err == nil {
		if git.VerifyRevision(ctx, repoDir, "refs/remotes/origin/"+def) {
			return "refs/remotes/origin/" + def, nil
		}
	}
	return git.CurrentCommit(ctx, repoDir)
}

// AdjustSlotCount grows or shrinks the slot pool to match cfg.SlotCount.
// Growing creates new vacant slots and runs the template expander and
// overlay establisher on each. Shrinking evicts (saving dirty state) and
// removes the least-recently-used non-pinned slots first, with vacant
// slots evicted before occupied ones when timestamps tie.
func AdjustSlotCount(
	ctx context.Context,
	repoDir, containerDir, sharedRoot, templatesDir string,
	stashesDir string,
	st *state.State,
	cfg config.Config,
) error {
	current := len(st.SlotOrder)
	target := cfg.SlotCount

	switch {
	case target == current:
		return nil

	case target > current:
		forbidden := make(map[string]bool, current)
		for _, name := range st.SlotOrder {
			forbidden[name] = true
		}
		commit, err := ResolveDefaultCommit(ctx, repoDir)
		if err != nil {
			return err
		}
		added, err := CreateSlots(ctx, repoDir, containerDir, target-current, commit, forbidden)
		if err != nil {
			return err
		}
		for _, name := range added {
			st.Slots[name] = state.SlotRecord{LastUsedAt: time.Time{}}
			st.SlotOrder = append(st.SlotOrder, name)

			slotPath := filepath.Join(containerDir, name)
			if err := tmpl.Expand(ctx, templatesDir, slotPath, name, "", cfg.Templates); err != nil {
				return err
			}
			if err := overlay.Establish(ctx, slotPath, sharedRoot, cfg.Shared, ""); err != nil {
				return err
			}
		}
		return nil

	default:
		pinned := 0
		for _, name := range st.SlotOrder {
			if st.Slots[name].Pinned {
				pinned++
			}
		}
		if pinned > target {
			return &TargetBelowPinned{Pinned: pinned, Target: target}
		}

		type candidate struct {
			name   string
			vacant bool
			used   time.Time
		}
		var candidates []candidate
		for _, name := range st.SlotOrder {
			rec := st.Slots[name]
			if rec.Pinned {
				continue
			}
			candidates = append(candidates, candidate{name: name, vacant: isVacant(rec), used: rec.LastUsedAt})
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if !candidates[i].used.Equal(candidates[j].used) {
				return candidates[i].used.Before(candidates[j].used)
			}
			return candidates[i].vacant && !candidates[j].vacant
		})

		toRemove := current - target
		if toRemove > len(candidates) {
			toRemove = len(candidates)
		}

		for i := 0; i < toRemove; i++ {
			name := candidates[i].name
			rec := st.Slots[name]
			slotPath := filepath.Join(containerDir, name)

			if !isVacant(rec) {
				saved, err := stash.Save(ctx, repoDir, stashesDir, slotPath, rec.Branch, sharedRoot, cfg.Shared)
				if err != nil {
					return err
				}
				if saved {
					if err := git.HardReset(ctx, slotPath); err != nil {
						return err
					}
					if err := git.CleanUntracked(ctx, slotPath); err != nil {
						return err
					}
				}
			}

			if err := git.WorktreeRemove(ctx, repoDir, slotPath); err != nil {
				return err
			}
			delete(st.Slots, name)
			st.RemoveFromOrder(name)
		}
		return nil
	}
}
