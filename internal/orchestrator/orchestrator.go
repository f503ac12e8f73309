// Package orchestrator implements the checkout end-to-end flow (§4.K):
// locate the container, reconcile and size the slot pool, fetch on
// cooldown, archive stale stashes, then either reuse an existing slot or
// evict/checkout/restore/template/overlay a fresh one — all under the
// container's exclusive lock.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/raphi011/slotctl/internal/config"
	"github.com/raphi011/slotctl/internal/container"
	"github.com/raphi011/slotctl/internal/git"
	"github.com/raphi011/slotctl/internal/lock"
	"github.com/raphi011/slotctl/internal/log"
	"github.com/raphi011/slotctl/internal/navfile"
	"github.com/raphi011/slotctl/internal/overlay"
	"github.com/raphi011/slotctl/internal/reconcile"
	"github.com/raphi011/slotctl/internal/slotmgr"
	"github.com/raphi011/slotctl/internal/stash"
	"github.com/raphi011/slotctl/internal/state"
	"github.com/raphi011/slotctl/internal/tmpl"
)

// BranchNotFound is raised when checking out a branch that exists neither
// locally nor on the tracked remote.
type BranchNotFound struct {
	Branch string
}

func (e *BranchNotFound) Error() string {
	return fmt.Sprintf("branch %q not found locally or on origin", e.Branch)
}

// BranchExists is raised by --create when the branch already exists.
type BranchExists struct {
	Branch string
}

func (e *BranchExists) Error() string {
	return fmt.Sprintf("branch %q already exists", e.Branch)
}

// Options configures one checkout invocation.
type Options struct {
	Branch          string
	Create          bool
	StartPoint      string // only consulted when Create is true
	SuppressRestore bool
	ShellPID        int // for the nav file; 0 disables writing one
	Now             time.Time
}

// Result summarizes a completed checkout for the CLI layer to print.
type Result struct {
	Slot                string
	SlotPath            string
	Branch              string
	DWIMTracking        bool // Git created a local tracking branch implicitly
	StashRestored       *stash.Record
	StashArchivedNotice bool // the branch's stash was archived; restore skipped
	Archived            []string
}

// Checkout runs the full §4.K flow starting from cwd.
func Checkout(ctx context.Context, cwd string, opts Options) (*Result, error) {
	paths, err := container.Locate(cwd)
	if err != nil {
		return nil, err
	}
	if err := paths.Verify(); err != nil {
		return nil, err
	}

	l := lock.New(paths.LockPath)
	if err := l.Acquire(); err != nil {
		return nil, err
	}
	defer l.Release()

	logger := log.FromContext(ctx)
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cfg, err := config.Load(paths.ConfigPath)
	if err != nil {
		return nil, err
	}
	st, err := state.Load(paths.StatePath)
	if err != nil {
		return nil, err
	}

	// Step 2: reconcile, then size the pool.
	if err := reconcile.Reconcile(ctx, paths.RepoDir, paths.Root, st); err != nil {
		return nil, err
	}
	if len(st.SlotOrder) != cfg.SlotCount {
		if err := slotmgr.AdjustSlotCount(ctx, paths.RepoDir, paths.Root, paths.SharedDir, paths.TemplatesDir, paths.StashesDir, st, cfg); err != nil {
			return nil, err
		}
	}

	// Step 3: fetch cooldown.
	cooldown := time.Duration(cfg.FetchCooldownMinutes) * time.Minute
	if st.LastFetchAt.IsZero() || now.Sub(st.LastFetchAt) >= cooldown {
		if err := git.Fetch(ctx, paths.RepoDir); err != nil {
			logger.Printf("slotctl: fetch failed, proceeding with local state: %v", err)
		} else {
			st.LastFetchAt = now
		}
	}

	// Step 4: archive scan, excluding the target branch.
	scanResult, err := stash.ArchiveScan(ctx, paths.RepoDir, paths.StashesDir, paths.ArchiveDir, cfg.ArchiveAfterDays, opts.Branch)
	if err != nil {
		logger.Printf("slotctl: archive scan failed: %v", err)
	}

	result := &Result{Branch: opts.Branch, Archived: scanResult.Archived}

	// Step 5: reuse an already-checked-out slot.
	if !opts.Create {
		if slot, ok := slotmgr.FindSlotForBranch(st, opts.Branch); ok {
			if err := stash.Touch(paths.StashesDir, opts.Branch); err != nil {
				return nil, err
			}
			slotmgr.MarkUsed(st, slot, opts.Branch, now)
			st.RecordHistory(opts.Branch, now)
			if err := persist(paths, st); err != nil {
				return nil, err
			}
			slotPath := filepath.Join(paths.Root, slot)
			if err := writeNav(paths, opts, slotPath); err != nil {
				return nil, err
			}
			result.Slot = slot
			result.SlotPath = slotPath
			return result, nil
		}
	}

	// Step 6: pre-checks, before any mutation.
	localBranchExistedBefore := st.HistoryContains(opts.Branch)
	if opts.Create {
		if git.RefExists(ctx, paths.RepoDir, "refs/heads/"+opts.Branch) {
			return nil, &BranchExists{Branch: opts.Branch}
		}
		if opts.StartPoint != "" && !git.VerifyRevision(ctx, paths.RepoDir, opts.StartPoint) {
			return nil, fmt.Errorf("start point %q does not resolve to a commit", opts.StartPoint)
		}
	} else {
		hasLocal := git.RefExists(ctx, paths.RepoDir, "refs/heads/"+opts.Branch)
		hasRemote := git.RefExists(ctx, paths.RepoDir, "refs/remotes/origin/"+opts.Branch)
		if !hasLocal && !hasRemote {
			return nil, &BranchNotFound{Branch: opts.Branch}
		}
	}

	// Step 7: select and, if occupied, evict the target slot.
	slot, err := slotmgr.SelectForCheckout(st)
	if err != nil {
		return nil, err
	}
	slotPath := filepath.Join(paths.Root, slot)
	rec := st.Slots[slot]

	if rec.Branch != "" {
		saved, err := stash.Save(ctx, paths.RepoDir, paths.StashesDir, slotPath, rec.Branch, paths.SharedDir, cfg.Shared)
		if err != nil {
			return nil, err
		}
		if saved {
			if err := git.HardReset(ctx, slotPath); err != nil {
				return nil, err
			}
			if err := git.CleanUntracked(ctx, slotPath); err != nil {
				return nil, err
			}
		}
		if err := git.CheckoutDetach(ctx, slotPath); err != nil {
			return nil, err
		}
		slotmgr.MarkVacant(st, slot)
	}

	// Step 8: strip overlay before the git checkout touches the tree.
	if err := overlay.Remove(ctx, slotPath, paths.SharedDir, cfg.Shared); err != nil {
		return nil, err
	}

	// Step 9: git checkout.
	dwim := false
	if opts.Create {
		startPoint := opts.StartPoint
		if startPoint == "" {
			def, err := git.DefaultBranch(ctx, paths.RepoDir)
			if err != nil {
				return nil, err
			}
			startPoint = "refs/remotes/origin/" + def
		}
		if err := git.CheckoutCreate(ctx, slotPath, opts.Branch, startPoint); err != nil {
			return nil, err
		}
	} else {
		plainOK := true
		if err := git.Checkout(ctx, slotPath, opts.Branch); err != nil {
			plainOK = false
			if !git.RemoteBranchExists(ctx, paths.RepoDir, opts.Branch) {
				return nil, err
			}
			if err := git.CheckoutTrack(ctx, slotPath, opts.Branch); err != nil {
				return nil, err
			}
		}
		if plainOK && !localBranchExistedBefore && git.RemoteBranchExists(ctx, paths.RepoDir, opts.Branch) {
			dwim = true
		}
	}
	result.DWIMTracking = dwim

	// Step 10: restore the branch's stash, unless suppressed.
	if !opts.SuppressRestore {
		outcome, restoredRec, err := stash.Restore(ctx, paths.RepoDir, paths.StashesDir, slotPath, opts.Branch)
		if err != nil {
			return nil, err
		}
		switch outcome {
		case stash.OutcomeRestored:
			result.StashRestored = restoredRec
		case stash.OutcomeConflict:
			logger.Printf("slotctl: stash for %q applied with conflicts; resolve, then run `slotctl stash drop %s`, or `slotctl stash show %s` to inspect", opts.Branch, opts.Branch, opts.Branch)
		}
	}
	if !opts.SuppressRestore && result.StashRestored == nil {
		if rec, ok, err := stash.Lookup(paths.StashesDir, opts.Branch); err == nil && ok && rec.Status == stash.StatusArchived {
			result.StashArchivedNotice = true
			logger.Printf("slotctl: a stash for %q was archived; restore was skipped", opts.Branch)
		}
	}

	// Step 11: templates, then overlay.
	if err := tmpl.Expand(ctx, paths.TemplatesDir, slotPath, slot, opts.Branch, cfg.Templates); err != nil {
		return nil, err
	}
	if err := overlay.Establish(ctx, slotPath, paths.SharedDir, cfg.Shared, opts.Branch); err != nil {
		return nil, err
	}

	// Step 12: mark used, record history.
	slotmgr.MarkUsed(st, slot, opts.Branch, now)
	st.RecordHistory(opts.Branch, now)

	// Step 13: persist, write nav file.
	if err := persist(paths, st); err != nil {
		return nil, err
	}
	if err := writeNav(paths, opts, slotPath); err != nil {
		return nil, err
	}

	result.Slot = slot
	result.SlotPath = slotPath
	return result, nil
}

// persist saves state only. A checkout never mutates config — §4.K step 13
// persists state alone — so rewriting config.toml here would discard the
// user's own comments and formatting in it for no reason.
func persist(paths container.Paths, st *state.State) error {
	return state.Save(paths.StatePath, st)
}

func writeNav(paths container.Paths, opts Options, slotPath string) error {
	if opts.ShellPID == 0 {
		return nil
	}
	return navfile.Write(opts.ShellPID, slotPath)
}
