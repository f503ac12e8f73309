// Package state handles loading and persisting CTL/state.toml: the slot
// table, branch history, and last-fetch timestamp. Unlike config, a
// malformed state file is non-fatal — the reconciler (internal/reconcile)
// repopulates slot records from git's own worktree registry, so the loader
// only needs to warn and hand back an empty state.
package state

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/slotctl/internal/storage"
)

// SlotRecord is one slot's entry in state. Branch is empty for a vacant
// slot (detached HEAD).
type SlotRecord struct {
	Branch     string
	LastUsedAt time.Time
	Pinned     bool
}

// HistoryEntry is one branch_history entry.
type HistoryEntry struct {
	Branch         string
	LastCheckoutAt time.Time
}

// State is the in-memory, fully-typed contents of state.toml.
type State struct {
	Slots         map[string]SlotRecord
	SlotOrder     []string // insertion order, used by select_slot_for_checkout
	BranchHistory []HistoryEntry
	LastFetchAt   time.Time // zero value means "never / unset"
}

// New returns an empty state with initialized maps.
func New() *State {
	return &State{Slots: map[string]SlotRecord{}}
}

// fileSlotRecord mirrors SlotRecord for TOML purposes: Branch is a pointer
// so an absent (vacant) branch is omitted from the file on Save and read
// back as "" on Load, matching §4.C's "branch key omitted when vacant".
type fileSlotRecord struct {
	Branch     *string   `toml:"branch,omitempty"`
	LastUsedAt time.Time `toml:"last_used_at"`
	Pinned     bool      `toml:"pinned"`
}

type fileState struct {
	Slots         map[string]fileSlotRecord `toml:"slots"`
	SlotOrder     []string                  `toml:"slot_order"`
	BranchHistory []HistoryEntry            `toml:"branch_history"`
	LastFetchAt   *time.Time                `toml:"last_fetch_at,omitempty"`
}

// Load reads state.toml at path. A missing file, or one that fails to
// parse, yields an empty *State and no error (a parse failure is reported
// as a one-line warning on stderr) — the reconciler is
// responsible for repopulating slot records from ground truth.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return New(), nil //nolint:nilerr // parse/read errors on state are non-fatal by design (§4.C)
	}

	var fs fileState
	if err := toml.Unmarshal(data, &fs); err != nil {
		fmt.Fprintf(os.Stderr, "slotctl: ignoring malformed %s: %v\n", path, err)
		return New(), nil //nolint:nilerr // malformed state is non-fatal; reconcile repairs it
	}

	st := New()
	if fs.SlotOrder != nil {
		st.SlotOrder = fs.SlotOrder
	}
	for name, rec := range fs.Slots {
		branch := ""
		if rec.Branch != nil {
			branch = *rec.Branch
		}
		st.Slots[name] = SlotRecord{
			Branch:     branch,
			LastUsedAt: rec.LastUsedAt,
			Pinned:     rec.Pinned,
		}
		if !containsString(st.SlotOrder, name) {
			st.SlotOrder = append(st.SlotOrder, name)
		}
	}
	st.BranchHistory = fs.BranchHistory
	if fs.LastFetchAt != nil {
		st.LastFetchAt = *fs.LastFetchAt
	}
	return st, nil
}

// Save performs a whole-file replacement of path.
func Save(path string, st *State) error {
	fs := fileState{
		Slots:         make(map[string]fileSlotRecord, len(st.Slots)),
		SlotOrder:     st.SlotOrder,
		BranchHistory: st.BranchHistory,
	}
	for name, rec := range st.Slots {
		var branchPtr *string
		if rec.Branch != "" {
			b := rec.Branch
			branchPtr = &b
		}
		fs.Slots[name] = fileSlotRecord{
			Branch:     branchPtr,
			LastUsedAt: rec.LastUsedAt,
			Pinned:     rec.Pinned,
		}
	}
	if !st.LastFetchAt.IsZero() {
		t := st.LastFetchAt
		fs.LastFetchAt = &t
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(fs); err != nil {
		return err
	}
	return storage.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// RemoveFromOrder deletes name from SlotOrder, if present.
func (st *State) RemoveFromOrder(name string) {
	for i, n := range st.SlotOrder {
		if n == name {
			st.SlotOrder = append(st.SlotOrder[:i], st.SlotOrder[i+1:]...)
			return
		}
	}
}

// RecordHistory deduplicates branch in BranchHistory and unshifts a new
// entry with the given timestamp, per §4.K step 12.
func (st *State) RecordHistory(branch string, at time.Time) {
	filtered := make([]HistoryEntry, 0, len(st.BranchHistory)+1)
	for _, h := range st.BranchHistory {
		if h.Branch != branch {
			filtered = append(filtered, h)
		}
	}
	st.BranchHistory = append([]HistoryEntry{{Branch: branch, LastCheckoutAt: at}}, filtered...)
}

// HistoryContains reports whether branch has ever been checked out via the
// tool before, used to detect Git's DWIM remote-tracking creation.
func (st *State) HistoryContains(branch string) bool {
	for _, h := range st.BranchHistory {
		if h.Branch == branch {
			return true
		}
	}
	return false
}
