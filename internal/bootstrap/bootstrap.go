// Package bootstrap initializes a brand-new slotctl container: the
// on-disk skeleton (internal/container), a bare clone of the origin
// repository with its fetch refspec reconfigured so refs/heads/* stays
// free for per-slot branches, a default config, and slot_count detached
// worktrees sized per config.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/raphi011/slotctl/internal/config"
	"github.com/raphi011/slotctl/internal/container"
	"github.com/raphi011/slotctl/internal/git"
	"github.com/raphi011/slotctl/internal/slotmgr"
	"github.com/raphi011/slotctl/internal/state"
)

// AlreadyInitialized is returned when root already holds a container.
type AlreadyInitialized struct {
	Root string
}

func (e *AlreadyInitialized) Error() string {
	return fmt.Sprintf("%s is already a slotctl container", e.Root)
}

// Init clones url as the container's bare repository, reconfigures remote
// tracking, writes a default config, and creates the initial slot pool.
func Init(ctx context.Context, root, url string) (container.Paths, error) {
	if _, err := container.Locate(root); err == nil {
		return container.Paths{}, &AlreadyInitialized{Root: root}
	}

	paths, err := container.Init(root)
	if err != nil {
		return container.Paths{}, err
	}

	if err := git.CloneBare(ctx, url, paths.RepoDir); err != nil {
		return container.Paths{}, fmt.Errorf("bootstrap: clone %s: %w", url, err)
	}
	if err := reconfigureRemoteTracking(ctx, paths.RepoDir); err != nil {
		return container.Paths{}, err
	}

	cfg := config.Default()
	if err := config.Save(paths.ConfigPath, cfg); err != nil {
		return container.Paths{}, err
	}

	st := state.New()
	commit, err := slotmgr.ResolveDefaultCommit(ctx, paths.RepoDir)
	if err != nil {
		return container.Paths{}, err
	}
	names, err := slotmgr.CreateSlots(ctx, paths.RepoDir, paths.Root, cfg.SlotCount, commit, nil)
	if err != nil {
		return container.Paths{}, err
	}
	st.SlotOrder = names
	for _, name := range names {
		st.Slots[name] = state.SlotRecord{}
	}
	if err := state.Save(paths.StatePath, st); err != nil {
		return container.Paths{}, err
	}

	return paths, nil
}

// reconfigureRemoteTracking points the bare clone's fetch refspec at
// refs/remotes/origin/* and removes the refs/heads/* entries the plain
// `git clone --bare` mirrored directly, so refs/heads/* is free for
// slotctl's own per-slot branches (§4.D Open Question resolution).
func reconfigureRemoteTracking(ctx context.Context, repoDir string) error {
	if err := git.SetConfig(ctx, repoDir, "remote.origin.fetch", "+refs/heads/*:refs/remotes/origin/*"); err != nil {
		return err
	}
	if err := git.Fetch(ctx, repoDir); err != nil {
		return err
	}
	if err := git.RemoteSetHeadAuto(ctx, repoDir); err != nil {
		return err
	}

	branches, err := git.ListLocalBranches(ctx, repoDir)
	if err != nil {
		return err
	}
	for _, b := range branches {
		if err := git.DeleteRef(ctx, repoDir, "refs/heads/"+b); err != nil {
			return err
		}
	}
	return nil
}
