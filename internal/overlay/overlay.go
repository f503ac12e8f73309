// Package overlay shares selected files — credentials, IDE config, build
// caches — across every slot via symlinks into a canonical copy under the
// container's shared/ subtree, so Git never sees them differ per branch.
//
// Grounded on the predecessor preserve package's copy-once, never-overwrite
// approach to untracked files; reworked here around symlinks instead of
// physical copies so a single canonical file backs every slot.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/raphi011/slotctl/internal/config"
	"github.com/raphi011/slotctl/internal/git"
	"github.com/raphi011/slotctl/internal/log"
)

// relPaths expands a SharedConfig into the flat list of slot-relative
// paths it covers: every file found by recursively walking each
// configured directory under sharedRoot, plus each individually
// configured file, in that order.
func relPaths(sharedRoot string, cfg config.SharedConfig) ([]string, error) {
	var out []string
	for _, dir := range cfg.Directories {
		root := filepath.Join(sharedRoot, dir)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, relErr := filepath.Rel(sharedRoot, path)
			if relErr != nil {
				return relErr
			}
			out = append(out, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("overlay: walk %s: %w", root, err)
		}
	}
	out = append(out, cfg.Files...)
	return out, nil
}

// establishOne links slotDir/relPath to sharedRoot/relPath, following the
// per-file rules in §4.F.
func establishOne(ctx context.Context, slotDir, sharedRoot, relPath string) error {
	l := log.FromContext(ctx)
	target := filepath.Join(slotDir, relPath)
	canonical := filepath.Join(sharedRoot, relPath)

	if git.IsTracked(ctx, slotDir, relPath) {
		l.Printf("overlay: %s is tracked by git, leaving it alone", relPath)
		return nil
	}

	wantLink, err := filepath.Rel(filepath.Dir(target), canonical)
	if err != nil {
		return err
	}

	info, err := os.Lstat(target)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.Symlink(wantLink, target)

	case err != nil:
		return err

	case info.Mode()&os.ModeSymlink != 0:
		got, err := os.Readlink(target)
		if err != nil {
			return err
		}
		if got == wantLink {
			return nil
		}
		if err := os.Remove(target); err != nil {
			return err
		}
		return os.Symlink(wantLink, target)

	default:
		// Real file already present; sync_all's migrate phase owns this case.
		return nil
	}
}

// Establish links every configured shared path into slotDir, creating the
// link's parent directories inside slotDir as needed. branch is accepted for
// symmetry with the template expander but is not otherwise consulted —
// overlay targets are branch-independent.
func Establish(ctx context.Context, slotDir, sharedRoot string, cfg config.SharedConfig, branch string) error {
	paths, err := relPaths(sharedRoot, cfg)
	if err != nil {
		return err
	}
	for _, rel := range paths {
		if err := establishOne(ctx, slotDir, sharedRoot, rel); err != nil {
			return fmt.Errorf("overlay: establish %s: %w", rel, err)
		}
	}
	return nil
}

// Remove deletes the symlinks Establish created in slotDir, leaving any
// real, user-made file or link at those paths untouched.
func Remove(ctx context.Context, slotDir, sharedRoot string, cfg config.SharedConfig) error {
	paths, err := relPaths(sharedRoot, cfg)
	if err != nil {
		return err
	}
	for _, rel := range paths {
		target := filepath.Join(slotDir, rel)
		canonical := filepath.Join(sharedRoot, rel)

		info, err := os.Lstat(target)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			continue
		}
		got, err := os.Readlink(target)
		if err != nil {
			return err
		}
		want, err := filepath.Rel(filepath.Dir(target), canonical)
		if err != nil {
			return err
		}
		if got != want {
			continue
		}
		if err := os.Remove(target); err != nil {
			return err
		}
	}
	return nil
}

// SyncAll reconciles every slot's overlay state against the canonical
// shared/ tree in three phases: migrate real files into the canonical
// location (first slot in slotDirs wins; later duplicates are discarded),
// propagate symlinks into every slot, then clean dangling links whose
// canonical target has since disappeared.
func SyncAll(ctx context.Context, slotDirs []string, sharedRoot string, cfg config.SharedConfig) error {
	l := log.FromContext(ctx)

	// relPaths() walks the canonical tree, which is exactly backwards for
	// discovering not-yet-migrated real files — those only exist inside
	// slots before the first sync. Migration instead walks every slot's
	// configured directories directly.
	migratePaths, err := discoverSlotRelPaths(slotDirs, cfg)
	if err != nil {
		return err
	}

	for _, rel := range migratePaths {
		migrated := false
		for _, slotDir := range slotDirs {
			target := filepath.Join(slotDir, rel)
			canonical := filepath.Join(sharedRoot, rel)

			info, err := os.Lstat(target)
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err != nil {
				return err
			}
			if info.Mode()&os.ModeSymlink != 0 {
				continue
			}
			if git.IsTracked(ctx, slotDir, rel) {
				continue
			}

			if migrated {
				// Another slot already became the canonical copy; this
				// one is a duplicate and loses.
				if err := os.RemoveAll(target); err != nil {
					return err
				}
				continue
			}

			if _, err := os.Stat(canonical); errors.Is(err, os.ErrNotExist) {
				if err := os.MkdirAll(filepath.Dir(canonical), 0o755); err != nil {
					return err
				}
				if err := os.Rename(target, canonical); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			migrated = true
		}
	}

	// Phase 2: propagate.
	for _, slotDir := range slotDirs {
		if err := Establish(ctx, slotDir, sharedRoot, cfg, ""); err != nil {
			return err
		}
	}

	// Phase 3: clean dangling links. Re-derive the path set from the
	// canonical tree too: establish may have created links for files that
	// had no slot-side real file to migrate in phase 1.
	cleanPaths, err := relPaths(sharedRoot, cfg)
	if err != nil {
		return err
	}
	for _, rel := range migratePaths {
		if !contains(cleanPaths, rel) {
			cleanPaths = append(cleanPaths, rel)
		}
	}
	for _, slotDir := range slotDirs {
		for _, rel := range cleanPaths {
			target := filepath.Join(slotDir, rel)
			info, err := os.Lstat(target)
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err != nil {
				return err
			}
			if info.Mode()&os.ModeSymlink == 0 {
				continue
			}
			if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
				l.Printf("overlay: removing dangling link %s", rel)
				if err := os.Remove(target); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// discoverSlotRelPaths unions, across every slot, the relative paths found
// by recursively walking each configured directory plus each individually
// configured file. Used by the migrate phase, which must find real files
// before any canonical copy exists to walk instead.
func discoverSlotRelPaths(slotDirs []string, cfg config.SharedConfig) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(rel string) {
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	for _, f := range cfg.Files {
		add(f)
	}
	for _, dir := range cfg.Directories {
		for _, slotDir := range slotDirs {
			root := filepath.Join(slotDir, dir)
			err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					if os.IsNotExist(err) {
						return nil
					}
					return err
				}
				if d.IsDir() {
					return nil
				}
				rel, relErr := filepath.Rel(slotDir, path)
				if relErr != nil {
					return relErr
				}
				add(filepath.ToSlash(rel))
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("overlay: walk %s: %w", root, err)
			}
		}
	}
	return out, nil
}
