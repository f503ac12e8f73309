// Package container locates and describes the slotctl control-plane
// directory and the fixed layout of files and subdirectories beneath it.
package container

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the fixed, hidden name of the control-plane subdirectory. The
// spec's own text refers to this placeholder as "CTL".
const DirName = ".slotctl"

// ErrNotFound is returned by Locate when no container is found walking up
// from the starting directory.
var ErrNotFound = errors.New("not inside a slotctl container")

// Corrupted reports that the container directory exists but a required
// piece of it is missing.
type Corrupted struct {
	Missing string
}

func (e *Corrupted) Error() string {
	return fmt.Sprintf("container corrupted: missing %s", e.Missing)
}

// Paths holds every path the rest of the module needs, all derived from
// Root once at startup.
type Paths struct {
	Root          string // the directory containing DirName and the slot siblings
	Ctl           string // Root/.slotctl
	RepoDir       string // Ctl/repo — the bare repository
	StatePath     string // Ctl/state.toml
	ConfigPath    string // Ctl/config.toml
	LockPath      string // Ctl/lock
	StashesDir    string // Ctl/stashes
	ArchiveDir    string // Ctl/stashes/archive
	SharedDir     string // Ctl/shared
	TemplatesDir  string // Ctl/templates
	HooksDir      string // Ctl/hooks
	PostCheckout  string // Ctl/hooks/post-checkout
}

// New derives the full Paths set from a container root.
func New(root string) Paths {
	ctl := filepath.Join(root, DirName)
	stashes := filepath.Join(ctl, "stashes")
	return Paths{
		Root:         root,
		Ctl:          ctl,
		RepoDir:      filepath.Join(ctl, "repo"),
		StatePath:    filepath.Join(ctl, "state.toml"),
		ConfigPath:   filepath.Join(ctl, "config.toml"),
		LockPath:     filepath.Join(ctl, "lock"),
		StashesDir:   stashes,
		ArchiveDir:   filepath.Join(stashes, "archive"),
		SharedDir:    filepath.Join(ctl, "shared"),
		TemplatesDir: filepath.Join(ctl, "templates"),
		HooksDir:     filepath.Join(ctl, "hooks"),
		PostCheckout: filepath.Join(ctl, "hooks", "post-checkout"),
	}
}

// Locate walks up from startDir looking for a directory containing DirName,
// returning its Paths. It never crosses below the filesystem root.
func Locate(startDir string) (Paths, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Paths{}, err
	}
	for {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return New(dir), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Paths{}, ErrNotFound
		}
		dir = parent
	}
}

// Init creates the on-disk skeleton for a brand-new container (everything
// except the bare repository itself, which the caller populates via git).
func Init(root string) (Paths, error) {
	p := New(root)
	dirs := []string{p.Ctl, p.StashesDir, p.ArchiveDir, p.SharedDir, p.TemplatesDir, p.HooksDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return Paths{}, err
		}
	}
	return p, nil
}

// Verify checks that the pieces a running operation depends on are present,
// returning *Corrupted naming the first missing piece.
func (p Paths) Verify() error {
	checks := []struct {
		path string
		name string
	}{
		{p.RepoDir, "repo/"},
	}
	for _, c := range checks {
		if info, err := os.Stat(c.path); err != nil || !info.IsDir() {
			return &Corrupted{Missing: c.name}
		}
	}
	return nil
}
