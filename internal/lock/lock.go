// Package lock implements the container's single-writer advisory lock: an
// atomically created file, not an flock — the container lock must be
// observable (and removable) by a user inspecting the filesystem, and must
// not silently release when the holding process merely closes a duplicated
// file descriptor.
package lock

import (
	"errors"
	"fmt"
	"os"
)

// Locked is returned by Acquire when the lock file already exists.
type Locked struct {
	Path string
}

func (e *Locked) Error() string {
	return fmt.Sprintf("lock held: %s (if no other slotctl process is running, this is a stale lock — remove it manually)", e.Path)
}

// Lock is an exclusive, file-based advisory lock over a container.
type Lock struct {
	path string
}

// New returns a Lock backed by the file at path. It does not touch the
// filesystem until Acquire is called.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Acquire atomically creates the lock file, writes the current process id,
// and closes the handle. It returns *Locked if the file already exists.
func (l *Lock) Acquire() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return &Locked{Path: l.path}
		}
		return err
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	return f.Close()
}

// Release unlinks the lock file, ignoring its absence.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
