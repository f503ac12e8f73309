// Package storage provides the atomic whole-file-replacement primitive used
// by every text store in slotctl (config, state, stash metadata): write to a
// temp file in the same directory, then rename over the target so a reader
// never observes a partially written file.
package storage

import (
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path by first writing a temp file in the
// same directory and renaming it into place. Parent directories are created
// as needed.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
