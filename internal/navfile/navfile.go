// Package navfile hands a target slot's path from the slotctl binary back
// to the shell function that invoked it, since a child process cannot
// change its parent shell's working directory directly. The binary writes
// a one-line file keyed by the parent shell's pid; the shell wrapper reads
// and deletes it, then cds into it.
package navfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/slotctl/internal/storage"
)

// Path returns the well-known nav file path for the shell process with
// the given pid.
func Path(shellPID int) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("slotctl-nav-%d", shellPID))
}

// Write records slotDir as the navigation target for shellPID.
func Write(shellPID int, slotDir string) error {
	return storage.WriteFileAtomic(Path(shellPID), []byte(slotDir+"\n"), 0o600)
}

// ReadAndRemove reads and deletes the nav file for shellPID. A missing
// file is reported via ok=false with no error, since most invocations
// (list, fetch, stash, …) never write one.
func ReadAndRemove(shellPID int) (slotDir string, ok bool, err error) {
	path := Path(shellPID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	os.Remove(path)
	return strings.TrimSpace(string(data)), true, nil
}
