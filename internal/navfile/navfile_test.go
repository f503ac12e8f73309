package navfile

import (
	"os"
	"testing"
)

func TestWriteThenReadAndRemove(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	pid := 424242
	if err := Write(pid, "/tmp/container/apple-river-fox"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	slotDir, ok, err := ReadAndRemove(pid)
	if err != nil {
		t.Fatalf("ReadAndRemove failed: %v", err)
	}
	if !ok {
		t.Fatal("ReadAndRemove should report ok=true for a written file")
	}
	if slotDir != "/tmp/container/apple-river-fox" {
		t.Errorf("slotDir = %q, want /tmp/container/apple-river-fox", slotDir)
	}

	if _, err := os.Stat(Path(pid)); !os.IsNotExist(err) {
		t.Error("nav file should be deleted after ReadAndRemove")
	}
}

func TestReadAndRemove_MissingFileYieldsNotOK(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	_, ok, err := ReadAndRemove(999999)
	if err != nil {
		t.Fatalf("ReadAndRemove on missing file should not error: %v", err)
	}
	if ok {
		t.Error("ReadAndRemove should report ok=false when no nav file was written")
	}
}
