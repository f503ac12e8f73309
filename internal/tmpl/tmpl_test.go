package tmpl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphi011/slotctl/internal/config"
)

func TestExpand_ReplacesKnownPlaceholders(t *testing.T) {
	t.Parallel()

	templatesDir := t.TempDir()
	slotDir := t.TempDir()

	src := filepath.Join(templatesDir, "vscode.json.tmpl")
	if err := os.WriteFile(src, []byte(`{"slot": "{{WORKTREE_DIR}}", "branch": "{{BRANCH_NAME}}", "other": "{{UNKNOWN}}"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	mappings := []config.TemplateMapping{{Source: "vscode.json.tmpl", Target: ".vscode/settings.json"}}
	if err := Expand(context.Background(), templatesDir, slotDir, "apple-river-fox", "feature-x", mappings); err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(slotDir, ".vscode", "settings.json"))
	if err != nil {
		t.Fatalf("target file missing: %v", err)
	}
	want := `{"slot": "apple-river-fox", "branch": "feature-x", "other": "{{UNKNOWN}}"}`
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestExpand_EmptyBranchForVacantSlot(t *testing.T) {
	t.Parallel()

	templatesDir := t.TempDir()
	slotDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(templatesDir, "a.tmpl"), []byte("branch={{BRANCH_NAME}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	mappings := []config.TemplateMapping{{Source: "a.tmpl", Target: "a.txt"}}
	if err := Expand(context.Background(), templatesDir, slotDir, "slot", "", mappings); err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	out, err := os.ReadFile(filepath.Join(slotDir, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "branch=" {
		t.Errorf("got %q, want \"branch=\"", out)
	}
}

func TestExpand_MissingSourceSkipsWithoutError(t *testing.T) {
	t.Parallel()

	templatesDir := t.TempDir()
	slotDir := t.TempDir()

	mappings := []config.TemplateMapping{{Source: "missing.tmpl", Target: "out.txt"}}
	if err := Expand(context.Background(), templatesDir, slotDir, "slot", "main", mappings); err != nil {
		t.Fatalf("Expand should not fail on missing source: %v", err)
	}
	if _, err := os.Stat(filepath.Join(slotDir, "out.txt")); !os.IsNotExist(err) {
		t.Error("out.txt should not have been created")
	}
}

func TestExpand_OverwritesUnconditionally(t *testing.T) {
	t.Parallel()

	templatesDir := t.TempDir()
	slotDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(templatesDir, "a.tmpl"), []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(slotDir, "a.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	mappings := []config.TemplateMapping{{Source: "a.tmpl", Target: "a.txt"}}
	if err := Expand(context.Background(), templatesDir, slotDir, "slot", "main", mappings); err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	out, err := os.ReadFile(filepath.Join(slotDir, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "new" {
		t.Errorf("got %q, want new", out)
	}
}
