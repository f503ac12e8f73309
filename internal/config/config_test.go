package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Default()
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load(missing) = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_MissingFieldsDefaultIndividually(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("slot_count = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SlotCount != 8 {
		t.Errorf("SlotCount = %d, want 8", cfg.SlotCount)
	}
	if cfg.ArchiveAfterDays != defaultArchiveAfterDays {
		t.Errorf("ArchiveAfterDays = %d, want default %d", cfg.ArchiveAfterDays, defaultArchiveAfterDays)
	}
	if cfg.FetchCooldownMinutes != defaultFetchCooldownMinutes {
		t.Errorf("FetchCooldownMinutes = %d, want default %d", cfg.FetchCooldownMinutes, defaultFetchCooldownMinutes)
	}
}

func TestLoad_MalformedFileIsFatal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("slot_count = [this is not valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load(malformed) = nil error, want error")
	}
}

func TestLoad_RejectsNonPositiveSlotCount(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("slot_count = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load(slot_count=0) = nil error, want error")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Config{
		SlotCount:            3,
		ArchiveAfterDays:     14,
		FetchCooldownMinutes: 5,
		Shared: SharedConfig{
			Directories: []string{"node_modules", ".idea"},
			Files:       []string{".env"},
		},
		Templates: []TemplateMapping{
			{Source: "vscode.json.tmpl", Target: ".vscode/settings.json"},
		},
	}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.SlotCount != cfg.SlotCount ||
		got.ArchiveAfterDays != cfg.ArchiveAfterDays ||
		got.FetchCooldownMinutes != cfg.FetchCooldownMinutes ||
		len(got.Shared.Directories) != len(cfg.Shared.Directories) ||
		len(got.Templates) != len(cfg.Templates) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, cfg)
	}
}

func TestSave_OmitsTemplatesWhenEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "templates") {
		t.Errorf("config.toml contains a templates key despite empty Templates: %s", data)
	}
}

func TestWithConfig_FromContext(t *testing.T) {
	t.Parallel()

	ctx := WithConfig(context.Background(), Config{SlotCount: 9})
	if got := FromContext(ctx).SlotCount; got != 9 {
		t.Errorf("FromContext(WithConfig(9)).SlotCount = %d, want 9", got)
	}
}

func TestFromContext_DefaultsWhenAbsent(t *testing.T) {
	t.Parallel()

	got := FromContext(context.Background())
	if got.SlotCount != defaultSlotCount {
		t.Errorf("FromContext(bare) = %+v, want defaults", got)
	}
}
