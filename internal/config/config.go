package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/slotctl/internal/storage"
)

const (
	defaultSlotCount            = 5
	defaultArchiveAfterDays     = 7
	defaultFetchCooldownMinutes = 10
)

// SharedConfig lists the overlay paths shared across every slot (component F).
type SharedConfig struct {
	Directories []string `toml:"directories"`
	Files       []string `toml:"files"`
}

// TemplateMapping is one (source, target) pair for the template expander
// (component G).
type TemplateMapping struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
}

// Config is the fully-populated, defaulted container configuration.
type Config struct {
	SlotCount            int
	ArchiveAfterDays     int
	FetchCooldownMinutes int
	Shared               SharedConfig
	Templates            []TemplateMapping
}

// Default returns the configuration used when no config.toml exists.
func Default() Config {
	return Config{
		SlotCount:            defaultSlotCount,
		ArchiveAfterDays:     defaultArchiveAfterDays,
		FetchCooldownMinutes: defaultFetchCooldownMinutes,
	}
}

// rawConfig mirrors Config but with pointer-typed scalars, so Load can tell
// "absent from the file" apart from "explicitly zero".
type rawConfig struct {
	SlotCount            *int              `toml:"slot_count"`
	ArchiveAfterDays     *int              `toml:"archive_after_days"`
	FetchCooldownMinutes *int              `toml:"fetch_cooldown_minutes"`
	Shared               SharedConfig      `toml:"shared"`
	Templates            []TemplateMapping `toml:"templates"`
}

// Load reads config.toml at path. A missing file yields Default() with no
// error. A malformed file is a fatal error — unlike the state store, there
// is no ground truth to reconstruct a config from.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := Default()
	if raw.SlotCount != nil {
		cfg.SlotCount = *raw.SlotCount
	}
	if raw.ArchiveAfterDays != nil {
		cfg.ArchiveAfterDays = *raw.ArchiveAfterDays
	}
	if raw.FetchCooldownMinutes != nil {
		cfg.FetchCooldownMinutes = *raw.FetchCooldownMinutes
	}
	cfg.Shared = raw.Shared
	cfg.Templates = raw.Templates

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configuration the slot engine cannot act on.
func Validate(cfg Config) error {
	if cfg.SlotCount < 1 {
		return fmt.Errorf("config: slot_count must be >= 1, got %d", cfg.SlotCount)
	}
	if cfg.ArchiveAfterDays < 0 {
		return fmt.Errorf("config: archive_after_days must be >= 0, got %d", cfg.ArchiveAfterDays)
	}
	if cfg.FetchCooldownMinutes < 0 {
		return fmt.Errorf("config: fetch_cooldown_minutes must be >= 0, got %d", cfg.FetchCooldownMinutes)
	}
	return nil
}

// Save performs a whole-file replacement of path. The templates table
// array is omitted from the output entirely when cfg.Templates is empty,
// so a hand-edited config can append [[templates]] tables freely.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)

	base := struct {
		SlotCount            int          `toml:"slot_count"`
		ArchiveAfterDays     int          `toml:"archive_after_days"`
		FetchCooldownMinutes int          `toml:"fetch_cooldown_minutes"`
		Shared               SharedConfig `toml:"shared"`
	}{
		SlotCount:            cfg.SlotCount,
		ArchiveAfterDays:     cfg.ArchiveAfterDays,
		FetchCooldownMinutes: cfg.FetchCooldownMinutes,
		Shared:               cfg.Shared,
	}
	if err := enc.Encode(base); err != nil {
		return err
	}

	if len(cfg.Templates) > 0 {
		tmpls := struct {
			Templates []TemplateMapping `toml:"templates"`
		}{Templates: cfg.Templates}
		if err := enc.Encode(tmpls); err != nil {
			return err
		}
	}

	return storage.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

type ctxKey struct{}

// WithConfig attaches cfg to ctx.
func WithConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext retrieves the config attached by WithConfig, or Default() if
// none is attached.
func FromContext(ctx context.Context) Config {
	if cfg, ok := ctx.Value(ctxKey{}).(Config); ok {
		return cfg
	}
	return Default()
}
