// Package config handles loading and validation of slotctl's container
// configuration, stored as CTL/config.toml.
//
// # Defaults
//
// A missing config file yields in-memory defaults: slot_count 5,
// archive_after_days 7, fetch_cooldown_minutes 10, and empty shared /
// templates lists. Missing individual fields default the same way;
// scalar fields are parsed through pointer-typed intermediates so that an
// explicit zero in the file is distinguishable from an absent key.
//
// # Write Behavior
//
// Save performs a whole-file replacement. The templates table array is
// omitted entirely from the written file when empty, so a user hand-editing
// config.toml can append [[templates]] tables without fighting an emitted
// `templates = []` line.
//
// Parse errors on this file are fatal — unlike the state store, a malformed
// config.toml is not something reconciliation can repair.
package config
