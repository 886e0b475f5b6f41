// Package config loads and validates the daemon's YAML configuration.
//
// Loading order: read the file, apply defaults, apply RETENTIOND_*
// environment overrides, validate. The resulting Config is immutable by
// convention; components receive the sections they need at construction
// and never reach for globals. A process-wide singleton (Initialize /
// GetConfig) exists for the CLI entry points only.
package config
