package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

// Validate performs validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
// Dump paths are checked by the caller, since flags may still set them.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level)
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format)
	}

	if err := c.Extract.validate(); err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	if c.Database.Enabled() && c.Database.MaxConns < 1 {
		return fmt.Errorf("database.max_conns must be >= 1 (got %d)", c.Database.MaxConns)
	}

	return nil
}

func (e *ExtractConfig) validate() error {
	if e.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", e.Workers)
	}
	if e.Window < e.Workers {
		return fmt.Errorf("window must be >= workers (got %d < %d)", e.Window, e.Workers)
	}
	if e.MaxBlocks < 0 {
		return fmt.Errorf("max_blocks must be >= 0 (got %d)", e.MaxBlocks)
	}
	if e.BatchSize < 1 {
		return fmt.Errorf("batch_size must be >= 1 (got %d)", e.BatchSize)
	}

	names, err := ParseStrategies(e.StrategiesRaw)
	if err != nil {
		return fmt.Errorf("strategies: %w", err)
	}
	e.Strategies = names

	return nil
}

// ParseStrategies parses a comma-separated list of strategy names
// (e.g. "yomigana,parenthesis"). An empty string returns a nil slice.
// Names are checked against the known strategies by the extractor.
func ParseStrategies(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if slices.Contains(names, p) {
			return nil, fmt.Errorf("duplicate strategy %q", p)
		}
		names = append(names, p)
	}

	return names, nil
}
