package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	validModes   = []string{"positional", "rle"}
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Validate checks a fully defaulted configuration and reports every
// problem found.
func Validate(cfg *Config) error {
	var errs []error

	for _, m := range cfg.Compressor.Modes {
		if !slices.Contains(validModes, m) {
			errs = append(errs, fmt.Errorf("compressor.modes: unknown mode %q (want one of %s)", m, strings.Join(validModes, ", ")))
		}
	}
	if cfg.Compressor.Workers < 1 {
		errs = append(errs, fmt.Errorf("compressor.workers must be at least 1, got %d", cfg.Compressor.Workers))
	}
	if strings.ContainsAny(cfg.Compressor.Suffix, `/\`) {
		errs = append(errs, fmt.Errorf("compressor.suffix %q must not contain a path separator", cfg.Compressor.Suffix))
	}
	seen := map[string]bool{}
	for i, a := range cfg.Compressor.Alphabets {
		switch {
		case a.Name == "":
			errs = append(errs, fmt.Errorf("compressor.alphabets[%d]: name is required", i))
		case seen[a.Name]:
			errs = append(errs, fmt.Errorf("compressor.alphabets[%d]: duplicate name %q", i, a.Name))
		}
		seen[a.Name] = true
		if a.Symbols == "" {
			errs = append(errs, fmt.Errorf("compressor.alphabets[%d]: symbols are required", i))
		}
	}

	if !slices.Contains(validLevels, strings.ToLower(cfg.Logging.Level)) {
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", cfg.Logging.Level))
	}
	if !slices.Contains(validFormats, strings.ToLower(cfg.Logging.Format)) {
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", cfg.Logging.Format))
	}
	if cfg.Metrics.Textfile != "" && !cfg.Metrics.Enabled {
		errs = append(errs, errors.New("metrics.textfile is set but metrics.enabled is false"))
	}

	return errors.Join(errs...)
}
