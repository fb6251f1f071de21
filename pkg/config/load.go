package config

import (
	"bytes"
	"errors"
	"io"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML configuration file on top of the built-in defaults,
// then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("configuration file %q: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes YAML configuration text. Keys left out keep their
// defaults; unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	ApplyDefaults(cfg)
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadDefault resolves the configuration for a working directory.
// Precedence: explicit path, project .bvl.yaml, user ~/.bvl/config.yaml,
// built-in defaults. Environment overrides apply in every case.
func LoadDefault(explicit, projectDir string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}

	candidates := []string{filepath.Join(projectDir, ProjectConfigFile)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, UserConfigDir, UserConfigFile))
	}
	for _, path := range candidates {
		cfg, err := Load(path)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := Default()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies BVL_* environment variables. Environment
// values take precedence over file values.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int64
	}{
		{"MAX_STRICT_OPS", &cfg.Budget.MaxStrictOps},
		{"MAX_BETA_REDUCTIONS", &cfg.Budget.MaxBetaReductions},
		{"MAX_STEPS", &cfg.Budget.MaxSteps},
		{"VERIFY_MAX_STEPS", &cfg.Compressor.VerifyMaxSteps},
	}
	for _, o := range ints {
		if val, ok := lookupEnv(o.name); ok {
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, o.name, err)
			}
			*o.dst = n
		}
	}

	if val, ok := lookupEnv("WORKERS"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", envPrefix, err)
		}
		cfg.Compressor.Workers = n
	}
	if val, ok := lookupEnv("NORMALIZE"); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%sNORMALIZE: %w", envPrefix, err)
		}
		cfg.Evaluator.Normalize = b
	}
	if val, ok := lookupEnv("LOG_LEVEL"); ok {
		cfg.Logging.Level = val
	}
	if val, ok := lookupEnv("LOG_FORMAT"); ok {
		cfg.Logging.Format = val
	}
	if val, ok := lookupEnv("METRICS_TEXTFILE"); ok {
		cfg.Metrics.Textfile = val
		cfg.Metrics.Enabled = true
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	val, ok := os.LookupEnv(envPrefix + name)
	if !ok || strings.TrimSpace(val) == "" {
		return "", false
	}
	return strings.TrimSpace(val), true
}
