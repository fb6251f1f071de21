// Package config loads bvl configuration: evaluation budgets, compressor
// settings, logging and metrics.
package config

import "github.com/sanma/boundvar/pkg/evaluator"

// Config is the root of a configuration file.
type Config struct {
	Budget     BudgetConfig     `yaml:"budget" json:"budget"`
	Evaluator  EvaluatorConfig  `yaml:"evaluator" json:"evaluator"`
	Compressor CompressorConfig `yaml:"compressor" json:"compressor"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics" json:"metrics"`

	// Source is the file the configuration was read from, empty for
	// built-in defaults.
	Source string `yaml:"-" json:"source,omitempty"`
}

// BudgetConfig bounds a single evaluation. Zero or negative means unlimited.
type BudgetConfig struct {
	MaxStrictOps      int64 `yaml:"max_strict_ops" json:"max_strict_ops"`
	MaxBetaReductions int64 `yaml:"max_beta_reductions" json:"max_beta_reductions"`
	MaxSteps          int64 `yaml:"max_steps" json:"max_steps"`
}

// EvaluatorConfig selects evaluation behaviour.
type EvaluatorConfig struct {
	Normalize bool `yaml:"normalize" json:"normalize"`
	// RequireValue turns a stuck or exhausted result into an error.
	RequireValue bool `yaml:"require_value" json:"require_value"`
}

// AlphabetConfig declares an extra solution alphabet.
type AlphabetConfig struct {
	Name    string `yaml:"name" json:"name"`
	Symbols string `yaml:"symbols" json:"symbols"`
}

// CompressorConfig drives solution compression.
type CompressorConfig struct {
	Modes          []string         `yaml:"modes" json:"modes"`
	Workers        int              `yaml:"workers" json:"workers"`
	VerifyMaxSteps int64            `yaml:"verify_max_steps" json:"verify_max_steps"`
	Suffix         string           `yaml:"suffix" json:"suffix"`
	Alphabets      []AlphabetConfig `yaml:"alphabets" json:"alphabets,omitempty"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace"`
	// Textfile, when set, receives the registry in text exposition format
	// after each command.
	Textfile string `yaml:"textfile" json:"textfile,omitempty"`
}

func limit(n int64) *int64 {
	if n <= 0 {
		return nil
	}
	return evaluator.Limit(n)
}

// ToBudget converts the configured ceilings into an evaluator budget.
func (b BudgetConfig) ToBudget() evaluator.Budget {
	return evaluator.Budget{
		MaxStrictOps:      limit(b.MaxStrictOps),
		MaxBetaReductions: limit(b.MaxBetaReductions),
		MaxSteps:          limit(b.MaxSteps),
	}
}

// VerifyBudget is the budget of one compressor round-trip check.
func (c CompressorConfig) VerifyBudget() evaluator.Budget {
	return evaluator.Budget{MaxSteps: limit(c.VerifyMaxSteps)}
}
