package config

const (
	DefaultMaxSteps       = 50_000_000
	DefaultWorkers        = 4
	DefaultSuffix         = ".compressed.txt"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultNamespace      = "bvl"
	ProjectConfigFile     = ".bvl.yaml"
	UserConfigDir         = ".bvl"
	UserConfigFile        = "config.yaml"
	envPrefix             = "BVL_"
	defaultVerifyMaxSteps = DefaultMaxSteps
)

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Evaluator.Normalize = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills fields left at their zero value. Of the budget
// ceilings only max_steps has a default; write a negative value to lift it.
func ApplyDefaults(cfg *Config) {
	if cfg.Budget.MaxSteps == 0 {
		cfg.Budget.MaxSteps = DefaultMaxSteps
	}
	if len(cfg.Compressor.Modes) == 0 {
		cfg.Compressor.Modes = []string{"positional", "rle"}
	}
	if cfg.Compressor.Workers == 0 {
		cfg.Compressor.Workers = DefaultWorkers
	}
	if cfg.Compressor.VerifyMaxSteps == 0 {
		cfg.Compressor.VerifyMaxSteps = defaultVerifyMaxSteps
	}
	if cfg.Compressor.Suffix == "" {
		cfg.Compressor.Suffix = DefaultSuffix
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultNamespace
	}
}
