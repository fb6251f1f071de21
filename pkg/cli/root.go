// Package cli implements the bvl command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanma/boundvar/internal/logging"
	"github.com/sanma/boundvar/pkg/config"
	"github.com/sanma/boundvar/pkg/diagnostics"
	"github.com/sanma/boundvar/pkg/metrics"
	"github.com/sanma/boundvar/pkg/runtime"
)

// app carries what the persistent pre-run resolves for every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Collector

	configPath string
	verbose    bool
	pretty     bool
}

// NewRootCmd builds the bvl command tree. Each call returns an
// independent tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "bvl",
		Short: "Evaluate, rewrite and compress wire-encoded lambda expressions",
		Long: "bvl reads the compact prefix notation of a small lambda language, reduces it under a\n" +
			"resource governor, expands macro definitions and packs solution literals into\n" +
			"shorter self-decoding expressions.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg == nil || a.cfg.Metrics.Textfile == "" {
				return nil
			}
			if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
				return exitError(ExitUsage, "writing metrics: %v", err)
			}
			return nil
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("bvl version %s\n", version))

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Configuration file (default: ./.bvl.yaml, then ~/.bvl/config.yaml)")
	pf.BoolVar(&a.verbose, "verbose", false, "Enable debug logging")
	pf.BoolVar(&a.pretty, "pretty", false, "Human-friendly diagnostics")

	root.AddCommand(
		newEvalCmd(a),
		newCheckCmd(a),
		newFmtCmd(a),
		newExpandCmd(a),
		newEncodeCmd(),
		newCompressCmd(a),
		newBatchCmd(a),
		newTraceCmd(),
		newConfigCmd(a),
		newLibCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := config.LoadDefault(a.configPath, cwd)
	if err != nil {
		return a.fail(cmd, ExitUsage, diagnostics.MakeDiag(diagnostics.EConfig, err.Error(), nil, ""))
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.New(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return a.fail(cmd, ExitUsage, diagnostics.MakeDiag(diagnostics.EConfig, err.Error(), nil, ""))
	}
	a.cfg = cfg
	a.logger = logger
	if cfg.Metrics.Enabled {
		a.metrics = metrics.NewCollector(cfg.Metrics.Namespace)
	}
	logger.Debug("configuration loaded", "source", cfg.Source)
	return nil
}

func (a *app) runtime(extra ...runtime.Option) (*runtime.Runtime, error) {
	opts := []runtime.Option{
		runtime.WithConfig(a.cfg),
		runtime.WithLogger(a.logger),
		runtime.WithMetrics(a.metrics),
	}
	rt, err := runtime.New(append(opts, extra...)...)
	if err != nil {
		return nil, exitError(ExitUsage, "%v", err)
	}
	return rt, nil
}

// fail prints diagnostics to stderr and returns the exit error.
func (a *app) fail(cmd *cobra.Command, code int, diags ...diagnostics.Diagnostic) error {
	fmt.Fprintln(cmd.ErrOrStderr(), diagnostics.FormatDiagnostics(diags, a.pretty))
	return &ExitError{Code: code, Message: diags[0].String(), Reported: true}
}

// failErr reports err with the exit code its type calls for.
func (a *app) failErr(cmd *cobra.Command, err error) error {
	code, diags := asExit(err)
	return a.fail(cmd, code, diags...)
}

// readSource reads a file argument, where "-" is standard input.
func (a *app) readSource(cmd *cobra.Command, path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", a.fail(cmd, ExitUsage, diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("error reading stdin: %v", err), nil, ""))
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", a.fail(cmd, ExitUsage, diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", path), nil, ""))
	}
	return string(data), path, nil
}
