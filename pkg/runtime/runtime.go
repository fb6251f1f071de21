// Package runtime ties the parser, evaluator, macro preprocessor and
// compressor together behind one configurable entry point.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sanma/boundvar/internal/logging"
	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/compress"
	"github.com/sanma/boundvar/pkg/config"
	"github.com/sanma/boundvar/pkg/diagnostics"
	"github.com/sanma/boundvar/pkg/evaluator"
	"github.com/sanma/boundvar/pkg/formatter"
	"github.com/sanma/boundvar/pkg/macro"
	"github.com/sanma/boundvar/pkg/metrics"
	"github.com/sanma/boundvar/pkg/parser"
	"github.com/sanma/boundvar/pkg/stdlib"
	"github.com/sanma/boundvar/pkg/validator"
)

// Runtime wires together all components for evaluation and compression.
// It is safe for concurrent use once built.
type Runtime struct {
	budget       evaluator.Budget
	normalize    bool
	requireValue bool
	runID        string
	trace        func(event evaluator.TraceEvent)
	logger       *slog.Logger
	metrics      *metrics.Collector
	prelude      bool

	modes        []compress.Mode
	alphabets    []*compress.Alphabet
	verifyBudget evaluator.Budget
	workers      int
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime) error

// WithBudget sets the governor ceilings of each evaluation.
func WithBudget(b evaluator.Budget) Option {
	return func(rt *Runtime) error {
		rt.budget = b
		return nil
	}
}

// WithNormalize turns the folding pass on or off.
func WithNormalize(on bool) Option {
	return func(rt *Runtime) error {
		rt.normalize = on
		return nil
	}
}

// WithRequireValue makes Run fail when the final tree is not a value.
func WithRequireValue(on bool) Option {
	return func(rt *Runtime) error {
		rt.requireValue = on
		return nil
	}
}

// WithRunID sets the run ID for trace events.
func WithRunID(id string) Option {
	return func(rt *Runtime) error {
		rt.runID = id
		return nil
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) error {
		rt.trace = fn
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) error {
		if l != nil {
			rt.logger = l
		}
		return nil
	}
}

// WithMetrics attaches a Prometheus collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(rt *Runtime) error {
		rt.metrics = c
		return nil
	}
}

// WithPrelude makes the combinator library available to Expand.
func WithPrelude(on bool) Option {
	return func(rt *Runtime) error {
		rt.prelude = on
		return nil
	}
}

// WithWorkers bounds CompressAll concurrency.
func WithWorkers(n int) Option {
	return func(rt *Runtime) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		rt.workers = n
		return nil
	}
}

// WithCompressModes selects the encodings tried by Compress.
func WithCompressModes(modes ...string) Option {
	return func(rt *Runtime) error {
		rt.modes = rt.modes[:0]
		for _, m := range modes {
			mode, err := compress.ParseMode(m)
			if err != nil {
				return err
			}
			rt.modes = append(rt.modes, mode)
		}
		return nil
	}
}

// WithConfig applies a loaded configuration.
func WithConfig(cfg *config.Config) Option {
	return func(rt *Runtime) error {
		rt.budget = cfg.Budget.ToBudget()
		rt.normalize = cfg.Evaluator.Normalize
		rt.requireValue = cfg.Evaluator.RequireValue
		rt.verifyBudget = cfg.Compressor.VerifyBudget()
		if err := WithWorkers(cfg.Compressor.Workers)(rt); err != nil {
			return err
		}
		if err := WithCompressModes(cfg.Compressor.Modes...)(rt); err != nil {
			return err
		}
		rt.alphabets = compress.DefaultAlphabets()
		for _, a := range cfg.Compressor.Alphabets {
			alpha, err := compress.NewAlphabet(a.Name, a.Symbols)
			if err != nil {
				return err
			}
			rt.alphabets = append(rt.alphabets, alpha)
		}
		return nil
	}
}

// New creates a Runtime. Without options it evaluates with no budget
// and the folding pass on.
func New(opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		normalize: true,
		runID:     uuid.NewString(),
		logger:    logging.Discard(),
		prelude:   true,
		workers:   config.DefaultWorkers,
	}
	for _, opt := range opts {
		if err := opt(rt); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

// RunID identifies the runtime's trace stream.
func (rt *Runtime) RunID() string {
	return rt.runID
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// Result holds the outcome of an evaluation.
type Result struct {
	*evaluator.ExecResult
	RunID string
}

// Printable renders the final tree the way the CLI prints it.
func (r *Result) Printable() string {
	return formatter.Printable(r.Expr)
}

// Parse reads wire text, returning parse diagnostics as a DiagnosticError.
func (rt *Runtime) Parse(source, filename string) (ast.Expr, error) {
	expr, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}
	return expr, nil
}

// Run parses and evaluates wire text. A stuck or exhausted result is not
// an error unless the runtime requires a value.
func (rt *Runtime) Run(ctx context.Context, source, filename string) (*Result, error) {
	expr, err := rt.Parse(source, filename)
	if err != nil {
		return nil, err
	}
	res, err := rt.Eval(ctx, expr)
	if err != nil {
		return res, err
	}
	if rt.requireValue {
		return res, RequireValue(res)
	}
	return res, nil
}

// EvalValue is Run with a value required regardless of configuration.
func (rt *Runtime) EvalValue(ctx context.Context, source, filename string) (*Result, error) {
	res, err := rt.Run(ctx, source, filename)
	if err != nil {
		return res, err
	}
	return res, RequireValue(res)
}

// Eval reduces a parsed expression under a fresh governor.
func (rt *Runtime) Eval(ctx context.Context, expr ast.Expr) (*Result, error) {
	gov := evaluator.NewGovernor(rt.budget)
	exec, err := evaluator.Execute(ctx, expr, evaluator.ExecOptions{
		Governor:  gov,
		Normalize: rt.normalize,
		Trace:     rt.trace,
		RunID:     rt.runID,
	})
	res := &Result{ExecResult: exec, RunID: rt.runID}

	outcome := metrics.OutcomeValue
	switch {
	case err != nil:
		outcome = metrics.OutcomeCancelled
	case exec.Exhausted:
		outcome = metrics.OutcomeExhausted
	case !exec.IsValue():
		outcome = metrics.OutcomeStuck
	}
	rt.metrics.RecordEvaluation(outcome, exec.Stats.StrictOps, exec.Stats.BetaReductions, exec.Passes, exec.Elapsed)
	rt.logger.Debug("evaluation finished",
		"run_id", rt.runID,
		"outcome", outcome,
		"passes", exec.Passes,
		"strict_ops", exec.Stats.StrictOps,
		"beta_reductions", exec.Stats.BetaReductions,
		"elapsed", exec.Elapsed,
	)
	if err != nil {
		return res, fmt.Errorf("evaluation interrupted: %w", err)
	}
	return res, nil
}

// RequireValue converts a non-value result into a RuntimeError: E_RESOURCE
// when the governor stopped the run, otherwise the reason the tree is
// stuck.
func RequireValue(res *Result) error {
	if res.IsValue() {
		return nil
	}
	if res.Exhausted {
		return &evaluator.RuntimeError{
			Code:    diagnostics.EResource,
			Message: fmt.Sprintf("evaluation budget exhausted after %d steps", res.Stats.Steps()),
			Expr:    res.Expr,
		}
	}
	if rerr := evaluator.Explain(res.Expr); rerr != nil {
		return rerr
	}
	return &evaluator.RuntimeError{Code: diagnostics.EStuck, Message: "evaluation did not reach a value", Expr: res.Expr}
}

// Check parses and statically validates wire text without evaluating it.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	expr, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return diags
	}
	return validator.Validate(expr)
}

// Format parses wire text and renders it as canonical wire text, or in
// the infix notation when pretty is set.
func (rt *Runtime) Format(source, filename string, pretty bool) (string, error) {
	expr, err := rt.Parse(source, filename)
	if err != nil {
		return "", err
	}
	if pretty {
		return formatter.Pretty(expr), nil
	}
	return formatter.Wire(expr)
}

// Expand resolves root in a definition file to flat wire text. With the
// prelude enabled the library combinators are in scope, and a name that
// collides with one is a duplicate definition.
func (rt *Runtime) Expand(source, filename, root string) (string, error) {
	defs, err := macro.Parse(source, filename)
	if err != nil {
		return "", macroError(err)
	}
	if rt.prelude {
		lib, err := stdlib.Prelude()
		if err != nil {
			return "", err
		}
		if err := lib.Merge(defs); err != nil {
			return "", macroError(err)
		}
		defs = lib
	}
	text, err := defs.Resolve(root)
	if err != nil {
		return "", macroError(err)
	}
	return text, nil
}

func macroError(err error) error {
	var merr *macro.Error
	if errors.As(err, &merr) {
		return &DiagnosticError{Diagnostics: []diagnostics.Diagnostic{merr.Diagnostic()}}
	}
	return err
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}
