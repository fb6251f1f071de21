package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/sanma/boundvar/pkg/evaluator"
	"github.com/sanma/boundvar/pkg/formatter"
	"github.com/sanma/boundvar/pkg/runtime"
)

func newEvalCmd(a *app) *cobra.Command {
	var (
		tracePath   string
		jsonOut     bool
		noNormalize bool
		maxSteps    int64
		maxBeta     int64
		maxStrict   int64
	)
	cmd := &cobra.Command{
		Use:   "eval <file|->",
		Short: "Reduce a wire expression and print its value",
		Long: "Reduce a wire expression and print its value.\n\n" +
			"Exit status is 3 when the budget runs out and 4 when the expression is stuck.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := a.readSource(cmd, args[0])
			if err != nil {
				return err
			}

			budget := a.cfg.Budget
			if cmd.Flags().Changed("max-steps") {
				budget.MaxSteps = maxSteps
			}
			if cmd.Flags().Changed("max-beta") {
				budget.MaxBetaReductions = maxBeta
			}
			if cmd.Flags().Changed("max-strict") {
				budget.MaxStrictOps = maxStrict
			}
			opts := []runtime.Option{runtime.WithBudget(budget.ToBudget())}
			if noNormalize {
				opts = append(opts, runtime.WithNormalize(false))
			}

			if tracePath != "" {
				f, err := os.Create(tracePath)
				if err != nil {
					return exitError(ExitUsage, "cannot create trace file: %v", err)
				}
				defer f.Close()
				var mu sync.Mutex
				enc := json.NewEncoder(f)
				opts = append(opts, runtime.WithTrace(func(ev evaluator.TraceEvent) {
					mu.Lock()
					defer mu.Unlock()
					_ = enc.Encode(ev)
				}))
			}

			rt, err := a.runtime(opts...)
			if err != nil {
				return err
			}
			res, err := rt.Run(cmd.Context(), source, filename)
			if err != nil && res == nil {
				return a.failErr(cmd, err)
			}
			if err == nil {
				err = runtime.RequireValue(res)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				data, jerr := evaluator.ResultToJSON(res.ExecResult)
				if jerr != nil {
					return exitError(ExitUsage, "encoding result: %v", jerr)
				}
				fmt.Fprintln(out, string(data))
			} else if err == nil {
				fmt.Fprintln(out, res.Printable())
			}
			if err != nil {
				if !jsonOut {
					fmt.Fprintln(cmd.ErrOrStderr(), "final term:", formatter.Pretty(res.Expr))
				}
				return a.failErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tracePath, "trace", "", "Write NDJSON trace events to this file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result and counters as JSON")
	cmd.Flags().BoolVar(&noNormalize, "no-normalize", false, "Disable the constant-folding pass")
	cmd.Flags().Int64Var(&maxSteps, "max-steps", 0, "Step ceiling (overrides config; 0 = unlimited)")
	cmd.Flags().Int64Var(&maxBeta, "max-beta", 0, "Beta reduction ceiling (0 = unlimited)")
	cmd.Flags().Int64Var(&maxStrict, "max-strict", 0, "Strict operation ceiling (0 = unlimited)")
	return cmd
}
