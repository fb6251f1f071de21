package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sanma/boundvar/pkg/diagnostics"
	"github.com/sanma/boundvar/pkg/runtime"
)

func splitSolutions(source string) []runtime.BatchJob {
	var jobs []runtime.BatchJob
	for i, line := range strings.Split(source, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		jobs = append(jobs, runtime.BatchJob{Name: fmt.Sprintf("line %d", i+1), Text: line})
	}
	return jobs
}

func newCompressCmd(a *app) *cobra.Command {
	var (
		jsonOut bool
		modes   []string
	)
	cmd := &cobra.Command{
		Use:   "compress <file|->",
		Short: "Pack solution literals into shorter self-decoding expressions",
		Long: "Each non-empty input line is a solution \"solve <puzzle> <sequence>\". For every line\n" +
			"the shortest verified expression evaluating to it is printed: a positional or\n" +
			"run-length packing when one is strictly shorter, otherwise the string literal.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _, err := a.readSource(cmd, args[0])
			if err != nil {
				return err
			}
			var opts []runtime.Option
			if len(modes) > 0 {
				opts = append(opts, runtime.WithCompressModes(modes...))
			}
			rt, err := a.runtime(opts...)
			if err != nil {
				return err
			}
			jobs := splitSolutions(source)
			if len(jobs) == 0 {
				return a.fail(cmd, ExitDiagnostics, diagnostics.MakeDiag(diagnostics.ESolution, "no solution in input", nil, ""))
			}
			items, err := rt.CompressAll(cmd.Context(), jobs)
			if err != nil {
				return exitError(ExitUsage, "compression interrupted: %v", err)
			}

			out := cmd.OutOrStdout()
			code := ExitOK
			var failed []diagnostics.Diagnostic
			for _, it := range items {
				if it.Err != nil {
					c, diags := asExit(it.Err)
					code = max(code, c)
					for _, d := range diags {
						d.Message = it.Name + ": " + d.Message
						failed = append(failed, d)
					}
					continue
				}
				if jsonOut {
					data, err := json.Marshal(it.Result)
					if err != nil {
						return exitError(ExitUsage, "encoding result: %v", err)
					}
					fmt.Fprintln(out, string(data))
					continue
				}
				fmt.Fprintln(out, it.Result.Chosen.Text)
			}
			if code != ExitOK {
				return a.fail(cmd, code, failed...)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print every candidate and the choice as JSON")
	cmd.Flags().StringSliceVar(&modes, "mode", nil, "Encodings to try: positional, rle (default from config)")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		workers int
		suffix  string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Compress every *.txt solution in a directory",
		Long: "Compress every *.txt solution file in a directory concurrently. For each file that\n" +
			"improves, the chosen expression is written next to it as <name><suffix>.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if suffix == "" {
				suffix = a.cfg.Compressor.Suffix
			}
			var opts []runtime.Option
			if workers > 0 {
				opts = append(opts, runtime.WithWorkers(workers))
			}
			rt, err := a.runtime(opts...)
			if err != nil {
				return err
			}

			paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
			if err != nil {
				return exitError(ExitUsage, "%v", err)
			}
			sort.Strings(paths)
			var jobs []runtime.BatchJob
			for _, p := range paths {
				if strings.HasSuffix(p, suffix) {
					continue
				}
				data, err := os.ReadFile(p)
				if err != nil {
					return a.fail(cmd, ExitUsage, diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", p), nil, ""))
				}
				jobs = append(jobs, runtime.BatchJob{Name: p, Text: string(data)})
			}
			if len(jobs) == 0 {
				return a.fail(cmd, ExitUsage, diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("no solution files in %s", dir), nil, ""))
			}

			items, err := rt.CompressAll(cmd.Context(), jobs)
			if err != nil {
				return exitError(ExitUsage, "batch interrupted: %v", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tMODE\tRAW\tCHOSEN\tSAVED")
			code := ExitOK
			var failed []diagnostics.Diagnostic
			for _, it := range items {
				name := filepath.Base(it.Name)
				if it.Err != nil {
					c, diags := asExit(it.Err)
					code = max(code, c)
					for _, d := range diags {
						d.Message = name + ": " + d.Message
						failed = append(failed, d)
					}
					fmt.Fprintf(tw, "%s\terror\t-\t-\t-\n", name)
					continue
				}
				res := it.Result
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", name, res.Chosen.Mode, res.Raw.Len(), res.Chosen.Len(), res.Saved())
				if !res.Improved() || dryRun {
					continue
				}
				target := strings.TrimSuffix(it.Name, ".txt") + suffix
				if err := os.WriteFile(target, []byte(res.Chosen.Text+"\n"), 0o644); err != nil {
					return exitError(ExitUsage, "writing %s: %v", target, err)
				}
				a.logger.Debug("wrote compressed solution", "path", target, "mode", res.Chosen.Mode)
			}
			if err := tw.Flush(); err != nil {
				return exitError(ExitUsage, "%v", err)
			}
			if code != ExitOK {
				return a.fail(cmd, code, failed...)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent compressions (default from config)")
	cmd.Flags().StringVar(&suffix, "suffix", "", "Output file suffix (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report without writing files")
	return cmd
}
