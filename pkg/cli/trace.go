package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sanma/boundvar/pkg/evaluator"
)

// TraceSummary aggregates an NDJSON trace written by eval --trace.
type TraceSummary struct {
	RunID          string  `json:"runId"`
	TotalEvents    int     `json:"totalEvents"`
	Runs           int     `json:"runs"`
	Passes         int     `json:"passes"`
	StrictOps      int64   `json:"strictOps"`
	BetaReductions int64   `json:"betaReductions"`
	ReachedValue   bool    `json:"reachedValue"`
	BudgetExceeded int     `json:"budgetExceeded"`
	BudgetReason   string  `json:"budgetReason,omitempty"`
	Skipped        int     `json:"skippedLines"`
	StartTime      string  `json:"startTime,omitempty"`
	EndTime        string  `json:"endTime,omitempty"`
	DurationMs     float64 `json:"durationMs"`
}

func number(v any) int64 {
	if f, ok := v.(float64); ok {
		return int64(f)
	}
	return 0
}

func computeTraceSummary(r io.Reader) (*TraceSummary, error) {
	summary := &TraceSummary{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event evaluator.TraceEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			summary.Skipped++
			continue
		}

		summary.TotalEvents++
		if summary.RunID == "" {
			summary.RunID = event.RunID
		}

		switch event.Event {
		case evaluator.TraceRunStart:
			summary.Runs++
			if summary.StartTime == "" {
				summary.StartTime = event.Timestamp
			}
		case evaluator.TracePass:
			summary.Passes++
		case evaluator.TraceBudgetExceeded:
			summary.BudgetExceeded++
			if reason, ok := event.Data["reason"].(string); ok {
				summary.BudgetReason = reason
			}
		case evaluator.TraceRunEnd:
			summary.EndTime = event.Timestamp
			summary.StrictOps += number(event.Data["strictOps"])
			summary.BetaReductions += number(event.Data["betaReductions"])
			if v, ok := event.Data["value"].(bool); ok {
				summary.ReachedValue = v
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if summary.StartTime != "" && summary.EndTime != "" {
		start, err1 := time.Parse(time.RFC3339Nano, summary.StartTime)
		end, err2 := time.Parse(time.RFC3339Nano, summary.EndTime)
		if err1 == nil && err2 == nil {
			summary.DurationMs = float64(end.Sub(start).Microseconds()) / 1000
		}
	}
	return summary, nil
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Events: %d\n", s.TotalEvents)
	fmt.Fprintf(w, "Passes: %d\n", s.Passes)
	fmt.Fprintf(w, "Work: %d strict ops, %d beta reductions\n", s.StrictOps, s.BetaReductions)
	if s.BudgetExceeded > 0 {
		fmt.Fprintf(w, "Budget exceeded: %s\n", s.BudgetReason)
	}
	fmt.Fprintf(w, "Value: %t\n", s.ReachedValue)
	if s.DurationMs > 0 {
		fmt.Fprintf(w, "Duration: %.3fms\n", s.DurationMs)
	}
}

func newTraceCmd() *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "trace <file.ndjson>",
		Short: "Summarise a trace written by eval --trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return exitError(ExitUsage, "cannot read file: %s", args[0])
			}
			defer f.Close()

			summary, err := computeTraceSummary(f)
			if err != nil {
				return exitError(ExitUsage, "reading trace: %v", err)
			}
			if text {
				printTraceSummaryText(cmd.OutOrStdout(), summary)
				return nil
			}
			b, err := json.Marshal(summary)
			if err != nil {
				return exitError(ExitUsage, "%v", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "Print a text summary instead of JSON")
	return cmd
}
