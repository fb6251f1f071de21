package evaluator

import (
	"context"
	"math"
	"time"

	"github.com/sanma/boundvar/pkg/ast"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart       TraceEventType = "run_start"
	TraceRunEnd         TraceEventType = "run_end"
	TracePass           TraceEventType = "pass"
	TraceBudgetExceeded TraceEventType = "budget_exceeded"
)

// TraceEvent represents a single trace event emitted during execution.
type TraceEvent struct {
	Timestamp string         `json:"ts"`
	RunID     string         `json:"runId"`
	Event     TraceEventType `json:"event"`
	Data      map[string]any `json:"data,omitempty"`
}

// ExecOptions configures one evaluation run.
type ExecOptions struct {
	// Governor meters the run. A nil Governor allows unlimited work.
	Governor *Governor
	// Normalize interleaves a constant-folding pass after every reduction pass.
	Normalize bool
	Trace     func(event TraceEvent)
	RunID     string
}

// ExecResult holds the final tree of a run and the work it took.
type ExecResult struct {
	Expr      ast.Expr
	Stats     BudgetTracker
	Passes    int
	Exhausted bool
	Elapsed   time.Duration
}

// IsValue reports whether the run reached a terminal value.
func (r *ExecResult) IsValue() bool {
	return r.Expr != nil && ast.IsValue(r.Expr)
}

type evaluator struct {
	opts   ExecOptions
	gov    *Governor
	nextID ast.VarID
	// taken is set only when the tree already uses the largest identifier;
	// fresh identifiers then skip its members.
	taken ast.VarSet
}

func (ev *evaluator) emit(event TraceEventType, data map[string]any) {
	if ev.opts.Trace != nil {
		ev.opts.Trace(TraceEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			RunID:     ev.opts.RunID,
			Event:     event,
			Data:      data,
		})
	}
}

func (ev *evaluator) counters() map[string]any {
	s := ev.gov.Stats()
	return map[string]any{"strictOps": s.StrictOps, "betaReductions": s.BetaReductions}
}

// Execute rewrites expr until it is a value, stops changing, or the
// governor refuses a step. Type mismatches leave the tree stuck rather than
// failing; see Explain. The only error returned is a cancelled context, in
// which case the result holds the tree reached so far.
func Execute(ctx context.Context, expr ast.Expr, opts ExecOptions) (*ExecResult, error) {
	start := time.Now()
	gov := opts.Governor
	if gov == nil {
		gov = NewGovernor(Budget{})
	}
	ev := &evaluator{opts: opts, gov: gov}
	if maxID, ok := ast.MaxVarID(expr); ok {
		if maxID == math.MaxUint64 {
			ev.taken = ast.VarIDs(expr)
		} else {
			ev.nextID = maxID + 1
		}
	}

	ev.emit(TraceRunStart, map[string]any{"size": ast.Size(expr), "normalize": opts.Normalize})

	res := &ExecResult{Expr: expr}
	var err error
	for !ast.IsValue(res.Expr) {
		if err = ctx.Err(); err != nil {
			break
		}
		next, changed := ev.reduce(res.Expr)
		if opts.Normalize && !ast.IsValue(next) && !gov.Exhausted() {
			var folded bool
			next, folded = ev.normalize(next)
			changed = changed || folded
		}
		res.Expr = next
		res.Passes++
		if opts.Trace != nil {
			data := ev.counters()
			data["pass"] = res.Passes
			data["changed"] = changed
			data["size"] = ast.Size(res.Expr)
			ev.emit(TracePass, data)
		}
		if gov.Exhausted() {
			data := ev.counters()
			data["reason"] = gov.Reason()
			ev.emit(TraceBudgetExceeded, data)
			break
		}
		if !changed {
			break
		}
	}

	res.Stats = gov.Stats()
	res.Exhausted = gov.Exhausted()
	res.Elapsed = time.Since(start)

	end := ev.counters()
	end["passes"] = res.Passes
	end["value"] = ast.IsValue(res.Expr)
	ev.emit(TraceRunEnd, end)
	return res, err
}

// reduce performs one pass over e. Strict operands are reduced left to
// right before the operator is tried; application reduces only the
// function position; a conditional reduces only its condition. Lambda
// bodies are left alone until applied.
func (ev *evaluator) reduce(e ast.Expr) (ast.Expr, bool) {
	switch n := e.(type) {
	case *ast.UnaryExpr:
		operand, changed := ev.reduce(n.Operand)
		if ast.IsValue(operand) {
			if v, ok := foldUnary(n.Op, operand); ok && ev.gov.tryStrict() {
				return v, true
			}
		}
		if !changed {
			return n, false
		}
		return &ast.UnaryExpr{Op: n.Op, Operand: operand}, true

	case *ast.BinaryExpr:
		if n.Op == ast.OpApply {
			return ev.reduceApply(n)
		}
		left, lchanged := ev.reduce(n.Left)
		right, rchanged := ev.reduce(n.Right)
		if ast.IsValue(left) && ast.IsValue(right) {
			if v, ok := foldBinary(n.Op, left, right); ok && ev.gov.tryStrict() {
				return v, true
			}
		}
		if !lchanged && !rchanged {
			return n, false
		}
		return &ast.BinaryExpr{Op: n.Op, Left: left, Right: right}, true

	case *ast.IfExpr:
		cond, changed := ev.reduce(n.Cond)
		if b, ok := cond.(*ast.BoolLiteral); ok {
			if b.Value {
				return n.Then, true
			}
			return n.Else, true
		}
		if !changed {
			return n, false
		}
		return &ast.IfExpr{Cond: cond, Then: n.Then, Else: n.Else}, true
	}
	return e, false
}

func (ev *evaluator) reduceApply(n *ast.BinaryExpr) (ast.Expr, bool) {
	fn, changed := ev.reduce(n.Left)
	if lam, ok := fn.(*ast.Lambda); ok && ev.gov.tryBeta() {
		return ev.substitute(lam.Body, lam.Param, n.Right), true
	}
	if !changed {
		return n, false
	}
	return ast.Apply(fn, n.Right), true
}
