package evaluator

import "fmt"

// Budget holds the optional reduction ceilings for one evaluation. A nil
// field means unlimited.
type Budget struct {
	MaxStrictOps      *int64 `json:"maxStrictOps,omitempty" yaml:"max_strict_ops,omitempty"`
	MaxBetaReductions *int64 `json:"maxBetaReductions,omitempty" yaml:"max_beta_reductions,omitempty"`
	MaxSteps          *int64 `json:"maxSteps,omitempty" yaml:"max_steps,omitempty"`
}

// Limit returns a pointer to n, for filling Budget fields.
func Limit(n int64) *int64 {
	return &n
}

// BudgetTracker tracks reduction work performed.
type BudgetTracker struct {
	StrictOps      int64 `json:"strictOps"`
	BetaReductions int64 `json:"betaReductions"`
}

// Steps is the sum of strict-operator applications and beta reductions.
func (t BudgetTracker) Steps() int64 {
	return t.StrictOps + t.BetaReductions
}

// Governor meters one evaluation run against a Budget. It is not safe for
// concurrent use; each run owns its own Governor.
type Governor struct {
	budget    Budget
	tracker   BudgetTracker
	exhausted string
}

// NewGovernor creates a governor enforcing budget.
func NewGovernor(budget Budget) *Governor {
	return &Governor{budget: budget}
}

// Budget returns the configured ceilings.
func (g *Governor) Budget() Budget {
	return g.budget
}

// Stats returns the work counted so far.
func (g *Governor) Stats() BudgetTracker {
	return g.tracker
}

// Exhausted reports whether a ceiling has refused a step.
func (g *Governor) Exhausted() bool {
	return g.exhausted != ""
}

// Reason describes the ceiling that refused a step, or "" if none did.
func (g *Governor) Reason() string {
	return g.exhausted
}

func (g *Governor) stepsLeft() bool {
	if g.budget.MaxSteps != nil && g.tracker.Steps() >= *g.budget.MaxSteps {
		g.exhausted = fmt.Sprintf("step budget exceeded (max %d)", *g.budget.MaxSteps)
		return false
	}
	return true
}

// tryStrict charges one strict-operator application, or refuses it once
// a ceiling is met.
func (g *Governor) tryStrict() bool {
	if g.exhausted != "" {
		return false
	}
	if g.budget.MaxStrictOps != nil && g.tracker.StrictOps >= *g.budget.MaxStrictOps {
		g.exhausted = fmt.Sprintf("strict operation budget exceeded (max %d)", *g.budget.MaxStrictOps)
		return false
	}
	if !g.stepsLeft() {
		return false
	}
	g.tracker.StrictOps++
	return true
}

// tryBeta charges one beta reduction, or refuses it once a ceiling is met.
func (g *Governor) tryBeta() bool {
	if g.exhausted != "" {
		return false
	}
	if g.budget.MaxBetaReductions != nil && g.tracker.BetaReductions >= *g.budget.MaxBetaReductions {
		g.exhausted = fmt.Sprintf("beta reduction budget exceeded (max %d)", *g.budget.MaxBetaReductions)
		return false
	}
	if !g.stepsLeft() {
		return false
	}
	g.tracker.BetaReductions++
	return true
}
