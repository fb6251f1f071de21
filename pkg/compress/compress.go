// Package compress turns a long solution literal into a short expression
// that evaluates back to it, using positional or run-length packing and
// the decoders of the combinator library.
package compress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/codec"
	"github.com/sanma/boundvar/pkg/evaluator"
	"github.com/sanma/boundvar/pkg/formatter"
	"github.com/sanma/boundvar/pkg/parser"
	"github.com/sanma/boundvar/pkg/stdlib"
)

// Mode names an encoding.
type Mode string

const (
	ModeRaw        Mode = "raw"
	ModePositional Mode = "positional"
	ModeRLE        Mode = "rle"
)

// ParseMode validates a configured mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModePositional, ModeRLE:
		return m, nil
	}
	return "", fmt.Errorf("unknown compression mode %q (want positional or rle)", s)
}

// Candidate is one expression that evaluates to the solution literal.
type Candidate struct {
	Mode  Mode                    `json:"mode"`
	Text  string                  `json:"text"`
	Stats evaluator.BudgetTracker `json:"stats"`
}

// Len is the transmitted length of the candidate.
func (c Candidate) Len() int {
	return len(c.Text)
}

// Result is the outcome of compressing one solution.
type Result struct {
	Solution   Solution    `json:"solution"`
	Alphabet   string      `json:"alphabet,omitempty"`
	Raw        Candidate   `json:"raw"`
	Candidates []Candidate `json:"candidates"`
	Chosen     Candidate   `json:"chosen"`
}

// Improved reports whether a compressed candidate beat the raw literal.
func (r *Result) Improved() bool {
	return r.Chosen.Mode != ModeRaw
}

// Saved is the number of bytes the chosen candidate saves over raw.
func (r *Result) Saved() int {
	return r.Raw.Len() - r.Chosen.Len()
}

// VerifyError reports a candidate that does not evaluate to its literal.
// The compressor never emits such a candidate.
type VerifyError struct {
	Mode   Mode
	Want   string
	Got    string
	Reason string
}

func (e *VerifyError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s candidate failed verification: %s", e.Mode, e.Reason)
	}
	return fmt.Sprintf("%s candidate evaluates to %q, want %q", e.Mode, truncate(e.Got, 60), truncate(e.Want, 60))
}

// Options configures a Compressor.
type Options struct {
	// Modes lists the encodings to try. Empty means positional and rle.
	Modes []Mode
	// Alphabets is the detection order. Empty means DefaultAlphabets.
	Alphabets []*Alphabet
	// Budget bounds each verification run.
	Budget evaluator.Budget
	Logger *slog.Logger
}

// Compressor builds and verifies candidates. It holds no per-call state
// and may be shared between goroutines.
type Compressor struct {
	modes     []Mode
	alphabets []*Alphabet
	budget    evaluator.Budget
	logger    *slog.Logger
}

// New creates a Compressor.
func New(opts Options) *Compressor {
	c := &Compressor{modes: opts.Modes, alphabets: opts.Alphabets, budget: opts.Budget, logger: opts.Logger}
	if len(c.modes) == 0 {
		c.modes = []Mode{ModePositional, ModeRLE}
	}
	if len(c.alphabets) == 0 {
		c.alphabets = DefaultAlphabets()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// CompressText parses a solution literal and compresses it.
func (c *Compressor) CompressText(ctx context.Context, text string) (*Result, error) {
	sol, err := ParseSolution(text)
	if err != nil {
		return nil, err
	}
	return c.Compress(ctx, sol)
}

// Compress returns the shortest verified candidate for sol. The raw
// literal is always a candidate; a packed one is chosen only when it is
// strictly shorter. Any candidate failing its round trip is an error.
func (c *Compressor) Compress(ctx context.Context, sol Solution) (*Result, error) {
	want := sol.Literal()
	rawText, err := formatter.Wire(ast.NewString(want))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSolution, err)
	}
	raw := Candidate{Mode: ModeRaw, Text: rawText}
	if raw.Stats, err = c.verify(ctx, raw, want); err != nil {
		return nil, err
	}
	res := &Result{Solution: sol, Raw: raw, Chosen: raw}

	alpha, ok := Detect(sol.Sequence, c.alphabets)
	if sol.Sequence == "" || !ok {
		c.logger.Debug("raw only", "puzzle", sol.Puzzle, "length", len(sol.Sequence), "alphabet_found", ok)
		return res, nil
	}
	res.Alphabet = alpha.Name

	for _, mode := range c.modes {
		text, err := c.build(mode, sol, alpha)
		if err != nil {
			return nil, err
		}
		cand := Candidate{Mode: mode, Text: text}
		if cand.Stats, err = c.verify(ctx, cand, want); err != nil {
			return nil, err
		}
		res.Candidates = append(res.Candidates, cand)
		if cand.Len() < res.Chosen.Len() {
			res.Chosen = cand
		}
	}

	c.logger.Info("compressed solution",
		"puzzle", sol.Puzzle,
		"alphabet", alpha.Name,
		"mode", res.Chosen.Mode,
		"raw_len", raw.Len(),
		"chosen_len", res.Chosen.Len(),
	)
	return res, nil
}

func wireInt(n *big.Int) string {
	body, _ := codec.EncodeInt(n)
	return "I" + body
}

func wireString(s string) (string, error) {
	body, err := codec.EncodeString(s)
	if err != nil {
		return "", err
	}
	return "S" + body, nil
}

// build renders B. S<preamble> B$ B$ <decoder> I<count> I<packed>.
func (c *Compressor) build(mode Mode, sol Solution, alpha *Alphabet) (string, error) {
	alphaText, err := wireString(alpha.Symbols)
	if err != nil {
		return "", err
	}
	var (
		decoder string
		count   int
		packed  *big.Int
	)
	switch mode {
	case ModePositional:
		if packed, err = PositionalEncode(sol.Sequence, alpha); err != nil {
			return "", err
		}
		count = len(sol.Sequence)
		decoder, err = stdlib.Build("decode", map[string]string{
			"RADIX":    wireInt(big.NewInt(int64(alpha.Size()))),
			"ALPHABET": alphaText,
		})
	case ModeRLE:
		r, rerr := RLEEncode(sol.Sequence, alpha)
		if rerr != nil {
			return "", rerr
		}
		packed, count = r.Packed, r.Runs
		decoder, err = stdlib.Build("rle_decode", map[string]string{
			"ALPHABET":   alphaText,
			"SYMBOL_MOD": wireInt(r.SymbolMod()),
			"RUN_MOD":    wireInt(r.RunMod()),
			"RUN_SIZE":   wireInt(r.RunSize()),
		})
	default:
		return "", fmt.Errorf("unknown compression mode %q", mode)
	}
	if err != nil {
		return "", err
	}
	preamble, err := wireString(sol.Preamble())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedSolution, err)
	}
	return fmt.Sprintf("B. %s B$ B$ %s %s %s", preamble, decoder, wireInt(big.NewInt(int64(count))), wireInt(packed)), nil
}

// verify evaluates a candidate under its own governor and checks it yields
// want.
func (c *Compressor) verify(ctx context.Context, cand Candidate, want string) (evaluator.BudgetTracker, error) {
	expr, diags := parser.Parse(cand.Text, string(cand.Mode))
	if len(diags) > 0 {
		return evaluator.BudgetTracker{}, &VerifyError{Mode: cand.Mode, Want: want, Reason: diags[0].Message}
	}
	res, err := evaluator.Execute(ctx, expr, evaluator.ExecOptions{
		Governor:  evaluator.NewGovernor(c.budget),
		Normalize: true,
	})
	if err != nil {
		return evaluator.BudgetTracker{}, err
	}
	if res.Exhausted {
		return res.Stats, &VerifyError{Mode: cand.Mode, Want: want, Reason: "evaluation budget exhausted"}
	}
	got, ok := evaluator.StringValue(res.Expr)
	if !ok {
		reason := "result is not a string"
		if rerr := evaluator.Explain(res.Expr); rerr != nil {
			reason = rerr.Message
		}
		return res.Stats, &VerifyError{Mode: cand.Mode, Want: want, Reason: reason}
	}
	if got != want {
		return res.Stats, &VerifyError{Mode: cand.Mode, Want: want, Got: got}
	}
	return res.Stats, nil
}
