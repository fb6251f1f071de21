package compress

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSolution is returned for text that is not "solve NAME SEQ".
var ErrMalformedSolution = errors.New("malformed solution")

// Solution is a puzzle answer of the form "solve <puzzle> <sequence>".
type Solution struct {
	Puzzle   string `json:"puzzle"`
	Sequence string `json:"sequence"`
}

// ParseSolution reads a solution literal. Surrounding whitespace is
// ignored; the sequence may be empty.
func ParseSolution(text string) (Solution, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 || len(fields) > 3 || fields[0] != "solve" {
		return Solution{}, fmt.Errorf("%w: want \"solve <puzzle> <sequence>\", got %q", ErrMalformedSolution, truncate(text, 60))
	}
	sol := Solution{Puzzle: fields[1]}
	if len(fields) == 3 {
		sol.Sequence = fields[2]
	}
	return sol, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Preamble is the text that precedes the sequence.
func (s Solution) Preamble() string {
	return "solve " + s.Puzzle + " "
}

// Literal is the full text the judge expects.
func (s Solution) Literal() string {
	return s.Preamble() + s.Sequence
}
