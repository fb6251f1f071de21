package compress

import (
	"fmt"

	"github.com/sanma/boundvar/pkg/codec"
)

// Alphabet is an ordered set of symbols. A symbol's digit is its position.
type Alphabet struct {
	Name    string
	Symbols string
	index   [256]int16
}

// NewAlphabet builds an alphabet. Symbols must be distinct and expressible
// in a string literal.
func NewAlphabet(name, symbols string) (*Alphabet, error) {
	if symbols == "" {
		return nil, fmt.Errorf("alphabet %s is empty", name)
	}
	if _, err := codec.EncodeString(symbols); err != nil {
		return nil, fmt.Errorf("alphabet %s: %w", name, err)
	}
	a := &Alphabet{Name: name, Symbols: symbols}
	for i := range a.index {
		a.index[i] = -1
	}
	for i := 0; i < len(symbols); i++ {
		if a.index[symbols[i]] >= 0 {
			return nil, fmt.Errorf("alphabet %s repeats symbol %q", name, symbols[i])
		}
		a.index[symbols[i]] = int16(i)
	}
	return a, nil
}

func mustAlphabet(name, symbols string) *Alphabet {
	a, err := NewAlphabet(name, symbols)
	if err != nil {
		panic(err)
	}
	return a
}

var (
	// Directions are the four moves of a grid path, L=0 R=1 U=2 D=3.
	Directions = mustAlphabet("directions", "LRUD")
	// Digits are the symbols of a 1-9 digit grid.
	Digits = mustAlphabet("digits", "123456789")
)

// DefaultAlphabets is the detection order used when none are configured.
func DefaultAlphabets() []*Alphabet {
	return []*Alphabet{Directions, Digits}
}

// Size is the number of symbols k.
func (a *Alphabet) Size() int {
	return len(a.Symbols)
}

// Index returns the digit of c.
func (a *Alphabet) Index(c byte) (int, bool) {
	i := a.index[c]
	return int(i), i >= 0
}

// Contains reports whether every symbol of seq belongs to a.
func (a *Alphabet) Contains(seq string) bool {
	for i := 0; i < len(seq); i++ {
		if a.index[seq[i]] < 0 {
			return false
		}
	}
	return true
}

func (a *Alphabet) String() string {
	return a.Name + "(" + a.Symbols + ")"
}

// Detect returns the first candidate alphabet containing all of seq.
func Detect(seq string, candidates []*Alphabet) (*Alphabet, bool) {
	for _, a := range candidates {
		if a.Contains(seq) {
			return a, true
		}
	}
	return nil, false
}
