package compress

import (
	"fmt"
	"math/big"
	"math/bits"
	"strings"
)

func symbolError(a *Alphabet, c byte, pos int) error {
	return fmt.Errorf("symbol %q at %d is not in %s", c, pos, a)
}

// PositionalEncode packs seq as a base-k numeral with seq[0] in the least
// significant digit.
func PositionalEncode(seq string, a *Alphabet) (*big.Int, error) {
	k := big.NewInt(int64(a.Size()))
	digit := new(big.Int)
	packed := new(big.Int)
	for i := len(seq) - 1; i >= 0; i-- {
		d, ok := a.Index(seq[i])
		if !ok {
			return nil, symbolError(a, seq[i], i)
		}
		packed.Mul(packed, k)
		packed.Add(packed, digit.SetInt64(int64(d)))
	}
	return packed, nil
}

// PositionalDecode unpacks n symbols from packed.
func PositionalDecode(n int, packed *big.Int, a *Alphabet) (string, error) {
	if packed.Sign() < 0 {
		return "", fmt.Errorf("packed value is negative")
	}
	k := big.NewInt(int64(a.Size()))
	rest := new(big.Int).Set(packed)
	d := new(big.Int)
	var sb strings.Builder
	sb.Grow(n)
	for j := 0; j < n; j++ {
		rest.QuoRem(rest, k, d)
		sb.WriteByte(a.Symbols[d.Int64()])
	}
	if rest.Sign() != 0 {
		return "", fmt.Errorf("packed value holds more than %d symbols", n)
	}
	return sb.String(), nil
}

// RLE is a run-length packing of a sequence. Each run occupies
// RunBits+SymbolBits bits: the symbol digit in the low SymbolBits and the
// run length above it. The first run sits in the least significant field.
type RLE struct {
	RunBits    uint
	SymbolBits uint
	Runs       int
	Packed     *big.Int
}

// SymbolMod is 2^SymbolBits.
func (r RLE) SymbolMod() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), r.SymbolBits)
}

// RunMod is 2^RunBits.
func (r RLE) RunMod() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), r.RunBits)
}

// RunSize is 2^(RunBits+SymbolBits), the width of one packed run.
func (r RLE) RunSize() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), r.RunBits+r.SymbolBits)
}

type run struct {
	digit  int
	length int
}

func splitRuns(seq string, a *Alphabet) ([]run, error) {
	var runs []run
	for i := 0; i < len(seq); i++ {
		d, ok := a.Index(seq[i])
		if !ok {
			return nil, symbolError(a, seq[i], i)
		}
		if len(runs) > 0 && runs[len(runs)-1].digit == d {
			runs[len(runs)-1].length++
			continue
		}
		runs = append(runs, run{digit: d, length: 1})
	}
	return runs, nil
}

// RLEEncode splits seq into maximal runs and packs them. The run field is
// the narrowest b >= 1 with 2^b > the longest run; the symbol field is
// wide enough for any digit of a.
func RLEEncode(seq string, a *Alphabet) (RLE, error) {
	runs, err := splitRuns(seq, a)
	if err != nil {
		return RLE{}, err
	}
	longest := 0
	for _, r := range runs {
		longest = max(longest, r.length)
	}
	out := RLE{
		RunBits:    uint(max(1, bits.Len(uint(longest)))),
		SymbolBits: uint(bits.Len(uint(a.Size() - 1))),
		Runs:       len(runs),
		Packed:     new(big.Int),
	}
	field := new(big.Int)
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		out.Packed.Lsh(out.Packed, out.RunBits+out.SymbolBits)
		field.SetInt64(int64(r.length))
		field.Lsh(field, out.SymbolBits)
		field.Or(field, big.NewInt(int64(r.digit)))
		out.Packed.Or(out.Packed, field)
	}
	return out, nil
}

// RLEDecode expands a packing produced by RLEEncode.
func RLEDecode(r RLE, a *Alphabet) (string, error) {
	rest := new(big.Int).Set(r.Packed)
	fieldMask := new(big.Int).Sub(r.RunSize(), big.NewInt(1))
	field := new(big.Int)
	var sb strings.Builder
	for j := 0; j < r.Runs; j++ {
		field.And(rest, fieldMask)
		rest.Rsh(rest, r.RunBits+r.SymbolBits)
		f := field.Uint64()
		digit := f & (1<<r.SymbolBits - 1)
		length := f >> r.SymbolBits
		if digit >= uint64(a.Size()) {
			return "", fmt.Errorf("run holds digit %d outside %s", digit, a)
		}
		sb.WriteString(strings.Repeat(a.Symbols[digit:digit+1], int(length)))
	}
	if rest.Sign() != 0 {
		return "", fmt.Errorf("packed value holds more than %d runs", r.Runs)
	}
	return sb.String(), nil
}
