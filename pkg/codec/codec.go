// Package codec converts between wire symbols and semantic values.
//
// A wire symbol is a printable ASCII character from '!' to '~'; its digit
// value is the code point minus 33. Integers are big-endian base-94
// numerals. Strings use a fixed 94-entry substitution table.
package codec

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
)

const (
	// Base is the radix of wire numerals.
	Base = 94
	// MinSymbol and MaxSymbol bound the wire alphabet.
	MinSymbol = '!'
	MaxSymbol = '~'
)

// Alphabet maps digit i to the human-readable character it stands for in a
// string literal.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!\"#$%&'()*+,-./:;<=>?@[\\]^_`|~ \n"

// chunkDigits base-94 digits fit in a uint64.
const chunkDigits = 9

// ErrOverflow marks a variable identifier numeral too large for 64 bits.
var ErrOverflow = errors.New("numeral overflows 64 bits")

// DecodeError reports input outside the codec's mapped domain.
type DecodeError struct {
	Input  string
	Offset int
	Reason string
	Err    error
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("decode %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("decode %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

type tables struct {
	// index[c] is the digit of text character c, or -1.
	index [256]int16
	// chunk is Base^chunkDigits.
	chunk uint64
}

var cipher = sync.OnceValue(func() tables {
	var t tables
	for i := range t.index {
		t.index[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		t.index[Alphabet[i]] = int16(i)
	}
	t.chunk = 1
	for j := 0; j < chunkDigits; j++ {
		t.chunk *= Base
	}
	return t
})

// IsSymbol reports whether c belongs to the wire alphabet.
func IsSymbol(c byte) bool {
	return c >= MinSymbol && c <= MaxSymbol
}

func digit(body string, i int) (uint64, error) {
	c := body[i]
	if !IsSymbol(c) {
		return 0, &DecodeError{Input: body, Offset: i, Reason: fmt.Sprintf("symbol %q outside the wire alphabet", c)}
	}
	return uint64(c - MinSymbol), nil
}

// DecodeInt parses a base-94 numeral body.
func DecodeInt(body string) (*big.Int, error) {
	if body == "" {
		return nil, &DecodeError{Input: body, Offset: -1, Reason: "integer numeral has no digits"}
	}
	return accumulate(body, func(i int) (uint64, error) { return digit(body, i) })
}

// accumulate folds len(s) digits into an integer, chunkDigits at a time.
func accumulate(s string, digitAt func(i int) (uint64, error)) (*big.Int, error) {
	n := new(big.Int)
	scale := new(big.Int)
	part := new(big.Int)
	for start := 0; start < len(s); start += chunkDigits {
		end := min(start+chunkDigits, len(s))
		var chunk, mul uint64 = 0, 1
		for i := start; i < end; i++ {
			d, err := digitAt(i)
			if err != nil {
				return nil, err
			}
			chunk = chunk*Base + d
			mul *= Base
		}
		n.Mul(n, scale.SetUint64(mul))
		n.Add(n, part.SetUint64(chunk))
	}
	return n, nil
}

// EncodeInt renders a non-negative integer as a base-94 numeral body.
// Zero encodes as a single zero digit.
func EncodeInt(n *big.Int) (string, error) {
	if n.Sign() < 0 {
		return "", &DecodeError{Input: n.String(), Offset: -1, Reason: "negative integers have no numeral encoding"}
	}
	digits := spread(n)
	if len(digits) == 0 {
		return string(rune(MinSymbol)), nil
	}
	var sb strings.Builder
	sb.Grow(len(digits))
	for _, d := range digits {
		sb.WriteByte(byte(d) + MinSymbol)
	}
	return sb.String(), nil
}

// spread returns the base-94 digits of a non-negative n, most significant
// first, with no leading zeros. Zero yields no digits.
func spread(n *big.Int) []uint8 {
	t := cipher()
	rest := new(big.Int).Set(n)
	chunk := new(big.Int).SetUint64(t.chunk)
	rem := new(big.Int)
	var rev []uint8
	for rest.Sign() > 0 {
		rest.QuoRem(rest, chunk, rem)
		low := rem.Uint64()
		for i := 0; i < chunkDigits; i++ {
			if rest.Sign() == 0 && low == 0 {
				break
			}
			rev = append(rev, uint8(low%Base))
			low /= Base
		}
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// DecodeUint parses a numeral body that must fit in 64 bits (variable ids).
func DecodeUint(body string) (uint64, error) {
	if body == "" {
		return 0, &DecodeError{Input: body, Offset: -1, Reason: "numeral has no digits"}
	}
	var v uint64
	for i := 0; i < len(body); i++ {
		d, err := digit(body, i)
		if err != nil {
			return 0, err
		}
		if v > (^uint64(0)-d)/Base {
			return 0, &DecodeError{Input: body, Offset: i, Reason: ErrOverflow.Error(), Err: ErrOverflow}
		}
		v = v*Base + d
	}
	return v, nil
}

// EncodeUint renders v as a numeral body.
func EncodeUint(v uint64) string {
	if v == 0 {
		return string(rune(MinSymbol))
	}
	var buf [16]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte(v%Base) + MinSymbol
		v /= Base
	}
	return string(buf[i:])
}

// DecodeString deciphers a string-literal body into readable text.
func DecodeString(body string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		d, err := digit(body, i)
		if err != nil {
			return "", err
		}
		sb.WriteByte(Alphabet[d])
	}
	return sb.String(), nil
}

// EncodeString enciphers readable text into a string-literal body.
func EncodeString(text string) (string, error) {
	t := cipher()
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		d := t.index[text[i]]
		if d < 0 {
			return "", &DecodeError{Input: text, Offset: i, Reason: fmt.Sprintf("character %q has no cipher symbol", text[i])}
		}
		sb.WriteByte(byte(d) + MinSymbol)
	}
	return sb.String(), nil
}

// StringToInt reads text as base-94 digits through the cipher table. The
// empty string is zero.
func StringToInt(text string) (*big.Int, error) {
	t := cipher()
	return accumulate(text, func(i int) (uint64, error) {
		d := t.index[text[i]]
		if d < 0 {
			return 0, &DecodeError{Input: text, Offset: i, Reason: fmt.Sprintf("character %q has no cipher symbol", text[i])}
		}
		return uint64(d), nil
	})
}

// IntToString is the inverse of StringToInt. Zero yields the empty string.
func IntToString(n *big.Int) (string, error) {
	if n.Sign() < 0 {
		return "", &DecodeError{Input: n.String(), Offset: -1, Reason: "negative integers have no string form"}
	}
	digits := spread(n)
	var sb strings.Builder
	sb.Grow(len(digits))
	for _, d := range digits {
		sb.WriteByte(Alphabet[d])
	}
	return sb.String(), nil
}
