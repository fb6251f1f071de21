package lexer

import (
	"testing"
)

// FuzzTokenize feeds random inputs to the lexer to catch panics.
func FuzzTokenize(f *testing.F) {
	seeds := []string{
		`T F`,
		`I/6 SB%,,/}Q/2,$_`,
		`U- I$`,
		`B$ L! B+ v! v! I#`,
		`? B> I# I$ S9%3 S./`,
		``,
		"   \t\n\r",
		"I\x00",
		"S\xff\xfe",
		`Z! x y`,
		`I`,
		`L`,
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Tokenize panicked on input %q: %v", input, r)
				}
			}()
			tokens, err := Tokenize(input, "fuzz.bv")
			if err == nil && tokens[len(tokens)-1].Type != TokEOF {
				t.Fatalf("token stream for %q does not end in EOF", input)
			}
		}()
	})
}
