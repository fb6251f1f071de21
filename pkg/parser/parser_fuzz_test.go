package parser_test

import (
	"testing"

	"github.com/sanma/boundvar/pkg/parser"
)

// FuzzParse feeds random inputs to the parser to catch panics.
func FuzzParse(f *testing.F) {
	seeds := []string{
		`T`,
		`I/6`,
		`SB%,,/}Q/2,$_`,
		`B$ L! B+ v! v! I#`,
		`B$ B$ L# L$ v# B. SB%,,/ S}Q/2,$_ IK`,
		`? B= I! I! T F`,
		`B+ I"`,
		`U~ I!`,
		`L~~~~~~~~~~~~ v!`,
		`I! I!`,
		`?x T T T`,
		``,
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Parse panicked on input %q: %v", input, r)
				}
			}()
			expr, diags := parser.Parse(input, "fuzz.bv")
			if (expr == nil) == (len(diags) == 0) {
				t.Fatalf("Parse(%q) returned expr=%v with %d diagnostics", input, expr, len(diags))
			}
		}()
	})
}
