package stdlib_test

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/codec"
	"github.com/sanma/boundvar/pkg/evaluator"
	"github.com/sanma/boundvar/pkg/parser"
	"github.com/sanma/boundvar/pkg/stdlib"
)

func eval(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, diags := parser.Parse(src, "test.bv")
	if len(diags) > 0 {
		t.Fatalf("parse %q: %v", src, diags)
	}
	gov := evaluator.NewGovernor(evaluator.Budget{MaxSteps: evaluator.Limit(1_000_000)})
	res, err := evaluator.Execute(context.Background(), expr, evaluator.ExecOptions{Governor: gov, Normalize: true})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsValue() {
		t.Fatalf("no value after %d passes (exhausted=%v): %v", res.Passes, res.Exhausted, evaluator.Explain(res.Expr))
	}
	return res.Expr
}

func mustBuild(t *testing.T, name string, params map[string]string) string {
	t.Helper()
	text, err := stdlib.Build(name, params)
	if err != nil {
		t.Fatalf("Build(%s): %v", name, err)
	}
	return text
}

func wireInt(t *testing.T, n int64) string {
	t.Helper()
	body, err := codec.EncodeInt(big.NewInt(n))
	if err != nil {
		t.Fatal(err)
	}
	return "I" + body
}

func wireString(t *testing.T, s string) string {
	t.Helper()
	body, err := codec.EncodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return "S" + body
}

func TestPreludeParses(t *testing.T) {
	defs, err := stdlib.Prelude()
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range stdlib.Entries() {
		if _, ok := defs.Lookup(e.Name); !ok {
			t.Errorf("entry %s has no definition", e.Name)
		}
	}
	if !strings.Contains(stdlib.Source(), "Z :=") {
		t.Error("Source should return the library text")
	}
}

func TestFactorial(t *testing.T) {
	fact := mustBuild(t, "factorial", nil)
	got := eval(t, "B$ "+fact+" "+wireInt(t, 5))
	if n, ok := evaluator.IntValue(got); !ok || n.Int64() != 120 {
		t.Errorf("factorial 5 = %#v", got)
	}
}

func TestYCombinator(t *testing.T) {
	y := mustBuild(t, "Y", nil)
	defs, _ := stdlib.Prelude()
	gen, _ := defs.Lookup("factgen")
	got := eval(t, "B$ B$ "+y+" "+strings.Join(gen.Tokens, " ")+" "+wireInt(t, 4))
	if n, ok := evaluator.IntValue(got); !ok || n.Int64() != 24 {
		t.Errorf("Y factgen 4 = %#v", got)
	}
}

func TestRepeat(t *testing.T) {
	rep := mustBuild(t, "repeat", nil)
	got := eval(t, "B$ B$ "+rep+" "+wireString(t, "ab")+" "+wireInt(t, 3))
	if s, ok := evaluator.StringValue(got); !ok || s != "ababab" {
		t.Errorf("repeat = %#v", got)
	}
	empty := eval(t, "B$ B$ "+rep+" "+wireString(t, "ab")+" I!")
	if s, _ := evaluator.StringValue(empty); s != "" {
		t.Errorf("repeat 0 = %q", s)
	}
}

func TestDecode(t *testing.T) {
	dec := mustBuild(t, "decode", map[string]string{"RADIX": "I%", "ALPHABET": wireString(t, "LRUD")})
	// L=0 R=1 U=2 D=3, first symbol least significant
	packed := int64(0 + 1*4 + 2*16 + 3*64)
	got := eval(t, "B$ B$ "+dec+" "+wireInt(t, 4)+" "+wireInt(t, packed))
	if s, ok := evaluator.StringValue(got); !ok || s != "LRUD" {
		t.Errorf("decode = %#v", got)
	}
}

func TestRLEDecode(t *testing.T) {
	// runs RR then UUU over LRUD: symbol field 2 bits, run field 2 bits
	params := map[string]string{
		"ALPHABET":   wireString(t, "LRUD"),
		"SYMBOL_MOD": wireInt(t, 4),
		"RUN_MOD":    wireInt(t, 4),
		"RUN_SIZE":   wireInt(t, 16),
	}
	dec := mustBuild(t, "rle_decode", params)
	first := int64(2*4 + 1)  // RR
	second := int64(3*4 + 2) // UUU
	packed := first + second*16
	got := eval(t, "B$ B$ "+dec+" "+wireInt(t, 2)+" "+wireInt(t, packed))
	if s, ok := evaluator.StringValue(got); !ok || s != "RRUUU" {
		t.Errorf("rle_decode = %#v", got)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := stdlib.Build("nope", nil); err == nil {
		t.Error("expected error for unknown combinator")
	}
	if _, err := stdlib.Build("decode", map[string]string{"RADIX": "I%"}); err == nil || !strings.Contains(err.Error(), "ALPHABET") {
		t.Errorf("expected missing parameter error, got %v", err)
	}
	if e, ok := stdlib.Get("rle_decode"); !ok || len(e.Params) != 4 {
		t.Errorf("Get(rle_decode) = %+v, %v", e, ok)
	}
}
