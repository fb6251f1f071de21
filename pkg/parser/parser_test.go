package parser_test

import (
	"math"
	"strings"
	"testing"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/diagnostics"
	"github.com/sanma/boundvar/pkg/lexer"
	"github.com/sanma/boundvar/pkg/parser"
)

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, diags := parser.Parse(src, "test.bv")
	if len(diags) > 0 {
		t.Fatalf("Parse(%q): %s", src, diagnostics.FormatDiagnostics(diags, true))
	}
	return expr
}

func expectDiag(t *testing.T, src, code string) diagnostics.Diagnostic {
	t.Helper()
	expr, diags := parser.Parse(src, "test.bv")
	if expr != nil {
		t.Fatalf("Parse(%q): expected failure, got %T", src, expr)
	}
	if len(diags) != 1 {
		t.Fatalf("Parse(%q): expected 1 diagnostic, got %d", src, len(diags))
	}
	if diags[0].Code != code {
		t.Fatalf("Parse(%q): code = %s, want %s (%s)", src, diags[0].Code, code, diags[0].Message)
	}
	return diags[0]
}

func TestLiterals(t *testing.T) {
	if e := mustParse(t, "T"); e != ast.True {
		t.Errorf("T parsed as %#v", e)
	}
	if e := mustParse(t, "F"); e != ast.False {
		t.Errorf("F parsed as %#v", e)
	}

	i, ok := mustParse(t, "I/6").(*ast.IntLiteral)
	if !ok || i.Value.Int64() != 1337 {
		t.Errorf("I/6 parsed as %#v", i)
	}

	s, ok := mustParse(t, "SB%,,/}Q/2,$_").(*ast.StrLiteral)
	if !ok || s.Value != "Hello World!" {
		t.Errorf("string parsed as %#v", s)
	}

	v, ok := mustParse(t, "v#").(*ast.VarRef)
	if !ok || v.ID != 2 {
		t.Errorf("v# parsed as %#v", v)
	}
}

func TestOperators(t *testing.T) {
	u, ok := mustParse(t, "U- I$").(*ast.UnaryExpr)
	if !ok || u.Op != ast.OpNeg {
		t.Fatalf("U- I$ parsed as %#v", u)
	}
	if u.Operand.(*ast.IntLiteral).Value.Int64() != 3 {
		t.Errorf("operand = %v", u.Operand)
	}

	b, ok := mustParse(t, "B/ U- I( I#").(*ast.BinaryExpr)
	if !ok || b.Op != ast.OpDiv {
		t.Fatalf("division parsed as %#v", b)
	}
	if _, ok := b.Left.(*ast.UnaryExpr); !ok {
		t.Errorf("left operand = %T", b.Left)
	}

	for _, op := range []string{"+", "-", "*", "/", "%", "<", ">", "=", "|", "&", ".", "T", "D", "$"} {
		e := mustParse(t, "B"+op+" I! I!")
		if got := e.(*ast.BinaryExpr).Op; string(got) != op {
			t.Errorf("B%s parsed as op %q", op, got)
		}
	}
}

func TestLambdaAndConditional(t *testing.T) {
	app, ok := mustParse(t, "B$ L! B+ v! v! I#").(*ast.BinaryExpr)
	if !ok || app.Op != ast.OpApply {
		t.Fatalf("application parsed as %#v", app)
	}
	lam, ok := app.Left.(*ast.Lambda)
	if !ok || lam.Param != 0 {
		t.Fatalf("function position = %#v", app.Left)
	}
	body := lam.Body.(*ast.BinaryExpr)
	if body.Op != ast.OpAdd || body.Left.(*ast.VarRef).ID != 0 {
		t.Errorf("body = %#v", body)
	}

	cond, ok := mustParse(t, "? B> I# I$ S9%3 S./").(*ast.IfExpr)
	if !ok {
		t.Fatalf("conditional parsed as %T", cond)
	}
	if cond.Then.(*ast.StrLiteral).Value != "yes" || cond.Else.(*ast.StrLiteral).Value != "no" {
		t.Errorf("branches = %#v / %#v", cond.Then, cond.Else)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		code string
	}{
		{"", diagnostics.EParse},
		{"B+ I\"", diagnostics.EParse},
		{"? T I!", diagnostics.EParse},
		{"X!", diagnostics.EParse},
		{"U~ I!", diagnostics.EParse},
		{"B@ I! I!", diagnostics.EParse},
		{"I! I!", diagnostics.EParse},
		{"Tx", diagnostics.EParse},
		{"?! T T T", diagnostics.EParse},
		{"I", diagnostics.EDecode},
		{"v", diagnostics.EDecode},
		{"L~~~~~~~~~~~~ v!", diagnostics.EDecode},
		{"I\x01", diagnostics.EDecode},
	}
	for _, tt := range tests {
		expectDiag(t, tt.src, tt.code)
	}
}

func TestErrorSpan(t *testing.T) {
	d := expectDiag(t, "B+ I\" Q!", diagnostics.EParse)
	if d.Span == nil || d.Span.StartCol != 7 {
		t.Errorf("span = %+v, want column 7", d.Span)
	}
}

func TestParseTokensWithoutEOF(t *testing.T) {
	tokens, err := lexer.Tokenize("B+ I\" I#", "x")
	if err != nil {
		t.Fatal(err)
	}
	expr, diags := parser.ParseTokens(tokens[:len(tokens)-1])
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if expr.(*ast.BinaryExpr).Op != ast.OpAdd {
		t.Errorf("parsed %#v", expr)
	}
}

func TestVarIDRange(t *testing.T) {
	// 2^64-1 is the largest identifier
	expr := mustParse(t, "B$ LA33?&-jqQh vA33?&-jqQh I\"")
	lam := expr.(*ast.BinaryExpr).Left.(*ast.Lambda)
	if lam.Param != math.MaxUint64 || lam.Body.(*ast.VarRef).ID != math.MaxUint64 {
		t.Errorf("parsed %#v", lam)
	}

	d := expectDiag(t, "B$ L~~~~~~~~~~~ v~~~~~~~~~~~ I\"", diagnostics.EDecode)
	if !strings.Contains(d.Message, "64 bits") || !strings.Contains(d.Hint, "2^64-1") {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Span == nil || d.Span.StartCol != 4 {
		t.Errorf("span = %+v, want the lambda token", d.Span)
	}
}
