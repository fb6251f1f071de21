package validator_test

import (
	"strings"
	"testing"

	"github.com/sanma/boundvar/pkg/diagnostics"
	"github.com/sanma/boundvar/pkg/parser"
	"github.com/sanma/boundvar/pkg/validator"
)

// helper parses source and validates, returning diagnostics from validation only.
func mustParseAndValidate(t *testing.T, source string) []diagnostics.Diagnostic {
	t.Helper()
	expr, parseErrs := parser.Parse(source, "test.bv")
	if len(parseErrs) > 0 {
		t.Fatalf("unexpected parse error: %s", parseErrs[0].Message)
	}
	return validator.Validate(expr)
}

func assertNoDiags(t *testing.T, diags []diagnostics.Diagnostic) {
	t.Helper()
	if len(diags) != 0 {
		var msgs []string
		for _, d := range diags {
			msgs = append(msgs, d.Code+": "+d.Message)
		}
		t.Errorf("expected no diagnostics, got %d:\n  %s", len(diags), strings.Join(msgs, "\n  "))
	}
}

func assertCodes(t *testing.T, diags []diagnostics.Diagnostic, codes ...string) {
	t.Helper()
	if len(diags) != len(codes) {
		t.Fatalf("expected %d diagnostics, got %d: %v", len(codes), len(diags), diags)
	}
	for i, code := range codes {
		if diags[i].Code != code {
			t.Errorf("diagnostic %d: code = %s, want %s (%s)", i, diags[i].Code, code, diags[i].Message)
		}
	}
}

func TestValidPrograms(t *testing.T) {
	for _, src := range []string{
		"I/6",
		"B$ L! B+ v! v! I#",
		"B$ B$ L# L$ v# B. SB%,,/ S}Q/2,$_ IK",
		"? B> I# I$ S9%3 S./",
		"BT I$ S4%34",
		"B= S! S!",
		"U$ I!",
	} {
		assertNoDiags(t, mustParseAndValidate(t, src))
	}
}

func TestFreeVariables(t *testing.T) {
	diags := mustParseAndValidate(t, "B+ v! B* v! v\"")
	assertCodes(t, diags, diagnostics.EUnbound, diagnostics.EUnbound)
	if !strings.Contains(diags[0].Message, "v0") || !strings.Contains(diags[1].Message, "v1") {
		t.Errorf("messages = %q, %q", diags[0].Message, diags[1].Message)
	}

	// bound inside the lambda, free outside it
	assertCodes(t, mustParseAndValidate(t, "B$ L! v! v!"), diagnostics.EUnbound)
}

func TestLiteralMismatches(t *testing.T) {
	tests := []struct {
		src  string
		code string
	}{
		{"B+ S! I\"", diagnostics.EType},
		{"U- T", diagnostics.EType},
		{"U$ S!", diagnostics.EType},
		{"? I\" T F", diagnostics.EType},
		{"B$ I\" I\"", diagnostics.EType},
		{"B= I! S!", diagnostics.EType},
		{"BT S! S!", diagnostics.EType},
		{"B| T I!", diagnostics.EType},
		{"B/ I\" I!", diagnostics.EStuck},
	}
	for _, tt := range tests {
		diags := mustParseAndValidate(t, tt.src)
		if !diagnostics.HasCode(diags, tt.code) {
			t.Errorf("%s: expected %s, got %v", tt.src, tt.code, diags)
		}
	}
}

func TestMismatchMessageShowsTerm(t *testing.T) {
	diags := mustParseAndValidate(t, "L! B+ S! v!")
	assertCodes(t, diags, diagnostics.EType)
	if !strings.Contains(diags[0].Message, "\"a\" + v0") {
		t.Errorf("message = %q", diags[0].Message)
	}
}
