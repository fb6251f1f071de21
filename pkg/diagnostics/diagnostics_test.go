package diagnostics_test

import (
	"strings"
	"testing"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/diagnostics"
)

func TestMakeDiag(t *testing.T) {
	span := &ast.Span{File: "test.bv", Line: 1, StartCol: 1, EndCol: 5}
	d := diagnostics.MakeDiag(diagnostics.EParse, "unexpected token", span, "check syntax")

	if d.Code != diagnostics.EParse {
		t.Errorf("got Code = %q, want %q", d.Code, diagnostics.EParse)
	}
	if d.Message != "unexpected token" {
		t.Errorf("got Message = %q, want %q", d.Message, "unexpected token")
	}
}

func TestFormatDiagnosticPretty(t *testing.T) {
	span := &ast.Span{File: "test.bv", Line: 3, StartCol: 5, EndCol: 10}
	d := diagnostics.MakeDiag(diagnostics.EUnbound, "free variable v7", span, "bind it with L(")

	out := diagnostics.FormatDiagnostic(d, true)
	if !strings.Contains(out, "error[E_UNBOUND]") {
		t.Errorf("expected error code in output, got: %s", out)
	}
	if !strings.Contains(out, "test.bv:3:5") {
		t.Errorf("expected location in output, got: %s", out)
	}
	if !strings.Contains(out, "hint:") {
		t.Errorf("expected hint in output, got: %s", out)
	}
	if d.String() != out {
		t.Error("String should match the pretty form")
	}
}

func TestFormatDiagnosticJSON(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.EDecode, "bad symbol", nil, "")
	out := diagnostics.FormatDiagnostic(d, false)
	if !strings.Contains(out, `"code":"E_DECODE"`) {
		t.Errorf("expected JSON code in output, got: %s", out)
	}
	if strings.Contains(out, "span") {
		t.Errorf("nil span should be omitted, got: %s", out)
	}
}

func TestFormatDiagnosticsAndHasCode(t *testing.T) {
	diags := []diagnostics.Diagnostic{
		diagnostics.MakeDiag(diagnostics.EParse, "one", nil, ""),
		diagnostics.MakeDiag(diagnostics.EDecode, "two", nil, ""),
	}
	out := diagnostics.FormatDiagnostics(diags, true)
	if strings.Count(out, "error[") != 2 {
		t.Errorf("expected two entries, got: %s", out)
	}
	js := diagnostics.FormatDiagnostics(diags, false)
	if !strings.HasPrefix(js, "[") {
		t.Errorf("expected JSON array, got: %s", js)
	}
	if !diagnostics.HasCode(diags, diagnostics.EDecode) || diagnostics.HasCode(diags, diagnostics.EType) {
		t.Error("HasCode gave the wrong answer")
	}
}
