package evaluator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sanma/boundvar/pkg/ast"
)

func TestValueToJSON(t *testing.T) {
	tests := []struct {
		expr ast.Expr
		want string
	}{
		{ast.True, "true"},
		{ast.Int64(-42), "-42"},
		{ast.NewString("a\"b"), `"a\"b"`},
	}
	for _, tt := range tests {
		got, err := ValueToJSON(tt.expr)
		if err != nil {
			t.Fatalf("ValueToJSON(%#v): %v", tt.expr, err)
		}
		if string(got) != tt.want {
			t.Errorf("ValueToJSON = %s, want %s", got, tt.want)
		}
	}
	if _, err := ValueToJSON(&ast.VarRef{ID: 1}); err == nil {
		t.Error("expected error for a non-value")
	}
}

func TestResultToJSON(t *testing.T) {
	res := &ExecResult{Expr: ast.Int64(1337), Stats: BudgetTracker{StrictOps: 2, BetaReductions: 1}, Passes: 3}
	b, err := ResultToJSON(res)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for _, want := range []string{`"value":1337`, `"type":"int"`, `"strictOps":2`, `"betaReductions":1`, `"passes":3`} {
		if !strings.Contains(out, want) {
			t.Errorf("%s missing %s", out, want)
		}
	}

	stuck, err := ResultToJSON(&ExecResult{Expr: &ast.Lambda{Param: 0, Body: &ast.VarRef{ID: 0}}, Exhausted: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(stuck), `"value"`) || !strings.Contains(string(stuck), `"exhausted":true`) {
		t.Errorf("stuck result = %s", stuck)
	}
}

func TestParseJSONToValue(t *testing.T) {
	e, err := ParseJSONToValue(json.RawMessage(`123456789012345678901234567890`))
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := IntValue(e); !ok || n.String() != "123456789012345678901234567890" {
		t.Errorf("got %#v", e)
	}

	e, err = ParseJSONToValue(json.RawMessage(`"42"`))
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := StringValue(e); !ok || s != "42" {
		t.Errorf("got %#v", e)
	}

	e, err = ParseJSONToValue(json.RawMessage(`false`))
	if err != nil || e != ast.False {
		t.Errorf("got %#v, %v", e, err)
	}

	for _, bad := range []string{`1.5`, `null`, `[1]`, `{`} {
		if _, err := ParseJSONToValue(json.RawMessage(bad)); err == nil {
			t.Errorf("expected error for %s", bad)
		}
	}
}
