package ast_test

import (
	"testing"

	"github.com/sanma/boundvar/pkg/ast"
)

func TestNodeKinds(t *testing.T) {
	nodes := []ast.Expr{
		ast.Int64(42),
		ast.NewBool(true),
		ast.NewString("hello"),
		&ast.UnaryExpr{Op: ast.OpNeg, Operand: ast.Int64(1)},
		&ast.BinaryExpr{Op: ast.OpAdd, Left: ast.Int64(1), Right: ast.Int64(2)},
		&ast.IfExpr{Cond: ast.True, Then: ast.Int64(1), Else: ast.Int64(2)},
		&ast.Lambda{Param: 1, Body: &ast.VarRef{ID: 1}},
		&ast.VarRef{ID: 3},
	}

	expected := []string{
		"IntLiteral", "BoolLiteral", "StrLiteral", "UnaryExpr",
		"BinaryExpr", "IfExpr", "Lambda", "VarRef",
	}

	for i, node := range nodes {
		if got := node.Kind(); got != expected[i] {
			t.Errorf("node %d: got Kind() = %q, want %q", i, got, expected[i])
		}
	}
}

func TestIsValue(t *testing.T) {
	if !ast.IsValue(ast.Int64(0)) || !ast.IsValue(ast.False) || !ast.IsValue(ast.NewString("")) {
		t.Error("literals must be values")
	}
	if ast.IsValue(&ast.Lambda{Param: 0, Body: ast.Int64(1)}) {
		t.Error("an abstraction is not a value")
	}
	if ast.IsValue(&ast.VarRef{ID: 0}) {
		t.Error("a free variable is not a value")
	}
}

func TestOperatorTables(t *testing.T) {
	for _, op := range []ast.BinaryOp{"+", "-", "*", "/", "%", "<", ">", "=", "|", "&", ".", "T", "D", "$"} {
		if !op.Valid() {
			t.Errorf("binary %q should be valid", op)
		}
	}
	if ast.BinaryOp("?").Valid() {
		t.Error("binary '?' should be invalid")
	}
	if ast.OpApply.Strict() || !ast.OpAdd.Strict() {
		t.Error("only application is non-strict")
	}
	if ast.UnaryOp("~").Valid() {
		t.Error("unary '~' should be invalid")
	}
}

func TestFreeVars(t *testing.T) {
	// \1 -> v1 + v2
	e := &ast.Lambda{Param: 1, Body: &ast.BinaryExpr{
		Op:    ast.OpAdd,
		Left:  &ast.VarRef{ID: 1},
		Right: &ast.VarRef{ID: 2},
	}}
	free := ast.FreeVars(e)
	if len(free) != 1 || !free.Has(2) {
		t.Errorf("got free vars %v, want {2}", free)
	}

	// (\1 -> v1) applied to v1: the argument occurrence is free.
	app := ast.Apply(&ast.Lambda{Param: 1, Body: &ast.VarRef{ID: 1}}, &ast.VarRef{ID: 1})
	if !ast.FreeVars(app).Has(1) {
		t.Error("argument occurrence of v1 should be free")
	}
}

func TestMaxVarID(t *testing.T) {
	if _, ok := ast.MaxVarID(ast.Int64(3)); ok {
		t.Error("literal has no variables")
	}
	e := ast.Apply(&ast.Lambda{Param: 7, Body: &ast.VarRef{ID: 2}}, &ast.VarRef{ID: 4})
	if got, _ := ast.MaxVarID(e); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestEqualAndSize(t *testing.T) {
	a := &ast.BinaryExpr{Op: ast.OpAdd, Left: ast.Int64(1), Right: ast.Int64(2)}
	b := &ast.BinaryExpr{Op: ast.OpAdd, Left: ast.Int64(1), Right: ast.Int64(2)}
	c := &ast.BinaryExpr{Op: ast.OpSub, Left: ast.Int64(1), Right: ast.Int64(2)}
	if !ast.Equal(a, b) {
		t.Error("structurally equal trees should compare equal")
	}
	if ast.Equal(a, c) {
		t.Error("different operators should not compare equal")
	}
	if got := ast.Size(a); got != 3 {
		t.Errorf("Size = %d, want 3", got)
	}
}
