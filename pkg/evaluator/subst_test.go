package evaluator

import (
	"testing"

	"github.com/sanma/boundvar/pkg/ast"
)

func TestSubstituteSharesUntouchedTrees(t *testing.T) {
	ev := &evaluator{nextID: 10}
	body := &ast.BinaryExpr{Op: ast.OpAdd, Left: ast.Int64(1), Right: &ast.VarRef{ID: 2}}
	if got := ev.substitute(body, 7, ast.Int64(5)); got != ast.Expr(body) {
		t.Error("substituting an absent variable should return the same node")
	}
}

func TestSubstituteRenamesCapturingBinder(t *testing.T) {
	ev := &evaluator{nextID: 10}
	// \1. v0 v1 with v0 := v1
	body := &ast.Lambda{Param: 1, Body: ast.Apply(&ast.VarRef{ID: 0}, &ast.VarRef{ID: 1})}
	got := ev.substitute(body, 0, &ast.VarRef{ID: 1})
	want := &ast.Lambda{Param: 10, Body: ast.Apply(&ast.VarRef{ID: 1}, &ast.VarRef{ID: 10})}
	if !ast.Equal(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
	if ev.nextID != 11 {
		t.Errorf("nextID = %d, want 11", ev.nextID)
	}
}

func TestSubstituteLeavesNonCapturingBinder(t *testing.T) {
	ev := &evaluator{nextID: 10}
	// the binder does not clash when the substituted variable is absent below it
	body := &ast.Lambda{Param: 1, Body: &ast.VarRef{ID: 1}}
	if got := ev.substitute(body, 0, &ast.VarRef{ID: 1}); got != ast.Expr(body) {
		t.Errorf("got %#v", got)
	}
	if ev.nextID != 10 {
		t.Error("no fresh identifier should be drawn")
	}
}
