// Package evaluator implements the reduction engine: strict operators,
// non-strict application with capture-avoiding substitution, an optional
// constant-folding normalizer, and a Governor that meters the work.
package evaluator

import (
	"fmt"
	"math/big"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/diagnostics"
)

// RuntimeError explains why a run did not end in a value.
type RuntimeError struct {
	Code    string
	Message string
	// Expr is the innermost sub-term that blocked reduction.
	Expr ast.Expr
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// TypeName returns the user-facing variant name of e.
func TypeName(e ast.Expr) string {
	switch e.(type) {
	case *ast.BoolLiteral:
		return "bool"
	case *ast.IntLiteral:
		return "int"
	case *ast.StrLiteral:
		return "string"
	case *ast.Lambda:
		return "lambda"
	case *ast.VarRef:
		return "variable"
	case nil:
		return "nothing"
	}
	return "expression"
}

// Explain inspects a tree that did not reduce to a value and returns the
// reason: E_UNBOUND for a free variable in a forced position, E_TYPE for a
// value of the wrong variant, E_STUCK otherwise. It returns nil for values.
func Explain(e ast.Expr) *RuntimeError {
	switch n := e.(type) {
	case *ast.BoolLiteral, *ast.IntLiteral, *ast.StrLiteral:
		return nil

	case *ast.VarRef:
		return &RuntimeError{Code: diagnostics.EUnbound, Message: fmt.Sprintf("free variable v%d", n.ID), Expr: n}

	case *ast.Lambda:
		return &RuntimeError{Code: diagnostics.EStuck, Message: "result is an unapplied lambda, not a value", Expr: n}

	case *ast.UnaryExpr:
		if !ast.IsValue(n.Operand) {
			return Explain(n.Operand)
		}
		return unaryMismatch(n)

	case *ast.BinaryExpr:
		if n.Op == ast.OpApply {
			if ast.IsValue(n.Left) {
				return &RuntimeError{Code: diagnostics.EType, Message: fmt.Sprintf("cannot apply a %s", TypeName(n.Left)), Expr: n}
			}
			return Explain(n.Left)
		}
		if !ast.IsValue(n.Left) {
			return Explain(n.Left)
		}
		if !ast.IsValue(n.Right) {
			return Explain(n.Right)
		}
		return binaryMismatch(n)

	case *ast.IfExpr:
		if ast.IsValue(n.Cond) {
			return &RuntimeError{Code: diagnostics.EType, Message: fmt.Sprintf("condition is a %s, want bool", TypeName(n.Cond)), Expr: n}
		}
		return Explain(n.Cond)
	}
	return &RuntimeError{Code: diagnostics.EStuck, Message: "expression did not reduce to a value", Expr: e}
}

func unaryMismatch(n *ast.UnaryExpr) *RuntimeError {
	want := map[ast.UnaryOp]string{
		ast.OpNeg:      "int",
		ast.OpNot:      "bool",
		ast.OpStrToInt: "string",
		ast.OpIntToStr: "int",
	}[n.Op]
	got := TypeName(n.Operand)
	if got == want {
		// int->string of a negative number
		return &RuntimeError{Code: diagnostics.EType, Message: fmt.Sprintf("U%s has no result for %s", n.Op, describe(n.Operand)), Expr: n}
	}
	return &RuntimeError{Code: diagnostics.EType, Message: fmt.Sprintf("U%s expects %s, got %s", n.Op, want, got), Expr: n}
}

func binaryMismatch(n *ast.BinaryExpr) *RuntimeError {
	l, r := TypeName(n.Left), TypeName(n.Right)
	switch n.Op {
	case ast.OpDiv, ast.OpMod:
		if l == "int" && r == "int" {
			return &RuntimeError{Code: diagnostics.EStuck, Message: fmt.Sprintf("B%s by zero", n.Op), Expr: n}
		}
	case ast.OpEq:
		return &RuntimeError{Code: diagnostics.EType, Message: fmt.Sprintf("B= compares values of one variant, got %s and %s", l, r), Expr: n}
	}
	want := map[ast.BinaryOp]string{
		ast.OpAdd: "int, int", ast.OpSub: "int, int", ast.OpMul: "int, int",
		ast.OpDiv: "int, int", ast.OpMod: "int, int", ast.OpLt: "int, int", ast.OpGt: "int, int",
		ast.OpOr: "bool, bool", ast.OpAnd: "bool, bool",
		ast.OpConcat: "string, string",
		ast.OpTake:   "int, string", ast.OpDrop: "int, string",
	}[n.Op]
	return &RuntimeError{Code: diagnostics.EType, Message: fmt.Sprintf("B%s expects %s, got %s, %s", n.Op, want, l, r), Expr: n}
}

func describe(e ast.Expr) string {
	if n, ok := e.(*ast.IntLiteral); ok {
		return n.Value.String()
	}
	return TypeName(e)
}

// IntValue returns the integer held by e.
func IntValue(e ast.Expr) (*big.Int, bool) {
	n, ok := e.(*ast.IntLiteral)
	if !ok {
		return nil, false
	}
	return n.Value, true
}

// StringValue returns the text held by e.
func StringValue(e ast.Expr) (string, bool) {
	s, ok := e.(*ast.StrLiteral)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// BoolValue returns the boolean held by e.
func BoolValue(e ast.Expr) (bool, bool) {
	b, ok := e.(*ast.BoolLiteral)
	if !ok {
		return false, false
	}
	return b.Value, true
}
