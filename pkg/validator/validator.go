// Package validator reports static problems in an expression tree: free
// variables and operators applied to literals they can never accept.
// Reduction never needs these checks; they back the check command.
package validator

import (
	"fmt"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/diagnostics"
	"github.com/sanma/boundvar/pkg/formatter"
)

type scope struct {
	bindings map[ast.VarID]bool
	parent   *scope
}

func newScope(parent *scope) *scope {
	return &scope{bindings: make(map[ast.VarID]bool), parent: parent}
}

func (s *scope) has(id ast.VarID) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.bindings[id] {
			return true
		}
	}
	return false
}

type validator struct {
	diags    []diagnostics.Diagnostic
	reported map[ast.VarID]bool
}

// Validate walks e and returns its diagnostics in tree order.
func Validate(e ast.Expr) []diagnostics.Diagnostic {
	v := &validator{reported: make(map[ast.VarID]bool)}
	v.validateExpr(e, newScope(nil))
	return v.diags
}

func (v *validator) addDiag(code, msg, hint string) {
	v.diags = append(v.diags, diagnostics.MakeDiag(code, msg, nil, hint))
}

func (v *validator) validateExpr(e ast.Expr, sc *scope) {
	switch n := e.(type) {
	case *ast.VarRef:
		if !sc.has(n.ID) && !v.reported[n.ID] {
			v.reported[n.ID] = true
			v.addDiag(diagnostics.EUnbound, fmt.Sprintf("free variable v%d", n.ID),
				"reduction stops at a free variable in any forced position")
		}

	case *ast.Lambda:
		inner := newScope(sc)
		inner.bindings[n.Param] = true
		v.validateExpr(n.Body, inner)

	case *ast.UnaryExpr:
		if ast.IsValue(n.Operand) && !unaryAccepts(n.Op, n.Operand) {
			v.mismatch(e, fmt.Sprintf("U%s cannot take a %s", n.Op, kind(n.Operand)))
		}
		v.validateExpr(n.Operand, sc)

	case *ast.BinaryExpr:
		v.checkBinary(n)
		v.validateExpr(n.Left, sc)
		v.validateExpr(n.Right, sc)

	case *ast.IfExpr:
		if ast.IsValue(n.Cond) {
			if _, ok := n.Cond.(*ast.BoolLiteral); !ok {
				v.mismatch(e, fmt.Sprintf("condition is a %s literal", kind(n.Cond)))
			}
		}
		v.validateExpr(n.Cond, sc)
		v.validateExpr(n.Then, sc)
		v.validateExpr(n.Else, sc)
	}
}

func (v *validator) mismatch(e ast.Expr, msg string) {
	v.addDiag(diagnostics.EType, msg+": "+formatter.Pretty(e), "this operator can never fire")
}

func (v *validator) checkBinary(n *ast.BinaryExpr) {
	switch n.Op {
	case ast.OpApply:
		if ast.IsValue(n.Left) {
			v.mismatch(n, fmt.Sprintf("cannot apply a %s literal", kind(n.Left)))
		}
		return
	case ast.OpEq:
		if ast.IsValue(n.Left) && ast.IsValue(n.Right) && kind(n.Left) != kind(n.Right) {
			v.mismatch(n, fmt.Sprintf("B= compares a %s with a %s", kind(n.Left), kind(n.Right)))
		}
		return
	case ast.OpDiv, ast.OpMod:
		if z, ok := n.Right.(*ast.IntLiteral); ok && z.Value.Sign() == 0 {
			v.addDiag(diagnostics.EStuck, fmt.Sprintf("B%s by a literal zero: %s", n.Op, formatter.Pretty(n)), "")
		}
	}
	lwant, rwant := operandKinds(n.Op)
	if ast.IsValue(n.Left) && kind(n.Left) != lwant {
		v.mismatch(n, fmt.Sprintf("B%s wants a %s on the left, got a %s", n.Op, lwant, kind(n.Left)))
	}
	if ast.IsValue(n.Right) && kind(n.Right) != rwant {
		v.mismatch(n, fmt.Sprintf("B%s wants a %s on the right, got a %s", n.Op, rwant, kind(n.Right)))
	}
}

func kind(e ast.Expr) string {
	switch e.(type) {
	case *ast.BoolLiteral:
		return "bool"
	case *ast.IntLiteral:
		return "int"
	case *ast.StrLiteral:
		return "string"
	}
	return "expression"
}

func unaryAccepts(op ast.UnaryOp, operand ast.Expr) bool {
	switch op {
	case ast.OpNeg:
		return kind(operand) == "int"
	case ast.OpNot:
		return kind(operand) == "bool"
	case ast.OpStrToInt:
		return kind(operand) == "string"
	case ast.OpIntToStr:
		n, ok := operand.(*ast.IntLiteral)
		return ok && n.Value.Sign() >= 0
	}
	return false
}

func operandKinds(op ast.BinaryOp) (string, string) {
	switch op {
	case ast.OpOr, ast.OpAnd:
		return "bool", "bool"
	case ast.OpConcat:
		return "string", "string"
	case ast.OpTake, ast.OpDrop:
		return "int", "string"
	}
	return "int", "int"
}
