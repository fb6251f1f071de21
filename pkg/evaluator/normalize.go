package evaluator

import "github.com/sanma/boundvar/pkg/ast"

// normalize folds closed sub-expressions bottom-up. Unlike reduce it looks
// inside lambda bodies and both sides of an application, but it never
// performs a beta reduction and only enters the branch of a conditional
// whose condition has folded. Every rewrite is charged as a strict op.
func (ev *evaluator) normalize(e ast.Expr) (ast.Expr, bool) {
	switch n := e.(type) {
	case *ast.Lambda:
		body, changed := ev.normalize(n.Body)
		if !changed {
			return n, false
		}
		return &ast.Lambda{Param: n.Param, Body: body}, true

	case *ast.UnaryExpr:
		operand, changed := ev.normalize(n.Operand)
		if ast.IsValue(operand) {
			if v, ok := foldUnary(n.Op, operand); ok && ev.gov.tryStrict() {
				return v, true
			}
		}
		if !changed {
			return n, false
		}
		return &ast.UnaryExpr{Op: n.Op, Operand: operand}, true

	case *ast.BinaryExpr:
		left, lchanged := ev.normalize(n.Left)
		right, rchanged := ev.normalize(n.Right)
		if n.Op.Strict() {
			if v, ok := simplify(n.Op, left, right); ok && ev.gov.tryStrict() {
				return v, true
			}
		}
		if !lchanged && !rchanged {
			return n, false
		}
		return &ast.BinaryExpr{Op: n.Op, Left: left, Right: right}, true

	case *ast.IfExpr:
		cond, changed := ev.normalize(n.Cond)
		if b, ok := cond.(*ast.BoolLiteral); ok {
			branch := n.Else
			if b.Value {
				branch = n.Then
			}
			folded, _ := ev.normalize(branch)
			return folded, true
		}
		if !changed {
			return n, false
		}
		return &ast.IfExpr{Cond: cond, Then: n.Then, Else: n.Else}, true
	}
	return e, false
}

// simplify folds a strict operator whose operands are values, or applies
// an algebraic identity when one side is a known constant and the other
// could still produce a value of the right type.
func simplify(op ast.BinaryOp, left, right ast.Expr) (ast.Expr, bool) {
	if ast.IsValue(left) && ast.IsValue(right) {
		return foldBinary(op, left, right)
	}
	switch op {
	case ast.OpAdd:
		if isZero(right) && mayBeInt(left) {
			return left, true
		}
		if isZero(left) && mayBeInt(right) {
			return right, true
		}
	case ast.OpSub:
		if isZero(right) && mayBeInt(left) {
			return left, true
		}
	case ast.OpMul:
		if isOne(right) && mayBeInt(left) {
			return left, true
		}
		if isOne(left) && mayBeInt(right) {
			return right, true
		}
		if isZero(right) && mayBeInt(left) {
			return right, true
		}
		if isZero(left) && mayBeInt(right) {
			return left, true
		}
	case ast.OpDiv:
		if isOne(right) && mayBeInt(left) {
			return left, true
		}
		if isZero(left) && mayBeInt(right) {
			return left, true
		}
	case ast.OpMod:
		if isZero(left) && mayBeInt(right) {
			return left, true
		}
	case ast.OpConcat:
		// s . (t . x) regroups to (st) . x, so a string built front to back
		// by recursion stays one pending concatenation deep.
		if ls, ok := left.(*ast.StrLiteral); ok {
			if inner, ok := right.(*ast.BinaryExpr); ok && inner.Op == ast.OpConcat {
				if rs, ok := inner.Left.(*ast.StrLiteral); ok {
					return &ast.BinaryExpr{Op: ast.OpConcat, Left: ast.NewString(ls.Value + rs.Value), Right: inner.Right}, true
				}
			}
		}
	case ast.OpOr:
		if isBool(left, true) && mayBeBool(right) {
			return left, true
		}
		if isBool(right, true) && mayBeBool(left) {
			return right, true
		}
	case ast.OpAnd:
		if isBool(left, false) && mayBeBool(right) {
			return left, true
		}
		if isBool(right, false) && mayBeBool(left) {
			return right, true
		}
	}
	return nil, false
}
