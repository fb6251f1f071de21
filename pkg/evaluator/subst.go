package evaluator

import "github.com/sanma/boundvar/pkg/ast"

// substituter replaces free occurrences of one variable with an argument.
// Binders that would capture a free variable of the argument are renamed
// to fresh identifiers drawn from next. Every identifier of the original
// tree is either below next or in taken.
type substituter struct {
	id    ast.VarID
	arg   ast.Expr
	free  ast.VarSet
	next  *ast.VarID
	taken ast.VarSet
}

func (ev *evaluator) substitute(body ast.Expr, id ast.VarID, arg ast.Expr) ast.Expr {
	s := &substituter{id: id, arg: arg, free: ast.FreeVars(arg), next: &ev.nextID, taken: ev.taken}
	return s.subst(body)
}

func (s *substituter) fresh() ast.VarID {
	for s.taken.Has(*s.next) {
		*s.next++
	}
	id := *s.next
	*s.next++
	return id
}

// subst returns e itself when nothing below it changes.
func (s *substituter) subst(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.VarRef:
		if n.ID == s.id {
			return s.arg
		}
		return n

	case *ast.Lambda:
		if n.Param == s.id {
			return n // shadowed
		}
		if s.free.Has(n.Param) && ast.FreeVars(n.Body).Has(s.id) {
			renamed := s.fresh()
			inner := &substituter{id: n.Param, arg: &ast.VarRef{ID: renamed}, free: ast.VarSet{renamed: {}}, next: s.next, taken: s.taken}
			return &ast.Lambda{Param: renamed, Body: s.subst(inner.subst(n.Body))}
		}
		body := s.subst(n.Body)
		if body == n.Body {
			return n
		}
		return &ast.Lambda{Param: n.Param, Body: body}

	case *ast.UnaryExpr:
		operand := s.subst(n.Operand)
		if operand == n.Operand {
			return n
		}
		return &ast.UnaryExpr{Op: n.Op, Operand: operand}

	case *ast.BinaryExpr:
		left, right := s.subst(n.Left), s.subst(n.Right)
		if left == n.Left && right == n.Right {
			return n
		}
		return &ast.BinaryExpr{Op: n.Op, Left: left, Right: right}

	case *ast.IfExpr:
		cond, then, els := s.subst(n.Cond), s.subst(n.Then), s.subst(n.Else)
		if cond == n.Cond && then == n.Then && els == n.Else {
			return n
		}
		return &ast.IfExpr{Cond: cond, Then: then, Else: els}
	}
	return e
}
