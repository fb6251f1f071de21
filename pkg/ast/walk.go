package ast

// VarSet is a set of variable identifiers.
type VarSet map[VarID]struct{}

// Has reports whether id is in the set.
func (s VarSet) Has(id VarID) bool {
	_, ok := s[id]
	return ok
}

// FreeVars returns the identifiers referenced in e without an enclosing binder.
func FreeVars(e Expr) VarSet {
	free := make(VarSet)
	var walk func(e Expr, bound map[VarID]int)
	walk = func(e Expr, bound map[VarID]int) {
		switch n := e.(type) {
		case *VarRef:
			if bound[n.ID] == 0 {
				free[n.ID] = struct{}{}
			}
		case *Lambda:
			bound[n.Param]++
			walk(n.Body, bound)
			bound[n.Param]--
		case *UnaryExpr:
			walk(n.Operand, bound)
		case *BinaryExpr:
			walk(n.Left, bound)
			walk(n.Right, bound)
		case *IfExpr:
			walk(n.Cond, bound)
			walk(n.Then, bound)
			walk(n.Else, bound)
		}
	}
	walk(e, make(map[VarID]int))
	return free
}

// MaxVarID returns the largest identifier bound or referenced in e, and
// false when e mentions no variables at all.
func MaxVarID(e Expr) (VarID, bool) {
	var maxID VarID
	found := false
	see := func(id VarID) {
		if !found || id > maxID {
			maxID = id
			found = true
		}
	}
	var walk func(e Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *VarRef:
			see(n.ID)
		case *Lambda:
			see(n.Param)
			walk(n.Body)
		case *UnaryExpr:
			walk(n.Operand)
		case *BinaryExpr:
			walk(n.Left)
			walk(n.Right)
		case *IfExpr:
			walk(n.Cond)
			walk(n.Then)
			walk(n.Else)
		}
	}
	walk(e)
	return maxID, found
}

// VarIDs returns every identifier bound or referenced in e.
func VarIDs(e Expr) VarSet {
	ids := VarSet{}
	var walk func(e Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *VarRef:
			ids[n.ID] = struct{}{}
		case *Lambda:
			ids[n.Param] = struct{}{}
			walk(n.Body)
		case *UnaryExpr:
			walk(n.Operand)
		case *BinaryExpr:
			walk(n.Left)
			walk(n.Right)
		case *IfExpr:
			walk(n.Cond)
			walk(n.Then)
			walk(n.Else)
		}
	}
	walk(e)
	return ids
}

// Size counts the nodes of e.
func Size(e Expr) int {
	switch n := e.(type) {
	case *UnaryExpr:
		return 1 + Size(n.Operand)
	case *BinaryExpr:
		return 1 + Size(n.Left) + Size(n.Right)
	case *IfExpr:
		return 1 + Size(n.Cond) + Size(n.Then) + Size(n.Else)
	case *Lambda:
		return 1 + Size(n.Body)
	}
	return 1
}

// Equal reports structural equality. Variable identifiers are compared
// literally, without alpha-equivalence.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *BoolLiteral:
		y, ok := b.(*BoolLiteral)
		return ok && x.Value == y.Value
	case *IntLiteral:
		y, ok := b.(*IntLiteral)
		return ok && x.Value.Cmp(y.Value) == 0
	case *StrLiteral:
		y, ok := b.(*StrLiteral)
		return ok && x.Value == y.Value
	case *VarRef:
		y, ok := b.(*VarRef)
		return ok && x.ID == y.ID
	case *Lambda:
		y, ok := b.(*Lambda)
		return ok && x.Param == y.Param && Equal(x.Body, y.Body)
	case *UnaryExpr:
		y, ok := b.(*UnaryExpr)
		return ok && x.Op == y.Op && Equal(x.Operand, y.Operand)
	case *BinaryExpr:
		y, ok := b.(*BinaryExpr)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *IfExpr:
		y, ok := b.(*IfExpr)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	}
	return false
}
