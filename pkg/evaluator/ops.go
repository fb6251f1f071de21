package evaluator

import (
	"math/big"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/codec"
)

// foldUnary applies op to a value operand. It reports false when the
// operand is not a value of the type op requires, leaving the node stuck.
func foldUnary(op ast.UnaryOp, operand ast.Expr) (ast.Expr, bool) {
	switch op {
	case ast.OpNeg:
		if n, ok := operand.(*ast.IntLiteral); ok {
			return ast.NewInt(new(big.Int).Neg(n.Value)), true
		}
	case ast.OpNot:
		if b, ok := operand.(*ast.BoolLiteral); ok {
			return ast.NewBool(!b.Value), true
		}
	case ast.OpStrToInt:
		if s, ok := operand.(*ast.StrLiteral); ok {
			n, err := codec.StringToInt(s.Value)
			if err != nil {
				return nil, false
			}
			return ast.NewInt(n), true
		}
	case ast.OpIntToStr:
		if n, ok := operand.(*ast.IntLiteral); ok {
			s, err := codec.IntToString(n.Value)
			if err != nil {
				return nil, false
			}
			return ast.NewString(s), true
		}
	}
	return nil, false
}

// foldBinary applies a strict op to two value operands.
func foldBinary(op ast.BinaryOp, left, right ast.Expr) (ast.Expr, bool) {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod, ast.OpLt, ast.OpGt:
		x, ok1 := left.(*ast.IntLiteral)
		y, ok2 := right.(*ast.IntLiteral)
		if !ok1 || !ok2 {
			return nil, false
		}
		return foldArith(op, x.Value, y.Value)

	case ast.OpEq:
		switch x := left.(type) {
		case *ast.IntLiteral:
			if y, ok := right.(*ast.IntLiteral); ok {
				return ast.NewBool(x.Value.Cmp(y.Value) == 0), true
			}
		case *ast.BoolLiteral:
			if y, ok := right.(*ast.BoolLiteral); ok {
				return ast.NewBool(x.Value == y.Value), true
			}
		case *ast.StrLiteral:
			if y, ok := right.(*ast.StrLiteral); ok {
				return ast.NewBool(x.Value == y.Value), true
			}
		}
		return nil, false

	case ast.OpOr, ast.OpAnd:
		x, ok1 := left.(*ast.BoolLiteral)
		y, ok2 := right.(*ast.BoolLiteral)
		if !ok1 || !ok2 {
			return nil, false
		}
		if op == ast.OpOr {
			return ast.NewBool(x.Value || y.Value), true
		}
		return ast.NewBool(x.Value && y.Value), true

	case ast.OpConcat:
		x, ok1 := left.(*ast.StrLiteral)
		y, ok2 := right.(*ast.StrLiteral)
		if !ok1 || !ok2 {
			return nil, false
		}
		return ast.NewString(x.Value + y.Value), true

	case ast.OpTake, ast.OpDrop:
		n, ok1 := left.(*ast.IntLiteral)
		s, ok2 := right.(*ast.StrLiteral)
		if !ok1 || !ok2 {
			return nil, false
		}
		k := clampCount(n.Value, len(s.Value))
		if op == ast.OpTake {
			return ast.NewString(s.Value[:k]), true
		}
		return ast.NewString(s.Value[k:]), true
	}
	return nil, false
}

func foldArith(op ast.BinaryOp, x, y *big.Int) (ast.Expr, bool) {
	switch op {
	case ast.OpAdd:
		return ast.NewInt(new(big.Int).Add(x, y)), true
	case ast.OpSub:
		return ast.NewInt(new(big.Int).Sub(x, y)), true
	case ast.OpMul:
		return ast.NewInt(new(big.Int).Mul(x, y)), true
	case ast.OpDiv:
		if y.Sign() == 0 {
			return nil, false
		}
		// Quo truncates toward zero.
		return ast.NewInt(new(big.Int).Quo(x, y)), true
	case ast.OpMod:
		if y.Sign() == 0 {
			return nil, false
		}
		return ast.NewInt(new(big.Int).Rem(x, y)), true
	case ast.OpLt:
		return ast.NewBool(x.Cmp(y) < 0), true
	case ast.OpGt:
		return ast.NewBool(x.Cmp(y) > 0), true
	}
	return nil, false
}

// clampCount limits a take/drop count to [0, length].
func clampCount(n *big.Int, length int) int {
	if n.Sign() <= 0 {
		return 0
	}
	if !n.IsInt64() || n.Int64() > int64(length) {
		return length
	}
	return int(n.Int64())
}

func isZero(e ast.Expr) bool {
	n, ok := e.(*ast.IntLiteral)
	return ok && n.Value.Sign() == 0
}

func isOne(e ast.Expr) bool {
	n, ok := e.(*ast.IntLiteral)
	return ok && n.Value.IsInt64() && n.Value.Int64() == 1
}

func isBool(e ast.Expr, want bool) bool {
	b, ok := e.(*ast.BoolLiteral)
	return ok && b.Value == want
}

// mayBeInt reports whether e is an integer or may still reduce to one. An
// unapplied lambda never will.
func mayBeInt(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IntLiteral:
		return true
	case *ast.BoolLiteral, *ast.StrLiteral, *ast.Lambda:
		return false
	}
	return true
}

func mayBeBool(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BoolLiteral:
		return true
	case *ast.IntLiteral, *ast.StrLiteral, *ast.Lambda:
		return false
	}
	return true
}
