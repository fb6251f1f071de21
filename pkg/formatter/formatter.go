// Package formatter renders expression trees as wire text, as readable
// infix notation, or as the printable form of a final value.
package formatter

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/codec"
)

// Wire renders e as single-space separated wire tokens. Negative integers
// become a negation of their magnitude. Strings holding characters outside
// the cipher table cannot be rendered.
func Wire(e ast.Expr) (string, error) {
	var sb strings.Builder
	if err := writeWire(&sb, e); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeWire(sb *strings.Builder, e ast.Expr) error {
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	switch n := e.(type) {
	case *ast.BoolLiteral:
		if n.Value {
			sb.WriteByte('T')
		} else {
			sb.WriteByte('F')
		}
	case *ast.IntLiteral:
		v := n.Value
		if v.Sign() < 0 {
			sb.WriteString("U- ")
			v = new(big.Int).Neg(v)
		}
		body, err := codec.EncodeInt(v)
		if err != nil {
			return err
		}
		sb.WriteByte('I')
		sb.WriteString(body)
	case *ast.StrLiteral:
		body, err := codec.EncodeString(n.Value)
		if err != nil {
			return err
		}
		sb.WriteByte('S')
		sb.WriteString(body)
	case *ast.VarRef:
		sb.WriteByte('v')
		sb.WriteString(codec.EncodeUint(uint64(n.ID)))
	case *ast.Lambda:
		sb.WriteByte('L')
		sb.WriteString(codec.EncodeUint(uint64(n.Param)))
		return writeWire(sb, n.Body)
	case *ast.UnaryExpr:
		sb.WriteByte('U')
		sb.WriteString(string(n.Op))
		return writeWire(sb, n.Operand)
	case *ast.BinaryExpr:
		sb.WriteByte('B')
		sb.WriteString(string(n.Op))
		if err := writeWire(sb, n.Left); err != nil {
			return err
		}
		return writeWire(sb, n.Right)
	case *ast.IfExpr:
		sb.WriteByte('?')
		for _, child := range []ast.Expr{n.Cond, n.Then, n.Else} {
			if err := writeWire(sb, child); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("cannot render %T", e)
	}
	return nil
}

// Precedence table for binary operators (higher = tighter binding).
var precedence = map[ast.BinaryOp]int{
	ast.OpOr:  1,
	ast.OpAnd: 2,
	ast.OpEq:  3, ast.OpLt: 3, ast.OpGt: 3,
	ast.OpConcat: 4,
	ast.OpAdd:    5, ast.OpSub: 5,
	ast.OpMul: 6, ast.OpDiv: 6, ast.OpMod: 6,
	ast.OpApply: 8,
}

// prefix operators and take/drop bind tighter than any infix operator
const callPrec = 9

var unaryNames = map[ast.UnaryOp]string{
	ast.OpStrToInt: "str_to_int",
	ast.OpIntToStr: "int_to_str",
}

func prec(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		if n.Op == ast.OpTake || n.Op == ast.OpDrop {
			return callPrec
		}
		return precedence[n.Op]
	case *ast.Lambda, *ast.IfExpr:
		return 0
	case *ast.UnaryExpr:
		return callPrec
	}
	return callPrec + 1
}

func needsParens(child ast.Expr, parentPrec int, isRight bool) bool {
	childPrec := prec(child)
	if childPrec < parentPrec {
		return true
	}
	// left-associative: same precedence on the right side gets parens
	return childPrec == parentPrec && isRight
}

// Pretty renders e in a readable infix notation.
func Pretty(e ast.Expr) string {
	var sb strings.Builder
	writePretty(&sb, e)
	return sb.String()
}

func writeChild(sb *strings.Builder, child ast.Expr, parentPrec int, isRight bool) {
	if needsParens(child, parentPrec, isRight) {
		sb.WriteByte('(')
		writePretty(sb, child)
		sb.WriteByte(')')
		return
	}
	writePretty(sb, child)
}

func writePretty(sb *strings.Builder, e ast.Expr) {
	switch n := e.(type) {
	case *ast.BoolLiteral:
		sb.WriteString(strconv.FormatBool(n.Value))
	case *ast.IntLiteral:
		sb.WriteString(n.Value.String())
	case *ast.StrLiteral:
		sb.WriteString(strconv.Quote(n.Value))
	case *ast.VarRef:
		fmt.Fprintf(sb, "v%d", n.ID)
	case *ast.Lambda:
		fmt.Fprintf(sb, "\\v%d -> ", n.Param)
		writePretty(sb, n.Body)
	case *ast.IfExpr:
		sb.WriteString("if ")
		writePretty(sb, n.Cond)
		sb.WriteString(" then ")
		writePretty(sb, n.Then)
		sb.WriteString(" else ")
		writePretty(sb, n.Else)
	case *ast.UnaryExpr:
		if name, ok := unaryNames[n.Op]; ok {
			sb.WriteString(name)
			sb.WriteByte('(')
			writePretty(sb, n.Operand)
			sb.WriteByte(')')
			return
		}
		sb.WriteString(string(n.Op))
		writeChild(sb, n.Operand, callPrec, true)
	case *ast.BinaryExpr:
		switch n.Op {
		case ast.OpTake, ast.OpDrop:
			if n.Op == ast.OpTake {
				sb.WriteString("take(")
			} else {
				sb.WriteString("drop(")
			}
			writePretty(sb, n.Left)
			sb.WriteString(", ")
			writePretty(sb, n.Right)
			sb.WriteByte(')')
		case ast.OpApply:
			p := precedence[n.Op]
			writeChild(sb, n.Left, p, false)
			sb.WriteByte(' ')
			writeChild(sb, n.Right, p, true)
		default:
			p := precedence[n.Op]
			writeChild(sb, n.Left, p, false)
			sb.WriteByte(' ')
			sb.WriteString(infix(n.Op))
			sb.WriteByte(' ')
			writeChild(sb, n.Right, p, true)
		}
	default:
		fmt.Fprintf(sb, "<%T>", e)
	}
}

func infix(op ast.BinaryOp) string {
	switch op {
	case ast.OpEq:
		return "=="
	case ast.OpOr:
		return "||"
	case ast.OpAnd:
		return "&&"
	case ast.OpConcat:
		return "++"
	}
	return string(op)
}

// Printable renders a final value the way a client displays it: True or
// False, a decimal integer, or the raw string text. Anything else falls
// back to Pretty.
func Printable(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.BoolLiteral:
		if n.Value {
			return "True"
		}
		return "False"
	case *ast.IntLiteral:
		return n.Value.String()
	case *ast.StrLiteral:
		return n.Value
	}
	return Pretty(e)
}
