// Package ast defines the expression tree of the wire language.
//
// Trees are immutable: reduction builds new nodes and shares untouched
// subtrees, so a node may appear under several parents.
package ast

import "math/big"

// Span represents a source location range.
type Span struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	StartCol int    `json:"startCol"`
	EndCol   int    `json:"endCol"`
}

// VarID names a lambda parameter. It is an identifier, not a scope slot.
type VarID uint64

// UnaryOp represents a unary operator.
type UnaryOp string

const (
	OpNeg      UnaryOp = "-"
	OpNot      UnaryOp = "!"
	OpStrToInt UnaryOp = "#"
	OpIntToStr UnaryOp = "$"
)

// Valid reports whether op is a known unary operator.
func (op UnaryOp) Valid() bool {
	switch op {
	case OpNeg, OpNot, OpStrToInt, OpIntToStr:
		return true
	}
	return false
}

// BinaryOp represents a binary operator.
type BinaryOp string

const (
	OpAdd    BinaryOp = "+"
	OpSub    BinaryOp = "-"
	OpMul    BinaryOp = "*"
	OpDiv    BinaryOp = "/"
	OpMod    BinaryOp = "%"
	OpLt     BinaryOp = "<"
	OpGt     BinaryOp = ">"
	OpEq     BinaryOp = "="
	OpOr     BinaryOp = "|"
	OpAnd    BinaryOp = "&"
	OpConcat BinaryOp = "."
	OpTake   BinaryOp = "T"
	OpDrop   BinaryOp = "D"
	OpApply  BinaryOp = "$"
)

// Valid reports whether op is a known binary operator.
func (op BinaryOp) Valid() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpLt, OpGt, OpEq,
		OpOr, OpAnd, OpConcat, OpTake, OpDrop, OpApply:
		return true
	}
	return false
}

// Strict reports whether both operands must be values before op fires.
// Application is the only non-strict operator.
func (op BinaryOp) Strict() bool {
	return op != OpApply
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Kind() string
	exprNode() // sealed marker
}

// --- Literals ---

type BoolLiteral struct {
	Value bool
}

func (n *BoolLiteral) Kind() string { return "BoolLiteral" }
func (n *BoolLiteral) exprNode()    {}

// IntLiteral holds an arbitrary-precision integer. Value must not be
// mutated once the node is built.
type IntLiteral struct {
	Value *big.Int
}

func (n *IntLiteral) Kind() string { return "IntLiteral" }
func (n *IntLiteral) exprNode()    {}

// StrLiteral holds human-readable text (already deciphered).
type StrLiteral struct {
	Value string
}

func (n *StrLiteral) Kind() string { return "StrLiteral" }
func (n *StrLiteral) exprNode()    {}

// --- Operators ---

type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (n *UnaryExpr) Kind() string { return "UnaryExpr" }
func (n *UnaryExpr) exprNode()    {}

type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (n *BinaryExpr) Kind() string { return "BinaryExpr" }
func (n *BinaryExpr) exprNode()    {}

type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (n *IfExpr) Kind() string { return "IfExpr" }
func (n *IfExpr) exprNode()    {}

// --- Functions ---

type Lambda struct {
	Param VarID
	Body  Expr
}

func (n *Lambda) Kind() string { return "Lambda" }
func (n *Lambda) exprNode()    {}

type VarRef struct {
	ID VarID
}

func (n *VarRef) Kind() string { return "VarRef" }
func (n *VarRef) exprNode()    {}

// --- Constructors ---

var (
	True  = &BoolLiteral{Value: true}
	False = &BoolLiteral{Value: false}
)

// NewBool returns the shared literal for b.
func NewBool(b bool) *BoolLiteral {
	if b {
		return True
	}
	return False
}

// NewInt wraps v without copying it.
func NewInt(v *big.Int) *IntLiteral {
	return &IntLiteral{Value: v}
}

// Int64 builds an integer literal from a machine integer.
func Int64(v int64) *IntLiteral {
	return &IntLiteral{Value: big.NewInt(v)}
}

// NewString builds a string literal.
func NewString(s string) *StrLiteral {
	return &StrLiteral{Value: s}
}

// Apply builds an application node.
func Apply(fn, arg Expr) *BinaryExpr {
	return &BinaryExpr{Op: OpApply, Left: fn, Right: arg}
}

// IsValue reports whether e is a terminal value (boolean, integer or string).
func IsValue(e Expr) bool {
	switch e.(type) {
	case *BoolLiteral, *IntLiteral, *StrLiteral:
		return true
	}
	return false
}
