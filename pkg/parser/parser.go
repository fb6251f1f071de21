// Package parser builds expression trees from wire tokens.
package parser

import (
	"errors"
	"fmt"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/codec"
	"github.com/sanma/boundvar/pkg/diagnostics"
	"github.com/sanma/boundvar/pkg/lexer"
)

type parser struct {
	tokens []lexer.Token
	pos    int
	diags  []diagnostics.Diagnostic
}

// Parse tokenizes source and parses exactly one expression from it.
func Parse(source, filename string) (ast.Expr, []diagnostics.Diagnostic) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		var le *lexer.LexError
		if errors.As(err, &le) {
			return nil, []diagnostics.Diagnostic{le.Diag}
		}
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EDecode, err.Error(), nil, "")}
	}
	return ParseTokens(tokens)
}

// ParseTokens parses exactly one expression from an EOF-terminated token
// stream. Any token after the expression is an error.
func ParseTokens(tokens []lexer.Token) (ast.Expr, []diagnostics.Diagnostic) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.TokEOF {
		tokens = append(tokens[:len(tokens):len(tokens)], lexer.Token{Type: lexer.TokEOF})
	}
	p := &parser{tokens: tokens}
	expr := p.parseExpr()
	if len(p.diags) == 0 && p.current().Type != lexer.TokEOF {
		tok := p.current()
		p.addError(diagnostics.EParse, fmt.Sprintf("unexpected token %q after a complete expression", tok.Text()), &tok.Span,
			"a program is a single expression")
	}
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return expr, nil
}

func (p *parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) addError(code, msg string, span *ast.Span, hint string) {
	p.diags = append(p.diags, diagnostics.MakeDiag(code, msg, span, hint))
}

func (p *parser) decodeError(tok lexer.Token, err error) {
	p.addError(diagnostics.EDecode, fmt.Sprintf("token %q: %v", tok.Text(), err), &tok.Span, "")
}

// parseExpr returns nil once a diagnostic has been recorded; callers stop
// consuming tokens at that point.
func (p *parser) parseExpr() ast.Expr {
	tok := p.advance()
	switch tok.Type {
	case lexer.TokTrue, lexer.TokFalse:
		if tok.Value != "" {
			p.addError(diagnostics.EParse, fmt.Sprintf("boolean token %q has a body", tok.Text()), &tok.Span, "")
			return nil
		}
		return ast.NewBool(tok.Type == lexer.TokTrue)

	case lexer.TokInt:
		n, err := codec.DecodeInt(tok.Value)
		if err != nil {
			p.decodeError(tok, err)
			return nil
		}
		return ast.NewInt(n)

	case lexer.TokString:
		s, err := codec.DecodeString(tok.Value)
		if err != nil {
			p.decodeError(tok, err)
			return nil
		}
		return ast.NewString(s)

	case lexer.TokVar:
		id, ok := p.varID(tok)
		if !ok {
			return nil
		}
		return &ast.VarRef{ID: id}

	case lexer.TokUnary:
		op := ast.UnaryOp(tok.Value)
		if !op.Valid() {
			p.addError(diagnostics.EParse, fmt.Sprintf("unknown unary operator %q", tok.Value), &tok.Span, "unary operators are - ! # $")
			return nil
		}
		operand := p.parseExpr()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Op: op, Operand: operand}

	case lexer.TokBinary:
		op := ast.BinaryOp(tok.Value)
		if !op.Valid() {
			p.addError(diagnostics.EParse, fmt.Sprintf("unknown binary operator %q", tok.Value), &tok.Span, "binary operators are + - * / % < > = | & . T D $")
			return nil
		}
		left := p.parseExpr()
		if left == nil {
			return nil
		}
		right := p.parseExpr()
		if right == nil {
			return nil
		}
		return &ast.BinaryExpr{Op: op, Left: left, Right: right}

	case lexer.TokIf:
		if tok.Value != "" {
			p.addError(diagnostics.EParse, fmt.Sprintf("conditional token %q has a body", tok.Text()), &tok.Span, "")
			return nil
		}
		cond := p.parseExpr()
		if cond == nil {
			return nil
		}
		then := p.parseExpr()
		if then == nil {
			return nil
		}
		els := p.parseExpr()
		if els == nil {
			return nil
		}
		return &ast.IfExpr{Cond: cond, Then: then, Else: els}

	case lexer.TokLambda:
		id, ok := p.varID(tok)
		if !ok {
			return nil
		}
		body := p.parseExpr()
		if body == nil {
			return nil
		}
		return &ast.Lambda{Param: id, Body: body}

	case lexer.TokEOF:
		p.addError(diagnostics.EParse, "unexpected end of input", &tok.Span, "an operator is missing one of its operands")
		return nil

	default:
		p.addError(diagnostics.EParse, fmt.Sprintf("unknown indicator %q in token %q", tok.Indicator, tok.Text()), &tok.Span,
			"indicators are T F I S U B L v ?")
		return nil
	}
}

func (p *parser) varID(tok lexer.Token) (ast.VarID, bool) {
	v, err := codec.DecodeUint(tok.Value)
	if errors.Is(err, codec.ErrOverflow) {
		p.addError(diagnostics.EDecode, fmt.Sprintf("token %q: variable identifier does not fit in 64 bits", tok.Text()), &tok.Span,
			"identifiers range over 0 to 2^64-1; any numeral of up to 9 digits fits")
		return 0, false
	}
	if err != nil {
		p.decodeError(tok, err)
		return 0, false
	}
	return ast.VarID(v), true
}
