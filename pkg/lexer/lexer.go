// Package lexer splits wire text into indicator tokens.
package lexer

import (
	"fmt"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/codec"
	"github.com/sanma/boundvar/pkg/diagnostics"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	TokTrue    TokenType = iota // T
	TokFalse                    // F
	TokInt                      // I
	TokString                   // S
	TokUnary                    // U
	TokBinary                   // B
	TokLambda                   // L
	TokVar                      // v
	TokIf                       // ?
	TokIllegal                  // unknown indicator

	TokEOF
)

var typeNames = [...]string{
	TokTrue:    "true",
	TokFalse:   "false",
	TokInt:     "integer",
	TokString:  "string",
	TokUnary:   "unary",
	TokBinary:  "binary",
	TokLambda:  "lambda",
	TokVar:     "variable",
	TokIf:      "if",
	TokIllegal: "illegal",
	TokEOF:     "end of input",
}

func (t TokenType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Arity is the number of sub-expressions that follow a token of this type.
func (t TokenType) Arity() int {
	switch t {
	case TokUnary, TokLambda:
		return 1
	case TokBinary:
		return 2
	case TokIf:
		return 3
	}
	return 0
}

// Token is one whitespace-delimited wire token. Indicator is the first
// symbol and Value the remaining body, still encoded.
type Token struct {
	Type      TokenType
	Indicator byte
	Value     string
	Span      ast.Span
}

func (t Token) Text() string {
	if t.Type == TokEOF {
		return ""
	}
	return string(t.Indicator) + t.Value
}

var indicators = [256]TokenType{}

func init() {
	for i := range indicators {
		indicators[i] = TokIllegal
	}
	indicators['T'] = TokTrue
	indicators['F'] = TokFalse
	indicators['I'] = TokInt
	indicators['S'] = TokString
	indicators['U'] = TokUnary
	indicators['B'] = TokBinary
	indicators['L'] = TokLambda
	indicators['v'] = TokVar
	indicators['?'] = TokIf
}

// LexError wraps a diagnostic for lex errors.
type LexError struct {
	Diag diagnostics.Diagnostic
}

func (e *LexError) Error() string {
	return e.Diag.Message
}

type scanner struct {
	source   string
	filename string
	pos      int
	line     int
	col      int
}

func newScanner(source, filename string) *scanner {
	return &scanner{source: source, filename: filename, line: 1, col: 1}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func (s *scanner) skipWhitespace() {
	for !s.atEnd() && isSpace(s.source[s.pos]) {
		s.advance()
	}
}

func (s *scanner) lexError(line, col int, msg string) error {
	span := &ast.Span{File: s.filename, Line: line, StartCol: col, EndCol: col + 1}
	return &LexError{Diag: diagnostics.MakeDiag(diagnostics.EDecode, msg, span,
		"wire tokens use printable ASCII from '!' to '~' separated by spaces")}
}

func (s *scanner) nextToken() (Token, error) {
	s.skipWhitespace()
	line, col := s.line, s.col
	if s.atEnd() {
		return Token{Type: TokEOF, Span: ast.Span{File: s.filename, Line: line, StartCol: col, EndCol: col}}, nil
	}

	start := s.pos
	for !s.atEnd() && !isSpace(s.source[s.pos]) {
		if ch := s.source[s.pos]; !codec.IsSymbol(ch) {
			return Token{}, s.lexError(s.line, s.col, fmt.Sprintf("byte 0x%02x is outside the wire alphabet", ch))
		}
		s.advance()
	}
	text := s.source[start:s.pos]
	return Token{
		Type:      indicators[text[0]],
		Indicator: text[0],
		Value:     text[1:],
		Span:      ast.Span{File: s.filename, Line: line, StartCol: col, EndCol: s.col},
	}, nil
}

// Tokenize splits source into tokens terminated by a TokEOF token.
func Tokenize(source, filename string) ([]Token, error) {
	s := newScanner(source, filename)
	var tokens []Token

	for {
		tok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokEOF {
			break
		}
	}

	return tokens, nil
}
