package lexer

import (
	"errors"
	"testing"

	"github.com/sanma/boundvar/pkg/diagnostics"
)

// helper to tokenize and fail on error
func mustTokenize(t *testing.T, source string) []Token {
	t.Helper()
	tokens, err := Tokenize(source, "test.bv")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	return tokens
}

// helper that strips the trailing EOF for easier assertions
func mustTokenizeNoEOF(t *testing.T, source string) []Token {
	t.Helper()
	tokens := mustTokenize(t, source)
	if len(tokens) == 0 {
		t.Fatal("expected at least one token (EOF)")
	}
	if tokens[len(tokens)-1].Type != TokEOF {
		t.Fatal("last token is not EOF")
	}
	return tokens[:len(tokens)-1]
}

func TestEmptyInput(t *testing.T) {
	for _, src := range []string{"", "  ", "\n\t\r\n"} {
		tokens := mustTokenize(t, src)
		if len(tokens) != 1 || tokens[0].Type != TokEOF {
			t.Errorf("%q: expected only EOF, got %v", src, tokens)
		}
	}
}

func TestIndicators(t *testing.T) {
	tests := []struct {
		src   string
		typ   TokenType
		body  string
		arity int
	}{
		{"T", TokTrue, "", 0},
		{"F", TokFalse, "", 0},
		{"I/6", TokInt, "/6", 0},
		{"SB%,,/", TokString, "B%,,/", 0},
		{"U-", TokUnary, "-", 1},
		{"B$", TokBinary, "$", 2},
		{"L!", TokLambda, "!", 1},
		{"v#", TokVar, "#", 0},
		{"?", TokIf, "", 3},
		{"Zzz", TokIllegal, "zz", 0},
	}
	for _, tt := range tests {
		toks := mustTokenizeNoEOF(t, tt.src)
		if len(toks) != 1 {
			t.Fatalf("%q: expected 1 token, got %d", tt.src, len(toks))
		}
		tok := toks[0]
		if tok.Type != tt.typ {
			t.Errorf("%q: type = %v, want %v", tt.src, tok.Type, tt.typ)
		}
		if tok.Value != tt.body {
			t.Errorf("%q: body = %q, want %q", tt.src, tok.Value, tt.body)
		}
		if tok.Type.Arity() != tt.arity {
			t.Errorf("%q: arity = %d, want %d", tt.src, tok.Type.Arity(), tt.arity)
		}
		if tok.Text() != tt.src {
			t.Errorf("Text() = %q, want %q", tok.Text(), tt.src)
		}
	}
}

func TestSpans(t *testing.T) {
	toks := mustTokenizeNoEOF(t, "B+ I\"\n  I#")
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(toks))
	}
	if toks[0].Span.Line != 1 || toks[0].Span.StartCol != 1 || toks[0].Span.EndCol != 3 {
		t.Errorf("first span = %+v", toks[0].Span)
	}
	if toks[1].Span.StartCol != 4 {
		t.Errorf("second token starts at col %d, want 4", toks[1].Span.StartCol)
	}
	if toks[2].Span.Line != 2 || toks[2].Span.StartCol != 3 {
		t.Errorf("third span = %+v", toks[2].Span)
	}
	if toks[2].Span.File != "test.bv" {
		t.Errorf("file = %q", toks[2].Span.File)
	}
}

func TestNonPrintableIsDecodeError(t *testing.T) {
	_, err := Tokenize("I\x01", "test.bv")
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("expected LexError, got %v", err)
	}
	if le.Diag.Code != diagnostics.EDecode {
		t.Errorf("code = %s, want %s", le.Diag.Code, diagnostics.EDecode)
	}
	if le.Diag.Span == nil || le.Diag.Span.StartCol != 2 {
		t.Errorf("span = %+v, want column 2", le.Diag.Span)
	}
}

func TestTokenTypeString(t *testing.T) {
	if TokEOF.String() != "end of input" {
		t.Errorf("TokEOF.String() = %q", TokEOF.String())
	}
	if TokenType(99).String() != "TokenType(99)" {
		t.Errorf("unknown type string = %q", TokenType(99).String())
	}
}
