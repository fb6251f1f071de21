// Package diagnostics defines coded diagnostics for decode, parse, macro and
// evaluation failures.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sanma/boundvar/pkg/ast"
)

// Diagnostic code constants.
const (
	EDecode       = "E_DECODE"
	EParse        = "E_PARSE"
	EUndefinedRef = "E_UNDEFINED_REF"
	EDupDef       = "E_DUP_DEF"
	EType         = "E_TYPE"
	EStuck        = "E_STUCK"
	EUnbound      = "E_UNBOUND"
	EResource     = "E_RESOURCE"
	ECompress     = "E_COMPRESS"
	ESolution     = "E_SOLUTION"
	EConfig       = "E_CONFIG"
	EIO           = "E_IO"
)

// Diagnostic represents a decode, parse, validation, or runtime diagnostic.
type Diagnostic struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Span    *ast.Span `json:"span,omitempty"`
	Hint    string    `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *ast.Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

func (d Diagnostic) String() string {
	return FormatDiagnostic(d, true)
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Span != nil {
		loc = fmt.Sprintf("%s:%d:%d", d.Span.File, d.Span.Line, d.Span.StartCol)
	}
	out := fmt.Sprintf("error[%s]: %s\n  --> %s", d.Code, d.Message, loc)
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}

// HasCode reports whether any diagnostic carries code.
func HasCode(diags []Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}
