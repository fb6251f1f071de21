// Package macro expands the extended notation used to author combinators:
// lines of "name := tokens" where a token "$other" splices in the tokens of
// another definition.
package macro

import (
	"bufio"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/diagnostics"
)

// Error reports a malformed, duplicate, undefined or cyclic definition.
type Error struct {
	Code    string
	Name    string
	File    string
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return e.Message
}

// Diagnostic converts e for reporting alongside parser diagnostics.
func (e *Error) Diagnostic() diagnostics.Diagnostic {
	var span *ast.Span
	if e.Line > 0 {
		span = &ast.Span{File: e.File, Line: e.Line, StartCol: 1, EndCol: 1}
	}
	return diagnostics.MakeDiag(e.Code, e.Message, span, "")
}

// Definition is one named token sequence.
type Definition struct {
	Name   string
	Tokens []string
	File   string
	Line   int
}

// Set is a collection of definitions with unique names.
type Set struct {
	defs map[string]*Definition
}

// NewSet returns an empty definition set.
func NewSet() *Set {
	return &Set{defs: make(map[string]*Definition)}
}

// Parse reads definitions from source. Blank lines and lines starting with
// '#' are ignored.
func Parse(source, filename string) (*Set, error) {
	s := NewSet()
	sc := bufio.NewScanner(strings.NewReader(source))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		name, body, ok := strings.Cut(text, ":=")
		if !ok {
			return nil, &Error{Code: diagnostics.EParse, File: filename, Line: line,
				Message: fmt.Sprintf("expected \"name := tokens\", got %q", text)}
		}
		if err := s.add(strings.TrimSpace(name), body, filename, line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return s, nil
}

// Define adds a definition.
func (s *Set) Define(name, body string) error {
	return s.add(name, body, "", 0)
}

func (s *Set) add(name, body, file string, line int) error {
	if name == "" || strings.ContainsAny(name, " \t$") {
		return &Error{Code: diagnostics.EParse, Name: name, File: file, Line: line,
			Message: fmt.Sprintf("invalid definition name %q", name)}
	}
	if prev, dup := s.defs[name]; dup {
		msg := fmt.Sprintf("%s is already defined", name)
		if prev.Line > 0 {
			msg = fmt.Sprintf("%s is already defined at %s:%d", name, prev.File, prev.Line)
		}
		return &Error{Code: diagnostics.EDupDef, Name: name, File: file, Line: line, Message: msg}
	}
	tokens := splitTokens(body)
	if len(tokens) == 0 {
		return &Error{Code: diagnostics.EParse, Name: name, File: file, Line: line,
			Message: fmt.Sprintf("%s has an empty body", name)}
	}
	s.defs[name] = &Definition{Name: name, Tokens: tokens, File: file, Line: line}
	return nil
}

// splitTokens drops standalone parentheses, which only group for the reader.
func splitTokens(body string) []string {
	fields := strings.Fields(body)
	out := fields[:0]
	for _, f := range fields {
		if f == "(" || f == ")" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Merge adds every definition of other. Names must not collide.
func (s *Set) Merge(other *Set) error {
	for _, name := range other.Names() {
		if prev, dup := s.defs[name]; dup {
			return &Error{Code: diagnostics.EDupDef, Name: name, File: prev.File, Line: prev.Line,
				Message: fmt.Sprintf("%s is defined twice", name)}
		}
	}
	for name, def := range other.defs {
		s.defs[name] = def
	}
	return nil
}

// Clone returns a copy that can be extended without touching s.
func (s *Set) Clone() *Set {
	c := NewSet()
	for name, def := range s.defs {
		c.defs[name] = def
	}
	return c
}

// Names returns the defined names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.defs))
	for name := range s.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the definition called name.
func (s *Set) Lookup(name string) (Definition, bool) {
	def, ok := s.defs[name]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

func isRef(tok string) bool {
	return len(tok) > 1 && tok[0] == '$'
}

// Resolve expands every reference reachable from name and returns the flat
// token text. Cycles are rejected before any expansion. Each pass replaces
// all references present, and an acyclic set is flat after at most one
// pass per definition; the pass cap is a backstop.
func (s *Set) Resolve(name string) (string, error) {
	root, ok := s.defs[name]
	if !ok {
		return "", &Error{Code: diagnostics.EUndefinedRef, Name: name, Message: fmt.Sprintf("undefined definition %s", name)}
	}
	if cycle := s.findCycle(name); cycle != nil {
		at := s.defs[cycle[0]]
		return "", &Error{Code: diagnostics.EUndefinedRef, Name: name, File: at.File, Line: at.Line,
			Message: fmt.Sprintf("definition %s does not stabilise (cyclic references: %s)", name, strings.Join(cycle, " -> "))}
	}
	tokens := root.Tokens
	for pass := 0; pass <= len(s.defs); pass++ {
		next, expanded, err := s.expand(tokens, root)
		if err != nil {
			return "", err
		}
		if !expanded {
			return strings.Join(tokens, " "), nil
		}
		tokens = next
	}
	var pending []string
	for _, tok := range tokens {
		if isRef(tok) {
			pending = append(pending, tok)
		}
	}
	return "", &Error{Code: diagnostics.EUndefinedRef, Name: name, File: root.File, Line: root.Line,
		Message: fmt.Sprintf("definition %s does not stabilise (cyclic references: %s)", name, strings.Join(unique(pending), ", "))}
}

// findCycle walks the reference graph depth first from root and returns
// the first cycle met, as the names along it with the repeated name at both
// ends. Undefined references are left for expand to report.
func (s *Set) findCycle(root string) []string {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(s.defs))
	var stack []string
	var visit func(name string) []string
	visit = func(name string) []string {
		state[name] = onStack
		stack = append(stack, name)
		for _, tok := range s.defs[name].Tokens {
			if !isRef(tok) {
				continue
			}
			ref := tok[1:]
			if _, ok := s.defs[ref]; !ok {
				continue
			}
			switch state[ref] {
			case onStack:
				i := slices.Index(stack, ref)
				return append(slices.Clone(stack[i:]), ref)
			case unvisited:
				if cycle := visit(ref); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}
	return visit(root)
}

func (s *Set) expand(tokens []string, root *Definition) ([]string, bool, error) {
	expanded := false
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !isRef(tok) {
			out = append(out, tok)
			continue
		}
		def, ok := s.defs[tok[1:]]
		if !ok {
			return nil, false, &Error{Code: diagnostics.EUndefinedRef, Name: root.Name, File: root.File, Line: root.Line,
				Message: fmt.Sprintf("%s references undefined %s", root.Name, tok)}
		}
		out = append(out, def.Tokens...)
		expanded = true
	}
	return out, expanded, nil
}

func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// ResolveText parses source and resolves its root definition.
func ResolveText(source, filename, root string) (string, error) {
	s, err := Parse(source, filename)
	if err != nil {
		return "", err
	}
	return s.Resolve(root)
}
