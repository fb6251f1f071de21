// Package stdlib provides the embedded combinator library and builds
// parameterised entries from it.
package stdlib

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/sanma/boundvar/pkg/macro"
)

//go:embed prelude.bvl
var preludeSource string

var prelude = sync.OnceValues(func() (*macro.Set, error) {
	return macro.Parse(preludeSource, "prelude.bvl")
})

// Entry describes a library combinator meant to be called directly.
type Entry struct {
	Name    string
	Params  []string
	Summary string
}

var entries = map[string]Entry{
	"Y":          {Name: "Y", Summary: "fixed-point combinator"},
	"Z":          {Name: "Z", Summary: "fixed-point combinator that stops at each application"},
	"repeat":     {Name: "repeat", Summary: "repeat s n: s concatenated n times"},
	"factorial":  {Name: "factorial", Summary: "factorial n"},
	"decode":     {Name: "decode", Params: []string{"RADIX", "ALPHABET"}, Summary: "decode n i: n base-RADIX symbols from i, least significant first"},
	"rle_decode": {Name: "rle_decode", Params: []string{"ALPHABET", "SYMBOL_MOD", "RUN_MOD", "RUN_SIZE"}, Summary: "rle_decode n i: n packed runs from i, first run lowest"},
}

// Source returns the text of the embedded library.
func Source() string {
	return preludeSource
}

// Prelude returns a private copy of the library definitions.
func Prelude() (*macro.Set, error) {
	s, err := prelude()
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

// Entries lists the callable combinators by name.
func Entries() []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the entry called name.
func Get(name string) (Entry, bool) {
	e, ok := entries[name]
	return e, ok
}

// Build resolves a library combinator to flat wire text. params supplies
// the token text of every parameter the entry needs.
func Build(name string, params map[string]string) (string, error) {
	entry, ok := entries[name]
	if !ok {
		return "", fmt.Errorf("unknown library combinator %q", name)
	}
	defs, err := Prelude()
	if err != nil {
		return "", err
	}
	for _, p := range entry.Params {
		body, ok := params[p]
		if !ok {
			return "", fmt.Errorf("%s needs parameter %s", name, p)
		}
		if err := defs.Define(p, body); err != nil {
			return "", err
		}
	}
	return defs.Resolve(name)
}
