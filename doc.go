// Package boundvar is an interpreter and toolkit for the wire-encoded
// lambda language used by the puzzle server: a base-94 codec, a parser,
// a metered reducer with a constant-folding normalizer, a macro
// preprocessor and a compressor for "solve" answers.
//
// The command-line front end lives in cmd/bvl; the packages under pkg/
// can be used directly. This package holds the conformance suite, whose
// cases live in testdata/conformance.
package boundvar
