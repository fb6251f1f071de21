package macro_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sanma/boundvar/pkg/diagnostics"
	"github.com/sanma/boundvar/pkg/macro"
)

func mustParse(t *testing.T, src string) *macro.Set {
	t.Helper()
	s, err := macro.Parse(src, "test.bvl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func expectCode(t *testing.T, err error, code string) *macro.Error {
	t.Helper()
	var me *macro.Error
	if !errors.As(err, &me) {
		t.Fatalf("expected *macro.Error, got %v", err)
	}
	if me.Code != code {
		t.Fatalf("code = %s, want %s (%s)", me.Code, code, me.Message)
	}
	return me
}

func TestResolveSingleReference(t *testing.T) {
	s := mustParse(t, "myfunc := L! U- v!\nmain := B$ $myfunc I#\n")
	got, err := s.Resolve("main")
	if err != nil {
		t.Fatal(err)
	}
	if got != "B$ L! U- v! I#" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestResolveTwoLevelsIsIdempotent(t *testing.T) {
	src := `
# g is used by f
g := B+ v! I"
f := L! ( $g )
main := B$ $f ( I# )
`
	got, err := macro.ResolveText(src, "test.bvl", "main")
	if err != nil {
		t.Fatal(err)
	}
	if got != "B$ L! B+ v! I\" I#" {
		t.Fatalf("Resolve = %q", got)
	}
	for _, tok := range strings.Fields(got) {
		if strings.HasPrefix(tok, "$") {
			t.Errorf("reference %s left in %q", tok, got)
		}
	}

	again, err := macro.ResolveText("main := "+got, "again.bvl", "main")
	if err != nil {
		t.Fatal(err)
	}
	if again != got {
		t.Errorf("re-resolution changed the text: %q -> %q", got, again)
	}
}

func TestOperatorTokensAreNotReferences(t *testing.T) {
	// "B$" and "U$" contain '$' but are not references
	got, err := macro.ResolveText("main := B$ L! U$ v! I\"", "t", "main")
	if err != nil {
		t.Fatal(err)
	}
	if got != "B$ L! U$ v! I\"" {
		t.Errorf("got %q", got)
	}
}

func TestUndefinedReference(t *testing.T) {
	s := mustParse(t, "main := B$ $missing I#")
	_, err := s.Resolve("main")
	me := expectCode(t, err, diagnostics.EUndefinedRef)
	if !strings.Contains(me.Message, "$missing") {
		t.Errorf("message = %q", me.Message)
	}
	if me.Line != 1 {
		t.Errorf("line = %d", me.Line)
	}

	_, err = s.Resolve("nope")
	expectCode(t, err, diagnostics.EUndefinedRef)
}

func TestCyclicDefinitions(t *testing.T) {
	s := mustParse(t, "a := B+ $b I\"\nb := B* $a I#\nmain := $a")
	_, err := s.Resolve("main")
	me := expectCode(t, err, diagnostics.EUndefinedRef)
	if !strings.Contains(me.Message, "cyclic") {
		t.Errorf("message = %q", me.Message)
	}
	if !strings.Contains(me.Message, "a -> b -> a") {
		t.Errorf("message %q should name the cycle", me.Message)
	}

	_, err = mustParse(t, "self := $self").Resolve("self")
	expectCode(t, err, diagnostics.EUndefinedRef)
}

func TestDoublingCycleFailsFast(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("f0 := I!\n")
	for i := 1; i < 40; i++ {
		fmt.Fprintf(&sb, "f%d := B+ $f%d I\"\n", i, i-1)
	}
	sb.WriteString("a := B. $a $a\n")
	sb.WriteString("main := B. $f39 $a\n")
	s := mustParse(t, sb.String())
	if n := len(s.Names()); n != 42 {
		t.Fatalf("parsed %d definitions", n)
	}

	start := time.Now()
	_, err := s.Resolve("main")
	me := expectCode(t, err, diagnostics.EUndefinedRef)
	if !strings.Contains(me.Message, "a -> a") {
		t.Errorf("message = %q", me.Message)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cycle took %v to report", elapsed)
	}

	// the acyclic chain beside it still resolves
	flat, err := s.Resolve("f39")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(flat, "$") || strings.Count(flat, "B+") != 39 {
		t.Errorf("f39 = %q", flat)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := macro.Parse("a := I!\na := I\"", "dup.bvl")
	me := expectCode(t, err, diagnostics.EDupDef)
	if me.Line != 2 || !strings.Contains(me.Message, "dup.bvl:1") {
		t.Errorf("duplicate error = %+v", me)
	}

	_, err = macro.Parse("just tokens", "bad.bvl")
	expectCode(t, err, diagnostics.EParse)

	_, err = macro.Parse("empty :=   ( )", "bad.bvl")
	expectCode(t, err, diagnostics.EParse)

	_, err = macro.Parse("$x := I!", "bad.bvl")
	expectCode(t, err, diagnostics.EParse)

	d := me.Diagnostic()
	if d.Code != diagnostics.EDupDef || d.Span == nil || d.Span.Line != 2 {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestSetOperations(t *testing.T) {
	base := mustParse(t, "id := L! v!")
	extra := macro.NewSet()
	if err := extra.Define("two", "I#"); err != nil {
		t.Fatal(err)
	}
	if err := extra.Define("two", "I#"); err == nil {
		t.Error("expected duplicate error from Define")
	}

	merged := base.Clone()
	if err := merged.Merge(extra); err != nil {
		t.Fatal(err)
	}
	if got := merged.Names(); len(got) != 2 || got[0] != "id" || got[1] != "two" {
		t.Errorf("Names = %v", got)
	}
	if _, ok := base.Lookup("two"); ok {
		t.Error("Clone should not share definitions with the original")
	}
	if def, ok := merged.Lookup("id"); !ok || len(def.Tokens) != 2 {
		t.Errorf("Lookup(id) = %+v, %v", def, ok)
	}

	err := merged.Merge(extra)
	expectCode(t, err, diagnostics.EDupDef)
}
