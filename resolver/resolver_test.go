package resolver

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"golox/interpreter"
	"golox/parser"
	"golox/report"
)

// Parses and resolves the source, returning the diagnostics text.
// Fails the test if the source does not even parse.
func resolveSource(t *testing.T, source string) (string, *report.Reporter) {
	t.Helper()

	var errs bytes.Buffer
	rep := report.NewReporter()
	rep.Out = &errs

	p := parser.MakeParser(source, rep)
	stmts := p.Parse()
	if rep.HadError {
		t.Fatalf("%q: unexpected parse errors:\n%v", source, errs.String())
	}

	interp := interpreter.MakeInterpreter(rep, io.Discard)
	r := MakeResolver(interp, rep)
	r.Resolve(stmts)

	return errs.String(), rep
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"{ var a = a; }",
			"[line 1] Error at 'a': Can't read local variable in its own initializer."},
		{"{ var a; var a; }",
			"[line 1] Error at 'a': Already a variable with this name in this scope."},
		{"fun f(a, a) {}",
			"[line 1] Error at 'a': Already a variable with this name in this scope."},
		{"return 3;",
			"[line 1] Error at 'return': Can't return from top-level code."},
		{"class A { init() { return 3; } }",
			"[line 1] Error at 'return': Can't return a value from an initializer."},
		{"print this;",
			"[line 1] Error at 'this': Can't use 'this' outside of a class."},
		{"fun f() { print this; }",
			"[line 1] Error at 'this': Can't use 'this' outside of a class."},
		{"print super.m;",
			"[line 1] Error at 'super': Can't use 'super' outside of a class."},
		{"class A { m() { super.m(); } }",
			"[line 1] Error at 'super': Can't use 'super' in a class with no superclass."},
		{"class A < A {}",
			"[line 1] Error at 'A': A class can't inherit from itself."},
	}

	for _, test := range tests {
		errs, rep := resolveSource(t, test.source)

		if !rep.HadError {
			t.Errorf("%q: expected a resolve error", test.source)
			continue
		}
		if !strings.Contains(errs, test.want) {
			t.Errorf("%q:\n got %v\nwant %v", test.source, errs, test.want)
		}
	}
}

func TestResolveAccepts(t *testing.T) {
	// Constructs the resolver must not flag.
	sources := []string{
		// Globals may be redefined and are late bound.
		"var a = 1; var a = 2;",
		"var a = a;",
		// A local may shadow an outer name.
		"var a; { var a; }",
		"{ var a; { var a; } }",
		// Functions may recurse and return at any depth.
		"fun f() { return f(); }",
		// A bare return is fine in an initializer.
		"class A { init() { return; } }",
		// 'this' is fine anywhere inside a method, even nested functions.
		"class A { m() { fun g() { return this; } } }",
		// 'super' with an actual superclass.
		"class A {} class B < A { m() { return super.m; } }",
	}

	for _, source := range sources {
		errs, rep := resolveSource(t, source)
		if rep.HadError {
			t.Errorf("%q: unexpected resolve error:\n%v", source, errs)
		}
	}
}
