package object

import (
	"testing"

	"golox/token"
	"golox/value"
)

func ident(name string) token.Token {
	return token.Token{Kind: token.IDENTIFIER, Lexeme: name, Line: 1}
}

// Runs f and reports the RuntimeError it panicked with, if any.
func catchRuntimeError(f func()) *RuntimeError {
	var caught *RuntimeError

	func() {
		defer func() {
			if r := recover(); r != nil {
				err := r.(RuntimeError)
				caught = &err
			}
		}()
		f()
	}()

	return caught
}

func TestEnvironmentDefineGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", value.Number(1))

	if got := env.Get(ident("a")); got != value.Number(1) {
		t.Errorf("a = %v, want 1", got)
	}

	// Redefinition overwrites.
	env.Define("a", value.String("s"))
	if got := env.Get(ident("a")); got != value.String("s") {
		t.Errorf("a = %v, want s", got)
	}
}

func TestEnvironmentGetWalksEnclosing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", value.Number(1))
	inner := NewEnvironment(outer)

	if got := inner.Get(ident("a")); got != value.Number(1) {
		t.Errorf("a = %v, want 1", got)
	}

	// Shadowing hides the outer binding without touching it.
	inner.Define("a", value.Number(2))
	if got := inner.Get(ident("a")); got != value.Number(2) {
		t.Errorf("shadowed a = %v, want 2", got)
	}
	if got := outer.Get(ident("a")); got != value.Number(1) {
		t.Errorf("outer a = %v, want 1", got)
	}
}

func TestEnvironmentAssign(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", value.Number(1))
	inner := NewEnvironment(outer)

	// Assignment updates the nearest scope containing the name.
	inner.Assign(ident("a"), value.Number(5))
	if got := outer.Get(ident("a")); got != value.Number(5) {
		t.Errorf("outer a = %v, want 5", got)
	}
}

func TestEnvironmentUndefined(t *testing.T) {
	env := NewEnvironment(nil)

	err := catchRuntimeError(func() { env.Get(ident("nope")) })
	if err == nil {
		t.Fatal("expected a RuntimeError for an undefined variable")
	}
	if err.Message != "Undefined variable 'nope'." {
		t.Errorf("message = %q", err.Message)
	}

	err = catchRuntimeError(func() { env.Assign(ident("nope"), value.Nil{}) })
	if err == nil {
		t.Fatal("expected a RuntimeError for assigning an undefined variable")
	}
	if err.Message != "Undefined variable 'nope'." {
		t.Errorf("message = %q", err.Message)
	}
}

func TestEnvironmentAt(t *testing.T) {
	global := NewEnvironment(nil)
	middle := NewEnvironment(global)
	inner := NewEnvironment(middle)

	global.Define("x", value.Number(0))
	middle.Define("x", value.Number(1))
	inner.Define("x", value.Number(2))

	for distance, want := range []value.Value{
		value.Number(2), value.Number(1), value.Number(0),
	} {
		if got := inner.GetAt(distance, "x"); got != want {
			t.Errorf("GetAt(%v) = %v, want %v", distance, got, want)
		}
	}

	// AssignAt writes exactly that scope, skipping nearer shadows.
	inner.AssignAt(2, ident("x"), value.Number(9))
	if got := global.Get(ident("x")); got != value.Number(9) {
		t.Errorf("global x = %v, want 9", got)
	}
	if got := inner.GetAt(0, "x"); got != value.Number(2) {
		t.Errorf("inner x = %v, want 2", got)
	}
}
