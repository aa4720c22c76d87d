package value

import (
	"math"
	"testing"
)

func TestTruthiness(t *testing.T) {
	tests := []struct {
		v    Value
		want Boolean
	}{
		{Nil{}, false},
		{Boolean(false), false},
		{Boolean(true), true},
		// Everything else is truthy, zero and empty string included.
		{Number(0), true},
		{Number(1), true},
		{String(""), true},
		{String("x"), true},
	}

	for _, test := range tests {
		if got := Truthiness(test.v); got != test.want {
			t.Errorf("Truthiness(%v) = %v, want %v", test.v, got, test.want)
		}
	}
}

func TestEqualTo(t *testing.T) {
	tests := []struct {
		s, t Value
		want Boolean
	}{
		{Nil{}, Nil{}, true},
		{Nil{}, Boolean(false), false},
		{Nil{}, Number(0), false},
		{Number(1), Number(1), true},
		{Number(1), Number(2), false},
		{String("a"), String("a"), true},
		{String("a"), String("b"), false},
		// Different types never compare equal.
		{Number(0), String("0"), false},
		{Boolean(true), Number(1), false},
	}

	for _, test := range tests {
		if got := EqualTo(test.s, test.t); got != test.want {
			t.Errorf("EqualTo(%v, %v) = %v, want %v", test.s, test.t, got, test.want)
		}
	}

	// IEEE-754: NaN is not even equal to itself.
	nan := Number(math.NaN())
	if EqualTo(nan, nan) {
		t.Error("EqualTo(NaN, NaN) must be false")
	}
}

func TestArithmetic(t *testing.T) {
	if got := Add(Number(1), Number(2)); got != Number(3) {
		t.Errorf("1 + 2 = %v", got)
	}
	if got := Add(String("foo"), String("bar")); got != String("foobar") {
		t.Errorf(`"foo" + "bar" = %v`, got)
	}
	if got := Sub(Number(5), Number(3)); got != Number(2) {
		t.Errorf("5 - 3 = %v", got)
	}
	if got := Mul(Number(4), Number(2.5)); got != Number(10) {
		t.Errorf("4 * 2.5 = %v", got)
	}
	if got := Div(Number(1), Number(2)); got != Number(0.5) {
		t.Errorf("1 / 2 = %v", got)
	}
	if got := Neg(Number(3)); got != Number(-3) {
		t.Errorf("-3 = %v", got)
	}

	// Division by zero follows IEEE-754.
	if got := Div(Number(1), Number(0)); got != Number(math.Inf(1)) {
		t.Errorf("1 / 0 = %v, want +Inf", got)
	}
}

func TestComparisons(t *testing.T) {
	if !LessThan(Number(1), Number(2)) || LessThan(Number(2), Number(1)) {
		t.Error("LessThan misordered numbers")
	}
	if !GreaterThan(Number(2), Number(1)) || GreaterThan(Number(1), Number(2)) {
		t.Error("GreaterThan misordered numbers")
	}
	if !LessEqual(Number(1), Number(1)) || !GreaterEqual(Number(1), Number(1)) {
		t.Error("equal numbers must satisfy <= and >=")
	}

	// Every ordered comparison against NaN is false.
	nan := Number(math.NaN())
	if LessThan(nan, nan) || GreaterThan(nan, nan) ||
		LessEqual(nan, nan) || GreaterEqual(nan, nan) {
		t.Error("comparisons with NaN must be false")
	}
}

func TestTypeErrors(t *testing.T) {
	expectTypeError := func(name string, f func()) {
		defer func() {
			if _, ok := recover().(TypeError); !ok {
				t.Errorf("%v: expected a TypeError panic", name)
			}
		}()
		f()
	}

	expectTypeError("add mixed", func() { Add(String("a"), Number(1)) })
	expectTypeError("sub strings", func() { Sub(String("a"), String("b")) })
	expectTypeError("neg string", func() { Neg(String("a")) })
	expectTypeError("less strings", func() { LessThan(String("a"), String("b")) })
	expectTypeError("less nil", func() { LessThan(Nil{}, Number(1)) })
}

func TestNumberDisplay(t *testing.T) {
	tests := []struct {
		n    Number
		want string
	}{
		// Integer valued numbers print without a trailing fraction.
		{Number(3), "3"},
		{Number(-0.5), "-0.5"},
		{Number(1.5), "1.5"},
		{Number(100), "100"},
	}

	for _, test := range tests {
		if got := test.n.String(); got != test.want {
			t.Errorf("Number(%v).String() = %q, want %q", float64(test.n), got, test.want)
		}
	}
}
