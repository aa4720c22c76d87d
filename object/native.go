package object

import (
	"time"

	"golox/value"
)

// Natives registered into the global environment at interpreter startup.
var NativeFunctionsList = []*NativeFunction{
	{Name: "clock", ParamCount: 0, Function: clock},
}

type NativeFunction struct {
	Name       string
	ParamCount int
	Function   func(args []value.Value) value.Value
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*NativeFunction) LoxValue() {}

func (n *NativeFunction) String() string {
	return "<native fn>"
}

// --------------------------------------------------------

func (n *NativeFunction) Arity() int {
	return n.ParamCount
}

func (n *NativeFunction) Call(args []value.Value) value.Value {
	// Arity is verified by the interpreter, so crash on a mismatch here.
	if len(args) != n.Arity() {
		panic("Got wrong number of arguments in native function.")
	}

	return n.Function(args)
}

// Native functions
// --------------------------------------------------------

// Seconds since the unix epoch.
func clock(args []value.Value) value.Value {
	return value.Number(time.Now().UnixMilli()) / 1000.0
}
