package object

import (
	"fmt"

	"golox/ast"
)

// Callable is anything a call expression may invoke: user functions, bound
// methods, classes and natives. Instances are produced by calling a class
// but are not callable themselves.
type Callable interface {
	Arity() int
}

// Function is a user defined function or method together with the
// environment that was active at its definition.
type Function struct {
	Declaration *ast.Function
	Closure     *Environment
	IsInit      bool // Is class constructor?
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Function) LoxValue() {}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %v>", f.Declaration.Name.Lexeme)
}

// --------------------------------------------------------

func NewFunction(decl *ast.Function, closure *Environment, isInit bool) *Function {
	return &Function{
		Declaration: decl,
		Closure:     closure,
		IsInit:      isInit,
	}
}

func (f *Function) Arity() int {
	return len(f.Declaration.Params)
}

// Bind makes a bound method: a new function whose closure is a fresh scope
// defining 'this' as the instance, enclosed by the original closure.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)

	return &Function{Declaration: f.Declaration, Closure: env, IsInit: f.IsInit}
}
