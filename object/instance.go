package object

import (
	"fmt"

	"golox/value"
)

type Instance struct {
	Class  *Class
	Fields map[string]value.Value
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Instance) LoxValue() {}

func (i *Instance) String() string {
	return fmt.Sprintf("%v instance", i.Class.Name)
}

// --------------------------------------------------------

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]value.Value)}
}

// Get reads a property. Fields take precedence over methods; a method is
// returned already bound to this instance.
func (i *Instance) Get(name string) (value.Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}

	if method := i.Class.FindMethod(name); method != nil {
		return method.Bind(i), true
	}

	return nil, false
}

// Set creates or overwrites a field. Fields spring into being on first
// write, there are no declarations.
func (i *Instance) Set(name string, v value.Value) {
	i.Fields[name] = v
}
