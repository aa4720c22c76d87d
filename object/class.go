package object

type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class // Can be nil
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Class) LoxValue() {}

// A class displays as its bare name.
func (c *Class) String() string {
	return c.Name
}

// --------------------------------------------------------

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{
		Name:       name,
		Methods:    methods,
		Superclass: superclass,
	}
}

// Arity of a class is the arity of its initializer, 0 if it has none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}

	return 0
}

// FindMethod walks the inheritance chain from this class upwards.
func (c *Class) FindMethod(name string) *Function {
	if method, ok := c.Methods[name]; ok {
		return method
	}

	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}

	return nil
}
