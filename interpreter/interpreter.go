package interpreter

import (
	"fmt"
	"io"
	"os"

	"golox/ast"
	"golox/object"
	"golox/report"
	"golox/token"
	"golox/value"
)

type Interpreter struct {
	// Global variables, pre-populated with the native functions.
	globals *object.Environment
	// Environment of the code being executed right now.
	environment *object.Environment
	// Scope depth for every local variable bearing expression, written by
	// the resolver and keyed by node identity. Absent means global.
	locals map[ast.Expr]int

	rep *report.Reporter
	// Where 'print' writes.
	stdout io.Writer
}

// Panic thrown by a return statement, caught at the function call boundary.
type controlReturn struct {
	Value value.Value
}

func MakeInterpreter(rep *report.Reporter, stdout io.Writer) *Interpreter {
	if stdout == nil {
		stdout = os.Stdout
	}

	globals := object.NewEnvironment(nil)
	for _, native := range object.NativeFunctionsList {
		globals.Define(native.Name, native)
	}

	return &Interpreter{
		globals:     globals,
		environment: globals,
		locals:      make(map[ast.Expr]int),
		rep:         rep,
		stdout:      stdout,
	}
}

// Resolve records the scope depth of a local variable expression.
// Called by the resolver pass before execution.
func (i *Interpreter) Resolve(e ast.Expr, depth int) {
	i.locals[e] = depth
}

// Interpret executes the statements in order. The first runtime failure is
// reported and aborts the whole run.
func (i *Interpreter) Interpret(statements []ast.Stmt) {
	defer func() {
		switch err := recover().(type) {
		case nil:
		case object.RuntimeError:
			i.rep.RuntimeError(err.Token.Line, err.Message)
			// Discard environments of any half executed calls.
			i.environment = i.globals
		default:
			panic(err)
		}
	}()

	for _, stmt := range statements {
		i.execute(stmt)
	}
}

// Statement evaluators
// --------------------------------------------------------
func (i *Interpreter) VisitBlockStmt(s *ast.Block) {
	i.executeBlock(s.Statements, object.NewEnvironment(i.environment))
}

func (i *Interpreter) VisitExpressionStmt(s *ast.Expression) {
	i.evaluate(s.Expression)
}

func (i *Interpreter) VisitPrintStmt(s *ast.Print) {
	fmt.Fprintf(i.stdout, "%v\n", i.evaluate(s.Expression))
}

func (i *Interpreter) VisitReturnStmt(s *ast.Return) {
	ret := value.Value(value.Nil{})
	if s.Value != nil {
		ret = i.evaluate(s.Value)
	}

	panic(controlReturn{Value: ret})
}

func (i *Interpreter) VisitIfStmt(s *ast.If) {
	if value.Truthiness(i.evaluate(s.Condition)) {
		i.execute(s.ThenBranch)
	} else if s.ElseBranch != nil {
		i.execute(s.ElseBranch)
	}
}

func (i *Interpreter) VisitWhileStmt(s *ast.While) {
	for value.Truthiness(i.evaluate(s.Condition)) {
		i.execute(s.Body)
	}
}

func (i *Interpreter) VisitVarStmt(s *ast.Var) {
	val := value.Value(value.Nil{})
	if s.Initializer != nil {
		val = i.evaluate(s.Initializer)
	}

	i.environment.Define(s.Name.Lexeme, val)
}

func (i *Interpreter) VisitFunctionStmt(s *ast.Function) {
	fun := object.NewFunction(s, i.environment, false)
	i.environment.Define(s.Name.Lexeme, fun)
}

func (i *Interpreter) VisitClassStmt(s *ast.Class) {
	superclass := (*object.Class)(nil)
	if s.Superclass != nil {
		sval, ok := i.evaluate(s.Superclass).(*object.Class)
		if !ok {
			panic(object.NewRuntimeError(s.Superclass.Name, "Superclass must be a class."))
		}
		superclass = sval
	}

	// Two step definition lets methods close over the class name.
	i.environment.Define(s.Name.Lexeme, value.Nil{})

	// Methods of a subclass share a closure scope defining 'super', matching
	// the scope the resolver put around them.
	if superclass != nil {
		i.environment = object.NewEnvironment(i.environment)
		i.environment.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, method := range s.Methods {
		isInit := method.Name.Lexeme == "init"
		methods[method.Name.Lexeme] = object.NewFunction(method, i.environment, isInit)
	}

	class := object.NewClass(s.Name.Lexeme, superclass, methods)

	if superclass != nil {
		i.environment = i.environment.Enclosing()
	}

	i.environment.Assign(s.Name, class)
}

// Expression evaluators
// --------------------------------------------------------
func (i *Interpreter) VisitAssignExpr(e *ast.Assign) any {
	val := i.evaluate(e.Value)

	if distance, ok := i.locals[e]; ok {
		i.environment.AssignAt(distance, e.Name, val)
	} else {
		i.globals.Assign(e.Name, val)
	}

	return val
}

func (i *Interpreter) VisitLogicalExpr(e *ast.Logical) any {
	left := i.evaluate(e.Left)

	// Return the operand which decides the truth value of the whole
	// expression, not a coerced boolean.
	switch e.Operator.Kind {
	case token.OR:
		if value.Truthiness(left) {
			return left
		}

	case token.AND:
		if !value.Truthiness(left) {
			return left
		}

	default:
		panic("Invalid operator in logical expression.")
	}

	return i.evaluate(e.Right)
}

// Checks if both are of the type given.
func hasType[T any](a, b value.Value) bool {
	_, e := a.(T)
	_, f := b.(T)
	return e && f
}

func (i *Interpreter) VisitBinaryExpr(e *ast.Binary) any {
	left := i.evaluate(e.Left)
	right := i.evaluate(e.Right)

	checkNums := func() {
		if hasType[value.Number](left, right) {
			return
		}
		panic(object.NewRuntimeError(e.Operator, "Operands must be numbers."))
	}

	checkNumsOrStrs := func() {
		if hasType[value.Number](left, right) || hasType[value.String](left, right) {
			return
		}
		panic(object.NewRuntimeError(e.Operator,
			"Operands must be two numbers or two strings."))
	}

	switch e.Operator.Kind {
	case token.PLUS:
		checkNumsOrStrs()
		return value.Add(left, right)
	case token.MINUS:
		checkNums()
		return value.Sub(left, right)
	case token.STAR:
		checkNums()
		return value.Mul(left, right)
	case token.SLASH:
		checkNums()
		return value.Div(left, right)

	case token.GREATER:
		checkNums()
		return value.GreaterThan(left, right)
	case token.GREATER_EQUAL:
		checkNums()
		return value.GreaterEqual(left, right)
	case token.LESS:
		checkNums()
		return value.LessThan(left, right)
	case token.LESS_EQUAL:
		checkNums()
		return value.LessEqual(left, right)

	case token.EQUAL_EQUAL:
		return value.EqualTo(left, right)
	case token.BANG_EQUAL:
		return !value.EqualTo(left, right)

	default:
		panic("Invalid operator token in binary expression.")
	}
}

func (i *Interpreter) VisitUnaryExpr(e *ast.Unary) any {
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.BANG:
		return !value.Truthiness(right)

	case token.MINUS:
		if !hasType[value.Number](right, value.Number(0)) {
			panic(object.NewRuntimeError(e.Operator, "Operand must be a number."))
		}
		return value.Neg(right)

	default:
		panic("Invalid operator token in unary expression.")
	}
}

func (i *Interpreter) VisitCallExpr(e *ast.Call) any {
	callee := i.evaluate(e.Callee)

	args := make([]value.Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		args = append(args, i.evaluate(arg))
	}

	callable, ok := callee.(object.Callable)
	if !ok {
		panic(object.NewRuntimeError(e.Paren, "Can only call functions and classes."))
	}

	if callable.Arity() != len(args) {
		panic(object.NewRuntimeError(
			e.Paren, "Expected %v arguments but got %v.",
			callable.Arity(), len(args),
		))
	}

	switch fun := callable.(type) {
	case *object.Function:
		return i.callFunction(fun, args)

	case *object.Class:
		return i.instantiate(fun, args)

	case *object.NativeFunction:
		return fun.Call(args)

	default:
		panic("Unknown callable type in call expression.")
	}
}

func (i *Interpreter) VisitGetExpr(e *ast.Get) any {
	instance, ok := i.evaluate(e.Object).(*object.Instance)
	if !ok {
		panic(object.NewRuntimeError(e.Name, "Only instances have properties."))
	}

	if val, ok := instance.Get(e.Name.Lexeme); ok {
		return val
	}

	panic(object.NewRuntimeError(e.Name, "Undefined property '%v'.", e.Name.Lexeme))
}

func (i *Interpreter) VisitSetExpr(e *ast.Set) any {
	instance, ok := i.evaluate(e.Object).(*object.Instance)
	if !ok {
		panic(object.NewRuntimeError(e.Name, "Only instances have fields."))
	}

	val := i.evaluate(e.Value)
	instance.Set(e.Name.Lexeme, val)
	return val
}

func (i *Interpreter) VisitSuperExpr(e *ast.Super) any {
	// The resolver guarantees 'super' at this depth and 'this' one scope
	// below it, in the environment chain of any method using 'super'.
	distance := i.locals[e]
	superclass := i.environment.GetAt(distance, "super").(*object.Class)
	instance := i.environment.GetAt(distance-1, "this").(*object.Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		panic(object.NewRuntimeError(e.Method, "Undefined property '%v'.", e.Method.Lexeme))
	}

	return method.Bind(instance)
}

func (i *Interpreter) VisitThisExpr(e *ast.This) any {
	return i.lookUpVariable(e.Keyword, e)
}

func (i *Interpreter) VisitGroupingExpr(e *ast.Grouping) any {
	return i.evaluate(e.Expr)
}

func (i *Interpreter) VisitLiteralExpr(e *ast.Literal) any {
	switch v := e.Value.(type) {
	case nil:
		return value.Nil{}
	case bool:
		return value.Boolean(v)
	case float64:
		return value.Number(v)
	case string:
		return value.String(v)
	}

	panic("Unknown literal type in literal expression.")
}

func (i *Interpreter) VisitVariableExpr(e *ast.Variable) any {
	return i.lookUpVariable(e.Name, e)
}

// Call machinery
// --------------------------------------------------------

// Runs a user function or method: arguments go into a fresh environment
// enclosed by the function's closure, then the body executes. A return
// statement unwinds to here with its value.
func (i *Interpreter) callFunction(fun *object.Function, args []value.Value) (ret value.Value) {
	ret = value.Nil{}

	func() {
		defer func() {
			switch r := recover().(type) {
			case nil:
			case controlReturn:
				ret = r.Value
			default:
				panic(r)
			}
		}()

		env := object.NewEnvironment(fun.Closure)
		for at, param := range fun.Declaration.Params {
			env.Define(param.Lexeme, args[at])
		}

		i.executeBlock(fun.Declaration.Body, env)
	}()

	// An initializer always yields the bound instance, even when it runs a
	// bare 'return;'.
	if fun.IsInit {
		ret = fun.Closure.GetAt(0, "this")
	}

	return ret
}

// Calling a class makes a fresh instance and runs 'init' on it if present.
func (i *Interpreter) instantiate(class *object.Class, args []value.Value) value.Value {
	instance := object.NewInstance(class)

	if init := class.FindMethod("init"); init != nil {
		i.callFunction(init.Bind(instance), args)
	}

	return instance
}

// Utility methods
// --------------------------------------------------------
func (i *Interpreter) execute(s ast.Stmt) {
	traceStmt(s)
	s.Accept(i)
}

func (i *Interpreter) evaluate(e ast.Expr) value.Value {
	return e.Accept(i).(value.Value)
}

func (i *Interpreter) executeBlock(statements []ast.Stmt, env *object.Environment) {
	// Use the supplied environment to execute the block and restore the old
	// one on every exit path, including unwinds.
	oldEnv := i.environment
	i.environment = env
	defer func() {
		i.environment = oldEnv
	}()

	for _, stmt := range statements {
		i.execute(stmt)
	}
}

// Reads a variable through the resolver's depth annotation, or from the
// globals when there is none.
func (i *Interpreter) lookUpVariable(name token.Token, e ast.Expr) value.Value {
	if distance, ok := i.locals[e]; ok {
		return i.environment.GetAt(distance, name.Lexeme)
	}

	return i.globals.Get(name)
}
