package resolver

import (
	"golox/ast"
	"golox/interpreter"
	"golox/report"
	"golox/token"
	"golox/util"
)

// Resolver is the static pass that runs between parsing and execution. It
// walks the tree tracking lexical scopes and tells the interpreter, for each
// variable bearing expression, how many environments lie between the use and
// the definition. Expressions it stays silent about are globals.
//
// It also rejects the handful of constructs that are only detectable
// statically: reading a local in its own initializer, duplicate locals,
// top-level returns and misplaced 'this'/'super'.
type Resolver struct {
	interp *interpreter.Interpreter
	rep    *report.Reporter

	// Innermost scope last. Each scope maps a declared name to whether its
	// initializer has completed.
	scopes []scope
	// Kind of the function we are currently inside.
	currentFunction functionKind
	// Kind of the class we are currently inside.
	currentClass classKind
}

type scope map[string]bool

func MakeResolver(interp *interpreter.Interpreter, rep *report.Reporter) Resolver {
	return Resolver{
		interp:          interp,
		rep:             rep,
		scopes:          make([]scope, 0, 8),
		currentFunction: kindNoFunction,
		currentClass:    kindNoClass,
	}
}

func (r *Resolver) Resolve(statements []ast.Stmt) {
	r.resolveStmts(statements)
}

// Statement resolvers
// --------------------------------------------------------
func (r *Resolver) VisitBlockStmt(s *ast.Block) {
	r.beginScope()
	defer r.endScope()

	r.resolveStmts(s.Statements)
}

func (r *Resolver) VisitExpressionStmt(s *ast.Expression) {
	r.resolveExpr(s.Expression)
}

func (r *Resolver) VisitPrintStmt(s *ast.Print) {
	r.resolveExpr(s.Expression)
}

func (r *Resolver) VisitReturnStmt(s *ast.Return) {
	if r.currentFunction == kindNoFunction {
		r.rep.ErrorAt(s.Keyword, "Can't return from top-level code.")
	}

	if s.Value != nil {
		if r.currentFunction == kindInitializer {
			r.rep.ErrorAt(s.Keyword, "Can't return a value from an initializer.")
		}

		r.resolveExpr(s.Value)
	}
}

func (r *Resolver) VisitIfStmt(s *ast.If) {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.ThenBranch)
	if s.ElseBranch != nil {
		r.resolveStmt(s.ElseBranch)
	}
}

func (r *Resolver) VisitWhileStmt(s *ast.While) {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Body)
}

func (r *Resolver) VisitVarStmt(s *ast.Var) {
	r.declare(s.Name)
	if s.Initializer != nil {
		r.resolveExpr(s.Initializer)
	}
	// A variable is defined only after its initializer is complete.
	r.define(s.Name)
}

func (r *Resolver) VisitFunctionStmt(s *ast.Function) {
	// Define eagerly so a function can refer to itself inside its body.
	r.declare(s.Name)
	r.define(s.Name)

	r.resolveFunction(s, kindFunction)
}

func (r *Resolver) VisitClassStmt(s *ast.Class) {
	// Track if inside a class.
	oldClass := r.currentClass
	r.currentClass = kindClass
	defer func() { r.currentClass = oldClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.rep.ErrorAt(s.Superclass.Name, "A class can't inherit from itself.")
			// Continue after the error as the syntax is well formed.
		}

		r.currentClass = kindSubclass
		r.resolveExpr(s.Superclass)

		// 'super' lives in a scope which encloses all the method scopes.
		// It is shared by every method of the class.
		r.beginScope()
		defer r.endScope()
		util.Last(r.scopes).put("super")
	}

	// 'this' lives in a scope between 'super' and the method bodies, so a
	// bound method sees the instance it was accessed through.
	r.beginScope()
	defer r.endScope()
	util.Last(r.scopes).put("this")

	for _, method := range s.Methods {
		kind := kindMethod
		// The class constructor is named 'init'.
		if method.Name.Lexeme == "init" {
			kind = kindInitializer
		}

		r.resolveFunction(method, kind)
	}
}

// Expression resolvers
// --------------------------------------------------------
func (r *Resolver) VisitAssignExpr(e *ast.Assign) any {
	r.resolveExpr(e.Value)
	r.resolveLocal(e, e.Name)
	return nil
}

func (r *Resolver) VisitLogicalExpr(e *ast.Logical) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.Binary) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitUnaryExpr(e *ast.Unary) any {
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitCallExpr(e *ast.Call) any {
	r.resolveExpr(e.Callee)
	for _, arg := range e.Arguments {
		r.resolveExpr(arg)
	}
	return nil
}

func (r *Resolver) VisitGetExpr(e *ast.Get) any {
	// Properties are looked up dynamically, only the object is resolved.
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitSetExpr(e *ast.Set) any {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitSuperExpr(e *ast.Super) any {
	switch r.currentClass {
	case kindNoClass:
		r.rep.ErrorAt(e.Keyword, "Can't use 'super' outside of a class.")
	case kindClass:
		r.rep.ErrorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
	}
	// Continue after the error as the syntax is well formed.

	// 'super' resolves like an ordinary local, to the scope put around the
	// methods of a class with a superclass.
	r.resolveLocal(e, e.Keyword)
	return nil
}

func (r *Resolver) VisitThisExpr(e *ast.This) any {
	if r.currentClass == kindNoClass {
		r.rep.ErrorAt(e.Keyword, "Can't use 'this' outside of a class.")
		return nil
	}

	// 'this' resolves like an ordinary local, to the scope enclosing the
	// method it is used in.
	r.resolveLocal(e, e.Keyword)
	return nil
}

func (r *Resolver) VisitGroupingExpr(e *ast.Grouping) any {
	r.resolveExpr(e.Expr)
	return nil
}

func (r *Resolver) VisitLiteralExpr(e *ast.Literal) any {
	return nil
}

func (r *Resolver) VisitVariableExpr(e *ast.Variable) any {
	if len(r.scopes) != 0 {
		if done, ok := (*util.Last(r.scopes))[e.Name.Lexeme]; ok && !done {
			r.rep.ErrorAt(e.Name, "Can't read local variable in its own initializer.")
		}
	}

	r.resolveLocal(e, e.Name)
	return nil
}

// Variable and scope management
// --------------------------------------------------------
func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(scope))
}

func (r *Resolver) endScope() {
	util.Pop(&r.scopes)
}

// Declares the name in the innermost scope, not yet usable.
// Reports an error if the name already exists in that scope.
func (r *Resolver) declare(name token.Token) {
	// Globals are late bound, do nothing at the top level.
	if len(r.scopes) == 0 {
		return
	}

	if _, exists := (*util.Last(r.scopes))[name.Lexeme]; exists {
		r.rep.ErrorAt(name, "Already a variable with this name in this scope.")
	}

	(*util.Last(r.scopes))[name.Lexeme] = false
}

// Marks the declared name as fully initialized and usable.
func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	(*util.Last(r.scopes))[name.Lexeme] = true
}

// Walks the scope stack inside out; the first scope containing the name
// fixes the depth recorded for this expression. No match means global.
func (r *Resolver) resolveLocal(e ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.interp.Resolve(e, len(r.scopes)-1-i)
			return
		}
	}
}

// Resolves a function or method body in its own scope with the parameters
// declared inside it.
func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	// Track the kind of function we are inside.
	oldFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = oldFunction }()

	r.beginScope()
	defer r.endScope()

	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}

	r.resolveStmts(fn.Body)
}

func (r *Resolver) resolveStmts(statements []ast.Stmt) {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	s.Accept(r)
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	e.Accept(r)
}

func (s scope) put(name string) {
	s[name] = true
}
