// Package golox is a tree-walking interpreter for the Lox scripting
// language: dynamically typed, with first class functions, closures and
// single inheritance classes.
//
// Source text runs through four stages: the scanner turns it into tokens,
// the parser into a statement list, the resolver annotates variable uses
// with their lexical scope depth, and the interpreter walks the tree. Any
// static diagnostic skips execution; the reporter keeps the flags the
// driver needs for its exit code.
package golox

import (
	"io"

	"golox/interpreter"
	"golox/parser"
	"golox/report"
	"golox/resolver"
)

// Lox holds the interpreter state for a session. The same instance runs
// every line of a REPL session so globals persist between lines.
type Lox struct {
	Reporter *report.Reporter
	interp   *interpreter.Interpreter
}

// New makes a session writing program output to stdout and diagnostics to
// the reporter's writer. A nil reporter gets a fresh one on os.Stderr; a
// nil stdout means os.Stdout.
func New(rep *report.Reporter, stdout io.Writer) *Lox {
	if rep == nil {
		rep = report.NewReporter()
	}

	return &Lox{
		Reporter: rep,
		interp:   interpreter.MakeInterpreter(rep, stdout),
	}
}

// Run executes one source unit. Scan, parse and resolve diagnostics set
// Reporter.HadError and skip execution; a runtime failure sets
// Reporter.HadRuntimeError.
func (l *Lox) Run(source string) {
	p := parser.MakeParser(source, l.Reporter)
	stmts := p.Parse()

	if l.Reporter.HadError {
		return
	}

	res := resolver.MakeResolver(l.interp, l.Reporter)
	res.Resolve(stmts)

	if l.Reporter.HadError {
		return
	}

	l.interp.Interpret(stmts)
}
