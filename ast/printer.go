package ast

import (
	"strconv"
)

// Printer renders expressions and statements as s-expressions. It backs the
// execution trace and lets tests assert on the shape of parsed trees.
type Printer struct{}

func (p Printer) PrintExpr(e Expr) string {
	return e.Accept(p).(string)
}

func (p Printer) PrintStmt(s Stmt) string {
	switch t := s.(type) {
	case *Block:
		frags := []string{"block"}
		for _, stmt := range t.Statements {
			frags = append(frags, p.PrintStmt(stmt))
		}
		return parens(frags...)

	case *Expression:
		return parens("expr", p.PrintExpr(t.Expression))

	case *Print:
		return parens("print", p.PrintExpr(t.Expression))

	case *Return:
		if t.Value == nil {
			return parens("return")
		}
		return parens("return", p.PrintExpr(t.Value))

	case *If:
		if t.ElseBranch == nil {
			return parens("if", p.PrintExpr(t.Condition), p.PrintStmt(t.ThenBranch))
		}
		return parens("if", p.PrintExpr(t.Condition),
			p.PrintStmt(t.ThenBranch), p.PrintStmt(t.ElseBranch))

	case *While:
		return parens("while", p.PrintExpr(t.Condition), p.PrintStmt(t.Body))

	case *Var:
		if t.Initializer == nil {
			return parens("var", t.Name.Lexeme)
		}
		return parens("var", t.Name.Lexeme, p.PrintExpr(t.Initializer))

	case *Function:
		return p.printFunction("fun", t)

	case *Class:
		frags := []string{"class", t.Name.Lexeme}
		if t.Superclass != nil {
			frags = append(frags, "<", t.Superclass.Name.Lexeme)
		}
		for _, method := range t.Methods {
			frags = append(frags, p.printFunction("method", method))
		}
		return parens(frags...)
	}

	panic("Unknown statement type in printer.")
}

func (p Printer) printFunction(kind string, f *Function) string {
	params := make([]string, 0, len(f.Params))
	for _, param := range f.Params {
		params = append(params, param.Lexeme)
	}

	frags := []string{kind, f.Name.Lexeme, parens(params...)}
	for _, stmt := range f.Body {
		frags = append(frags, p.PrintStmt(stmt))
	}

	return parens(frags...)
}

func (p Printer) VisitAssignExpr(e *Assign) any {
	return parens("=", e.Name.Lexeme, p.PrintExpr(e.Value))
}

func (p Printer) VisitLogicalExpr(e *Logical) any {
	return parens(e.Operator.Lexeme, p.PrintExpr(e.Left), p.PrintExpr(e.Right))
}

func (p Printer) VisitBinaryExpr(e *Binary) any {
	return parens(e.Operator.Lexeme, p.PrintExpr(e.Left), p.PrintExpr(e.Right))
}

func (p Printer) VisitUnaryExpr(e *Unary) any {
	return parens(e.Operator.Lexeme, p.PrintExpr(e.Right))
}

func (p Printer) VisitCallExpr(e *Call) any {
	// Put initial content before args.
	frags := []string{"()", p.PrintExpr(e.Callee) + ":"}

	for _, arg := range e.Arguments {
		frags = append(frags, p.PrintExpr(arg))
	}

	return parens(frags...)
}

func (p Printer) VisitGetExpr(e *Get) any {
	return parens("get", p.PrintExpr(e.Object), e.Name.Lexeme)
}

func (p Printer) VisitSetExpr(e *Set) any {
	return parens("set", p.PrintExpr(e.Object), e.Name.Lexeme, p.PrintExpr(e.Value))
}

func (p Printer) VisitSuperExpr(e *Super) any {
	return "super." + e.Method.Lexeme
}

func (p Printer) VisitThisExpr(e *This) any {
	return "this"
}

func (p Printer) VisitGroupingExpr(e *Grouping) any {
	return parens("group", p.PrintExpr(e.Expr))
}

func (p Printer) VisitLiteralExpr(e *Literal) any {
	switch v := e.Value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	}

	panic("Unknown literal type in printer.")
}

func (p Printer) VisitVariableExpr(e *Variable) any {
	return e.Name.Lexeme
}

func parens(frags ...string) string {
	ret := "("

	for i, frag := range frags {
		ret += frag

		if i != len(frags)-1 {
			ret += " "
		}
	}

	return ret + ")"
}
