package parser

import (
	"fmt"

	"golox/ast"
	"golox/report"
	"golox/token"
)

const maxCallParams = 255

type Parser struct {
	// Scanning information
	scn      Scanner
	previous token.Token
	current  token.Token

	rep *report.Reporter
}

// Panic thrown on malformed syntax, caught at declaration boundaries where
// the token stream is synchronized.
type syntaxError struct{}

func MakeParser(source string, rep *report.Reporter) Parser {
	return Parser{
		scn: MakeScanner(source, rep),
		rep: rep,
	}
}

// Parse consumes the whole token stream and returns the statement list.
// The list is produced even if errors were reported; the caller must check
// the reporter before executing it.
func (p *Parser) Parse() []ast.Stmt {
	// Prime the parser: take in first token.
	p.advance()

	stmts := make([]ast.Stmt, 0)
	for !p.check(token.END_OF_FILE) {
		func() {
			// Synchronize tokens if malformed syntax is detected.
			defer func() {
				if v := recover(); v != nil {
					if _, ok := v.(syntaxError); !ok {
						panic(v)
					}
					p.synchronize()
				}
			}()

			stmts = append(stmts, p.declaration())
		}()
	}

	return stmts
}

// Statement parsing methods
// --------------------------------------------------------
func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()

	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	// Check and set if superclass exists.
	superclass := (*ast.Variable)(nil)
	if p.match(token.LESS) {
		sname := p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = &ast.Variable{Name: sname}
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	methods := make([]*ast.Function, 0)
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

// Parses functions and methods, the 'fun' keyword (if any) is already
// consumed by the caller.
func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")

	// Parse parameters: '(' parameters? ')'
	p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")
	params := make([]token.Token, 0)

	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxCallParams {
				p.errorAt(p.current, fmt.Sprintf(
					"Can't have more than %v parameters.", maxCallParams,
				))
				// Continue after the error as the syntax is well formed.
			}

			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))

			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.bareBlock()

	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	initializer := ast.Expr(nil)
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()

	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()

	case p.match(token.LEFT_BRACE):
		return ast.NewBlock(p.bareBlock()...)

	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")

	return &ast.Print{Expression: expr}
}

func (p *Parser) returnStatement() ast.Stmt {
	kw := p.previous

	value := ast.Expr(nil) // A return with no expression returns nil.
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.Return{Keyword: kw, Value: value}
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	elseBranch := ast.Stmt(nil)
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}

	return &ast.If{
		Condition:  condition,
		ThenBranch: thenBranch,
		ElseBranch: elseBranch,
	}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	body := p.statement()

	return &ast.While{Condition: condition, Body: body}
}

func (p *Parser) forStatement() ast.Stmt {
	// The 'for' loop is desugared as:
	//     { initializer; while (condition) { body; increment; } }
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	init := ast.Stmt(nil)
	switch {
	case p.match(token.SEMICOLON):
		init = nil
	case p.match(token.VAR):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	cond := ast.Expr(nil)
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	increment := ast.Expr(nil)
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = ast.NewBlock(body, &ast.Expression{Expression: increment})
	}

	if cond == nil {
		cond = &ast.Literal{Value: true}
	}
	loop := ast.Stmt(&ast.While{Condition: cond, Body: body})

	if init != nil {
		loop = ast.NewBlock(init, loop)
	}

	return loop
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")

	return &ast.Expression{Expression: expr}
}

// Expression parsing methods
// --------------------------------------------------------
func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	// Since the '=' can be any number of tokens ahead, parse the LHS first
	// and then check for the equal sign and verify that the target is valid.
	expr := p.logicOr()

	if p.match(token.EQUAL) {
		equals := p.previous
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			// A Get (like: expr.name) becomes a Set of that property.
			return &ast.Set{
				Object: target.Object,
				Name:   target.Name,
				Value:  value,
			}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			// Continue after the error as the syntax is well formed.
		}
	}

	return expr
}

// Generic helper function for parsing left-associative binary expressions.
func doLeftBinaryExpr[E ast.Binary | ast.Logical](
	p *Parser, nextRule func() ast.Expr, matches ...token.TokenKind) ast.Expr {
	left := nextRule()

	for p.matchAny(matches...) {
		op := p.previous
		right := nextRule()

		e := E{Operator: op, Left: left, Right: right}
		left = any(&e).(ast.Expr)
	}

	return left
}

func (p *Parser) logicOr() ast.Expr {
	return doLeftBinaryExpr[ast.Logical](p, p.logicAnd, token.OR)
}

func (p *Parser) logicAnd() ast.Expr {
	return doLeftBinaryExpr[ast.Logical](p, p.equality, token.AND)
}

func (p *Parser) equality() ast.Expr {
	return doLeftBinaryExpr[ast.Binary](p, p.comparison,
		token.EQUAL_EQUAL, token.BANG_EQUAL)
}

func (p *Parser) comparison() ast.Expr {
	return doLeftBinaryExpr[ast.Binary](p, p.term,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL)
}

func (p *Parser) term() ast.Expr {
	return doLeftBinaryExpr[ast.Binary](p, p.factor,
		token.PLUS, token.MINUS)
}

func (p *Parser) factor() ast.Expr {
	return doLeftBinaryExpr[ast.Binary](p, p.unary,
		token.STAR, token.SLASH)
}

func (p *Parser) unary() ast.Expr {
	if p.matchAny(token.BANG, token.MINUS) {
		op := p.previous
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}

	return p.call()
}

func (p *Parser) call() ast.Expr {
	// This parses function calls and property access, both left-associative.
	expr := p.primary()

	for {
		if p.match(token.LEFT_PAREN) {
			expr = p.finishCall(expr)
		} else if p.match(token.DOT) {
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		} else {
			break
		}
	}

	return expr
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Value: nil}

	case p.matchAny(token.NUMBER, token.STRING):
		return &ast.Literal{Value: p.previous.Literal}

	case p.match(token.SUPER):
		keyword := p.previous
		p.consume(token.DOT, "Expect '.' after 'super'.")
		// Any use of 'super' must access a method of the superclass.
		method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
		return &ast.Super{Keyword: keyword, Method: method}

	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous}

	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous}

	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return &ast.Grouping{Expr: expr}
	}

	p.errorAt(p.current, "Expect expression.")
	panic(syntaxError{})
}

// Parsing helpers
// --------------------------------------------------------
// Parses: declaration* '}', the opening '{' is already consumed.
func (p *Parser) bareBlock() []ast.Stmt {
	stmts := make([]ast.Stmt, 0)

	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		stmts = append(stmts, p.declaration())
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")

	return stmts
}

// Parses call arguments: (expr (',' expr)*)? ')'
func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	args := make([]ast.Expr, 0)

	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxCallParams {
				p.errorAt(p.current, fmt.Sprintf(
					"Can't have more than %v arguments.", maxCallParams,
				))
				// Continue after the error as the syntax is well formed.
			}

			args = append(args, p.expression())

			if !p.match(token.COMMA) {
				break
			}
		}
	}

	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

// Error reporting and recovery methods
// --------------------------------------------------------
func (p *Parser) errorAt(tok token.Token, message string) {
	p.rep.ErrorAt(tok, message)
}

// Synchronize the token stream after seeing malformed syntax to prevent
// cascading errors and parse as much correct syntax as possible.
func (p *Parser) synchronize() {
	// Discard the token on which the error happened and continue to do so
	// until a token which might begin a new statement.
	p.advance()

	for p.current.Kind != token.END_OF_FILE {
		if p.previous.Kind == token.SEMICOLON {
			return
		}

		switch p.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return

		default:
			p.advance()
		}
	}
}

// Parser token matching and processing methods
// --------------------------------------------------------
func (p *Parser) consume(kind token.TokenKind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}

	p.errorAt(p.current, message)
	panic(syntaxError{})
}

func (p *Parser) matchAny(kinds ...token.TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}

	return false
}

func (p *Parser) match(kind token.TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser) check(kind token.TokenKind) bool {
	return p.current.Kind == kind
}

func (p *Parser) advance() token.Token {
	p.previous = p.current
	p.current = p.scn.NextToken()
	return p.previous
}
