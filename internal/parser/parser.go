// Package parser turns a lox token stream into statement trees.
//
// Grammar, lowest binding power first:
//
//	program     := declaration* EOF
//	declaration := varDecl | statement
//	varDecl     := "var" IDENTIFIER ( "=" expression )? ";"
//	statement   := printStmt | block | exprStmt
//	printStmt   := "print" expression ";"
//	block       := "{" declaration* "}"
//	exprStmt    := expression ";"
//	expression  := assignment
//	assignment  := IDENTIFIER "=" assignment | equality
//	equality    := comparison ( ( "==" | "!=" ) comparison )*
//	comparison  := term ( ( "<" | "<=" | ">" | ">=" ) term )*
//	term        := factor ( ( "+" | "-" ) factor )*
//	factor      := unary ( ( "*" | "/" ) unary )*
//	unary       := ( "-" | "!" ) unary | primary
//	primary     := NUMBER | STRING | "true" | "false" | "nil" | IDENTIFIER
//	             | "(" expression ")"
package parser

import (
	"nickandperla.net/lox/internal/expr"
	"nickandperla.net/lox/internal/stmt"
	"nickandperla.net/lox/internal/token"
	"nickandperla.net/lox/internal/value"
)

// TokenStream yields classified tokens left to right. After EOF it keeps
// returning EOF. A non-nil error means the underlying input failed.
type TokenStream interface {
	Next() (token.Item, error)
}

// SliceStream is a TokenStream over pre-scanned items.
type SliceStream struct {
	items []token.Item
	pos   int
}

// NewSliceStream wraps items. An EOF item is synthesized if items does not
// end with one.
func NewSliceStream(items []token.Item) *SliceStream {
	return &SliceStream{items: items}
}

// Next returns the next item.
func (s *SliceStream) Next() (token.Item, error) {
	if s.pos >= len(s.items) {
		line := 1
		if n := len(s.items); n > 0 {
			line = s.items[n-1].Line
		}
		return token.Item{Token: token.EOF, Line: line}, nil
	}
	item := s.items[s.pos]
	if item.Token != token.EOF {
		s.pos++
	}
	return item, nil
}

// Result is the outcome of one top-level declaration: exactly one of Stmt
// and Err is set.
type Result struct {
	Stmt stmt.Stmt
	Err  *SyntaxError
}

// Parser is a recursive-descent parser with one token of lookahead.
type Parser struct {
	stream  TokenStream
	current token.Item // lookahead
	prev    token.Item // last consumed
	taken   int        // tokens consumed so far
	errs    []*SyntaxError
	ioErr   error
}

// New creates a Parser reading from ts.
func New(ts TokenStream) *Parser {
	p := &Parser{stream: ts}
	p.current = p.pull(1)
	return p
}

// Parse parses a whole program. Each top-level declaration yields a
// statement, or one Result per syntax fault found inside it; parsing resumes
// after every fault. The error is reserved for TokenStream failures.
func (p *Parser) Parse() ([]Result, error) {
	var results []Result
	for !p.isAtEnd() && p.ioErr == nil {
		before := len(p.errs)
		s := p.declaration()
		if p.ioErr != nil {
			break
		}
		if len(p.errs) > before {
			for _, err := range p.errs[before:] {
				results = append(results, Result{Err: err})
			}
			continue
		}
		results = append(results, Result{Stmt: s})
	}
	return results, p.ioErr
}

// ParseExpression parses a single expression that must span the whole stream.
func ParseExpression(ts TokenStream) (expr.Expr, error) {
	p := New(ts)
	e, err := p.expression()
	if p.ioErr != nil {
		return nil, p.ioErr
	}
	if err != nil {
		return nil, err
	}
	if !p.isAtEnd() {
		return nil, p.errorAt(p.current, UnexpectedToken, "", "Expect end of expression.")
	}
	return e, nil
}

// declaration records any fault, resynchronizes and returns nil.
func (p *Parser) declaration() stmt.Stmt {
	var (
		s     stmt.Stmt
		err   error
		start = p.taken
	)
	if p.match(token.VAR) {
		s, err = p.varDeclaration()
	} else {
		s, err = p.statement()
	}
	if err != nil {
		if serr, ok := err.(*SyntaxError); ok {
			p.errs = append(p.errs, serr)
		}
		p.synchronize(p.taken > start)
		return nil
	}
	return s
}

func (p *Parser) varDeclaration() (stmt.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "identifier", "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var init expr.Expr
	if p.match(token.EQUAL) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, ";", "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return stmt.Var{Name: name, Init: init}, nil
}

func (p *Parser) statement() (stmt.Stmt, error) {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.LEFT_BRACE):
		return p.block()
	}
	return p.expressionStatement()
}

func (p *Parser) printStatement() (stmt.Stmt, error) {
	keyword := p.prev
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, ";", "Expect ';' after value."); err != nil {
		return nil, err
	}
	return stmt.Print{Keyword: keyword, Expr: e}, nil
}

func (p *Parser) expressionStatement() (stmt.Stmt, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, ";", "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return stmt.Expression{Expr: e}, nil
}

// block parses after the opening brace. Faults inside nested declarations
// are recorded by declaration and do not stop the block.
func (p *Parser) block() (stmt.Stmt, error) {
	var statements []stmt.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			statements = append(statements, s)
		}
		if p.ioErr != nil {
			return nil, p.ioErr
		}
	}
	if _, err := p.consume(token.RIGHT_BRACE, "}", "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmt.Block{Statements: statements}, nil
}

func (p *Parser) expression() (expr.Expr, error) {
	return p.assignment()
}

// assignment parses the target as an ordinary expression and only then
// checks that it names a variable.
func (p *Parser) assignment() (expr.Expr, error) {
	target, err := p.equality()
	if err != nil {
		return nil, err
	}
	if !p.match(token.EQUAL) {
		return target, nil
	}
	equals := p.prev
	val, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if v, ok := target.(expr.Variable); ok {
		return expr.Assign{Name: v.Name, Value: val}, nil
	}
	return nil, p.errorAt(equals, InvalidAssignmentTarget, "", "Invalid assignment target.")
}

func (p *Parser) equality() (expr.Expr, error) {
	return p.binary(p.comparison, token.BANG_EQUAL, token.EQUAL_EQUAL)
}

func (p *Parser) comparison() (expr.Expr, error) {
	return p.binary(p.term, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL)
}

func (p *Parser) term() (expr.Expr, error) {
	return p.binary(p.factor, token.MINUS, token.PLUS)
}

func (p *Parser) factor() (expr.Expr, error) {
	return p.binary(p.unary, token.SLASH, token.STAR)
}

// binary folds a left-associative chain of one precedence level.
func (p *Parser) binary(operand func() (expr.Expr, error), ops ...token.Token) (expr.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.prev
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = expr.Binary{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) unary() (expr.Expr, error) {
	if p.match(token.BANG, token.MINUS) {
		op := p.prev
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return expr.Unary{Op: op, Operand: operand}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (expr.Expr, error) {
	switch {
	case p.match(token.FALSE):
		return expr.Literal{Value: value.Boolean(false)}, nil
	case p.match(token.TRUE):
		return expr.Literal{Value: value.Boolean(true)}, nil
	case p.match(token.NIL):
		return expr.Literal{Value: value.Nil{}}, nil
	case p.match(token.NUMBER):
		n, _ := p.prev.Literal.(float64)
		return expr.Literal{Value: value.Number(n)}, nil
	case p.match(token.STRING):
		s, _ := p.prev.Literal.(string)
		return expr.Literal{Value: value.Text(s)}, nil
	case p.match(token.IDENTIFIER):
		return expr.Variable{Name: p.prev}, nil
	case p.match(token.LEFT_PAREN):
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RIGHT_PAREN, ")", "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return expr.Group{Inner: inner}, nil
	}
	return nil, p.errorAt(p.current, UnexpectedToken, "", "Expect expression.")
}

// synchronize discards tokens up to a likely statement boundary: just after
// a ';', or just before a '}' or a declaration keyword. The offending token
// itself is kept when it is such a boundary and the failed declaration has
// already consumed something; otherwise it is skipped so parsing advances.
func (p *Parser) synchronize(progressed bool) {
	if progressed && p.atBoundary() {
		return
	}
	p.advance()
	for !p.isAtEnd() {
		if p.prev.Token == token.SEMICOLON || p.atBoundary() {
			return
		}
		p.advance()
	}
}

func (p *Parser) atBoundary() bool {
	return p.current.Token == token.RIGHT_BRACE || p.current.Token.StartsDeclaration()
}

func (p *Parser) match(kinds ...token.Token) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Token) bool {
	if p.isAtEnd() {
		return false
	}
	return p.current.Token == kind
}

func (p *Parser) consume(kind token.Token, expected, msg string) (token.Item, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Item{}, p.errorAt(p.current, ExpectedToken, expected, msg)
}

func (p *Parser) advance() token.Item {
	if !p.isAtEnd() {
		p.prev = p.current
		p.current = p.pull(p.prev.Line)
		p.taken++
	}
	return p.prev
}

// pull reads the next item; a stream failure is remembered and ends input.
func (p *Parser) pull(line int) token.Item {
	item, err := p.stream.Next()
	if err != nil {
		p.ioErr = err
		return token.Item{Token: token.EOF, Line: line}
	}
	return item
}

func (p *Parser) isAtEnd() bool {
	return p.current.Token == token.EOF
}

// errorAt builds a SyntaxError at tok. ILLEGAL tokens always report the
// scanner's message.
func (p *Parser) errorAt(tok token.Item, kind ErrorKind, expected, msg string) *SyntaxError {
	if tok.Token == token.ILLEGAL {
		kind, expected = IllegalToken, ""
		if m, ok := tok.Literal.(string); ok {
			msg = m
		}
	}
	return &SyntaxError{
		Kind:     kind,
		Line:     tok.Line,
		Lexeme:   tok.Lexeme,
		AtEnd:    tok.Token == token.EOF,
		Expected: expected,
		Message:  msg,
	}
}
