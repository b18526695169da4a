// Package stmt defines lox statement types.
package stmt

import (
	"strings"

	"nickandperla.net/lox/internal/expr"
	"nickandperla.net/lox/internal/token"
)

// Stmt is the interface all statement types implement.
type Stmt interface {
	String() string
	stmtNode()
}

// Expression evaluates an expression for its side effects.
type Expression struct {
	Expr expr.Expr
}

// Print evaluates an expression and writes its rendering.
type Print struct {
	Keyword token.Item
	Expr    expr.Expr
}

// Var declares a name in the current scope. Init is nil when the
// declaration has no initializer.
type Var struct {
	Name token.Item
	Init expr.Expr
}

// Block runs its statements in a new scope.
type Block struct {
	Statements []Stmt
}

func (Expression) stmtNode() {}
func (Print) stmtNode()      {}
func (Var) stmtNode()        {}
func (Block) stmtNode()      {}

func (s Expression) String() string { return "(; " + s.Expr.String() + ")" }

func (s Print) String() string { return "(print " + s.Expr.String() + ")" }

func (s Var) String() string {
	if s.Init == nil {
		return "(var " + s.Name.Lexeme + ")"
	}
	return "(var " + s.Name.Lexeme + " " + s.Init.String() + ")"
}

func (s Block) String() string {
	var sb strings.Builder
	sb.WriteString("(block")
	for _, st := range s.Statements {
		sb.WriteString(" ")
		sb.WriteString(st.String())
	}
	sb.WriteString(")")
	return sb.String()
}
