// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines lox expression types.
package expr

import (
	"strings"

	"nickandperla.net/lox/internal/token"
	"nickandperla.net/lox/internal/value"
)

// Expr is the interface all expression types implement. Nodes are built
// once by the parser and never mutated.
type Expr interface {
	// String returns the parenthesized prefix form of the expression.
	String() string
	exprNode()
}

// Literal is a constant value.
type Literal struct {
	Value value.Value
}

// Unary is a prefix operator applied to one operand (- or !).
type Unary struct {
	Op      token.Item
	Operand Expr
}

// Binary is an infix operator applied to two operands.
type Binary struct {
	Left  Expr
	Op    token.Item
	Right Expr
}

// Group is a parenthesized expression.
type Group struct {
	Inner Expr
}

// Variable reads a name through the scope chain.
type Variable struct {
	Name token.Item
}

// Assign stores the result of Value into an existing binding.
type Assign struct {
	Name  token.Item
	Value Expr
}

func (Literal) exprNode()  {}
func (Unary) exprNode()    {}
func (Binary) exprNode()   {}
func (Group) exprNode()    {}
func (Variable) exprNode() {}
func (Assign) exprNode()   {}

func (l Literal) String() string {
	if l.Value == nil {
		return "nil"
	}
	return l.Value.String()
}

func (u Unary) String() string { return parenthesize(u.Op.Lexeme, u.Operand) }

func (b Binary) String() string { return parenthesize(b.Op.Lexeme, b.Left, b.Right) }

func (g Group) String() string { return parenthesize("group", g.Inner) }

func (v Variable) String() string { return v.Name.Lexeme }

func (a Assign) String() string {
	return parenthesize("= "+a.Name.Lexeme, a.Value)
}

func parenthesize(name string, exprs ...Expr) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(name)
	for _, e := range exprs {
		sb.WriteString(" ")
		sb.WriteString(e.String())
	}
	sb.WriteString(")")
	return sb.String()
}
