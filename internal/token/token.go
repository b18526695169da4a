// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines lox token types and the keyword table.
package token

import "fmt"

// Token represents a lox token type.
type Token int

const (
	ILLEGAL Token = iota
	EOF

	// Single-character tokens
	LEFT_PAREN  // (
	RIGHT_PAREN // )
	LEFT_BRACE  // {
	RIGHT_BRACE // }
	COMMA       // ,
	DOT         // .
	MINUS       // -
	PLUS        // +
	SEMICOLON   // ;
	SLASH       // /
	STAR        // *

	// One or two character tokens
	BANG          // !
	BANG_EQUAL    // !=
	EQUAL         // =
	EQUAL_EQUAL   // ==
	GREATER       // >
	GREATER_EQUAL // >=
	LESS          // <
	LESS_EQUAL    // <=

	// Literals
	IDENTIFIER
	STRING
	NUMBER

	// Keywords
	keywordStart
	AND
	CLASS
	ELSE
	FALSE
	FUN
	FOR
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE
	keywordEnd
)

var names = [...]string{
	ILLEGAL:       "ILLEGAL",
	EOF:           "EOF",
	LEFT_PAREN:    "LEFT_PAREN",
	RIGHT_PAREN:   "RIGHT_PAREN",
	LEFT_BRACE:    "LEFT_BRACE",
	RIGHT_BRACE:   "RIGHT_BRACE",
	COMMA:         "COMMA",
	DOT:           "DOT",
	MINUS:         "MINUS",
	PLUS:          "PLUS",
	SEMICOLON:     "SEMICOLON",
	SLASH:         "SLASH",
	STAR:          "STAR",
	BANG:          "BANG",
	BANG_EQUAL:    "BANG_EQUAL",
	EQUAL:         "EQUAL",
	EQUAL_EQUAL:   "EQUAL_EQUAL",
	GREATER:       "GREATER",
	GREATER_EQUAL: "GREATER_EQUAL",
	LESS:          "LESS",
	LESS_EQUAL:    "LESS_EQUAL",
	IDENTIFIER:    "IDENTIFIER",
	STRING:        "STRING",
	NUMBER:        "NUMBER",
	AND:           "AND",
	CLASS:         "CLASS",
	ELSE:          "ELSE",
	FALSE:         "FALSE",
	FUN:           "FUN",
	FOR:           "FOR",
	IF:            "IF",
	NIL:           "NIL",
	OR:            "OR",
	PRINT:         "PRINT",
	RETURN:        "RETURN",
	SUPER:         "SUPER",
	THIS:          "THIS",
	TRUE:          "TRUE",
	VAR:           "VAR",
	WHILE:         "WHILE",
}

// String returns the string representation of a token.
func (t Token) String() string {
	if t >= 0 && int(t) < len(names) && names[t] != "" {
		return names[t]
	}
	return "UNKNOWN"
}

// IsKeyword returns true if the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

// StartsDeclaration returns true for the keywords the parser resynchronizes on.
func (t Token) StartsDeclaration() bool {
	switch t {
	case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
		return true
	}
	return false
}

var keywords = map[string]Token{
	"and":    AND,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"fun":    FUN,
	"for":    FOR,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

// Lookup maps an identifier to its keyword token, or IDENTIFIER.
func Lookup(ident string) Token {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENTIFIER
}

// Item is a classified lexeme with its source line.
type Item struct {
	Token   Token
	Lexeme  string
	Literal any // float64 for NUMBER, string for STRING, message for ILLEGAL
	Line    int // 1-based
}

func (i Item) String() string {
	switch i.Token {
	case EOF:
		return fmt.Sprintf("%d: EOF", i.Line)
	case NUMBER, STRING:
		return fmt.Sprintf("%d: %s %s %v", i.Line, i.Token, i.Lexeme, i.Literal)
	}
	return fmt.Sprintf("%d: %s %s", i.Line, i.Token, i.Lexeme)
}
