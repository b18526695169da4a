// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming lexer for lox.
package scanner

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"nickandperla.net/lox/internal/token"
)

const eof = -1

// Messages carried by ILLEGAL items.
const (
	MsgUnexpectedCharacter = "Unexpected character."
	MsgUnterminatedString  = "Unterminated string."
)

// Scanner tokenizes lox input rune-by-rune.
type Scanner struct {
	reader  *bufio.Reader
	buf     strings.Builder
	pending []rune // pushed-back runes, last in first out
	line    int    // Current line number (1-based)
	err     error // sticky; io.EOF once the reader is drained
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		line:   1,
	}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// ScanAll reads every item up to and including EOF.
func ScanAll(r io.Reader) ([]token.Item, error) {
	s := New(r)
	var items []token.Item
	for {
		item, err := s.Next()
		if err != nil {
			return items, err
		}
		items = append(items, item)
		if item.Token == token.EOF {
			return items, nil
		}
	}
}

// read returns the next rune, or eof. Newlines are counted here and
// uncounted by unread.
func (s *Scanner) read() rune {
	if n := len(s.pending); n > 0 {
		r := s.pending[n-1]
		s.pending = s.pending[:n-1]
		if r == '\n' {
			s.line++
		}
		return r
	}
	if s.err != nil {
		return eof
	}
	r, _, err := s.reader.ReadRune()
	if err != nil {
		s.err = err
		return eof
	}
	if r == '\n' {
		s.line++
	}
	return r
}

func (s *Scanner) unread(r rune) {
	if r == eof {
		return
	}
	if r == '\n' {
		s.line--
	}
	s.pending = append(s.pending, r)
}

// match consumes the next rune if it equals want.
func (s *Scanner) match(want rune) bool {
	r := s.read()
	if r == want {
		return true
	}
	s.unread(r)
	return false
}

// Next returns the next item from the input. Lexical faults are returned as
// ILLEGAL items; the error is reserved for failures of the underlying reader.
func (s *Scanner) Next() (token.Item, error) {
	for {
		r := s.read()
		if r == eof {
			if s.err != nil && s.err != io.EOF {
				return token.Item{}, s.err
			}
			return token.Item{Token: token.EOF, Line: s.line}, nil
		}

		switch r {
		case ' ', '\r', '\t', '\n':
			continue
		case '(':
			return s.item(token.LEFT_PAREN, "("), nil
		case ')':
			return s.item(token.RIGHT_PAREN, ")"), nil
		case '{':
			return s.item(token.LEFT_BRACE, "{"), nil
		case '}':
			return s.item(token.RIGHT_BRACE, "}"), nil
		case ',':
			return s.item(token.COMMA, ","), nil
		case '.':
			return s.item(token.DOT, "."), nil
		case '-':
			return s.item(token.MINUS, "-"), nil
		case '+':
			return s.item(token.PLUS, "+"), nil
		case ';':
			return s.item(token.SEMICOLON, ";"), nil
		case '*':
			return s.item(token.STAR, "*"), nil
		case '!':
			return s.pair('=', token.BANG_EQUAL, "!=", token.BANG, "!"), nil
		case '=':
			return s.pair('=', token.EQUAL_EQUAL, "==", token.EQUAL, "="), nil
		case '<':
			return s.pair('=', token.LESS_EQUAL, "<=", token.LESS, "<"), nil
		case '>':
			return s.pair('=', token.GREATER_EQUAL, ">=", token.GREATER, ">"), nil
		case '/':
			if s.match('/') {
				s.skipComment()
				continue
			}
			return s.item(token.SLASH, "/"), nil
		case '"':
			return s.scanString(), nil
		}

		if isDigit(r) {
			return s.scanNumber(r), nil
		}
		if isAlpha(r) {
			return s.scanIdentifier(r), nil
		}
		return token.Item{
			Token:   token.ILLEGAL,
			Lexeme:  string(r),
			Literal: MsgUnexpectedCharacter,
			Line:    s.line,
		}, nil
	}
}

func (s *Scanner) item(t token.Token, lexeme string) token.Item {
	return token.Item{Token: t, Lexeme: lexeme, Line: s.line}
}

func (s *Scanner) pair(next rune, two token.Token, twoLexeme string, one token.Token, oneLexeme string) token.Item {
	if s.match(next) {
		return s.item(two, twoLexeme)
	}
	return s.item(one, oneLexeme)
}

func (s *Scanner) skipComment() {
	for {
		r := s.read()
		if r == eof {
			return
		}
		if r == '\n' {
			s.unread(r)
			return
		}
	}
}

// scanString reads a string literal; the opening quote is already consumed.
// Strings may span lines and the item reports the line it ends on.
func (s *Scanner) scanString() token.Item {
	s.buf.Reset()
	for {
		r := s.read()
		if r == eof {
			return token.Item{
				Token:   token.ILLEGAL,
				Lexeme:  `"` + s.buf.String(),
				Literal: MsgUnterminatedString,
				Line:    s.line,
			}
		}
		if r == '"' {
			break
		}
		s.buf.WriteRune(r)
	}
	value := s.buf.String()
	return token.Item{
		Token:   token.STRING,
		Lexeme:  `"` + value + `"`,
		Literal: value,
		Line:    s.line,
	}
}

func (s *Scanner) scanNumber(first rune) token.Item {
	s.buf.Reset()
	s.buf.WriteRune(first)
	s.digits()

	// A fractional part needs a digit after the dot.
	if dot := s.read(); dot == '.' {
		next := s.read()
		if isDigit(next) {
			s.buf.WriteRune('.')
			s.buf.WriteRune(next)
			s.digits()
		} else {
			s.unread(next)
			s.unread(dot)
		}
	} else {
		s.unread(dot)
	}

	lexeme := s.buf.String()
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token.Item{Token: token.ILLEGAL, Lexeme: lexeme, Literal: "Invalid number.", Line: s.line}
	}
	return token.Item{Token: token.NUMBER, Lexeme: lexeme, Literal: n, Line: s.line}
}

func (s *Scanner) digits() {
	for {
		r := s.read()
		if !isDigit(r) {
			s.unread(r)
			return
		}
		s.buf.WriteRune(r)
	}
}

func (s *Scanner) scanIdentifier(first rune) token.Item {
	s.buf.Reset()
	s.buf.WriteRune(first)
	for {
		r := s.read()
		if !isAlpha(r) && !isDigit(r) {
			s.unread(r)
			break
		}
		s.buf.WriteRune(r)
	}
	lexeme := s.buf.String()
	return token.Item{Token: token.Lookup(lexeme), Lexeme: lexeme, Line: s.line}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
}
