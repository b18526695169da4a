package scanner

import (
	"errors"
	"strings"
	"testing"

	"nickandperla.net/lox/internal/token"
)

func scanString(t *testing.T, src string) []token.Item {
	t.Helper()
	items, err := ScanAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	return items
}

func kinds(items []token.Item) []token.Token {
	out := make([]token.Token, len(items))
	for i, it := range items {
		out[i] = it.Token
	}
	return out
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		src  string
		want []token.Token
	}{
		{"", []token.Token{token.EOF}},
		{"(){},.-+;/*", []token.Token{
			token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
			token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
			token.SLASH, token.STAR, token.EOF,
		}},
		{"! != = == > >= < <=", []token.Token{
			token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL,
			token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL, token.EOF,
		}},
		{"var x = nil;", []token.Token{
			token.VAR, token.IDENTIFIER, token.EQUAL, token.NIL, token.SEMICOLON, token.EOF,
		}},
		{"and class else false fun for if or print return super this true while", []token.Token{
			token.AND, token.CLASS, token.ELSE, token.FALSE, token.FUN, token.FOR, token.IF,
			token.OR, token.PRINT, token.RETURN, token.SUPER, token.THIS, token.TRUE, token.WHILE, token.EOF,
		}},
		{"print 1; // comment ; ;\nprint 2;", []token.Token{
			token.PRINT, token.NUMBER, token.SEMICOLON, token.PRINT, token.NUMBER, token.SEMICOLON, token.EOF,
		}},
		{"12.", []token.Token{token.NUMBER, token.DOT, token.EOF}},
	}

	for _, tt := range tests {
		got := kinds(scanString(t, tt.src))
		if len(got) != len(tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.src, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%q: token %d: expected %s, got %s", tt.src, i, tt.want[i], got[i])
			}
		}
	}
}

func TestScanLiterals(t *testing.T) {
	items := scanString(t, `12 3.25 "hi there" _under_score9`)

	if items[0].Literal != 12.0 {
		t.Errorf("expected 12, got %v", items[0].Literal)
	}
	if items[1].Literal != 3.25 || items[1].Lexeme != "3.25" {
		t.Errorf("expected 3.25, got %v (%q)", items[1].Literal, items[1].Lexeme)
	}
	if items[2].Literal != "hi there" || items[2].Lexeme != `"hi there"` {
		t.Errorf("unexpected string item %+v", items[2])
	}
	if items[3].Token != token.IDENTIFIER || items[3].Lexeme != "_under_score9" {
		t.Errorf("unexpected identifier item %+v", items[3])
	}
}

func TestScanLines(t *testing.T) {
	items := scanString(t, "a\n\nb \"x\ny\" c\n")
	want := []int{1, 3, 4, 4, 5}
	for i, line := range want {
		if items[i].Line != line {
			t.Errorf("item %d (%s): expected line %d, got %d", i, items[i], line, items[i].Line)
		}
	}
	if items[2].Literal != "x\ny" {
		t.Errorf("expected multi-line literal, got %q", items[2].Literal)
	}
}

func TestScanIllegal(t *testing.T) {
	items := scanString(t, "print @;\n\"open")
	if items[1].Token != token.ILLEGAL || items[1].Literal != MsgUnexpectedCharacter || items[1].Lexeme != "@" {
		t.Errorf("expected ILLEGAL '@', got %+v", items[1])
	}
	// Scanning continues after a lexical fault
	if items[2].Token != token.SEMICOLON {
		t.Errorf("expected ';' after ILLEGAL, got %s", items[2].Token)
	}
	if items[3].Token != token.ILLEGAL || items[3].Literal != MsgUnterminatedString || items[3].Line != 2 {
		t.Errorf("expected unterminated string on line 2, got %+v", items[3])
	}
	if items[4].Token != token.EOF {
		t.Errorf("expected EOF, got %s", items[4].Token)
	}
}

func TestNextAfterEOF(t *testing.T) {
	s := NewFromString("x")
	s.Next()
	for i := 0; i < 3; i++ {
		item, err := s.Next()
		if err != nil || item.Token != token.EOF {
			t.Fatalf("call %d: expected EOF, got %v, %v", i, item, err)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestReadError(t *testing.T) {
	_, err := New(failingReader{}).Next()
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("expected reader error, got %v", err)
	}
}
