package parser

import (
	"errors"
	"testing"

	"nickandperla.net/lox/internal/expr"
	"nickandperla.net/lox/internal/scanner"
	"nickandperla.net/lox/internal/stmt"
	"nickandperla.net/lox/internal/token"
)

func parse(t *testing.T, src string) []Result {
	t.Helper()
	results, err := New(scanner.NewFromString(src)).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return results
}

func parseExpr(t *testing.T, src string) expr.Expr {
	t.Helper()
	e, err := ParseExpression(scanner.NewFromString(src))
	if err != nil {
		t.Fatalf("ParseExpression(%q): %v", src, err)
	}
	return e
}

func TestExpressionTrees(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"10 - 5 - 2", "(- (- 10 5) 2)"},
		{"(1 + 2) * 3", "(* (group (+ 1 2)) 3)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"-1 - -2", "(- (- 1) (- 2))"},
		{"!!true", "(! (! true))"},
		{"1 < 2 == 3 >= 4", "(== (< 1 2) (>= 3 4))"},
		{"a == b != c", "(!= (== a b) c)"},
		{"a = b = 1", "(= a (= b 1))"},
		{"a = 1 + 2", "(= a (+ 1 2))"},
		{`"s" + nil`, "(+ s nil)"},
		{"false", "false"},
		{"2.5", "2.5"},
	}

	for _, tt := range tests {
		if got := parseExpr(t, tt.src).String(); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.src, tt.want, got)
		}
	}
}

func TestStatements(t *testing.T) {
	results := parse(t, `var a; var b = 1; print a; a = 2; { var c = 3; { print c; } }`)
	want := []string{
		"(var a)",
		"(var b 1)",
		"(print a)",
		"(; (= a 2))",
		"(block (var c 3) (block (print c)))",
	}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("result %d: unexpected error %v", i, r.Err)
		}
		if got := r.Stmt.String(); got != want[i] {
			t.Errorf("result %d: expected %s, got %s", i, want[i], got)
		}
	}

	if _, ok := results[4].Stmt.(stmt.Block); !ok {
		t.Errorf("expected stmt.Block, got %T", results[4].Stmt)
	}
}

func TestVarWithoutInitializer(t *testing.T) {
	results := parse(t, "var x;")
	v, ok := results[0].Stmt.(stmt.Var)
	if !ok {
		t.Fatalf("expected stmt.Var, got %T", results[0].Stmt)
	}
	if v.Init != nil {
		t.Errorf("expected nil initializer, got %v", v.Init)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		kind     ErrorKind
		line     int
		lexeme   string
		atEnd    bool
		expected string
		message  string
	}{
		{"missing expression", "print ;", UnexpectedToken, 1, ";", false, "", "Expect expression."},
		{"missing paren", "print (1 + 2;", ExpectedToken, 1, ";", false, ")", "Expect ')' after expression."},
		{"missing semicolon at end", "print 1", ExpectedToken, 1, "", true, ";", "Expect ';' after value."},
		{"missing semicolon expr", "1 + 2 print 3;", ExpectedToken, 1, "print", false, ";", "Expect ';' after expression."},
		{"var name", "var 1 = 2;", ExpectedToken, 1, "1", false, "identifier", "Expect variable name."},
		{"var semicolon", "var a = 1\nvar b;", ExpectedToken, 2, "var", false, ";", "Expect ';' after variable declaration."},
		{"unclosed block", "{ print 1;\n", ExpectedToken, 2, "", true, "}", "Expect '}' after block."},
		{"invalid target", "\n1 + 2 = 3;", InvalidAssignmentTarget, 2, "=", false, "", "Invalid assignment target."},
		{"grouped target", "(a) = 3;", InvalidAssignmentTarget, 1, "=", false, "", "Invalid assignment target."},
		{"illegal character", "print #;", IllegalToken, 1, "#", false, "", scanner.MsgUnexpectedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := parse(t, tt.src)
			var serr *SyntaxError
			for _, r := range results {
				if r.Err != nil {
					serr = r.Err
					break
				}
			}
			if serr == nil {
				t.Fatalf("expected a syntax error")
			}
			if serr.Kind != tt.kind {
				t.Errorf("kind: expected %s, got %s", tt.kind, serr.Kind)
			}
			if serr.Line != tt.line {
				t.Errorf("line: expected %d, got %d", tt.line, serr.Line)
			}
			if !tt.atEnd && serr.Lexeme != tt.lexeme {
				t.Errorf("lexeme: expected %q, got %q", tt.lexeme, serr.Lexeme)
			}
			if serr.AtEnd != tt.atEnd {
				t.Errorf("atEnd: expected %v, got %v", tt.atEnd, serr.AtEnd)
			}
			if serr.Expected != tt.expected {
				t.Errorf("expected: expected %q, got %q", tt.expected, serr.Expected)
			}
			if serr.Message != tt.message {
				t.Errorf("message: expected %q, got %q", tt.message, serr.Message)
			}
		})
	}
}

func TestErrorStrings(t *testing.T) {
	results := parse(t, "print (1;\nprint 2")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if got := results[0].Err.Error(); got != "[line 1] Error at ';': Expect ')' after expression." {
		t.Errorf("unexpected message %q", got)
	}
	if got := results[1].Err.Error(); got != "[line 2] Error at end: Expect ';' after value." {
		t.Errorf("unexpected message %q", got)
	}
}

func TestRecoveryReportsEachFault(t *testing.T) {
	results := parse(t, "print 1 +; print 2; var = 3; print (4; print 5;")

	var errs, stmts int
	for _, r := range results {
		if (r.Err == nil) == (r.Stmt == nil) {
			t.Fatalf("result must hold exactly one of Stmt and Err: %+v", r)
		}
		if r.Err != nil {
			errs++
		} else {
			stmts++
		}
	}
	if errs != 3 {
		t.Errorf("expected 3 errors, got %d", errs)
	}
	if stmts != 2 {
		t.Errorf("expected 2 statements, got %d", stmts)
	}
	if got := results[len(results)-1].Stmt; got == nil || got.String() != "(print 5)" {
		t.Errorf("expected parsing to resume for the final statement, got %v", got)
	}
}

func TestSynchronizeStopsAtKeyword(t *testing.T) {
	// No ';' after the bad expression: recovery resumes at 'var'.
	results := parse(t, "1 + + var a = 1;")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err == nil {
		t.Fatal("expected first result to be an error")
	}
	if results[1].Stmt == nil || results[1].Stmt.String() != "(var a 1)" {
		t.Errorf("expected (var a 1), got %+v", results[1])
	}
}

func TestFaultInsideBlockDropsWholeDeclaration(t *testing.T) {
	results := parse(t, "{ print 1; print +; print 2; } print 3;")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err == nil || results[0].Err.Message != "Expect expression." {
		t.Errorf("expected the nested fault, got %+v", results[0])
	}
	if results[1].Stmt == nil || results[1].Stmt.String() != "(print 3)" {
		t.Errorf("expected (print 3), got %+v", results[1])
	}
}

func TestRecoveryKeepsBoundaryToken(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
		after   []string
	}{
		{"missing semicolon before brace", "{ var x = 1 } print 2;", "Expect ';' after variable declaration.", []string{"(print 2)"}},
		{"print before brace", "{ print 1 }", "Expect ';' after value.", nil},
		{"missing semicolon before print", "print 1 print 2;", "Expect ';' after value.", []string{"(print 2)"}},
		{"missing semicolon expr", "1 + 2 print 3;", "Expect ';' after expression.", []string{"(print 3)"}},
		{"nested blocks", "{ { 1 } print 2; } print 3;", "Expect ';' after expression.", []string{"(print 3)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := parse(t, tt.src)
			if len(results) != 1+len(tt.after) {
				t.Fatalf("expected %d results, got %d: %+v", 1+len(tt.after), len(results), results)
			}
			if err := results[0].Err; err == nil || err.Kind != ExpectedToken || err.Expected != ";" || err.Message != tt.message {
				t.Errorf("expected one missing ';' error, got %+v", results[0])
			}
			for i, want := range tt.after {
				got := results[i+1].Stmt
				if got == nil || got.String() != want {
					t.Errorf("result %d: expected %s, got %+v", i+1, want, results[i+1])
				}
			}
		})
	}
}

func TestRecoverySkipsLeadingKeyword(t *testing.T) {
	// A reserved word nothing can parse is skipped rather than retried.
	results := parse(t, "class; print 1;")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err == nil || results[0].Err.Lexeme != "class" {
		t.Errorf("expected error at 'class', got %+v", results[0])
	}
	if results[1].Stmt == nil || results[1].Stmt.String() != "(print 1)" {
		t.Errorf("expected (print 1), got %+v", results[1])
	}
}

func TestSliceStream(t *testing.T) {
	items := []token.Item{
		{Token: token.PRINT, Lexeme: "print", Line: 1},
		{Token: token.NUMBER, Lexeme: "7", Literal: 7.0, Line: 1},
		{Token: token.SEMICOLON, Lexeme: ";", Line: 1},
	}
	results, err := New(NewSliceStream(items)).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(results) != 1 || results[0].Stmt == nil || results[0].Stmt.String() != "(print 7)" {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestParseExpressionTrailingTokens(t *testing.T) {
	_, err := ParseExpression(scanner.NewFromString("1 2"))
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if serr.Message != "Expect end of expression." || serr.Lexeme != "2" {
		t.Errorf("unexpected error %+v", serr)
	}
}

type errStream struct{ n int }

func (s *errStream) Next() (token.Item, error) {
	s.n++
	if s.n > 2 {
		return token.Item{}, errors.New("stream broke")
	}
	return token.Item{Token: token.PRINT, Lexeme: "print", Line: 1}, nil
}

func TestStreamErrorStopsParse(t *testing.T) {
	_, err := New(&errStream{}).Parse()
	if err == nil || err.Error() != "stream broke" {
		t.Errorf("expected stream error, got %v", err)
	}
}
