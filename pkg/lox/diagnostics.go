package lox

import (
	"errors"
	"fmt"
	"strings"

	"nickandperla.net/lox/internal/parser"
	"nickandperla.net/lox/internal/scanner"
)

// Incomplete reports whether src fails to parse only because input ended
// early: an open block, a missing ';' at the end, or an unterminated string.
// The REPL keeps reading lines while it returns true.
func Incomplete(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	results, err := parser.New(scanner.NewFromString(src)).Parse()
	if err != nil {
		return false
	}
	sawError := false
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		sawError = true
		if !r.Err.AtEnd && r.Err.Message != scanner.MsgUnterminatedString {
			return false
		}
	}
	return sawError
}

// WrapErrorWithSource renders syntax and runtime errors with the source
// line they occurred on and one line of context either side. The caret
// points at the first occurrence of the offending lexeme on that line.
// Joined errors are wrapped one by one; other errors are returned as is.
func WrapErrorWithSource(err error, src string) error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var parts []string
		for _, e := range joined.Unwrap() {
			parts = append(parts, WrapErrorWithSource(e, src).Error())
		}
		return errors.New(strings.Join(parts, "\n"))
	}

	var serr *SyntaxError
	if errors.As(err, &serr) {
		lexeme := serr.Lexeme
		if serr.AtEnd {
			lexeme = ""
		}
		return fmt.Errorf("%s", snippet(src, "SYNTAX ERROR", serr.Line, lexeme, err.Error()))
	}
	var rerr *RuntimeError
	if errors.As(err, &rerr) && rerr.Line > 0 {
		return fmt.Errorf("%s", snippet(src, "RUNTIME ERROR", rerr.Line, rerr.Lexeme, rerr.Message))
	}
	return err
}

// snippet builds a header, up to three numbered source lines and a caret.
func snippet(src, header string, line int, lexeme, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	col := len(lineTxt)
	if lexeme != "" {
		// Multi-line lexemes (strings) are matched by their first line.
		first, _, _ := strings.Cut(lexeme, "\n")
		if i := strings.Index(lineTxt, first); i >= 0 {
			col = i
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at line %d: %s\n\n", header, line, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
