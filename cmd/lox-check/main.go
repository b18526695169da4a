// lox-check: Syntax checker for .lox files.
//
// Parses every file with the interpreter's own parser, without executing
// anything, and reports each syntax error found after recovery.
//
// Usage:
//
//	lox-check [-q] [-d DIR] [FILE...]
//
// A file containing a line "// EXPECT: error" is a negative test: finding
// errors in it is the expected outcome.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	"nickandperla.net/lox/internal/parser"
	"nickandperla.net/lox/internal/scanner"
)

const expectDirective = "// EXPECT: error"

// checkResult holds the outcome of checking a single file.
type checkResult struct {
	path         string
	errors       []string
	expectsError bool
}

// checkFile parses a .lox file and returns its syntax errors.
func checkFile(path string) checkResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return checkResult{
			path:   path,
			errors: []string{fmt.Sprintf("read error: %v", err)},
		}
	}
	return checkSource(path, string(content))
}

func checkSource(path, src string) checkResult {
	expectsError := false
	for _, line := range strings.Split(src, "\n") {
		if strings.TrimSpace(line) == expectDirective {
			expectsError = true
			break
		}
	}

	results, err := parser.New(scanner.NewFromString(src)).Parse()
	var errs []string
	if err != nil {
		errs = append(errs, fmt.Sprintf("read error: %v", err))
	}
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err.Error())
		}
	}

	return checkResult{
		path:         path,
		errors:       errs,
		expectsError: expectsError,
	}
}

// findLoxFiles recursively finds all .lox files under dir.
func findLoxFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".lox") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// summary counts the outcomes of a check run.
type summary struct {
	passed, expectedErr, failed int
}

// report prints one line per file (plus its errors) and tallies the results.
// Expected-error files pass whether or not errors were found.
func report(w io.Writer, results []checkResult, quiet bool) summary {
	var s summary
	for _, result := range results {
		hasErrors := len(result.errors) > 0

		switch {
		case result.expectsError:
			s.expectedErr++
			if quiet {
				continue
			}
			if hasErrors {
				fmt.Fprintf(w, "%s   %s (expected error, found %d)\n", color.GreenString("OK"), result.path, len(result.errors))
			} else {
				fmt.Fprintf(w, "%s   %s (expected error, parser accepted)\n", color.GreenString("OK"), result.path)
			}
		case hasErrors:
			s.failed++
			fmt.Fprintf(w, "%s %s\n", color.RedString("FAIL"), result.path)
			for _, e := range result.errors {
				fmt.Fprintf(w, "     %s\n", e)
			}
		default:
			s.passed++
			if !quiet {
				fmt.Fprintf(w, "%s   %s\n", color.GreenString("OK"), result.path)
			}
		}
	}

	fmt.Fprintf(w, "\n--- Summary ---\n")
	fmt.Fprintf(w, "Passed:          %d\n", s.passed)
	fmt.Fprintf(w, "Expected errors: %d\n", s.expectedErr)
	fmt.Fprintf(w, "Failed:          %d\n", s.failed)
	fmt.Fprintf(w, "Total:           %d\n", len(results))
	return s
}

func main() {
	opts, optind, err := getopt.Getopts(os.Args, "qd:")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: lox-check [-q] [-d DIR] [FILE...]")
		os.Exit(2)
	}

	var (
		files []string
		quiet bool
	)
	for _, opt := range opts {
		switch opt.Option {
		case 'q':
			quiet = true
		case 'd':
			found, err := findLoxFiles(opt.Value)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error scanning directory %s: %v\n", opt.Value, err)
				os.Exit(2)
			}
			files = append(files, found...)
		}
	}
	files = append(files, os.Args[optind:]...)

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No .lox files found")
		fmt.Fprintln(os.Stderr, "Usage: lox-check [-q] [-d DIR] [FILE...]")
		os.Exit(2)
	}

	results := make([]checkResult, 0, len(files))
	for _, f := range files {
		results = append(results, checkFile(f))
	}

	if s := report(os.Stdout, results, quiet); s.failed > 0 {
		os.Exit(1)
	}
}
