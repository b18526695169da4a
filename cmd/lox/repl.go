package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/peterh/liner"

	"nickandperla.net/lox/internal/config"
	"nickandperla.net/lox/pkg/lox"
)

var valueColor = color.New(color.FgCyan)

const replHelp = `commands:
  :help          show this help
  :env           list global bindings
  :save          persist global bindings now
  :forget NAME   unbind NAME and remove it from the store
  :history [N]   show the last N inputs (default 20)
  :quit, exit    leave the REPL
`

// lineReader is the part of liner.State the REPL loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// basicReader reads lines without editing support.
type basicReader struct {
	in *bufio.Reader
}

func (b *basicReader) Prompt(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := b.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printBanner() {
	fmt.Printf("lox %s REPL\n", lox.Version)
	fmt.Println("Ctrl+C cancels input, Ctrl+D exits. Type :help for commands.")
	fmt.Println()
}

func runREPL(runtime *lox.Runtime, cfg config.Config) int {
	printBanner()
	session := uuid.NewString()

	if !liner.TerminalSupported() {
		// Not a TTY, fall back to basic mode
		replLoop(runtime, cfg, session, &basicReader{in: bufio.NewReader(os.Stdin)}, nil)
		return exitOK
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Seed line history from the store, oldest first.
	if entries, err := runtime.History(cfg.HistoryLimit); err == nil {
		for i := len(entries) - 1; i >= 0; i-- {
			ln.AppendHistory(strings.ReplaceAll(entries[i].Source, "\n", " "))
		}
	}

	replLoop(runtime, cfg, session, ln, ln)
	return exitOK
}

// replLoop reads, runs and echoes inputs until EOF or :quit. hist may be nil.
func replLoop(runtime *lox.Runtime, cfg config.Config, session string, in lineReader, hist *liner.State) {
	for {
		code, ok := readByParseProbe(in, cfg.Prompt, cfg.ContinuationPrompt)
		if !ok {
			fmt.Println()
			return
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if isCommand(trimmed) {
			if handleCommand(os.Stdout, runtime, trimmed) {
				return
			}
			continue
		}

		if hist != nil {
			hist.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		}
		if err := runtime.RecordHistory(session, code); err != nil {
			warnColor.Fprintf(os.Stderr, "history: %v\n", err)
		}

		res, err := runtime.Run(code)
		if err != nil {
			printError(err)
			continue
		}
		reportErrors(res, code)
		if res.HasValue {
			valueColor.Println(res.Value)
		}
	}
}

// readByParseProbe reads lines until the accumulated source parses or
// fails for a reason other than running out of input. An empty line always
// submits what has been typed so far.
func readByParseProbe(in lineReader, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := in.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if isCommand(strings.TrimSpace(src)) || !lox.Incomplete(src) {
			return src, true
		}
	}
}

func isCommand(line string) bool {
	return strings.HasPrefix(line, ":") || line == "exit"
}

// handleCommand runs a REPL command, writing its output to w, and reports
// whether to exit.
func handleCommand(w io.Writer, runtime *lox.Runtime, line string) (exit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", "exit":
		return true

	case ":help":
		fmt.Fprint(w, replHelp)

	case ":env":
		globals := runtime.Globals()
		bindings := globals.Bindings()
		for _, name := range globals.Names() {
			fmt.Fprintf(w, "%s = %s\n", name, valueColor.Sprint(bindings[name].String()))
		}

	case ":save":
		if !runtime.HasStore() {
			fmt.Fprintln(w, "no store configured; nothing saved")
			break
		}
		if runtime.PersistMode() == lox.PersistNever {
			fmt.Fprintln(w, "persist mode is NEVER; nothing saved")
			break
		}
		if err := runtime.Persist(); err != nil {
			printError(err)
			break
		}
		fmt.Fprintf(w, "saved %d bindings\n", len(runtime.Globals().Names()))

	case ":forget":
		if len(fields) != 2 {
			printError(fmt.Errorf("usage: :forget NAME"))
			break
		}
		found, err := runtime.Forget(fields[1])
		if err != nil {
			printError(err)
			break
		}
		if !found {
			fmt.Fprintf(w, "%s is not bound\n", fields[1])
			break
		}
		fmt.Fprintf(w, "forgot %s\n", fields[1])

	case ":history":
		limit := 20
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				printError(fmt.Errorf("usage: :history [N]"))
				break
			}
			limit = n
		}
		entries, err := runtime.History(limit)
		if err != nil {
			printError(err)
			break
		}
		for i := len(entries) - 1; i >= 0; i-- {
			fmt.Fprintf(w, "%5d  %s\n", entries[i].ID, strings.ReplaceAll(entries[i].Source, "\n", "\n       "))
		}

	default:
		fmt.Fprintln(w, "unknown command. Type :help for a list.")
	}
	return false
}
