// Command lox is the lox interpreter CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"golang.org/x/term"

	"nickandperla.net/lox/internal/config"
	"nickandperla.net/lox/pkg/lox"
)

// Exit codes follow sysexits.h.
const (
	exitOK      = 0
	exitUsage   = 64
	exitSyntax  = 65
	exitRuntime = 70
	exitIO      = 74
)

const usage = `usage: lox [-hnv] [-c config] [-d db] [-e source] [-m mode] [file]

options:
  -c FILE    config file (default $LOX_CONFIG or ~/.config/lox/config.yaml)
  -d FILE    SQLite database path
  -e SOURCE  evaluate SOURCE and print the value of its last expression
  -m MODE    persist mode: on_demand, always, or never
  -n         do not load the prelude
  -v         debug logging to stderr
  -h         show this help
`

var (
	errColor  = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	opts, optind, err := getopt.Getopts(args, "c:d:e:m:nvh")
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: %v\n%s", err, usage)
		return exitUsage
	}
	args = args[optind:]

	var (
		configPath = config.DefaultPath()
		dbPath     string
		evalStr    string
		haveEval   bool
		modeStr    string
		noPrelude  bool
		verbose    bool
	)
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			configPath = opt.Value
		case 'd':
			dbPath = opt.Value
		case 'e':
			evalStr, haveEval = opt.Value, true
		case 'm':
			modeStr = opt.Value
		case 'n':
			noPrelude = true
		case 'v':
			verbose = true
		case 'h':
			fmt.Print(usage)
			return exitOK
		}
	}
	if len(args) > 1 || (haveEval && len(args) > 0) {
		fmt.Fprint(os.Stderr, usage)
		return exitUsage
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		errColor.Fprintf(os.Stderr, "lox: %v\n", err)
		return exitUsage
	}

	// Flags override the config file.
	if dbPath != "" {
		cfg.DB = dbPath
	}
	if modeStr != "" {
		cfg.PersistMode = modeStr
	}
	if noPrelude {
		cfg.NoPrelude = true
	}
	if !cfg.Color {
		color.NoColor = true
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	mode, ok := lox.ParsePersistMode(cfg.PersistMode)
	if !ok {
		errColor.Fprintf(os.Stderr, "lox: unknown persist mode: %s (use on_demand, always, or never)\n", cfg.PersistMode)
		return exitUsage
	}

	// Build options
	rtOpts := []lox.Option{
		lox.WithSQLiteStore(cfg.DB),
		lox.WithPersistMode(mode),
		lox.WithLogger(logger),
		lox.WithOutput(os.Stdout),
	}
	if cfg.NoPrelude {
		rtOpts = append(rtOpts, lox.WithNoStdlib())
	} else if cfg.Prelude != "" {
		src, err := os.ReadFile(cfg.Prelude)
		if err != nil {
			errColor.Fprintf(os.Stderr, "lox: prelude: %v\n", err)
			return exitUsage
		}
		rtOpts = append(rtOpts, lox.WithPrelude(string(src)))
	}

	runtime := lox.New(rtOpts...)
	defer runtime.Close()
	if err := runtime.StoreErr(); err != nil {
		warnColor.Fprintf(os.Stderr, "lox: %s: %v (bindings will not persist)\n", cfg.DB, err)
	}

	switch {
	case len(args) == 1:
		src, err := os.ReadFile(args[0])
		if err != nil {
			errColor.Fprintf(os.Stderr, "lox: %v\n", err)
			return exitIO
		}
		return runSource(runtime, string(src), false)

	case haveEval:
		return runSource(runtime, evalStr, true)

	case !term.IsTerminal(int(os.Stdin.Fd())):
		// Piped input
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			errColor.Fprintf(os.Stderr, "lox: reading stdin: %v\n", err)
			return exitIO
		}
		return runSource(runtime, string(src), false)

	default:
		return runREPL(runtime, cfg)
	}
}

// runSource runs a whole program, reports every error against src and maps
// the outcome to an exit code. Syntax errors take precedence.
func runSource(runtime *lox.Runtime, src string, echo bool) int {
	res, err := runtime.Run(src)
	if err != nil {
		errColor.Fprintf(os.Stderr, "lox: %v\n", err)
		return exitIO
	}
	reportErrors(res, src)
	if echo && res.HasValue {
		fmt.Println(res.Value)
	}
	switch {
	case len(res.SyntaxErrors) > 0:
		return exitSyntax
	case len(res.RuntimeErrors) > 0:
		return exitRuntime
	}
	return exitOK
}

func reportErrors(res *lox.Result, src string) {
	for _, e := range res.SyntaxErrors {
		printError(lox.WrapErrorWithSource(e, src))
	}
	for _, e := range res.RuntimeErrors {
		printError(lox.WrapErrorWithSource(e, src))
	}
}

func printError(err error) {
	msg := err.Error()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	errColor.Fprint(os.Stderr, msg)
}
