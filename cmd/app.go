// Package cmd implements the QuackScript CLI/REPL shell: the ambient
// entry point wrapping lexer -> parser -> evaluator, with a run/runFile/
// runPrompt split and this project's config and attribute/stdlib wiring.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/quackscript/quack/internal/ast"
	"github.com/quackscript/quack/internal/attrs"
	"github.com/quackscript/quack/internal/config"
	"github.com/quackscript/quack/internal/host"
	"github.com/quackscript/quack/internal/interpreter"
	"github.com/quackscript/quack/internal/lexer"
	"github.com/quackscript/quack/internal/parser"
	"github.com/quackscript/quack/internal/stdlib"
)

// App is the QuackScript CLI: a single interpreter wired with the
// standard library and the default console host.
type App struct {
	err error
	cfg config.Configuration
	in  *interpreter.Interpreter
}

// NewApp constructs an App from a resolved Configuration.
func NewApp(cfg config.Configuration) *App {
	h := host.NewConsole()
	registry := attrs.New()
	stdlib.RegisterAttrs(registry)

	in := interpreter.New(h, registry)
	stdlib.Register(in)

	return &App{cfg: cfg, in: in}
}

// ParseArgs builds a Configuration from raw CLI arguments using the
// standard flag.FlagSet.
func ParseArgs(args []string) (config.Configuration, error) {
	fs := flag.NewFlagSet("quack", flag.ContinueOnError)
	printAST := fs.Bool("print-ast", false, "print the parsed module before evaluating it")
	profile := fs.String("profile", "", "resolver/lint profile (reserved)")

	if err := fs.Parse(args); err != nil {
		return config.Configuration{}, err
	}

	cfg := config.Configuration{PrintAST: *printAST, Profile: *profile}
	switch fs.NArg() {
	case 0:
		// REPL mode.
	case 1:
		cfg.ScriptPath = fs.Arg(0)
	default:
		return config.Configuration{}, errors.New("usage: quack [flags] [script]")
	}
	return cfg, nil
}

func (app *App) reportError(err error) {
	fmt.Fprintln(os.Stderr, err)
	app.err = err
}

// Main runs the app and returns a process exit code.
func (app *App) Main() int {
	var err error
	if app.cfg.ScriptPath != "" {
		err = app.runFile(app.cfg.ScriptPath)
	} else {
		err = app.runPrompt()
	}

	if err != nil {
		app.reportError(err)
	}

	if app.err != nil {
		return 64
	}

	return 0
}

func (app *App) resetError() {
	app.err = nil
}

func (app *App) runPrompt() error {
	rl, err := readline.New("🦆 ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		err = app.run(line)
		if err != nil {
			app.reportError(err)
			app.resetError()
		}
	}
}

func (app *App) runFile(scriptPath string) error {
	bytes, err := os.ReadFile(scriptPath)
	if err != nil {
		return err
	}

	return app.run(string(bytes))
}

func (app *App) run(source string) error {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return err
	}

	module, err := parser.Parse(tokens)
	if err != nil {
		return err
	}

	if app.cfg.PrintAST {
		fmt.Fprintln(os.Stdout, ast.Sprint(module))
	}

	return app.in.Execute(module)
}
