package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/smileynet/rolodex/internal/book"
	"github.com/smileynet/rolodex/internal/command"
	"github.com/smileynet/rolodex/internal/config"
	"github.com/smileynet/rolodex/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for rolodex.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Repl    ReplCmd          `cmd:"" default:"1" help:"Start an interactive contact book session."`
	Exec    ExecCmd          `cmd:"" help:"Execute commands from a file or stdin."`
}

// ReplCmd starts the interactive session: a TUI when stdout is a terminal,
// a plain line REPL otherwise.
type ReplCmd struct {
	Plain  bool   `help:"Force plain line output even if stdout is a TTY." default:"false"`
	Config string `help:"Extra config file applied after the default layers." type:"path"`
}

// ExecCmd runs commands from a file (or stdin when no file is given),
// printing each result. Execution stops at a farewell command or EOF.
type ExecCmd struct {
	File   string `arg:"" optional:"" help:"Command file to execute (defaults to stdin)." type:"existingfile"`
	Config string `help:"Extra config file applied after the default layers." type:"path"`
}

// setupError marks failures that happen before any command runs, so they
// map to the setup exit code.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

// loadConfig loads layered config from user and project paths with env
// overrides, plus an optional extra file with highest priority.
func loadConfig(extra string) (*config.Config, error) {
	paths := []string{
		os.ExpandEnv("$HOME/.config/rolodex/config.yaml"),
		".rolodex/config.yaml",
	}
	if extra != "" {
		paths = append(paths, extra)
	}

	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, &setupError{err}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, &setupError{err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &setupError{err}
	}
	return cfg, nil
}

// newExecutor builds the contact book and its command executor from config.
func newExecutor(cfg *config.Config) *command.Executor {
	b := book.New()
	b.PageSize = cfg.Book.PageSize
	b.DedupePhones = cfg.Book.DedupePhones

	leap := book.LeapNormalize
	if cfg.Book.LeapPolicy == string(book.LeapStrict) {
		leap = book.LeapStrict
	}
	return command.New(b, command.WithLeapPolicy(leap))
}

// Run executes the repl command.
func (r *ReplCmd) Run() error {
	cfg, err := loadConfig(r.Config)
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}

	exec := newExecutor(cfg)

	if r.Plain || cfg.Session.Plain || !tui.IsTTY(os.Stdout) {
		sess := command.NewSession(exec, cfg.Session.Prompt)
		return sess.Run(os.Stdin, os.Stdout)
	}
	return tui.Run(exec, cfg.Session.Prompt, os.Stdout)
}

// Run executes the exec command.
func (e *ExecCmd) Run() error {
	cfg, err := loadConfig(e.Config)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	in := io.Reader(os.Stdin)
	if e.File != "" {
		f, err := os.Open(e.File)
		if err != nil {
			return fmt.Errorf("exec: %w", &setupError{err})
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	return e.run(in, os.Stdout, newExecutor(cfg))
}

// run executes the command stream from in, enabling testable wiring.
// Scripted input gets no prompt.
func (e *ExecCmd) run(in io.Reader, w io.Writer, exec *command.Executor) error {
	sess := command.NewSession(exec, "")
	return sess.Run(in, w)
}

// Exit codes.
const (
	exitSuccess = 0
	exitCommand = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *setupError
	if errors.As(err, &se) {
		return exitSetup
	}
	return exitCommand
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Vars{"version": version + " " + commit + " " + date})
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
