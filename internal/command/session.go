package command

import (
	"bufio"
	"fmt"
	"io"
)

// DefaultPrompt is the line prompt shown when no configuration overrides it.
const DefaultPrompt = "Enter command: "

// Session runs the plain-text REPL: prompt, read one line, execute, print,
// until a farewell command or end of input.
type Session struct {
	exec   *Executor
	prompt string
}

// NewSession creates a Session over exec. An empty prompt disables
// prompting, which suits scripted input.
func NewSession(exec *Executor, prompt string) *Session {
	return &Session{exec: exec, prompt: prompt}
}

// Run reads command lines from r and writes prompts and results to w.
// It returns when a farewell command is executed or r is exhausted, or
// with an error if reading fails.
func (s *Session) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for {
		if s.prompt != "" {
			if _, err := fmt.Fprint(w, s.prompt); err != nil {
				return fmt.Errorf("command: writing prompt: %w", err)
			}
		}
		if !scanner.Scan() {
			break
		}

		out, quit := s.exec.Execute(scanner.Text())
		if out != "" {
			if _, err := fmt.Fprintln(w, out); err != nil {
				return fmt.Errorf("command: writing output: %w", err)
			}
		}
		if quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("command: reading input: %w", err)
	}
	return nil
}
