package command

import (
	"strings"
	"testing"
)

func TestSession_RunUntilFarewell(t *testing.T) {
	sess := NewSession(newExecutor(), "")
	in := strings.NewReader("add Alice 1234567890\nphone Alice\ngood bye\nadd Bob 0987654321\n")
	var out strings.Builder

	if err := sess.Run(in, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Contact Alice added with phone 1234567890",
		"Phone numbers for Alice: 1234567890",
		"Good bye!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q in:\n%s", want, got)
		}
	}
	// Input after the farewell is not executed.
	if strings.Contains(got, "Bob") {
		t.Errorf("output contains post-farewell command result:\n%s", got)
	}
}

func TestSession_RunUntilEOF(t *testing.T) {
	sess := NewSession(newExecutor(), "> ")
	in := strings.NewReader("hello\n")
	var out strings.Builder

	if err := sess.Run(in, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "How can I help you?") {
		t.Errorf("output missing greeting:\n%s", got)
	}
	if !strings.HasPrefix(got, "> ") {
		t.Errorf("output missing custom prompt:\n%s", got)
	}
}

func TestSession_ErrorLinesAreRendered(t *testing.T) {
	sess := NewSession(newExecutor(), "")
	in := strings.NewReader("add x 123\n")
	var out strings.Builder

	if err := sess.Run(in, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Error: ") {
		t.Errorf("output missing Error line:\n%s", out.String())
	}
}
