package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// errExitCalled is a sentinel used to catch kong's os.Exit calls in tests.
var errExitCalled = errors.New("exit called")

func TestVersionFlag(t *testing.T) {
	var cli CLI
	var buf bytes.Buffer
	versionStr := "v1.0.0 abc1234 2026-01-01T00:00:00Z"
	k, err := kong.New(&cli,
		kong.Vars{"version": versionStr},
		kong.Writers(&buf, &buf),
		kong.Exit(func(int) { panic(errExitCalled) }),
	)
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic from --version flag")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, errExitCalled) {
			panic(r)
		}

		output := buf.String()
		for _, want := range []string{"v1.0.0", "abc1234", "2026-01-01T00:00:00Z"} {
			if !strings.Contains(output, want) {
				t.Errorf("version output = %q, want to contain %q", output, want)
			}
		}
	}()

	_, _ = k.Parse([]string{"--version"})
}

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != exitSuccess {
		t.Errorf("exitCode(nil) = %d, want %d", got, exitSuccess)
	}
	if got := exitCode(errors.New("boom")); got != exitCommand {
		t.Errorf("exitCode(plain) = %d, want %d", got, exitCommand)
	}

	wrapped := &setupError{errors.New("bad config")}
	if got := exitCode(wrapped); got != exitSetup {
		t.Errorf("exitCode(setup) = %d, want %d", got, exitSetup)
	}
	// Setup errors stay recognizable through fmt wrapping.
	if got := exitCode(errors.Join(errors.New("repl:"), wrapped)); got != exitSetup {
		t.Errorf("exitCode(wrapped setup) = %d, want %d", got, exitSetup)
	}
}

func TestLoadConfig_ExtraFileWins(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // isolate from any real user config
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(extra, []byte("book:\n  page_size: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(extra)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Book.PageSize != 2 {
		t.Errorf("page size = %d, want 2", cfg.Book.PageSize)
	}
}

func TestLoadConfig_InvalidIsSetupError(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // isolate from any real user config
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(extra, []byte("book:\n  page_size: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := loadConfig(extra)
	if err == nil {
		t.Fatal("loadConfig(page_size 0) should fail validation")
	}
	var se *setupError
	if !errors.As(err, &se) {
		t.Errorf("error = %v, want setupError", err)
	}
}

func TestNewExecutor_AppliesBookSettings(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // isolate from any real user config
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(extra, []byte(`
book:
  page_size: 3
  dedupe_phones: true
  leap_policy: strict
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(extra)
	if err != nil {
		t.Fatal(err)
	}

	exec := newExecutor(cfg)
	b := exec.Book()
	if b.PageSize != 3 {
		t.Errorf("PageSize = %d, want 3", b.PageSize)
	}
	if !b.DedupePhones {
		t.Error("DedupePhones = false, want true")
	}
}

func TestExecCmd_RunStream(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // isolate from any real user config
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}

	in := strings.NewReader("add Alice 1234567890\nphone Alice\nexit\n")
	var out bytes.Buffer

	cmd := &ExecCmd{}
	if err := cmd.run(in, &out, newExecutor(cfg)); err != nil {
		t.Fatalf("run() error = %v", err)
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
	// Scripted mode prints no prompt.
	if strings.Contains(got, "Enter command:") {
		t.Errorf("output contains prompt:\n%s", got)
	}
}
