package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// WriteFile creates path (and its parent directories) with content.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// FakeClang describes a shell script that stands in for the clang
// binary. Each invocation appends its argv, one argument per line, to
// ArgvFile and then replays the configured output.
type FakeClang struct {
	Bin      string
	ArgvFile string
}

// FakeClangOptions configures NewFakeClang.
type FakeClangOptions struct {
	// Stdout is a file whose contents are printed to stdout. When
	// ByBasename is set it is ignored.
	Stdout string
	// ByBasename maps the base name of the last argument (the source
	// file) to a stdout fixture. Unmatched files produce no output.
	ByBasename map[string]string
	// Stderr is echoed to stderr. It must not contain single quotes.
	Stderr   string
	ExitCode int
}

// NewFakeClang writes an executable fake clang into a temp directory.
// Tests are skipped on platforms without a POSIX shell.
func NewFakeClang(t testing.TB, opts FakeClangOptions) *FakeClang {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}

	dir := t.TempDir()
	fc := &FakeClang{
		Bin:      filepath.Join(dir, "clang"),
		ArgvFile: filepath.Join(dir, "argv"),
	}

	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	script.WriteString("printf '%s\\n' \"$@\" >> '" + fc.ArgvFile + "'\n")
	switch {
	case len(opts.ByBasename) > 0:
		script.WriteString("for last; do :; done\n")
		script.WriteString("case \"$(basename \"$last\")\" in\n")
		for name, fixture := range opts.ByBasename {
			script.WriteString("  " + name + ") cat '" + absPath(t, fixture) + "' ;;\n")
		}
		script.WriteString("esac\n")
	case opts.Stdout != "":
		script.WriteString("cat '" + absPath(t, opts.Stdout) + "'\n")
	}
	if opts.Stderr != "" {
		script.WriteString("echo '" + opts.Stderr + "' >&2\n")
	}
	script.WriteString("exit " + strconv.Itoa(opts.ExitCode) + "\n")

	if err := os.WriteFile(fc.Bin, []byte(script.String()), 0o755); err != nil {
		t.Fatalf("write fake clang: %v", err)
	}
	return fc
}

// Argv returns every argument recorded so far across all invocations.
func (fc *FakeClang) Argv(t testing.TB) []string {
	t.Helper()
	data, err := os.ReadFile(fc.ArgvFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read argv: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func absPath(t testing.TB, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("abs %s: %v", path, err)
	}
	return abs
}
