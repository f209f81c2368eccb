// Package clang implements core.Provider by running the clang driver with
// -ast-dump=json and decoding its output.
package clang

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/leapstack-labs/cncc/pkg/core"
)

// DefaultBinary is the clang driver looked up on PATH.
const DefaultBinary = "clang"

var dumpArgs = []string{"-fsyntax-only", "-fno-color-diagnostics", "-Xclang", "-ast-dump=json"}

// Config configures a Provider.
type Config struct {
	Binary    string   // driver name or path, DefaultBinary when empty
	ExtraArgs []string // passed before the per-file arguments
	Logger    *slog.Logger
}

// Provider parses files by invoking clang once per file.
type Provider struct {
	binary    string
	extraArgs []string
	logger    *slog.Logger
}

var _ core.Provider = (*Provider)(nil)

// New resolves the clang binary. A missing binary yields *InitError.
func New(cfg Config) (*Provider, error) {
	name := cfg.Binary
	if name == "" {
		name = DefaultBinary
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, &InitError{Binary: name, Err: err}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("using clang front end", "binary", path)

	return &Provider{
		binary:    path,
		extraArgs: cfg.ExtraArgs,
		logger:    logger,
	}, nil
}

// Binary returns the resolved driver path.
func (p *Provider) Binary() string { return p.binary }

// Parse runs clang on path with args and decodes the AST. Diagnostics
// that still yield an AST are logged at debug level; a run without any
// AST output is a *ParseError.
func (p *Provider) Parse(ctx context.Context, path string, args []string) (core.Node, error) {
	argv := p.commandLine(path, args)
	p.logger.Debug("running clang", "file", path, "argv", argv)

	cmd := exec.CommandContext(ctx, p.binary, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil {
		if errors.Is(runErr, exec.ErrNotFound) {
			return nil, &InitError{Binary: p.binary, Err: runErr}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}

	diag := strings.TrimSpace(stderr.String())
	if stdout.Len() == 0 {
		return nil, &ParseError{Path: path, Stderr: diag, Err: runErr}
	}
	if runErr != nil || diag != "" {
		p.logger.Debug("clang reported diagnostics", "file", path, "error", runErr, "stderr", diag)
	}

	root, err := Decode(&stdout)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return root, nil
}

func (p *Provider) commandLine(path string, args []string) []string {
	argv := make([]string, 0, len(dumpArgs)+len(p.extraArgs)+len(args)+1)
	argv = append(argv, dumpArgs...)
	argv = append(argv, p.extraArgs...)
	argv = append(argv, SanitizeArgs(args)...)
	return append(argv, path)
}

// Flags whose value is the following token.
var valueFlags = map[string]bool{
	"-I": true, "-D": true, "-U": true, "-F": true,
	"-include": true, "-include-pch": true, "-imacros": true, "-isystem": true, "-iquote": true,
	"-idirafter": true, "-iprefix": true, "-iwithprefix": true,
	"-isysroot": true, "--sysroot": true, "-x": true,
	"-target": true, "-arch": true,
	"-Xclang": true, "-Xpreprocessor": true, "-Xanalyzer": true,
}

// Output flags that make no sense for a syntax-only run.
var droppedFlags = map[string]bool{
	"-c": true, "-MD": true, "-MMD": true, "-MP": true, "-M": true, "-MM": true,
}

var droppedValueFlags = map[string]bool{
	"-o": true, "-MF": true, "-MT": true, "-MQ": true,
}

// SanitizeArgs removes positional inputs and output-producing flags from
// a recorded compile command. The file under inspection is appended by
// the provider itself, so positional tokens would add extra inputs.
func SanitizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case droppedValueFlags[a]:
			i++
		case droppedFlags[a]:
		case valueFlags[a]:
			out = append(out, a)
			if i+1 < len(args) {
				out = append(out, args[i+1])
				i++
			}
		case strings.HasPrefix(a, "-"):
			out = append(out, a)
		default:
			// positional: an input file or a second driver name
		}
	}
	return out
}
