package scan

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/leapstack-labs/cncc/pkg/core"
	"github.com/leapstack-labs/cncc/pkg/style"
)

// ArgumentResolver supplies the front-end arguments for a file.
type ArgumentResolver interface {
	ArgumentsFor(path string) []string
}

// Config holds the dependencies of a Scanner.
type Config struct {
	Provider core.Provider
	Registry *style.Registry
	Resolver ArgumentResolver // optional; nil parses without extra flags
	Logger   *slog.Logger     // optional
}

// Scanner checks one file at a time. It keeps no per-file state and may
// be shared across goroutines.
type Scanner struct {
	provider core.Provider
	registry *style.Registry
	resolver ArgumentResolver
	logger   *slog.Logger
}

// New creates a Scanner.
func New(cfg Config) *Scanner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{
		provider: cfg.Provider,
		registry: cfg.Registry,
		resolver: cfg.Resolver,
		logger:   logger,
	}
}

// Scan parses path and returns the violations of in-scope nodes in
// pre-order. Parse failures are returned unchanged. The returned sequence
// is lazy; it holds the parsed tree until iteration finishes.
func (s *Scanner) Scan(ctx context.Context, path string, scope *Scope) (iter.Seq[core.Violation], error) {
	if s.provider == nil {
		return nil, fmt.Errorf("scanner has no AST provider")
	}

	var args []string
	if s.resolver != nil {
		args = s.resolver.ArgumentsFor(path)
	}
	s.logger.Debug("parsing", "file", path, "args", args)

	root, err := s.provider.Parse(ctx, path, args)
	if err != nil {
		return nil, err
	}

	return func(yield func(core.Violation) bool) {
		for node := range core.Walk(root) {
			v, ok := s.check(node, scope)
			if !ok {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}, nil
}

// Collect scans path and gathers every violation.
func (s *Scanner) Collect(ctx context.Context, path string, scope *Scope) ([]core.Violation, error) {
	seq, err := s.Scan(ctx, path, scope)
	if err != nil {
		return nil, err
	}
	var out []core.Violation
	for v := range seq {
		out = append(out, v)
	}
	return out, nil
}

func (s *Scanner) check(node core.Node, scope *Scope) (core.Violation, bool) {
	loc := node.Location()
	if !loc.HasFile() || !scope.Contains(loc.File) {
		return core.Violation{}, false
	}

	rule, ok := s.registry.RuleFor(node.Kind(), node.Access())
	if !ok {
		return core.Violation{}, false
	}

	spelling := node.Spelling()
	if spelling == "" || rule.Conforms(spelling) {
		return core.Violation{}, false
	}

	return core.Violation{
		File:        loc.File,
		Line:        loc.Line,
		Column:      loc.Column,
		DisplayName: node.DisplayName(),
		Pattern:     rule.Pattern(),
		RuleName:    rule.Name(),
	}, true
}
