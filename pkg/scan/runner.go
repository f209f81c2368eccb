package scan

import (
	"context"
	"log/slog"
	"time"

	"github.com/leapstack-labs/cncc/pkg/core"
	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome of scanning one file.
type FileResult struct {
	Path       string
	Violations []core.Violation
	Err        error
	Duration   time.Duration
}

// Runner scans a list of files, each independently, with up to Jobs
// scans in flight. Results reach the sink in input order.
type Runner struct {
	scanner *Scanner
	jobs    int
	logger  *slog.Logger
}

// NewRunner creates a Runner. jobs below 1 is treated as 1.
func NewRunner(scanner *Scanner, jobs int) *Runner {
	return &Runner{
		scanner: scanner,
		jobs:    max(jobs, 1),
		logger:  scanner.logger,
	}
}

// Run scans files against a scope made of the same files and hands each
// result to sink from the calling goroutine. A file that fails to parse
// does not stop the others. Run returns the context error if the run was
// cancelled, otherwise nil.
func (r *Runner) Run(ctx context.Context, files []string, sink func(FileResult)) error {
	return r.RunWithScope(ctx, files, NewScope(files...), sink)
}

// RunWithScope is Run with an explicit scope, so a subset of the inputs
// can be rescanned while declarations in the other inputs still count.
func (r *Runner) RunWithScope(ctx context.Context, files []string, scope *Scope, sink func(FileResult)) error {
	if r.jobs == 1 {
		for _, f := range files {
			sink(r.scanOne(ctx, f, scope))
		}
		return ctx.Err()
	}

	results := make([]FileResult, len(files))
	done := make([]chan struct{}, len(files))
	for i := range done {
		done[i] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, f := range files {
			g.Go(func() error {
				defer close(done[i])
				results[i] = r.scanOne(gctx, f, scope)
				return nil
			})
		}
	}()

	for i := range files {
		<-done[i]
		sink(results[i])
	}

	<-launched
	_ = g.Wait()
	return ctx.Err()
}

func (r *Runner) scanOne(ctx context.Context, path string, scope *Scope) FileResult {
	start := time.Now()
	res := FileResult{Path: path}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	res.Violations, res.Err = r.scanner.Collect(ctx, path, scope)
	res.Duration = time.Since(start)

	if res.Err != nil {
		r.logger.Debug("scan failed", "file", path, "error", res.Err)
	} else {
		r.logger.Debug("scanned", "file", path, "violations", len(res.Violations), "duration", res.Duration)
	}
	return res
}
