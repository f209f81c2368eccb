package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/leapstack-labs/cncc/internal/baseline"
	"github.com/leapstack-labs/cncc/internal/clang"
	"github.com/leapstack-labs/cncc/internal/cli/output"
	"github.com/leapstack-labs/cncc/internal/watch"
	"github.com/leapstack-labs/cncc/pkg/compdb"
	"github.com/leapstack-labs/cncc/pkg/core"
	"github.com/leapstack-labs/cncc/pkg/scan"
	"github.com/leapstack-labs/cncc/pkg/style"
)

// ErrViolations is returned when violations were reported and the run
// was asked to fail on them.
var ErrViolations = errors.New("naming violations found")

// RunScan checks files against the configured style. Configuration
// problems abort before any file is parsed; a file that fails to parse is
// reported and the remaining files are still checked.
func RunScan(ctx context.Context, cc *CommandContext, files []string) error {
	if len(files) == 0 {
		cc.Logger.Debug("no input files")
		return nil
	}

	s, err := newScanSession(cc, files)
	if err != nil {
		return err
	}
	defer s.close()

	summary, err := s.pass(ctx, files)
	if err != nil {
		return err
	}

	if cc.Cfg.Watch {
		return s.watch(ctx, files)
	}
	return s.verdict(summary)
}

// scanSession holds what stays fixed across passes over the inputs.
type scanSession struct {
	cc       *CommandContext
	provider *clang.Provider
	resolver scan.ArgumentResolver
	registry *style.Registry
	store    *baseline.Store
	scope    *scan.Scope
}

func newScanSession(cc *CommandContext, files []string) (*scanSession, error) {
	cfg := cc.Cfg

	registry, err := style.LoadFile(cfg.Style)
	if err != nil {
		return nil, err
	}
	cc.Logger.Debug("style loaded", "path", cfg.Style, "rules", registry.Len())

	s := &scanSession{
		cc:       cc,
		registry: registry,
		scope:    scan.NewScope(files...),
	}

	if cfg.DBDir != "" {
		db, err := compdb.Load(cfg.DBDir)
		if err != nil {
			return nil, err
		}
		cc.Logger.Debug("compilation database loaded", "dir", db.Dir(), "commands", db.Len())
		s.resolver = compdb.NewResolver(db).RebasePaths()
	}

	s.provider, err = clang.New(clang.Config{
		Binary:    cfg.Clang,
		ExtraArgs: cfg.ClangArgs,
		Logger:    cc.Logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Baseline != "" {
		s.store, err = baseline.Open(cfg.Baseline, cc.Logger)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *scanSession) close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.cc.Logger.Warn("failed to close baseline", "error", err)
		}
	}
}

// pass scans files once and reports the results. The scope always spans
// every input, so a partial pass judges headers the same way a full one
// does.
func (s *scanSession) pass(ctx context.Context, files []string) (output.Summary, error) {
	reporter := output.NewReporter(s.cc.Renderer)

	var run *baseline.Run
	if s.store != nil {
		var err error
		if run, err = s.store.BeginRun(ctx); err != nil {
			return output.Summary{}, err
		}
	}

	scanner := scan.New(scan.Config{
		Provider: s.provider,
		Registry: s.registry,
		Resolver: s.resolver,
		Logger:   s.cc.Logger,
	})

	var storeErr, initErr error
	sink := func(res scan.FileResult) {
		if res.Err != nil {
			var ie *clang.InitError
			if errors.As(res.Err, &ie) && initErr == nil {
				initErr = res.Err
			}
			reporter.FileFailed(res.Path, res.Err)
			return
		}

		kept, suppressed := res.Violations, 0
		if s.store != nil && storeErr == nil {
			kept, suppressed, storeErr = s.applyBaseline(ctx, run.ID, res)
		}
		for _, v := range kept {
			reporter.Report(v)
		}
		reporter.FileDone(suppressed)
	}

	runErr := scan.NewRunner(scanner, s.cc.Cfg.Jobs).RunWithScope(ctx, files, s.scope, sink)
	summary := reporter.Summary()

	if run != nil {
		run.Files, run.Violations, run.Suppressed = summary.Files, summary.Violations, summary.Suppressed
		status := baseline.RunStatusCompleted
		if runErr != nil || storeErr != nil || initErr != nil {
			status = baseline.RunStatusFailed
		}
		if err := s.store.CompleteRun(context.WithoutCancel(ctx), run, status); err != nil {
			s.cc.Logger.Warn("failed to record run", "error", err)
		}
	}

	if s.cc.Cfg.Summary {
		reporter.RenderSummary()
	}
	if err := reporter.Close(); err != nil {
		return summary, err
	}

	switch {
	case initErr != nil:
		return summary, initErr
	case storeErr != nil:
		return summary, fmt.Errorf("baseline: %w", storeErr)
	case runErr != nil:
		return summary, runErr
	}
	return summary, nil
}

// applyBaseline either records the file's violations as the new baseline
// or drops those the baseline already knows.
func (s *scanSession) applyBaseline(ctx context.Context, runID string, res scan.FileResult) ([]core.Violation, int, error) {
	if s.cc.Cfg.UpdateBaseline {
		return res.Violations, 0, s.store.Replace(ctx, runID, res.Path, res.Violations)
	}
	kept, suppressed, err := s.store.Filter(ctx, res.Violations)
	if err != nil {
		return res.Violations, 0, err
	}
	return kept, suppressed, nil
}

func (s *scanSession) verdict(summary output.Summary) error {
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files could not be parsed", summary.Failed, summary.Files+summary.Failed)
	}
	if s.cc.Cfg.FailOnViolation && summary.Violations > 0 {
		return fmt.Errorf("%w: %d", ErrViolations, summary.Violations)
	}
	return nil
}

// watch re-checks inputs as they change until interrupted.
func (s *scanSession) watch(ctx context.Context, files []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := watch.New(append(slices.Clone(files), s.cc.Cfg.Style), watch.DefaultDebounce, s.cc.Logger)
	if err != nil {
		return err
	}

	r := s.cc.Renderer
	_, _ = fmt.Fprintln(r.ErrWriter(), r.Styles().Muted.Render(
		fmt.Sprintf("watching %d files for changes (ctrl-c to stop)", len(files))))

	return w.Run(ctx, func(ctx context.Context, changed []string) {
		if err := s.rescan(ctx, files, changed); err != nil && !errors.Is(err, context.Canceled) {
			r.Error(err.Error())
		}
	})
}

// rescan re-checks the changed inputs. A changed style file reloads the
// rules and re-checks every input; if it no longer loads, the previous
// rules stay in effect.
func (s *scanSession) rescan(ctx context.Context, files, changed []string) error {
	targets := changed
	if slices.Contains(changed, s.cc.Cfg.Style) {
		registry, err := style.LoadFile(s.cc.Cfg.Style)
		if err != nil {
			return fmt.Errorf("style not reloaded: %w", err)
		}
		s.registry = registry
		s.cc.Logger.Debug("style reloaded", "path", s.cc.Cfg.Style, "rules", registry.Len())
		targets = files
	}

	targets = slices.DeleteFunc(slices.Clone(targets), func(f string) bool {
		return !s.scope.Contains(f)
	})
	if len(targets) == 0 {
		return nil
	}
	_, err := s.pass(ctx, targets)
	return err
}
