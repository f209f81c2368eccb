package output

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/cncc/pkg/core"
)

// Summary counts the outcome of a run.
type Summary struct {
	Files      int `json:"files"`
	Violations int `json:"violations"`
	Suppressed int `json:"suppressed"`
	Failed     int `json:"failed"`
}

// FileError is a file that could not be scanned.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Document is the JSON mode output.
type Document struct {
	Violations []core.Violation `json:"violations"`
	Errors     []FileError      `json:"errors,omitempty"`
	Summary    Summary          `json:"summary"`
}

type ruleCount struct {
	name    string
	pattern string
	count   int
}

// Reporter renders violations as they arrive. In JSON mode it buffers
// them until Close.
type Reporter struct {
	r        *Renderer
	summary  Summary
	buffered []core.Violation
	errors   []FileError
	rules    map[string]*ruleCount
	order    []string
}

// NewReporter creates a Reporter on r.
func NewReporter(r *Renderer) *Reporter {
	return &Reporter{
		r:        r,
		buffered: []core.Violation{},
		rules:    make(map[string]*ruleCount),
	}
}

// Report emits one violation.
func (rep *Reporter) Report(v core.Violation) {
	rep.summary.Violations++

	key := v.RuleName + "\x00" + v.Pattern
	rc, ok := rep.rules[key]
	if !ok {
		rc = &ruleCount{name: v.RuleName, pattern: v.Pattern}
		rep.rules[key] = rc
		rep.order = append(rep.order, key)
	}
	rc.count++

	if rep.r.EffectiveMode() == ModeJSON {
		rep.buffered = append(rep.buffered, v)
		return
	}
	rep.r.Warn(v.Message())
}

// FileDone records a scanned file and how many of its violations the
// baseline suppressed.
func (rep *Reporter) FileDone(suppressed int) {
	rep.summary.Files++
	rep.summary.Suppressed += suppressed
}

// FileFailed records a file that could not be scanned.
func (rep *Reporter) FileFailed(path string, err error) {
	rep.summary.Failed++
	if rep.r.EffectiveMode() == ModeJSON {
		rep.errors = append(rep.errors, FileError{File: path, Error: err.Error()})
		return
	}
	rep.r.Error(fmt.Sprintf("%s: %v", path, err))
}

// Summary returns the counters so far.
func (rep *Reporter) Summary() Summary { return rep.summary }

// Close writes the JSON document in JSON mode. Other modes have nothing
// left to write.
func (rep *Reporter) Close() error {
	if rep.r.EffectiveMode() != ModeJSON {
		return nil
	}
	return rep.r.JSON(Document{
		Violations: rep.buffered,
		Errors:     rep.errors,
		Summary:    rep.summary,
	})
}

// RenderSummary prints a per-rule table followed by the totals. It is a
// no-op in JSON mode, where the summary is part of the document.
func (rep *Reporter) RenderSummary() {
	if rep.r.EffectiveMode() == ModeJSON {
		return
	}

	if len(rep.order) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(rep.r.Writer())
		if rep.r.EffectiveMode() == ModeText {
			t.SetStyle(table.StyleLight)
		} else {
			t.SetStyle(table.StyleDefault)
		}
		t.AppendHeader(table.Row{"Rule", "Pattern", "Violations"})
		for _, key := range rep.order {
			rc := rep.rules[key]
			t.AppendRow(table.Row{rc.name, rc.pattern, rc.count})
		}
		t.AppendFooter(table.Row{"", "Total", strconv.Itoa(rep.summary.Violations)})
		t.Render()
	}

	s := rep.summary
	line := fmt.Sprintf("%d violations in %d files", s.Violations, s.Files)
	if s.Suppressed > 0 {
		line += fmt.Sprintf(", %d suppressed by baseline", s.Suppressed)
	}
	if s.Failed > 0 {
		line += fmt.Sprintf(", %d files failed", s.Failed)
	}

	style := rep.r.Styles().Success
	if s.Violations > 0 || s.Failed > 0 {
		style = rep.r.Styles().Bold
	}
	rep.r.Println(style.Render(line))
}
