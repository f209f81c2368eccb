// Package output renders cncc results for terminals, pipes and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto  Mode = "auto"  // text on a terminal, plain otherwise
	ModeText  Mode = "text"  // styled for terminals
	ModePlain Mode = "plain" // unstyled lines
	ModeJSON  Mode = "json"  // one JSON document on stdout
)

// Modes lists the accepted mode names.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModePlain), string(ModeJSON)}
}

// Renderer writes results to stdout and diagnostics to stderr.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a Renderer, detecting whether errOut is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(errOut), mode)
}

// NewRendererWithTTY creates a Renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
	}

	lr := lipgloss.NewRenderer(errOut)
	if r.EffectiveMode() == ModeText && isTTY {
		lr.SetColorProfile(termenv.EnvColorProfile())
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	r.styles = newStyles(lr)
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModePlain
}

// IsTTY reports whether diagnostics go to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the styles for the current mode.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the result stream.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the diagnostic stream.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to the result stream.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to the result stream.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Warn writes a warning line to the diagnostic stream.
func (r *Renderer) Warn(msg string) {
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", r.styles.Warning.Render("warning:"), msg)
}

// Error writes an error line to the diagnostic stream.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", r.styles.Error.Render("error:"), msg)
}

// JSON writes v as indented JSON to the result stream.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
