package clang

import "fmt"

// InitError means the clang front end could not be found or started.
// It is fatal for the whole run.
type InitError struct {
	Binary string
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("clang front end %q unavailable: %v", e.Binary, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ParseError means clang ran but produced no usable AST for a file.
type ParseError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Stderr != "":
		return fmt.Sprintf("parse %s: %s", e.Path, e.Stderr)
	case e.Err != nil:
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("parse %s: no AST produced", e.Path)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
