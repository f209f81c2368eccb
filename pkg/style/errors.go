package style

import "fmt"

// ConfigNotFoundError is returned when the rule file does not exist.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("style file not found: %s", e.Path)
}

// ConfigError locates a rule-level failure inside a rule set.
// Use errors.As to reach the specific cause.
type ConfigError struct {
	Path  string // rule file, empty when rules did not come from a file
	Index int    // 0-based position of the offending rule
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: rule %d: %v", e.Path, e.Index+1, e.Err)
	}
	return fmt.Sprintf("rule %d: %v", e.Index+1, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// UnknownKindError is returned when a rule names a kind outside the known
// vocabulary. Suggestion holds the closest known name, if any.
type UnknownKindError struct {
	Name       string
	Suggestion string
}

func (e *UnknownKindError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown kind %q, did you mean %q?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown kind %q", e.Name)
}

// MissingFieldError is returned when a rule lacks a required key.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// PatternError is returned when a rule's pattern is not a valid regular expression.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// InvalidAccessError is returned when access_specifier is not one of
// public, protected or private.
type InvalidAccessError struct {
	Value string
}

func (e *InvalidAccessError) Error() string {
	return fmt.Sprintf("invalid access_specifier %q, expected public, protected or private", e.Value)
}
