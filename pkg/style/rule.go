package style

import (
	"regexp"

	"github.com/leapstack-labs/cncc/pkg/core"
	"github.com/leapstack-labs/cncc/pkg/suggest"
)

// Descriptor is one raw rule as written in a rule file.
type Descriptor struct {
	Kind            string `mapstructure:"kind"`
	Pattern         string `mapstructure:"pattern"`
	AccessSpecifier string `mapstructure:"access_specifier"`
}

// Rule is a compiled, immutable naming rule.
type Rule struct {
	name    string
	kind    core.Kind
	access  core.AccessLevel // AccessNone: any access level
	pattern string
	re      *regexp.Regexp
}

// Compile validates a descriptor and compiles its pattern with full-match
// semantics.
func Compile(d Descriptor) (*Rule, error) {
	if d.Kind == "" {
		return nil, &MissingFieldError{Field: "kind"}
	}
	if d.Pattern == "" {
		return nil, &MissingFieldError{Field: "pattern"}
	}

	kind, ok := core.ParseKind(d.Kind)
	if !ok {
		e := &UnknownKindError{Name: d.Kind}
		e.Suggestion, _ = suggest.Closest(d.Kind, core.KindNames(), suggest.DefaultCutoff)
		return nil, e
	}

	access := core.AccessNone
	if d.AccessSpecifier != "" {
		if access, ok = core.ParseAccessLevel(d.AccessSpecifier); !ok {
			return nil, &InvalidAccessError{Value: d.AccessSpecifier}
		}
	}

	if _, err := regexp.Compile(d.Pattern); err != nil {
		return nil, &PatternError{Pattern: d.Pattern, Err: err}
	}
	re, err := regexp.Compile(`\A(?:` + d.Pattern + `)\z`)
	if err != nil {
		return nil, &PatternError{Pattern: d.Pattern, Err: err}
	}

	name := kind.String()
	if access != core.AccessNone {
		name = access.String() + ":" + name
	}

	return &Rule{
		name:    name,
		kind:    kind,
		access:  access,
		pattern: d.Pattern,
		re:      re,
	}, nil
}

// Name returns "<access>:<kind>" for access-qualified rules, else "<kind>".
func (r *Rule) Name() string { return r.name }

// Kind returns the declaration kind the rule governs.
func (r *Rule) Kind() core.Kind { return r.kind }

// Pattern returns the pattern text as written.
func (r *Rule) Pattern() string { return r.pattern }

// Access returns the access qualifier and whether one was specified.
func (r *Rule) Access() (core.AccessLevel, bool) {
	return r.access, r.access != core.AccessNone
}

// Applies reports whether the rule's access qualifier admits a node with
// the given access level.
func (r *Rule) Applies(access core.AccessLevel) bool {
	return r.access == core.AccessNone || access == core.AccessNone || access == r.access
}

// Conforms reports whether spelling fully matches the pattern.
func (r *Rule) Conforms(spelling string) bool {
	return r.re.MatchString(spelling)
}
