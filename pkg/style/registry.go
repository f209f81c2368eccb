package style

import "github.com/leapstack-labs/cncc/pkg/core"

// Registry holds an ordered rule set. It is immutable after Load and safe
// for concurrent readers.
type Registry struct {
	rules  []*Rule
	byKind map[core.Kind][]*Rule // file order preserved within each kind
}

// Load compiles descriptors into a Registry. The first invalid descriptor
// fails the whole set; no partial rule sets are returned.
func Load(descriptors []Descriptor) (*Registry, error) {
	return load(descriptors, "")
}

func load(descriptors []Descriptor, path string) (*Registry, error) {
	reg := &Registry{
		rules:  make([]*Rule, 0, len(descriptors)),
		byKind: make(map[core.Kind][]*Rule),
	}
	for i, d := range descriptors {
		rule, err := Compile(d)
		if err != nil {
			return nil, &ConfigError{Path: path, Index: i, Err: err}
		}
		reg.rules = append(reg.rules, rule)
		reg.byKind[rule.kind] = append(reg.byKind[rule.kind], rule)
	}
	return reg, nil
}

// RuleFor returns the first rule, in definition order, that governs a node
// of the given kind and access level.
func (r *Registry) RuleFor(kind core.Kind, access core.AccessLevel) (*Rule, bool) {
	if r == nil {
		return nil, false
	}
	for _, rule := range r.byKind[kind] {
		if rule.Applies(access) {
			return rule, true
		}
	}
	return nil, false
}

// Rules returns the rules in definition order.
func (r *Registry) Rules() []*Rule {
	if r == nil {
		return nil
	}
	out := make([]*Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}
