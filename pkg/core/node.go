package core

import (
	"context"
	"fmt"
	"iter"
)

// Location is the position of a node in its originating source file.
type Location struct {
	File   string // empty when the node has no concrete originating file
	Line   int    // 1-based line number
	Column int    // 1-based column number
}

// HasFile reports whether the location names a concrete file.
func (l Location) HasFile() bool {
	return l.File != ""
}

// String formats the location as file:line:column.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Node is the single capability interface for every parsed AST node.
// Rule matching only ever inspects these common fields, so the parser's
// polymorphic node types are not modelled as separate Go types.
type Node interface {
	// Kind returns the declaration kind, KindInvalid for non-declarations.
	Kind() Kind
	// Spelling returns the bare identifier text; empty for anonymous nodes.
	Spelling() string
	// DisplayName returns the human-readable name used in diagnostics.
	DisplayName() string
	// Location returns where the node originates.
	Location() Location
	// Access returns the access level, AccessNone when not applicable.
	Access() AccessLevel
	// Children returns the direct children in declaration order.
	Children() []Node
}

// Provider parses a source file into an AST.
// Implementations are the external compiler front end.
type Provider interface {
	Parse(ctx context.Context, path string, args []string) (Node, error)
}

// Walk returns a pre-order traversal of the tree rooted at root:
// parent before children, children in declaration order.
func Walk(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(root, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, child := range n.Children() {
		if !walk(child, yield) {
			return false
		}
	}
	return true
}
