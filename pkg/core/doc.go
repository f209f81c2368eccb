// Package core defines the shared language of the cncc system.
//
// This package contains:
//   - The declaration-kind vocabulary (Kind) and access levels (AccessLevel)
//   - The polymorphic AST node contract consumed from a parser (Node, Provider)
//   - Source locations and pre-order traversal (Location, Walk)
//   - Diagnostic records produced by a scan (Violation)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
