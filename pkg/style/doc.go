// Package style compiles a declarative naming-convention rule set into a
// Registry that resolves AST nodes to the rule that governs them.
//
// A rule file is YAML. The canonical form is a sequence of descriptors:
//
//	# ~/.cncc.style
//	- kind: class_decl
//	  pattern: "([A-Z][a-z]+)+"
//	- kind: field_decl
//	  pattern: "[a-z_]+_"
//	  access_specifier: private
//
// The compact form maps kinds directly to patterns, in file order:
//
//	class_decl: "([A-Z][a-z]+)+"
//	var_decl: "[a-z][a-zA-Z]*"
//
// Patterns use RE2 syntax and must match the whole identifier.
//
// # Rule Selection
//
// Rules are tried in file order. The first rule whose kind equals the node's
// kind and whose access specifier is absent, equal to the node's access
// level, or the node has no applicable access level, is selected. Overlapping
// rules are not deduplicated.
package style
