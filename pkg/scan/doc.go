// Package scan walks parsed translation units and reports declarations
// whose names do not conform to the loaded naming rules.
//
// Only nodes whose location lies in one of the files requested for the run
// are checked. Declarations pulled in from included headers are visited
// but never reported unless the header itself is in scope.
package scan
