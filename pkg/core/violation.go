package core

import "fmt"

// Violation is a declaration whose spelling does not conform to the
// pattern of the rule that applies to it.
type Violation struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	DisplayName string `json:"display_name"`
	Pattern     string `json:"pattern"`
	RuleName    string `json:"rule"`
}

// Message renders the violation as a single diagnostic line:
//
//	<file>:<line>:<column>: "<displayName>" does not conform to pattern "<pattern>" for <ruleName>
func (v Violation) Message() string {
	return fmt.Sprintf("%s:%d:%d: \"%s\" does not conform to pattern \"%s\" for %s",
		v.File, v.Line, v.Column, v.DisplayName, v.Pattern, v.RuleName)
}
