package clang

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/cncc/pkg/core"
)

// rawLoc is a source location as written by -ast-dump=json. The dumper
// omits file and line when they equal the previously printed location,
// so a rawLoc is only meaningful in document order.
type rawLoc struct {
	File         string  `json:"file"`
	Line         int     `json:"line"`
	Col          int     `json:"col"`
	SpellingLoc  *rawLoc `json:"spellingLoc"`
	ExpansionLoc *rawLoc `json:"expansionLoc"`
}

type rawRange struct {
	Begin *rawLoc `json:"begin"`
	End   *rawLoc `json:"end"`
}

type rawType struct {
	QualType string `json:"qualType"`
}

type rawNode struct {
	Kind       string     `json:"kind"`
	Name       string     `json:"name"`
	Loc        *rawLoc    `json:"loc"`
	Range      *rawRange  `json:"range"`
	IsImplicit bool       `json:"isImplicit"`
	TagUsed    string     `json:"tagUsed"`
	Access     string     `json:"access"`
	Type       *rawType   `json:"type"`
	Inner      []*rawNode `json:"inner"`
}

// node is the decoded, immutable form handed to the scanner.
type node struct {
	kind     core.Kind
	spelling string
	display  string
	loc      core.Location
	access   core.AccessLevel
	children []core.Node
}

func (n *node) Kind() core.Kind          { return n.kind }
func (n *node) Spelling() string         { return n.spelling }
func (n *node) DisplayName() string      { return n.display }
func (n *node) Location() core.Location  { return n.loc }
func (n *node) Access() core.AccessLevel { return n.access }
func (n *node) Children() []core.Node    { return n.children }

var declKinds = map[string]core.Kind{
	"TranslationUnitDecl":                    core.KindTranslationUnit,
	"EnumDecl":                               core.KindEnumDecl,
	"FieldDecl":                              core.KindFieldDecl,
	"EnumConstantDecl":                       core.KindEnumConstantDecl,
	"FunctionDecl":                           core.KindFunctionDecl,
	"VarDecl":                                core.KindVarDecl,
	"ParmVarDecl":                            core.KindParmDecl,
	"TypedefDecl":                            core.KindTypedefDecl,
	"CXXMethodDecl":                          core.KindCXXMethod,
	"NamespaceDecl":                          core.KindNamespace,
	"LinkageSpecDecl":                        core.KindLinkageSpec,
	"CXXConstructorDecl":                     core.KindConstructor,
	"CXXDestructorDecl":                      core.KindDestructor,
	"CXXConversionDecl":                      core.KindConversionFunction,
	"TemplateTypeParmDecl":                   core.KindTemplateTypeParameter,
	"NonTypeTemplateParmDecl":                core.KindTemplateNonTypeParameter,
	"TemplateTemplateParmDecl":               core.KindTemplateTemplateParameter,
	"FunctionTemplateDecl":                   core.KindFunctionTemplate,
	"ClassTemplateDecl":                      core.KindClassTemplate,
	"ClassTemplatePartialSpecializationDecl": core.KindClassTemplatePartialSpecialization,
	"NamespaceAliasDecl":                     core.KindNamespaceAlias,
	"UsingDirectiveDecl":                     core.KindUsingDirective,
	"UsingDecl":                              core.KindUsingDeclaration,
	"TypeAliasDecl":                          core.KindTypeAliasDecl,
	"AccessSpecDecl":                         core.KindCXXAccessSpecDecl,
	"TypeAliasTemplateDecl":                  core.KindTypeAliasTemplateDecl,
	"StaticAssertDecl":                       core.KindStaticAssert,
	"FriendDecl":                             core.KindFriendDecl,
	"ConceptDecl":                            core.KindConceptDecl,
	"LabelStmt":                              core.KindLabelStmt,
}

// Template declarations are flattened: their children are the template
// parameters followed by the members of the templated declaration.
var templateKinds = map[string]bool{
	"ClassTemplateDecl":     true,
	"FunctionTemplateDecl":  true,
	"TypeAliasTemplateDecl": true,
	"VarTemplateDecl":       true,
}

// memberScopes are the records whose members carry an access level. C
// records (RecordDecl) have none.
var memberScopes = map[string]bool{
	"CXXRecordDecl":                          true,
	"ClassTemplateSpecializationDecl":        true,
	"ClassTemplatePartialSpecializationDecl": true,
}

var callableKinds = map[string]bool{
	"FunctionDecl":       true,
	"CXXMethodDecl":      true,
	"CXXConstructorDecl": true,
	"CXXDestructorDecl":  true,
	"CXXConversionDecl":  true,
}

// Decode reads a JSON AST dump and returns its translation unit.
func Decode(r io.Reader) (core.Node, error) {
	var root rawNode
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty AST dump")
		}
		return nil, fmt.Errorf("decode AST dump: %w", err)
	}
	if root.Kind != "TranslationUnitDecl" {
		return nil, fmt.Errorf("AST dump root is %q, want TranslationUnitDecl", root.Kind)
	}

	var d decoder
	nodes := d.decode(&root)
	if len(nodes) != 1 {
		return nil, fmt.Errorf("AST dump has no translation unit")
	}
	return nodes[0], nil
}

// decoder tracks the last printed file and line.
type decoder struct {
	file string
	line int
}

func (d *decoder) bare(l *rawLoc) core.Location {
	if l == nil {
		return core.Location{}
	}
	if l.File != "" {
		d.file = l.File
	}
	if l.Line != 0 {
		d.line = l.Line
	}
	if l.Col == 0 {
		return core.Location{}
	}
	return core.Location{File: d.file, Line: d.line, Column: l.Col}
}

// location resolves a possibly macro-split location to its expansion point.
func (d *decoder) location(l *rawLoc) core.Location {
	if l == nil {
		return core.Location{}
	}
	if l.SpellingLoc != nil || l.ExpansionLoc != nil {
		d.bare(l.SpellingLoc)
		return d.bare(l.ExpansionLoc)
	}
	return d.bare(l)
}

// replay consumes a node's own locations in the order they were printed.
// Statements carry no loc; their range start stands in for it.
func (d *decoder) replay(n *rawNode) core.Location {
	loc := d.location(n.Loc)
	if n.Range != nil {
		begin := d.location(n.Range.Begin)
		d.location(n.Range.End)
		if n.Loc == nil {
			loc = begin
		}
	}
	return loc
}

func (d *decoder) skip(n *rawNode) {
	d.replay(n)
	for _, child := range n.Inner {
		d.skip(child)
	}
}

func (d *decoder) decodeAll(list []*rawNode) []core.Node {
	var out []core.Node
	for _, child := range list {
		out = append(out, d.decode(child)...)
	}
	return out
}

// decodeMembers decodes the body of a C++ record. The dump only writes
// "access" on access specifiers, so each member takes the level of the
// nearest preceding specifier, or the default for the record's tag.
func (d *decoder) decodeMembers(list []*rawNode, tagUsed string) []core.Node {
	current := defaultAccess(tagUsed)
	var out []core.Node
	for _, child := range list {
		if child.Kind == "AccessSpecDecl" {
			if level := accessOf(child.Access); level != core.AccessNone {
				current = level
			}
		}
		nodes := d.decode(child)
		if _, isDecl := kindOf(child); isDecl {
			for _, n := range nodes {
				if m, ok := n.(*node); ok && m.access == core.AccessNone {
					m.access = current
				}
			}
		}
		out = append(out, nodes...)
	}
	return out
}

// decode returns what n contributes to its parent's children: the node
// itself, or for statements and expressions, the declarations nested in
// them. Implicit declarations contribute nothing.
func (d *decoder) decode(n *rawNode) []core.Node {
	loc := d.replay(n)

	if n.IsImplicit {
		for _, child := range n.Inner {
			d.skip(child)
		}
		return nil
	}

	kind, ok := kindOf(n)
	if !ok {
		return d.decodeAll(n.Inner)
	}

	out := &node{
		kind:     kind,
		spelling: n.Name,
		loc:      loc,
		access:   accessOf(n.Access),
	}

	var templated *rawNode
	switch {
	case templateKinds[n.Kind]:
		templated = d.decodeTemplate(n, out)
	case memberScopes[n.Kind]:
		out.children = d.decodeMembers(n.Inner, n.TagUsed)
	default:
		out.children = d.decodeAll(n.Inner)
	}

	out.display = displayName(n, out, templated)
	return []core.Node{out}
}

func (d *decoder) decodeTemplate(n *rawNode, out *node) *rawNode {
	var templated *rawNode
	for _, child := range n.Inner {
		switch {
		case isTemplateParam(child.Kind):
			out.children = append(out.children, d.decode(child)...)
		case templated == nil && !child.IsImplicit && child.Name == n.Name:
			templated = child
			d.replay(child)
			if memberScopes[child.Kind] {
				out.children = append(out.children, d.decodeMembers(child.Inner, child.TagUsed)...)
			} else {
				out.children = append(out.children, d.decodeAll(child.Inner)...)
			}
		default:
			// instantiations and specializations
			d.skip(child)
		}
	}
	if templated != nil && out.access == core.AccessNone {
		out.access = accessOf(templated.Access)
	}
	return templated
}

func kindOf(n *rawNode) (core.Kind, bool) {
	switch n.Kind {
	case "CXXRecordDecl", "RecordDecl", "ClassTemplateSpecializationDecl":
		switch n.TagUsed {
		case "class":
			return core.KindClassDecl, true
		case "union":
			return core.KindUnionDecl, true
		default:
			return core.KindStructDecl, true
		}
	}
	if k, ok := declKinds[n.Kind]; ok {
		return k, true
	}
	if strings.HasSuffix(n.Kind, "Decl") {
		return core.KindUnexposedDecl, true
	}
	return core.KindInvalid, false
}

func isTemplateParam(kind string) bool {
	switch kind {
	case "TemplateTypeParmDecl", "NonTypeTemplateParmDecl", "TemplateTemplateParmDecl":
		return true
	}
	return false
}

// defaultAccess is the access of members declared before any specifier.
func defaultAccess(tagUsed string) core.AccessLevel {
	if tagUsed == "class" {
		return core.AccessPrivate
	}
	return core.AccessPublic
}

func accessOf(s string) core.AccessLevel {
	level, _ := core.ParseAccessLevel(s)
	return level
}

// displayName renders callables as name(params) and class templates as
// name<params>; everything else as its spelling.
func displayName(n *rawNode, out *node, templated *rawNode) string {
	if n.Name == "" {
		return ""
	}
	switch {
	case callableKinds[n.Kind]:
		return n.Name + paramList(n.Type)
	case n.Kind == "FunctionTemplateDecl" && templated != nil:
		return n.Name + paramList(templated.Type)
	case n.Kind == "ClassTemplateDecl":
		var params []string
		for _, child := range out.children {
			switch child.Kind() {
			case core.KindTemplateTypeParameter, core.KindTemplateNonTypeParameter, core.KindTemplateTemplateParameter:
				params = append(params, child.Spelling())
			}
		}
		return n.Name + "<" + strings.Join(params, ", ") + ">"
	}
	return n.Name
}

// paramList extracts the last top-level parenthesized group of a function
// type, e.g. "(int, char)" from "void (int, char) const".
func paramList(t *rawType) string {
	if t == nil {
		return "()"
	}
	group := "()"
	depth, start := 0, -1
	for i, r := range t.QualType {
		switch r {
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			depth--
			if depth == 0 && start >= 0 {
				group = t.QualType[start : i+1]
			}
		}
	}
	return group
}
