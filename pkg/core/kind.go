package core

import (
	"slices"
	"strings"
)

// =============================================================================
// Kind
// =============================================================================

// Kind identifies what a parsed node represents.
// The vocabulary follows the canonical lowercase cursor-kind names used by
// clang tooling, e.g. "class_decl" or "cxx_method".
type Kind int

// Declaration kinds. KindInvalid marks nodes that are not declarations
// (statements, expressions, types); they are traversed but never matched.
const (
	KindInvalid Kind = iota
	KindTranslationUnit
	KindUnexposedDecl
	KindStructDecl
	KindUnionDecl
	KindClassDecl
	KindEnumDecl
	KindFieldDecl
	KindEnumConstantDecl
	KindFunctionDecl
	KindVarDecl
	KindParmDecl
	KindTypedefDecl
	KindCXXMethod
	KindNamespace
	KindLinkageSpec
	KindConstructor
	KindDestructor
	KindConversionFunction
	KindTemplateTypeParameter
	KindTemplateNonTypeParameter
	KindTemplateTemplateParameter
	KindFunctionTemplate
	KindClassTemplate
	KindClassTemplatePartialSpecialization
	KindNamespaceAlias
	KindUsingDirective
	KindUsingDeclaration
	KindTypeAliasDecl
	KindCXXAccessSpecDecl
	KindTypeAliasTemplateDecl
	KindStaticAssert
	KindFriendDecl
	KindConceptDecl
	KindLabelStmt
)

var kindNames = map[Kind]string{
	KindInvalid:                            "invalid",
	KindTranslationUnit:                    "translation_unit",
	KindUnexposedDecl:                      "unexposed_decl",
	KindStructDecl:                         "struct_decl",
	KindUnionDecl:                          "union_decl",
	KindClassDecl:                          "class_decl",
	KindEnumDecl:                           "enum_decl",
	KindFieldDecl:                          "field_decl",
	KindEnumConstantDecl:                   "enum_constant_decl",
	KindFunctionDecl:                       "function_decl",
	KindVarDecl:                            "var_decl",
	KindParmDecl:                           "parm_decl",
	KindTypedefDecl:                        "typedef_decl",
	KindCXXMethod:                          "cxx_method",
	KindNamespace:                          "namespace",
	KindLinkageSpec:                        "linkage_spec",
	KindConstructor:                        "constructor",
	KindDestructor:                         "destructor",
	KindConversionFunction:                 "conversion_function",
	KindTemplateTypeParameter:              "template_type_parameter",
	KindTemplateNonTypeParameter:           "template_non_type_parameter",
	KindTemplateTemplateParameter:          "template_template_parameter",
	KindFunctionTemplate:                   "function_template",
	KindClassTemplate:                      "class_template",
	KindClassTemplatePartialSpecialization: "class_template_partial_specialization",
	KindNamespaceAlias:                     "namespace_alias",
	KindUsingDirective:                     "using_directive",
	KindUsingDeclaration:                   "using_declaration",
	KindTypeAliasDecl:                      "type_alias_decl",
	KindCXXAccessSpecDecl:                  "cxx_access_spec_decl",
	KindTypeAliasTemplateDecl:              "type_alias_template_decl",
	KindStaticAssert:                       "static_assert",
	KindFriendDecl:                         "friend_decl",
	KindConceptDecl:                        "concept_decl",
	KindLabelStmt:                          "label_stmt",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if k == KindInvalid {
			continue
		}
		m[name] = k
	}
	return m
}()

// String returns the canonical lowercase name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// IsValid reports whether k names a matchable kind.
func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok && k != KindInvalid
}

// ParseKind resolves a kind by its canonical name, ignoring case.
// Returns KindInvalid and false for unknown names.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KindInvalid, false
	}
	return k, true
}

// KindNames returns every known kind name, sorted.
func KindNames() []string {
	names := make([]string, 0, len(kindsByName))
	for name := range kindsByName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// AccessLevel
// =============================================================================

// AccessLevel is the visibility qualifier of a class-scoped declaration.
type AccessLevel int

// Access levels. AccessNone means access is not applicable to the node.
const (
	AccessNone AccessLevel = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

// String returns the lowercase name of the access level.
func (a AccessLevel) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "none"
	}
}

// ParseAccessLevel converts "public", "protected" or "private" (any case)
// to an AccessLevel. Returns AccessNone and false otherwise.
func ParseAccessLevel(s string) (AccessLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return AccessPublic, true
	case "protected":
		return AccessProtected, true
	case "private":
		return AccessPrivate, true
	default:
		return AccessNone, false
	}
}
