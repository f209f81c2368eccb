package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/leapstack-labs/cncc/internal/testutil"
	"github.com/leapstack-labs/cncc/pkg/core"
	"github.com/leapstack-labs/cncc/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mainFile   = "/src/main.cc"
	headerFile = "/src/widget.h"
)

func registry(t *testing.T, descriptors ...style.Descriptor) *style.Registry {
	t.Helper()
	reg, err := style.Load(descriptors)
	require.NoError(t, err)
	return reg
}

func newScanner(t *testing.T, p core.Provider, reg *style.Registry, r ArgumentResolver) *Scanner {
	t.Helper()
	return New(Config{Provider: p, Registry: reg, Resolver: r, Logger: testutil.NewTestLogger(t)})
}

func TestScanReportsNonConformingClass(t *testing.T) {
	p := newFakeProvider()
	p.trees[mainFile] = unit(
		&fakeNode{
			kind:     core.KindClassDecl,
			spelling: "myClass",
			loc:      core.Location{File: mainFile, Line: 3, Column: 7},
		},
		decl(core.KindClassDecl, "Widget", mainFile, 9),
	)
	reg := registry(t, style.Descriptor{Kind: "class_decl", Pattern: "([A-Z][a-z]+)+"})

	got, err := newScanner(t, p, reg, nil).Collect(context.Background(), mainFile, NewScope(mainFile))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, core.Violation{
		File:        mainFile,
		Line:        3,
		Column:      7,
		DisplayName: "myClass",
		Pattern:     "([A-Z][a-z]+)+",
		RuleName:    "class_decl",
	}, got[0])
	assert.Equal(t,
		`/src/main.cc:3:7: "myClass" does not conform to pattern "([A-Z][a-z]+)+" for class_decl`,
		got[0].Message())
}

func TestScanAccessQualifiedRules(t *testing.T) {
	public := decl(core.KindFieldDecl, "count", mainFile, 4)
	public.access = core.AccessPublic
	private := decl(core.KindFieldDecl, "count", mainFile, 6)
	private.access = core.AccessPrivate
	conforming := decl(core.KindFieldDecl, "count_", mainFile, 7)
	conforming.access = core.AccessPrivate

	p := newFakeProvider()
	p.trees[mainFile] = unit(decl(core.KindClassDecl, "Counter", mainFile, 2, public, private, conforming))
	reg := registry(t,
		style.Descriptor{Kind: "field_decl", Pattern: "[a-z_]+", AccessSpecifier: "public"},
		style.Descriptor{Kind: "field_decl", Pattern: "[a-z_]+_", AccessSpecifier: "private"},
	)

	got, err := newScanner(t, p, reg, nil).Collect(context.Background(), mainFile, NewScope(mainFile))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 6, got[0].Line)
	assert.Equal(t, "private:field_decl", got[0].RuleName)
	assert.Equal(t, "[a-z_]+_", got[0].Pattern)
}

func TestScanLocality(t *testing.T) {
	tree := unit(
		decl(core.KindClassDecl, "bad_header_class", headerFile, 1),
		decl(core.KindClassDecl, "bad_main_class", mainFile, 5),
		&fakeNode{kind: core.KindClassDecl, spelling: "bad_builtin"},
	)
	reg := registry(t, style.Descriptor{Kind: "class_decl", Pattern: "[A-Z].*"})

	t.Run("header excluded", func(t *testing.T) {
		p := newFakeProvider()
		p.trees[mainFile] = tree

		got, err := newScanner(t, p, reg, nil).Collect(context.Background(), mainFile, NewScope(mainFile))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "bad_main_class", got[0].DisplayName)
	})

	t.Run("header in scope", func(t *testing.T) {
		p := newFakeProvider()
		p.trees[mainFile] = tree

		got, err := newScanner(t, p, reg, nil).Collect(context.Background(), mainFile, NewScope(mainFile, headerFile))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, headerFile, got[0].File)
		assert.Equal(t, mainFile, got[1].File)
	})

	t.Run("scope compares normalized paths", func(t *testing.T) {
		p := newFakeProvider()
		p.trees[mainFile] = unit(decl(core.KindClassDecl, "lower", "/src/./sub/../main.cc", 2))

		got, err := newScanner(t, p, reg, nil).Collect(context.Background(), mainFile, NewScope(mainFile))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "/src/./sub/../main.cc", got[0].File)
	})
}

func TestScanSkipsUnnamedAndUnruledNodes(t *testing.T) {
	anonymous := decl(core.KindStructDecl, "", mainFile, 2)
	anonymous.display = "(anonymous struct)"

	p := newFakeProvider()
	p.trees[mainFile] = unit(
		anonymous,
		decl(core.KindVarDecl, "Anything_Goes", mainFile, 3),
		&fakeNode{kind: core.KindInvalid, spelling: "x", loc: core.Location{File: mainFile, Line: 4, Column: 1}},
	)
	reg := registry(t, style.Descriptor{Kind: "struct_decl", Pattern: "[A-Z].*"})

	got, err := newScanner(t, p, reg, nil).Collect(context.Background(), mainFile, NewScope(mainFile))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScanPreOrderAndIdempotent(t *testing.T) {
	p := newFakeProvider()
	p.trees[mainFile] = unit(
		decl(core.KindNamespace, "Outer", mainFile, 1,
			decl(core.KindClassDecl, "inner", mainFile, 2,
				decl(core.KindCXXMethod, "Run", mainFile, 3),
			),
			decl(core.KindVarDecl, "Global", mainFile, 6),
		),
		decl(core.KindFunctionDecl, "Helper", mainFile, 9),
	)
	reg := registry(t,
		style.Descriptor{Kind: "namespace", Pattern: "[a-z]+"},
		style.Descriptor{Kind: "class_decl", Pattern: "[A-Z].*"},
		style.Descriptor{Kind: "cxx_method", Pattern: "[a-z].*"},
		style.Descriptor{Kind: "var_decl", Pattern: "[a-z].*"},
		style.Descriptor{Kind: "function_decl", Pattern: "[a-z].*"},
	)
	s := newScanner(t, p, reg, nil)

	first, err := s.Collect(context.Background(), mainFile, NewScope(mainFile))
	require.NoError(t, err)
	second, err := s.Collect(context.Background(), mainFile, NewScope(mainFile))
	require.NoError(t, err)

	var lines []int
	for _, v := range first {
		lines = append(lines, v.Line)
	}
	assert.Equal(t, []int{1, 2, 3, 6, 9}, lines)
	assert.Equal(t, first, second)
}

func TestScanStopsEarly(t *testing.T) {
	p := newFakeProvider()
	p.trees[mainFile] = unit(
		decl(core.KindVarDecl, "A", mainFile, 1),
		decl(core.KindVarDecl, "B", mainFile, 2),
		decl(core.KindVarDecl, "C", mainFile, 3),
	)
	reg := registry(t, style.Descriptor{Kind: "var_decl", Pattern: "[a-z]+"})

	seq, err := newScanner(t, p, reg, nil).Scan(context.Background(), mainFile, NewScope(mainFile))
	require.NoError(t, err)

	var got []string
	for v := range seq {
		got = append(got, v.DisplayName)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"A", "B"}, got)
}

func TestScanPassesResolvedArguments(t *testing.T) {
	p := newFakeProvider()
	p.trees[mainFile] = unit()
	reg := registry(t, style.Descriptor{Kind: "var_decl", Pattern: ".*"})
	resolver := staticResolver{mainFile: {"-Iinclude", "-std=c++17"}}

	_, err := newScanner(t, p, reg, resolver).Collect(context.Background(), mainFile, NewScope(mainFile))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"-Iinclude", "-std=c++17"}}, p.argsFor(mainFile))
}

func TestScanPropagatesParseError(t *testing.T) {
	parseErr := errors.New("backend unavailable")
	p := newFakeProvider()
	p.errs[mainFile] = parseErr
	reg := registry(t, style.Descriptor{Kind: "var_decl", Pattern: ".*"})

	seq, err := newScanner(t, p, reg, nil).Scan(context.Background(), mainFile, NewScope(mainFile))
	assert.Nil(t, seq)
	assert.ErrorIs(t, err, parseErr)
}

func TestScanWithoutProvider(t *testing.T) {
	_, err := New(Config{}).Scan(context.Background(), mainFile, NewScope(mainFile))
	require.Error(t, err)
}

func TestScope(t *testing.T) {
	s := NewScope("/a/b.cc", "/a/c/../d.h", "/a/b.cc")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("/a/b.cc"))
	assert.True(t, s.Contains("/a/d.h"))
	assert.False(t, s.Contains("/a/c/d.h"))
	assert.False(t, s.Contains(""))

	var nilScope *Scope
	assert.False(t, nilScope.Contains("/a/b.cc"))
	assert.Zero(t, nilScope.Len())
}
