package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leapstack-labs/cncc/pkg/core"
)

type fakeNode struct {
	kind     core.Kind
	spelling string
	display  string
	loc      core.Location
	access   core.AccessLevel
	children []core.Node
}

func (n *fakeNode) Kind() core.Kind          { return n.kind }
func (n *fakeNode) Spelling() string         { return n.spelling }
func (n *fakeNode) Location() core.Location  { return n.loc }
func (n *fakeNode) Access() core.AccessLevel { return n.access }
func (n *fakeNode) Children() []core.Node    { return n.children }

func (n *fakeNode) DisplayName() string {
	if n.display != "" {
		return n.display
	}
	return n.spelling
}

func decl(kind core.Kind, name, file string, line int, children ...core.Node) *fakeNode {
	return &fakeNode{
		kind:     kind,
		spelling: name,
		loc:      core.Location{File: file, Line: line, Column: 1},
		children: children,
	}
}

func unit(children ...core.Node) *fakeNode {
	return &fakeNode{kind: core.KindTranslationUnit, children: children}
}

// fakeProvider serves canned trees keyed by path.
type fakeProvider struct {
	mu     sync.Mutex
	trees  map[string]core.Node
	errs   map[string]error
	delays map[string]time.Duration
	calls  map[string][][]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		trees:  make(map[string]core.Node),
		errs:   make(map[string]error),
		delays: make(map[string]time.Duration),
		calls:  make(map[string][][]string),
	}
}

func (p *fakeProvider) Parse(ctx context.Context, path string, args []string) (core.Node, error) {
	p.mu.Lock()
	p.calls[path] = append(p.calls[path], args)
	delay := p.delays[path]
	tree, ok := p.trees[path]
	err := p.errs[path]
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no tree for %s", path)
	}
	return tree, nil
}

func (p *fakeProvider) argsFor(path string) [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[path]
}

type staticResolver map[string][]string

func (r staticResolver) ArgumentsFor(path string) []string { return r[path] }
