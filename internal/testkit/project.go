// Package testkit holds fixtures shared by package tests: an in-memory
// project compiled with the built-in features, and span invariant checks.
package testkit

import (
	"path"
	"slices"
	"time"

	"stcss/internal/analyze"
	"stcss/internal/diag"
	"stcss/internal/feature"
	"stcss/internal/feature/builtin"
	"stcss/internal/meta"
	"stcss/internal/resolve"
	"stcss/internal/source"
	"stcss/internal/transform"
)

// Root is the base directory of every Project.
const Root = "/proj"

// Project is a set of analyzed in-memory stylesheets.
type Project struct {
	FS       *source.FileSet
	Registry *feature.Registry
	Resolver *resolve.Resolver
	metas    map[string]*meta.Meta
}

// NewProject parses and analyzes files, keyed by path relative to Root, in
// path order.
func NewProject(files map[string]string) *Project {
	p := &Project{
		FS:       source.NewFileSetWithBase(Root),
		Registry: builtin.Registry(),
		metas:    make(map[string]*meta.Meta),
	}
	p.Resolver = resolve.New(p.lookup)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		id := p.FS.Add(path.Join(Root, name), []byte(files[name]), time.Time{}, source.FileVirtual)
		m := meta.New(p.FS.Get(id), meta.Options{BaseDir: Root})
		analyze.Analyze(m, p.Registry)
		p.metas[m.Path] = m
	}
	return p
}

func (p *Project) lookup(abs string) (*meta.Meta, bool) {
	m, ok := p.metas[abs]
	return m, ok
}

// Meta returns the stylesheet at rel, or nil.
func (p *Project) Meta(rel string) *meta.Meta {
	return p.metas[path.Join(Root, rel)]
}

// Transform compiles the stylesheet at rel.
func (p *Project) Transform(rel string) string {
	return transform.Transform(p.Meta(rel), p.Registry, p.Resolver)
}

// Codes lists diagnostic codes reported on rel, in emission order.
func (p *Project) Codes(rel string) []diag.Code {
	m := p.Meta(rel)
	out := make([]diag.Code, 0, m.Bag.Len())
	for _, d := range m.Bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

// Count returns how many diagnostics with code were reported on rel.
func (p *Project) Count(rel string, code diag.Code) int {
	n := 0
	for _, c := range p.Codes(rel) {
		if c == code {
			n++
		}
	}
	return n
}
