// Package syntaxtest provides an in-memory syntax.Program for tests.
package syntaxtest

import (
	"sort"
	"strings"

	"github.com/vd09-projects/relctx/internal/syntax"
)

// Program is a hand-built syntax.Program. Every map is keyed by decl pointer.
type Program struct {
	Lang       string
	Sources    map[string]string
	DeclsIn    map[string][]*syntax.Decl
	MethodsOf  map[*syntax.Decl][]*syntax.Decl
	FieldsOf   map[*syntax.Decl][]*syntax.Decl
	Params     map[*syntax.Decl][]syntax.Type
	Returns    map[*syntax.Decl][]syntax.Type
	FieldTypes map[*syntax.Decl]syntax.Type
	CallsOf    map[*syntax.Decl][]*syntax.Decl
	Uses       map[*syntax.Decl][]syntax.Type
	Standard   func(string) bool
}

var _ syntax.Program = (*Program)(nil)

func New(lang string) *Program {
	return &Program{
		Lang:       lang,
		Sources:    map[string]string{},
		DeclsIn:    map[string][]*syntax.Decl{},
		MethodsOf:  map[*syntax.Decl][]*syntax.Decl{},
		FieldsOf:   map[*syntax.Decl][]*syntax.Decl{},
		Params:     map[*syntax.Decl][]syntax.Type{},
		Returns:    map[*syntax.Decl][]syntax.Type{},
		FieldTypes: map[*syntax.Decl]syntax.Type{},
		CallsOf:    map[*syntax.Decl][]*syntax.Decl{},
		Uses:       map[*syntax.Decl][]syntax.Type{},
	}
}

// Class adds a top-level class spanning [start, end) of path.
func (p *Program) Class(path, qualified string, start, end int) *syntax.Decl {
	name := qualified[strings.LastIndex(qualified, ".")+1:]
	d := &syntax.Decl{Kind: syntax.KindClass, Name: name, Qualified: qualified, Path: path,
		Start: start, End: end, StartLine: 1, EndLine: 1, Signature: "class " + name,
		Text: "class " + name + " {}"}
	p.DeclsIn[path] = append(p.DeclsIn[path], d)
	return d
}

func (p *Program) Method(owner *syntax.Decl, name string, start, end int) *syntax.Decl {
	d := &syntax.Decl{Kind: syntax.KindMethod, Name: name, Owner: owner, Path: owner.Path,
		Qualified: owner.Qualified + "." + name, Start: start, End: end, StartLine: 1, EndLine: 1,
		Signature: "void " + name + "()", Text: "void " + name + "() {}"}
	p.DeclsIn[owner.Path] = append(p.DeclsIn[owner.Path], d)
	p.MethodsOf[owner] = append(p.MethodsOf[owner], d)
	return d
}

func (p *Program) Field(owner *syntax.Decl, name string, t syntax.Type) *syntax.Decl {
	d := &syntax.Decl{Kind: syntax.KindField, Name: name, Owner: owner, Path: owner.Path,
		Qualified: owner.Qualified + "." + name, Text: name}
	p.FieldsOf[owner] = append(p.FieldsOf[owner], d)
	p.FieldTypes[d] = t
	return d
}

func (p *Program) Language() string { return p.Lang }
func (p *Program) Root() string     { return "/repo" }

func (p *Program) Files() []string {
	seen := map[string]bool{}
	var out []string
	for path := range p.Sources {
		seen[path] = true
		out = append(out, path)
	}
	for path := range p.DeclsIn {
		if !seen[path] {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

func (p *Program) Decls(path string) []*syntax.Decl { return p.DeclsIn[path] }

func (p *Program) Source(path string) (string, bool) {
	s, ok := p.Sources[path]
	return s, ok
}

func (p *Program) Enclosing(path string, offset int, kind syntax.Kind) *syntax.Decl {
	var best *syntax.Decl
	for _, d := range p.DeclsIn[path] {
		if d.Kind != kind || !d.Contains(offset) {
			continue
		}
		if best == nil || d.Start >= best.Start {
			best = d
		}
	}
	return best
}

func (p *Program) Lookup(qualified string) *syntax.Decl {
	for _, path := range p.Files() {
		for _, d := range p.DeclsIn[path] {
			if d.Qualified == qualified {
				return d
			}
		}
	}
	return nil
}

func (p *Program) Methods(c *syntax.Decl) []*syntax.Decl    { return p.MethodsOf[c] }
func (p *Program) Fields(c *syntax.Decl) []*syntax.Decl     { return p.FieldsOf[c] }
func (p *Program) ParamTypes(m *syntax.Decl) []syntax.Type  { return p.Params[m] }
func (p *Program) ReturnTypes(m *syntax.Decl) []syntax.Type { return p.Returns[m] }
func (p *Program) Calls(m *syntax.Decl) []*syntax.Decl      { return p.CallsOf[m] }
func (p *Program) TypeUses(m *syntax.Decl) []syntax.Type    { return p.Uses[m] }
func (p *Program) FieldType(d *syntax.Decl) (syntax.Type, bool) {
	t, ok := p.FieldTypes[d]
	return t, ok
}

func (p *Program) IsStandard(q string) bool {
	return p.Standard != nil && p.Standard(q)
}
