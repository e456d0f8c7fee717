// Package related collects the declarations a method or class depends on
// (parameter, return, field and generic argument types, plus called methods)
// and renders their source as context for a code-assistant prompt.
package related

import (
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vd09-projects/relctx/internal/syntax"
	"github.com/vd09-projects/relctx/internal/utils"
)

const defaultCacheSize = 4096

type Options struct {
	// MaxLines caps each rendered declaration; 0 keeps the full text.
	MaxLines  int
	CacheSize int
	Filter    *Filter
	Logger    *slog.Logger
}

type Collector struct {
	prog     syntax.Program
	filter   *Filter
	maxLines int
	cache    *lru.Cache[*syntax.Decl, string]
	log      *slog.Logger
}

func New(prog syntax.Program, opts Options) (*Collector, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[*syntax.Decl, string](size)
	if err != nil {
		return nil, err
	}
	filter := opts.Filter
	if filter == nil {
		filter = DefaultFilter(prog.Language(), prog.IsStandard)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Collector{
		prog:     prog,
		filter:   filter,
		maxLines: opts.MaxLines,
		cache:    cache,
		log:      log.With("component", "related"),
	}, nil
}

// FullClassName returns the qualified name of the class containing a method.
func (c *Collector) FullClassName(d *syntax.Decl) (string, bool) {
	if d == nil || d.Kind != syntax.KindMethod || d.Owner == nil {
		return "", false
	}
	if d.Owner.Qualified == "" {
		return "", false
	}
	return d.Owner.Qualified, true
}

// RelatedClass renders the classes referenced by a method's signature, or by
// a class's method parameters and field types.
func (c *Collector) RelatedClass(d *syntax.Decl) string {
	return c.Render(c.RelatedDecls(d))
}

// RelatedDecls is RelatedClass before rendering.
func (c *Collector) RelatedDecls(d *syntax.Decl) []*syntax.Decl {
	if d == nil {
		return nil
	}
	set := newDeclSet()
	switch d.Kind {
	case syntax.KindMethod:
		c.addTypes(set, c.prog.ParamTypes(d))
		c.addTypes(set, c.prog.ReturnTypes(d))
	case syntax.KindClass:
		for _, m := range c.prog.Methods(d) {
			c.addTypes(set, c.prog.ParamTypes(m))
		}
		for _, f := range c.prog.Fields(d) {
			if t, ok := c.prog.FieldType(f); ok {
				c.addTypes(set, []syntax.Type{t})
			}
		}
	}
	return set.items
}

// CompletionRelatedClass builds the context for a completion at offset in
// path. Inside a method it renders the called methods followed by every type
// used in the method; inside a class (but outside any method) it renders the
// types of all fields. ok is false when offset is in neither.
func (c *Collector) CompletionRelatedClass(path string, offset int) (string, bool) {
	if m := c.prog.Enclosing(path, offset, syntax.KindMethod); m != nil {
		calls := newDeclSet()
		calls.add(c.prog.Calls(m)...)

		used := newDeclSet()
		c.addTypes(used, c.prog.TypeUses(m))

		c.log.Debug("completion context",
			"method", m.Qualified, "calls", len(calls.items), "types", len(used.items))
		return c.Render(calls.items) + c.Render(used.items), true
	}

	if cls := c.prog.Enclosing(path, offset, syntax.KindClass); cls != nil {
		set := newDeclSet()
		for _, f := range c.fieldsWithin(cls) {
			if t, ok := c.prog.FieldType(f); ok {
				c.addTypes(set, []syntax.Type{t})
			}
		}
		c.log.Debug("completion context", "class", cls.Qualified, "types", len(set.items))
		return c.Render(set.items), true
	}
	return "", false
}

// Render concatenates the source text of decls, one per line, skipping
// classes (and members of classes) the filter ignores.
func (c *Collector) Render(decls []*syntax.Decl) string {
	var b strings.Builder
	for _, d := range decls {
		if d == nil {
			continue
		}
		switch d.Kind {
		case syntax.KindClass:
			if c.filter.Ignore(d.Qualified) {
				continue
			}
		case syntax.KindMethod:
			if c.filter.Ignore(d.Container()) {
				continue
			}
		}
		b.WriteString(c.snippet(d))
		b.WriteString("\n")
	}
	return b.String()
}

// Ignored exposes the filter decision for a decl.
func (c *Collector) Ignored(d *syntax.Decl) bool {
	if d == nil {
		return true
	}
	if d.Kind == syntax.KindClass {
		return c.filter.Ignore(d.Qualified)
	}
	return c.filter.Ignore(d.Container())
}

func (c *Collector) snippet(d *syntax.Decl) string {
	if s, ok := c.cache.Get(d); ok {
		return s
	}
	s := d.Text
	if c.maxLines > 0 {
		s = utils.CapLines(s, c.maxLines)
	}
	c.cache.Add(d, s)
	return s
}

// fieldsWithin returns the fields of cls and of every class nested in it.
func (c *Collector) fieldsWithin(cls *syntax.Decl) []*syntax.Decl {
	out := append([]*syntax.Decl(nil), c.prog.Fields(cls)...)
	for _, d := range c.prog.Decls(cls.Path) {
		if d.Kind != syntax.KindClass || d == cls || !nestedIn(d, cls) {
			continue
		}
		out = append(out, c.prog.Fields(d)...)
	}
	return out
}

func nestedIn(d, outer *syntax.Decl) bool {
	for o := d.Owner; o != nil; o = o.Owner {
		if o == outer {
			return true
		}
	}
	return false
}

// addTypes adds the resolved class and generic arguments of each type.
func (c *Collector) addTypes(set *declSet, ts []syntax.Type) {
	for _, t := range ts {
		set.add(t.Class)
		set.add(t.Args...)
	}
}

// declSet keeps first-seen order so rendering is deterministic.
type declSet struct {
	seen  map[*syntax.Decl]struct{}
	items []*syntax.Decl
}

func newDeclSet() *declSet {
	return &declSet{seen: make(map[*syntax.Decl]struct{})}
}

func (s *declSet) add(ds ...*syntax.Decl) {
	for _, d := range ds {
		if d == nil {
			continue
		}
		if _, ok := s.seen[d]; ok {
			continue
		}
		s.seen[d] = struct{}{}
		s.items = append(s.items, d)
	}
}
