package java

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/vd09-projects/relctx/internal/syntax"
)

// superDepth bounds superclass walks; cyclic hierarchies do not compile but
// may still be parsed.
const superDepth = 16

type scope struct {
	file       *fileInfo
	class      *classInfo
	typeParams map[string]bool
	// noInherit leaves out member types inherited from superclasses; an
	// extends clause is resolved that way.
	noInherit bool
}

func (p *Program) memberScope(mi *memberInfo) scope {
	return scope{file: mi.class.file, class: mi.class, typeParams: mi.typeParams}
}

func (p *Program) classScope(ci *classInfo) scope {
	return scope{file: ci.file, class: ci}
}

// resolveTypeNode resolves a class reference type and its generic arguments.
// Arrays, primitives, wildcards and type variables do not resolve.
func (p *Program) resolveTypeNode(n *sitter.Node, sc scope) syntax.Type {
	if n == nil {
		return syntax.Type{}
	}
	src := sc.file.src
	switch n.Type() {
	case "type_identifier":
		return syntax.Type{Class: p.classDecl(p.resolveName(n.Content(src), sc))}
	case "scoped_type_identifier":
		return syntax.Type{Class: p.classDecl(p.resolveScoped(stripTypeArgs(n.Content(src)), sc))}
	case "annotated_type":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c.Type() != "annotation" && c.Type() != "marker_annotation" {
				return p.resolveTypeNode(c, sc)
			}
		}
	case "generic_type":
		var out syntax.Type
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "type_identifier", "scoped_type_identifier":
				out.Class = p.resolveTypeNode(c, sc).Class
			case "type_arguments":
				for j := 0; j < int(c.NamedChildCount()); j++ {
					if arg := p.resolveTypeNode(c.NamedChild(j), sc).Class; arg != nil {
						out.Args = append(out.Args, arg)
					}
				}
			}
		}
		return out
	}
	return syntax.Type{}
}

func (p *Program) classDecl(ci *classInfo) *syntax.Decl {
	if ci == nil {
		return nil
	}
	return ci.decl
}

// resolveName looks a simple type name up from inside sc.
func (p *Program) resolveName(name string, sc scope) *classInfo {
	if sc.typeParams[name] {
		return nil
	}
	for c := sc.class; c != nil; c = c.owner {
		if c.typeParams[name] {
			return nil
		}
		if c.decl.Name == name {
			return c
		}
		if nested := p.classes[c.decl.Qualified+"."+name]; nested != nil {
			return nested
		}
		if sc.noInherit {
			continue
		}
		for s, depth := p.superOf(c), 0; s != nil && depth < superDepth; s, depth = p.superOf(s), depth+1 {
			if inherited := p.classes[s.decl.Qualified+"."+name]; inherited != nil {
				return inherited
			}
		}
	}
	for _, imp := range sc.file.imports {
		if imp == name || strings.HasSuffix(imp, "."+name) {
			// an import of a library class shadows everything below
			return p.classes[imp]
		}
	}
	if sc.file.pkg != "" {
		if ci := p.classes[sc.file.pkg+"."+name]; ci != nil {
			return ci
		}
	} else if ci := p.classes[name]; ci != nil {
		return ci
	}
	for _, w := range sc.file.wildcards {
		if ci := p.classes[w+"."+name]; ci != nil {
			return ci
		}
	}
	return nil
}

// resolveScoped handles "Outer.Inner" and fully qualified names.
func (p *Program) resolveScoped(name string, sc scope) *classInfo {
	if ci := p.classes[name]; ci != nil {
		return ci
	}
	head, rest, ok := strings.Cut(name, ".")
	if !ok {
		return p.resolveName(name, sc)
	}
	if outer := p.resolveName(head, sc); outer != nil {
		return p.classes[outer.decl.Qualified+"."+rest]
	}
	return nil
}

func (p *Program) superOf(ci *classInfo) *classInfo {
	if ci == nil || ci.superclass == nil {
		return nil
	}
	sc := p.classScope(ci)
	sc.noInherit = true
	t := p.resolveTypeNode(ci.superclass, sc)
	return p.classByDecl[t.Class]
}

// resolveInvocation finds the declaration a method_invocation calls.
func (p *Program) resolveInvocation(n *sitter.Node, sc scope, locals map[string]*sitter.Node) *syntax.Decl {
	src := sc.file.src
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(src)
	argc := -1
	if args := n.ChildByFieldName("arguments"); args != nil {
		argc = int(args.NamedChildCount())
	}

	obj := n.ChildByFieldName("object")
	if obj == nil || obj.Type() == "this" {
		for c := sc.class; c != nil; c = c.owner {
			if d := p.findMethod(c, name, argc); d != nil {
				return d
			}
		}
		if obj == nil {
			return p.staticImport(sc.file, name, argc)
		}
		return nil
	}

	var target *classInfo
	switch obj.Type() {
	case "super":
		target = p.superOf(sc.class)
	case "identifier":
		ident := obj.Content(src)
		if tn, ok := locals[ident]; ok {
			target = p.classByDecl[p.resolveTypeNode(tn, sc).Class]
		} else if f := p.findField(sc.class, ident); f != nil {
			target = p.classByDecl[p.resolveTypeNode(f.typeNode, p.memberScope(f)).Class]
		} else {
			target = p.resolveName(ident, sc)
		}
	case "field_access":
		if o := obj.ChildByFieldName("object"); o != nil && o.Type() == "this" {
			if fieldNode := obj.ChildByFieldName("field"); fieldNode != nil {
				if f := p.findField(sc.class, fieldNode.Content(src)); f != nil {
					target = p.classByDecl[p.resolveTypeNode(f.typeNode, p.memberScope(f)).Class]
				}
			}
		} else {
			target = p.resolveScoped(obj.Content(src), sc)
		}
	case "scoped_identifier":
		target = p.resolveScoped(obj.Content(src), sc)
	}
	if target == nil {
		return nil
	}
	return p.findMethod(target, name, argc)
}

// staticImport resolves a receiverless call through "import static
// a.Util.name" and then "import static a.Util.*".
func (p *Program) staticImport(fi *fileInfo, name string, argc int) *syntax.Decl {
	for _, imp := range fi.statics {
		owner, member, ok := cutLast(imp)
		if !ok || member != name {
			continue
		}
		if ci := p.classes[owner]; ci != nil {
			if d := p.findMethod(ci, name, argc); d != nil {
				return d
			}
		}
	}
	for _, c := range fi.staticAll {
		if ci := p.classes[c]; ci != nil {
			if d := p.findMethod(ci, name, argc); d != nil {
				return d
			}
		}
	}
	return nil
}

func cutLast(s string) (before, after string, ok bool) {
	i := strings.LastIndexByte(s, '.')
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// findMethod searches ci and its superclasses, preferring a matching arity.
func (p *Program) findMethod(ci *classInfo, name string, argc int) *syntax.Decl {
	var fallback *syntax.Decl
	for c, depth := ci, 0; c != nil && depth < superDepth; c, depth = p.superOf(c), depth+1 {
		for _, m := range p.methods[c.decl] {
			if m.Name != name {
				continue
			}
			if argc < 0 || p.arity(m) == argc {
				return m
			}
			if fallback == nil {
				fallback = m
			}
		}
	}
	return fallback
}

func (p *Program) arity(m *syntax.Decl) int {
	mi := p.members[m]
	if mi == nil {
		return -1
	}
	params := mi.node.ChildByFieldName("parameters")
	if params == nil {
		return 0
	}
	n := 0
	for i := 0; i < int(params.NamedChildCount()); i++ {
		switch params.NamedChild(i).Type() {
		case "formal_parameter", "spread_parameter":
			n++
		}
	}
	return n
}

// findField searches the class chain (outer classes and superclasses).
func (p *Program) findField(ci *classInfo, name string) *memberInfo {
	for c := ci; c != nil; c = c.owner {
		for s, depth := c, 0; s != nil && depth < superDepth; s, depth = p.superOf(s), depth+1 {
			for _, f := range p.fields[s.decl] {
				if f.Name == name {
					return p.members[f]
				}
			}
		}
	}
	return nil
}

// localTypes maps parameter and local variable names to their type nodes.
func (p *Program) localTypes(mi *memberInfo) map[string]*sitter.Node {
	src := mi.class.file.src
	out := map[string]*sitter.Node{}
	add := func(nameNode, typeNode *sitter.Node) {
		if nameNode == nil || typeNode == nil {
			return
		}
		name := nameNode.Content(src)
		if _, ok := out[name]; !ok {
			out[name] = typeNode
		}
	}
	walk(mi.node, func(n *sitter.Node) bool {
		switch n.Type() {
		case "formal_parameter", "enhanced_for_statement", "resource":
			add(n.ChildByFieldName("name"), n.ChildByFieldName("type"))
		case "spread_parameter":
			var typeNode *sitter.Node
			for i := 0; i < int(n.NamedChildCount()); i++ {
				c := n.NamedChild(i)
				if c.Type() == "variable_declarator" {
					add(c.ChildByFieldName("name"), typeNode)
				} else if typeNode == nil && c.Type() != "modifiers" {
					typeNode = c
				}
			}
		case "local_variable_declaration":
			typeNode := n.ChildByFieldName("type")
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if c := n.NamedChild(i); c.Type() == "variable_declarator" {
					add(c.ChildByFieldName("name"), typeNode)
				}
			}
		}
		return true
	})
	return out
}

// stripTypeArgs turns "Outer<String>.Inner" into "Outer.Inner".
func stripTypeArgs(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth == 0 && r != ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}
