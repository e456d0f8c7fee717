// Package java implements syntax.Program for Java sources parsed with
// tree-sitter. Names are resolved the way javac looks them up: nested
// classes, single-type imports, the current package, then on-demand imports.
package java

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/vd09-projects/relctx/internal/source"
	"github.com/vd09-projects/relctx/internal/syntax"
)

var classNodeTypes = map[string]bool{
	"class_declaration":           true,
	"interface_declaration":       true,
	"enum_declaration":            true,
	"record_declaration":          true,
	"annotation_type_declaration": true,
}

var methodNodeTypes = map[string]bool{
	"method_declaration":              true,
	"constructor_declaration":         true,
	"compact_constructor_declaration": true,
}

type Options struct {
	Exclude []*regexp.Regexp
	Logger  *slog.Logger
}

type fileInfo struct {
	rel       string
	src       []byte
	pkg       string
	imports   []string // single-type imports
	wildcards []string // on-demand import prefixes
	statics   []string // single static imports
	staticAll []string // classes imported with "import static C.*"
	decls     []*syntax.Decl
}

type classInfo struct {
	decl       *syntax.Decl
	node       *sitter.Node
	file       *fileInfo
	owner      *classInfo
	typeParams map[string]bool
	superclass *sitter.Node
	anonymous  int // anonymous classes numbered so far
}

type memberInfo struct {
	decl       *syntax.Decl
	node       *sitter.Node
	typeNode   *sitter.Node // declared type of a field
	class      *classInfo
	typeParams map[string]bool
}

type Program struct {
	root string
	log  *slog.Logger

	files   map[string]*fileInfo
	order   []string
	trees   []*sitter.Tree
	parseEr int

	classes     map[string]*classInfo
	classByDecl map[*syntax.Decl]*classInfo
	members     map[*syntax.Decl]*memberInfo
	byName      map[string]*syntax.Decl
	methods     map[*syntax.Decl][]*syntax.Decl
	fields      map[*syntax.Decl][]*syntax.Decl
}

var _ syntax.Program = (*Program)(nil)

// Load parses every .java file under root.
func Load(ctx context.Context, root string, opts Options) (*Program, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	reader := source.NewWalkReader(root, []string{".java"}, opts.Exclude)
	units, err := reader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list java files: %w", err)
	}
	p := &Program{
		root:        root,
		log:         log,
		files:       make(map[string]*fileInfo),
		classes:     make(map[string]*classInfo),
		classByDecl: make(map[*syntax.Decl]*classInfo),
		members:     make(map[*syntax.Decl]*memberInfo),
		byName:      make(map[string]*syntax.Decl),
		methods:     make(map[*syntax.Decl][]*syntax.Decl),
		fields:      make(map[*syntax.Decl][]*syntax.Decl),
	}
	if abs, err := filepath.Abs(root); err == nil {
		p.root = abs
	}

	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	for _, u := range units {
		if err := p.parseFile(ctx, parser, u); err != nil {
			p.Close()
			return nil, err
		}
	}
	sort.Strings(p.order)
	log.Debug("java program loaded", "root", p.root, "files", len(p.order), "classes", len(p.classes))
	return p, nil
}

// ParseErrors counts files whose syntax tree contains errors.
func (p *Program) ParseErrors() int { return p.parseEr }

// Close releases the syntax trees.
func (p *Program) Close() {
	for _, t := range p.trees {
		t.Close()
	}
	p.trees = nil
}

func (p *Program) parseFile(ctx context.Context, parser *sitter.Parser, u source.FileUnit) error {
	src := []byte(u.Src)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", u.RelPath, err)
	}
	p.trees = append(p.trees, tree)
	root := tree.RootNode()
	if root.HasError() {
		p.parseEr++
		p.log.Debug("java syntax errors", "path", u.RelPath)
	}

	fi := &fileInfo{rel: u.RelPath, src: src}
	p.files[u.RelPath] = fi
	p.order = append(p.order, u.RelPath)

	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "package_declaration":
			fi.pkg = packageName(n, src)
		case "import_declaration":
			fi.addImport(n.Content(src))
		}
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if classNodeTypes[n.Type()] {
			p.indexClass(fi, n, nil)
		}
	}
	sort.SliceStable(fi.decls, func(i, j int) bool { return fi.decls[i].Start < fi.decls[j].Start })
	return nil
}

func packageName(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "scoped_identifier" || c.Type() == "identifier" {
			return c.Content(src)
		}
	}
	return ""
}

func (fi *fileInfo) addImport(text string) {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "import"))
	static := strings.HasPrefix(text, "static ")
	text = strings.TrimSpace(strings.TrimPrefix(text, "static "))
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	text = strings.Join(strings.Fields(text), "")
	if strings.HasSuffix(text, ".*") {
		fi.wildcards = append(fi.wildcards, strings.TrimSuffix(text, ".*"))
		if static {
			fi.staticAll = append(fi.staticAll, strings.TrimSuffix(text, ".*"))
		}
		return
	}
	if text == "" {
		return
	}
	fi.imports = append(fi.imports, text)
	if static {
		fi.statics = append(fi.statics, text)
	}
}

// ------------------------------ Indexing ------------------------------

func (p *Program) indexClass(fi *fileInfo, n *sitter.Node, owner *classInfo) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(fi.src)
	qualified := name
	switch {
	case owner != nil:
		qualified = owner.decl.Qualified + "." + name
	case fi.pkg != "":
		qualified = fi.pkg + "." + name
	}
	p.indexClassBody(fi, n, n.ChildByFieldName("body"), owner, name, qualified)
}

// indexAnonymous indexes the class body of "new T() { ... }". It is named
// like javac's binary name, Owner$1, and extends T.
func (p *Program) indexAnonymous(fi *fileInfo, n, body *sitter.Node, owner *classInfo) {
	owner.anonymous++
	name := fmt.Sprintf("%d", owner.anonymous)
	ci := p.indexClassBody(fi, n, body, owner, name, owner.decl.Qualified+"$"+name)
	ci.superclass = n.ChildByFieldName("type")
}

func (p *Program) indexClassBody(fi *fileInfo, n, body *sitter.Node, owner *classInfo, name, qualified string) *classInfo {
	var ownerDecl *syntax.Decl
	if owner != nil {
		ownerDecl = owner.decl
	}
	d := p.newDecl(fi, n, syntax.KindClass, name, ownerDecl)
	d.Qualified = qualified
	if body != nil {
		d.Signature = strings.TrimSpace(string(fi.src[n.StartByte():body.StartByte()]))
	}

	ci := &classInfo{
		decl:       d,
		node:       n,
		file:       fi,
		owner:      owner,
		typeParams: typeParamNames(n, fi.src),
	}
	if sc := n.ChildByFieldName("superclass"); sc != nil && sc.NamedChildCount() > 0 {
		ci.superclass = sc.NamedChild(0)
	}
	if _, dup := p.classes[qualified]; !dup {
		p.classes[qualified] = ci
		p.byName[qualified] = d
	}
	p.classByDecl[d] = ci

	if n.Type() == "record_declaration" {
		p.indexRecordComponents(fi, ci, n.ChildByFieldName("parameters"))
	}
	if body == nil {
		return ci
	}
	for _, m := range bodyMembers(body) {
		switch t := m.Type(); {
		case classNodeTypes[t]:
			p.indexClass(fi, m, ci)
		case methodNodeTypes[t]:
			p.indexMethod(fi, ci, m)
			p.indexLocalClasses(fi, ci, m.ChildByFieldName("body"))
		case t == "field_declaration" || t == "constant_declaration":
			p.indexField(fi, ci, m)
			p.indexLocalClasses(fi, ci, m)
		case t == "block" || t == "static_initializer":
			p.indexLocalClasses(fi, ci, m)
		}
	}
	return ci
}

// indexLocalClasses finds classes declared inside code: local class
// declarations and anonymous class bodies. Their owner is ci.
func (p *Program) indexLocalClasses(fi *fileInfo, ci *classInfo, code *sitter.Node) {
	walk(code, func(n *sitter.Node) bool {
		if classNodeTypes[n.Type()] {
			p.indexClass(fi, n, ci)
			return false
		}
		if n.Type() != "object_creation_expression" {
			return true
		}
		var body *sitter.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c.Type() == "class_body" {
				body = c
			}
		}
		if body == nil {
			return true
		}
		// arguments may hold anonymous classes of their own
		p.indexLocalClasses(fi, ci, n.ChildByFieldName("arguments"))
		p.indexAnonymous(fi, n, body, ci)
		return false
	})
}

// bodyMembers flattens enum bodies so their declarations sit beside the
// members of an ordinary class body.
func bodyMembers(body *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		if c.Type() == "enum_body_declarations" {
			out = append(out, bodyMembers(c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func (p *Program) indexMethod(fi *fileInfo, ci *classInfo, n *sitter.Node) {
	name := ci.decl.Name
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = nameNode.Content(fi.src)
	}
	d := p.newDecl(fi, n, syntax.KindMethod, name, ci.decl)
	if body := n.ChildByFieldName("body"); body != nil {
		d.Signature = strings.TrimSpace(string(fi.src[n.StartByte():body.StartByte()]))
	} else {
		d.Signature = strings.TrimSpace(d.Text)
	}
	p.members[d] = &memberInfo{decl: d, node: n, class: ci, typeParams: typeParamNames(n, fi.src)}
	p.methods[ci.decl] = append(p.methods[ci.decl], d)
	p.register(d)
}

func (p *Program) indexField(fi *fileInfo, ci *classInfo, n *sitter.Node) {
	typeNode := n.ChildByFieldName("type")
	for i := 0; i < int(n.NamedChildCount()); i++ {
		v := n.NamedChild(i)
		if v.Type() != "variable_declarator" {
			continue
		}
		nameNode := v.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		d := p.newDecl(fi, n, syntax.KindField, nameNode.Content(fi.src), ci.decl)
		d.Signature = strings.TrimSpace(d.Text)
		p.members[d] = &memberInfo{decl: d, node: n, typeNode: typeNode, class: ci}
		p.fields[ci.decl] = append(p.fields[ci.decl], d)
		p.register(d)
	}
}

func (p *Program) indexRecordComponents(fi *fileInfo, ci *classInfo, params *sitter.Node) {
	if params == nil {
		return
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		c := params.NamedChild(i)
		if c.Type() != "formal_parameter" {
			continue
		}
		nameNode := c.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		d := p.newDecl(fi, c, syntax.KindField, nameNode.Content(fi.src), ci.decl)
		d.Signature = d.Text
		p.members[d] = &memberInfo{decl: d, node: c, typeNode: c.ChildByFieldName("type"), class: ci}
		p.fields[ci.decl] = append(p.fields[ci.decl], d)
		p.register(d)
	}
}

func (p *Program) newDecl(fi *fileInfo, n *sitter.Node, kind syntax.Kind, name string, owner *syntax.Decl) *syntax.Decl {
	d := &syntax.Decl{
		Kind:      kind,
		Name:      name,
		Package:   fi.pkg,
		Owner:     owner,
		Path:      fi.rel,
		Start:     int(n.StartByte()),
		End:       int(n.EndByte()),
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		Text:      n.Content(fi.src),
	}
	if owner != nil {
		d.Qualified = owner.Qualified + "." + name
	}
	fi.decls = append(fi.decls, d)
	return d
}

func (p *Program) register(d *syntax.Decl) {
	if _, taken := p.byName[d.Qualified]; !taken {
		p.byName[d.Qualified] = d
	}
}

func typeParamNames(n *sitter.Node, src []byte) map[string]bool {
	tp := n.ChildByFieldName("type_parameters")
	if tp == nil {
		return nil
	}
	out := map[string]bool{}
	for i := 0; i < int(tp.NamedChildCount()); i++ {
		c := tp.NamedChild(i)
		if c.Type() != "type_parameter" {
			continue
		}
		for j := 0; j < int(c.NamedChildCount()); j++ {
			id := c.NamedChild(j)
			if id.Type() == "type_identifier" || id.Type() == "identifier" {
				out[id.Content(src)] = true
				break
			}
		}
	}
	return out
}

// ------------------------------ syntax.Program ------------------------------

func (p *Program) Language() string { return "java" }

func (p *Program) Root() string { return p.root }

func (p *Program) Files() []string { return append([]string(nil), p.order...) }

func (p *Program) Decls(path string) []*syntax.Decl {
	if fi := p.files[source.ToPosix(path)]; fi != nil {
		return fi.decls
	}
	return nil
}

func (p *Program) Source(path string) (string, bool) {
	if fi := p.files[source.ToPosix(path)]; fi != nil {
		return string(fi.src), true
	}
	return "", false
}

func (p *Program) Enclosing(path string, offset int, kind syntax.Kind) *syntax.Decl {
	var best *syntax.Decl
	for _, d := range p.Decls(path) {
		if d.Kind != kind || !d.Contains(offset) {
			continue
		}
		if best == nil || d.Start >= best.Start {
			best = d
		}
	}
	return best
}

func (p *Program) Lookup(qualified string) *syntax.Decl { return p.byName[qualified] }

func (p *Program) Methods(class *syntax.Decl) []*syntax.Decl { return p.methods[class] }

func (p *Program) Fields(class *syntax.Decl) []*syntax.Decl { return p.fields[class] }

// ParamTypes skips varargs; their type is an ellipsis, not a class reference.
func (p *Program) ParamTypes(method *syntax.Decl) []syntax.Type {
	mi := p.members[method]
	if mi == nil || method.Kind != syntax.KindMethod {
		return nil
	}
	params := mi.node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	sc := p.memberScope(mi)
	var out []syntax.Type
	for i := 0; i < int(params.NamedChildCount()); i++ {
		c := params.NamedChild(i)
		if c.Type() != "formal_parameter" {
			continue
		}
		if t := p.resolveTypeNode(c.ChildByFieldName("type"), sc); !t.Empty() {
			out = append(out, t)
		}
	}
	return out
}

func (p *Program) ReturnTypes(method *syntax.Decl) []syntax.Type {
	mi := p.members[method]
	if mi == nil || method.Kind != syntax.KindMethod {
		return nil
	}
	if t := p.resolveTypeNode(mi.node.ChildByFieldName("type"), p.memberScope(mi)); !t.Empty() {
		return []syntax.Type{t}
	}
	return nil
}

func (p *Program) FieldType(field *syntax.Decl) (syntax.Type, bool) {
	mi := p.members[field]
	if mi == nil || mi.typeNode == nil {
		return syntax.Type{}, false
	}
	t := p.resolveTypeNode(mi.typeNode, p.memberScope(mi))
	return t, !t.Empty()
}

// TypeUses returns every type element inside a method, signature included.
// Instantiated classes and throws clauses are references, not type elements.
func (p *Program) TypeUses(method *syntax.Decl) []syntax.Type {
	mi := p.members[method]
	if mi == nil || method.Kind != syntax.KindMethod {
		return nil
	}
	sc := p.memberScope(mi)
	var out []syntax.Type
	walk(mi.node, func(n *sitter.Node) bool {
		switch n.Type() {
		case "throws":
			return false
		case "generic_type", "type_identifier", "scoped_type_identifier":
			if parent := n.Parent(); parent != nil {
				switch parent.Type() {
				case "generic_type", "scoped_type_identifier":
					if n.Type() != "generic_type" {
						return true
					}
				case "object_creation_expression":
					// the instantiated class is a reference, its type arguments are not
					return true
				}
			}
			if t := p.resolveTypeNode(n, sc); !t.Empty() {
				out = append(out, t)
			}
		}
		return true
	})
	return out
}

// Calls resolves the method invocations inside a method body.
func (p *Program) Calls(method *syntax.Decl) []*syntax.Decl {
	mi := p.members[method]
	if mi == nil || method.Kind != syntax.KindMethod {
		return nil
	}
	body := mi.node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	sc := p.memberScope(mi)
	locals := p.localTypes(mi)

	var out []*syntax.Decl
	seen := map[*syntax.Decl]bool{}
	walk(body, func(n *sitter.Node) bool {
		if n.Type() != "method_invocation" {
			return true
		}
		if d := p.resolveInvocation(n, sc, locals); d != nil && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
		return true
	})
	return out
}

func (p *Program) IsStandard(qualified string) bool {
	for _, prefix := range []string{"java.", "javax.", "jdk.", "sun."} {
		if strings.HasPrefix(qualified, prefix) {
			return true
		}
	}
	return false
}

func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), visit)
	}
}
