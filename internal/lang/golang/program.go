// Package golang implements syntax.Program for Go modules on top of
// go/packages and go/types.
package golang

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/vd09-projects/relctx/internal/source"
	"github.com/vd09-projects/relctx/internal/syntax"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedModule

type Options struct {
	Exclude []*regexp.Regexp
	Tests   bool
	Logger  *slog.Logger
}

type fileInfo struct {
	pkg   *packages.Package
	file  *ast.File
	tf    *token.File
	src   string
	decls []*syntax.Decl
}

// Program is the semantic index of every package under a module root.
type Program struct {
	root string
	fset *token.FileSet
	pkgs []*packages.Package
	log  *slog.Logger

	files      map[string]*fileInfo // rel path -> file
	order      []string
	workspace  map[string]bool // package paths loaded from the root
	loadErrors int

	declByObj map[types.Object]*syntax.Decl
	declByPos map[string]*syntax.Decl // "file:offset" of the declaring ident
	objByDecl map[*syntax.Decl]types.Object
	nodeBy    map[*syntax.Decl]ast.Node
	infoBy    map[*syntax.Decl]*types.Info
	byName    map[string]*syntax.Decl
	methods   map[*syntax.Decl][]*syntax.Decl
	fields    map[*syntax.Decl][]*syntax.Decl
}

var _ syntax.Program = (*Program)(nil)

// Load builds the index for all packages under root (./...).
func Load(ctx context.Context, root string, opts Options) (*Program, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     absRoot,
		Env:     append(os.Environ(), "GOWORK=off", "GOFLAGS="),
		Tests:   opts.Tests,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	p := newProgram(absRoot, pkgs, log)
	for _, pkg := range pkgs {
		p.workspace[pkg.PkgPath] = true
	}
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			p.loadErrors++
			log.Warn("package load error", "pkg", pkg.PkgPath, "error", e.Msg)
		}
		if pkg.TypesInfo == nil {
			continue
		}
		p.indexPackage(pkg, opts.Exclude)
	}
	p.finish()
	log.Debug("go program loaded", "root", absRoot, "packages", len(pkgs), "files", len(p.order))
	return p, nil
}

func newProgram(root string, pkgs []*packages.Package, log *slog.Logger) *Program {
	p := &Program{
		root:      root,
		pkgs:      pkgs,
		log:       log,
		files:     make(map[string]*fileInfo),
		workspace: make(map[string]bool),
		declByObj: make(map[types.Object]*syntax.Decl),
		declByPos: make(map[string]*syntax.Decl),
		objByDecl: make(map[*syntax.Decl]types.Object),
		nodeBy:    make(map[*syntax.Decl]ast.Node),
		infoBy:    make(map[*syntax.Decl]*types.Info),
		byName:    make(map[string]*syntax.Decl),
		methods:   make(map[*syntax.Decl][]*syntax.Decl),
		fields:    make(map[*syntax.Decl][]*syntax.Decl),
	}
	if len(pkgs) > 0 {
		p.fset = pkgs[0].Fset
	}
	return p
}

// LoadErrors is the number of package errors reported by go/packages.
func (p *Program) LoadErrors() int { return p.loadErrors }

// ------------------------------ Indexing ------------------------------

func (p *Program) indexPackage(pkg *packages.Package, exclude []*regexp.Regexp) {
	type unit struct {
		fi  *fileInfo
		rel string
	}
	var units []unit
	for i, file := range pkg.Syntax {
		if file == nil || i >= len(pkg.CompiledGoFiles) {
			continue
		}
		abs := pkg.CompiledGoFiles[i]
		rel := source.RelPosix(p.root, abs)
		if strings.HasPrefix(rel, "../") || source.Excluded(rel, exclude) {
			continue
		}
		if _, dup := p.files[rel]; dup {
			continue
		}
		b, err := os.ReadFile(abs)
		if err != nil {
			p.log.Debug("skip unreadable file", "path", rel, "error", err)
			continue
		}
		fi := &fileInfo{pkg: pkg, file: file, tf: p.fset.File(file.Pos()), src: string(b)}
		p.files[rel] = fi
		p.order = append(p.order, rel)
		units = append(units, unit{fi, rel})
	}

	// types of the whole package first; receivers may live in another file
	for _, u := range units {
		for _, d := range u.fi.file.Decls {
			if gd, ok := d.(*ast.GenDecl); ok && gd.Tok == token.TYPE {
				p.handleGenDecl(u.fi, u.rel, gd)
			}
		}
	}
	for _, u := range units {
		for _, d := range u.fi.file.Decls {
			if fd, ok := d.(*ast.FuncDecl); ok {
				p.handleFuncDecl(u.fi, u.rel, fd)
			}
		}
	}
}

func (p *Program) handleGenDecl(fi *fileInfo, rel string, gd *ast.GenDecl) {
	grouped := gd.Lparen.IsValid()
	for _, spec := range gd.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok || ts.Name == nil {
			continue
		}
		obj, _ := fi.pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
		if obj == nil {
			continue
		}
		var text string
		var from, to token.Pos
		if grouped {
			from, to = ts.Pos(), ts.End()
			text = "type " + p.slice(fi, from, to)
		} else {
			from, to = gd.Pos(), gd.End()
			text = p.slice(fi, from, to)
		}

		d := p.newDecl(fi, rel, syntax.KindClass, ts.Name.Name, nil, from, to, text)
		d.Qualified = fi.pkg.PkgPath + "." + ts.Name.Name
		d.Signature = "type " + ts.Name.Name + typeKeyword(ts.Type)
		p.register(d, obj, ts, fi.pkg.TypesInfo)

		switch t := ts.Type.(type) {
		case *ast.StructType:
			p.indexFields(fi, rel, d, t)
		case *ast.InterfaceType:
			p.indexInterfaceMethods(fi, rel, d, t)
		}
	}
}

func (p *Program) indexFields(fi *fileInfo, rel string, owner *syntax.Decl, st *ast.StructType) {
	if st.Fields == nil {
		return
	}
	for _, f := range st.Fields.List {
		text := p.slice(fi, f.Pos(), f.End())
		if len(f.Names) == 0 {
			// embedded field
			id := embeddedIdent(f.Type)
			if id == nil {
				continue
			}
			obj, _ := fi.pkg.TypesInfo.Defs[id].(*types.Var)
			p.addField(fi, rel, owner, id.Name, obj, f, text)
			continue
		}
		for _, n := range f.Names {
			obj, _ := fi.pkg.TypesInfo.Defs[n].(*types.Var)
			p.addField(fi, rel, owner, n.Name, obj, f, text)
		}
	}
}

func (p *Program) addField(fi *fileInfo, rel string, owner *syntax.Decl, name string, obj *types.Var, f *ast.Field, text string) {
	if obj == nil {
		return
	}
	d := p.newDecl(fi, rel, syntax.KindField, name, owner, f.Pos(), f.End(), text)
	d.Signature = text
	p.register(d, obj, f, fi.pkg.TypesInfo)
	p.fields[owner] = append(p.fields[owner], d)
}

func (p *Program) indexInterfaceMethods(fi *fileInfo, rel string, owner *syntax.Decl, it *ast.InterfaceType) {
	if it.Methods == nil {
		return
	}
	for _, f := range it.Methods.List {
		// embedded interfaces and type-set terms have no names
		if len(f.Names) == 0 {
			continue
		}
		for _, n := range f.Names {
			obj, _ := fi.pkg.TypesInfo.Defs[n].(*types.Func)
			if obj == nil {
				continue
			}
			text := p.slice(fi, f.Pos(), f.End())
			d := p.newDecl(fi, rel, syntax.KindMethod, n.Name, owner, f.Pos(), f.End(), text)
			d.Signature = text
			p.register(d, obj, f, fi.pkg.TypesInfo)
			p.methods[owner] = append(p.methods[owner], d)
		}
	}
}

func (p *Program) handleFuncDecl(fi *fileInfo, rel string, fd *ast.FuncDecl) {
	if fd.Name == nil {
		return
	}
	obj, _ := fi.pkg.TypesInfo.Defs[fd.Name].(*types.Func)
	if obj == nil {
		return
	}

	var owner *syntax.Decl
	if rn := receiverNamed(obj); rn != nil {
		owner = p.declOf(rn.Origin().Obj())
	}

	d := p.newDecl(fi, rel, syntax.KindMethod, fd.Name.Name, owner, fd.Pos(), fd.End(), p.slice(fi, fd.Pos(), fd.End()))
	if owner == nil {
		d.Qualified = fi.pkg.PkgPath + "." + fd.Name.Name
	}
	sigEnd := fd.End()
	if fd.Body != nil {
		sigEnd = fd.Body.Lbrace
	}
	d.Signature = strings.TrimSpace(p.slice(fi, fd.Pos(), sigEnd))
	p.register(d, obj, fd, fi.pkg.TypesInfo)
	if owner != nil {
		p.methods[owner] = append(p.methods[owner], d)
	}
}

func (p *Program) newDecl(fi *fileInfo, rel string, kind syntax.Kind, name string, owner *syntax.Decl, from, to token.Pos, text string) *syntax.Decl {
	start, end := p.offset(fi, from), p.offset(fi, to)
	d := &syntax.Decl{
		Kind:      kind,
		Name:      name,
		Package:   fi.pkg.PkgPath,
		Owner:     owner,
		Path:      rel,
		Start:     start,
		End:       end,
		StartLine: p.fset.PositionFor(from, false).Line,
		EndLine:   p.fset.PositionFor(to, false).Line,
		Text:      text,
	}
	if owner != nil {
		d.Qualified = owner.Qualified + "." + name
	}
	fi.decls = append(fi.decls, d)
	return d
}

func (p *Program) register(d *syntax.Decl, obj types.Object, node ast.Node, info *types.Info) {
	p.declByObj[obj] = d
	if k := p.posKey(obj); k != "" {
		p.declByPos[k] = d
	}
	p.objByDecl[d] = obj
	p.nodeBy[d] = node
	p.infoBy[d] = info
	if d.Qualified != "" {
		if _, taken := p.byName[d.Qualified]; !taken {
			p.byName[d.Qualified] = d
		}
	}
}

// declOf maps a types.Object to its decl. With tests loaded, go/packages
// type-checks a package twice (plain and test variant) and each variant has
// its own objects, so objects are also matched by declaring position.
func (p *Program) declOf(obj types.Object) *syntax.Decl {
	if obj == nil {
		return nil
	}
	if d := p.declByObj[obj]; d != nil {
		return d
	}
	return p.declByPos[p.posKey(obj)]
}

func (p *Program) posKey(obj types.Object) string {
	if p.fset == nil || !obj.Pos().IsValid() {
		return ""
	}
	pos := p.fset.PositionFor(obj.Pos(), false)
	return fmt.Sprintf("%s:%d", pos.Filename, pos.Offset)
}

// finish orders methods by position; receivers may be declared in later files.
func (p *Program) finish() {
	sort.Strings(p.order)
	for _, fi := range p.files {
		sort.SliceStable(fi.decls, func(i, j int) bool { return fi.decls[i].Start < fi.decls[j].Start })
	}
	for _, ms := range p.methods {
		sort.SliceStable(ms, func(i, j int) bool {
			if ms[i].Path != ms[j].Path {
				return ms[i].Path < ms[j].Path
			}
			return ms[i].Start < ms[j].Start
		})
	}
}

// ------------------------------ syntax.Program ------------------------------

func (p *Program) Language() string { return "go" }

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
		return fi.src, true
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

func (p *Program) ParamTypes(method *syntax.Decl) []syntax.Type {
	sig := p.signature(method)
	if sig == nil {
		return nil
	}
	return p.tupleTypes(sig.Params())
}

func (p *Program) ReturnTypes(method *syntax.Decl) []syntax.Type {
	sig := p.signature(method)
	if sig == nil {
		return nil
	}
	return p.tupleTypes(sig.Results())
}

func (p *Program) FieldType(field *syntax.Decl) (syntax.Type, bool) {
	v, ok := p.objByDecl[field].(*types.Var)
	if !ok {
		return syntax.Type{}, false
	}
	t := p.resolve(v.Type())
	return t, !t.Empty()
}

// Calls resolves every call expression in a function body to its declaration.
func (p *Program) Calls(method *syntax.Decl) []*syntax.Decl {
	fd, ok := p.nodeBy[method].(*ast.FuncDecl)
	if !ok || fd.Body == nil {
		return nil
	}
	info := p.infoBy[method]
	var out []*syntax.Decl
	seen := map[*syntax.Decl]bool{}
	ast.Inspect(fd.Body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		var id *ast.Ident
		switch fun := ast.Unparen(call.Fun).(type) {
		case *ast.Ident:
			id = fun
		case *ast.SelectorExpr:
			id = fun.Sel
		case *ast.IndexExpr:
			id = calleeIdent(fun.X)
		case *ast.IndexListExpr:
			id = calleeIdent(fun.X)
		}
		if id == nil {
			return true
		}
		fn, ok := info.Uses[id].(*types.Func)
		if !ok {
			return true
		}
		if d := p.declOf(fn.Origin()); d != nil && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
		return true
	})
	return out
}

// TypeUses returns every type expression in a function's signature and body.
// The receiver is left out.
func (p *Program) TypeUses(method *syntax.Decl) []syntax.Type {
	info := p.infoBy[method]
	var roots []ast.Node
	switch n := p.nodeBy[method].(type) {
	case *ast.FuncDecl:
		roots = append(roots, n.Type)
		if n.Body != nil {
			roots = append(roots, n.Body)
		}
	case *ast.Field:
		roots = append(roots, n.Type)
	default:
		return nil
	}

	var out []syntax.Type
	for _, root := range roots {
		ast.Inspect(root, func(n ast.Node) bool {
			e, ok := n.(ast.Expr)
			if !ok {
				return true
			}
			if tv, ok := info.Types[e]; ok && tv.IsType() {
				if t := p.resolve(tv.Type); !t.Empty() {
					out = append(out, t)
				}
				return true
			}
			if id, ok := e.(*ast.Ident); ok {
				if tn, ok := info.Uses[id].(*types.TypeName); ok {
					if t := p.resolve(tn.Type()); !t.Empty() {
						out = append(out, t)
					}
				}
			}
			return true
		})
	}
	return out
}

// IsStandard reports whether qualified names a standard library package or
// one of its members.
func (p *Program) IsStandard(qualified string) bool {
	pkg := packageOf(qualified)
	if pkg == "" || p.workspace[pkg] {
		return false
	}
	first := pkg
	if i := strings.IndexByte(pkg, '/'); i >= 0 {
		first = pkg[:i]
	}
	return !strings.Contains(first, ".")
}

// ------------------------------ Resolution ------------------------------

func (p *Program) signature(method *syntax.Decl) *types.Signature {
	fn, ok := p.objByDecl[method].(*types.Func)
	if !ok {
		return nil
	}
	sig, _ := fn.Type().(*types.Signature)
	return sig
}

func (p *Program) tupleTypes(tuple *types.Tuple) []syntax.Type {
	if tuple == nil {
		return nil
	}
	var out []syntax.Type
	for i := 0; i < tuple.Len(); i++ {
		if t := p.resolve(tuple.At(i).Type()); !t.Empty() {
			out = append(out, t)
		}
	}
	return out
}

// resolve maps a type to its declaration and the declarations of its type
// arguments. Containers (slices, maps, channels) contribute their elements
// as arguments.
func (p *Program) resolve(t types.Type) syntax.Type {
	t = deref(types.Unalias(t))
	switch tt := t.(type) {
	case *types.Named:
		out := syntax.Type{Class: p.declOf(tt.Origin().Obj())}
		if args := tt.TypeArgs(); args != nil {
			for i := 0; i < args.Len(); i++ {
				out.Args = append(out.Args, p.namedDecl(args.At(i)))
			}
		}
		return out
	case *types.Slice:
		return syntax.Type{Args: []*syntax.Decl{p.namedDecl(tt.Elem())}}
	case *types.Array:
		return syntax.Type{Args: []*syntax.Decl{p.namedDecl(tt.Elem())}}
	case *types.Chan:
		return syntax.Type{Args: []*syntax.Decl{p.namedDecl(tt.Elem())}}
	case *types.Map:
		return syntax.Type{Args: []*syntax.Decl{p.namedDecl(tt.Key()), p.namedDecl(tt.Elem())}}
	}
	return syntax.Type{}
}

func (p *Program) namedDecl(t types.Type) *syntax.Decl {
	if n, ok := deref(types.Unalias(t)).(*types.Named); ok {
		return p.declOf(n.Origin().Obj())
	}
	return nil
}

// ------------------------------ Small utilities ------------------------------

func (p *Program) offset(fi *fileInfo, pos token.Pos) int {
	if fi.tf == nil {
		return p.fset.PositionFor(pos, false).Offset
	}
	return fi.tf.Offset(pos)
}

func (p *Program) slice(fi *fileInfo, from, to token.Pos) string {
	a, b := p.offset(fi, from), p.offset(fi, to)
	if a < 0 || b > len(fi.src) || a > b {
		return ""
	}
	return fi.src[a:b]
}

func receiverNamed(fn *types.Func) *types.Named {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return nil
	}
	if rn, ok := deref(types.Unalias(sig.Recv().Type())).(*types.Named); ok {
		return rn
	}
	return nil
}

func deref(t types.Type) types.Type {
	for {
		ptr, ok := t.(*types.Pointer)
		if !ok {
			return t
		}
		t = types.Unalias(ptr.Elem())
	}
}

func embeddedIdent(e ast.Expr) *ast.Ident {
	switch t := e.(type) {
	case *ast.Ident:
		return t
	case *ast.StarExpr:
		return embeddedIdent(t.X)
	case *ast.SelectorExpr:
		return t.Sel
	case *ast.IndexExpr:
		return embeddedIdent(t.X)
	case *ast.IndexListExpr:
		return embeddedIdent(t.X)
	}
	return nil
}

func calleeIdent(e ast.Expr) *ast.Ident {
	switch t := ast.Unparen(e).(type) {
	case *ast.Ident:
		return t
	case *ast.SelectorExpr:
		return t.Sel
	}
	return nil
}

func typeKeyword(e ast.Expr) string {
	switch e.(type) {
	case *ast.StructType:
		return " struct"
	case *ast.InterfaceType:
		return " interface"
	}
	return ""
}

// packageOf strips a trailing ".Member" from a qualified Go name.
func packageOf(qualified string) string {
	slash := strings.LastIndexByte(qualified, '/')
	if dot := strings.IndexByte(qualified[slash+1:], '.'); dot >= 0 {
		return qualified[:slash+1+dot]
	}
	return qualified
}
