package related

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vd09-projects/relctx/internal/syntax"
	"github.com/vd09-projects/relctx/internal/syntax/syntaxtest"
)

func newCollector(t *testing.T, p syntax.Program) *Collector {
	t.Helper()
	c, err := New(p, Options{})
	require.NoError(t, err)
	return c
}

func TestFullClassName(t *testing.T) {
	p := syntaxtest.New("java")
	svc := p.Class("Svc.java", "com.acme.Svc", 0, 100)
	run := p.Method(svc, "run", 10, 20)
	free := &syntax.Decl{Kind: syntax.KindMethod, Name: "main"}

	c := newCollector(t, p)

	name, ok := c.FullClassName(run)
	assert.True(t, ok)
	assert.Equal(t, "com.acme.Svc", name)

	_, ok = c.FullClassName(svc)
	assert.False(t, ok, "classes have no containing class name")

	_, ok = c.FullClassName(free)
	assert.False(t, ok)
}

func TestRelatedClassMethod(t *testing.T) {
	p := syntaxtest.New("java")
	svc := p.Class("Svc.java", "com.acme.Svc", 0, 100)
	user := p.Class("User.java", "com.acme.User", 0, 10)
	order := p.Class("Order.java", "com.acme.Order", 0, 10)
	list := p.Class("List.java", "java.util.List", 0, 10)
	logger := p.Class("Logger.java", "org.slf4j.Logger", 0, 10)

	find := p.Method(svc, "find", 10, 20)
	p.Params[find] = []syntax.Type{{Class: user}, {Class: logger}}
	p.Returns[find] = []syntax.Type{{Class: list, Args: []*syntax.Decl{order, user}}}

	c := newCollector(t, p)

	decls := c.RelatedDecls(find)
	assert.Equal(t, []*syntax.Decl{user, logger, list, order}, decls)

	out := c.RelatedClass(find)
	assert.Equal(t, "class User {}\nclass Order {}\n", out)
}

func TestRelatedClassClass(t *testing.T) {
	p := syntaxtest.New("java")
	svc := p.Class("Svc.java", "com.acme.Svc", 0, 100)
	user := p.Class("User.java", "com.acme.User", 0, 10)
	repo := p.Class("Repo.java", "com.acme.Repo", 0, 10)
	result := p.Class("Result.java", "com.acme.Result", 0, 10)

	save := p.Method(svc, "save", 10, 20)
	p.Params[save] = []syntax.Type{{Class: user}}
	// class relations only look at parameters, never returns
	p.Returns[save] = []syntax.Type{{Class: result}}
	p.Field(svc, "repo", syntax.Type{Class: repo})
	p.Field(svc, "again", syntax.Type{Class: user})

	c := newCollector(t, p)
	assert.Equal(t, []*syntax.Decl{user, repo}, c.RelatedDecls(svc))
}

func TestRelatedClassOtherKinds(t *testing.T) {
	p := syntaxtest.New("java")
	c := newCollector(t, p)
	assert.Empty(t, c.RelatedClass(&syntax.Decl{Kind: syntax.KindField}))
	assert.Empty(t, c.RelatedClass(nil))
}

func TestRenderSkipsIgnored(t *testing.T) {
	p := syntaxtest.New("java")
	own := p.Class("A.java", "com.acme.A", 0, 10)
	jdk := p.Class("String.java", "java.lang.String", 0, 10)
	noName := &syntax.Decl{Kind: syntax.KindClass, Text: "anon"}
	jdkMethod := p.Method(jdk, "trim", 1, 2)
	orphan := &syntax.Decl{Kind: syntax.KindMethod, Name: "x", Text: "orphan"}
	ownMethod := p.Method(own, "go", 1, 2)

	c := newCollector(t, p)
	out := c.Render([]*syntax.Decl{own, jdk, noName, jdkMethod, orphan, ownMethod, nil})
	assert.Equal(t, "class A {}\nvoid go() {}\n", out)
}

func TestRenderGoFreeFunctionUsesPackage(t *testing.T) {
	p := syntaxtest.New("go")
	p.Standard = func(q string) bool { return strings.HasPrefix(q, "strings") }
	fn := &syntax.Decl{Kind: syntax.KindMethod, Name: "Run", Package: "example.com/app", Text: "func Run() {}"}
	std := &syntax.Decl{Kind: syntax.KindMethod, Name: "Trim", Package: "strings", Text: "func Trim() {}"}

	c := newCollector(t, p)
	assert.Equal(t, "func Run() {}\n", c.Render([]*syntax.Decl{fn, std}))
	assert.True(t, c.Ignored(std))
	assert.False(t, c.Ignored(fn))
}

func TestRenderMaxLines(t *testing.T) {
	p := syntaxtest.New("java")
	big := p.Class("Big.java", "com.acme.Big", 0, 10)
	big.Text = "class Big {\n  int a;\n  int b;\n}"

	c, err := New(p, Options{MaxLines: 2})
	require.NoError(t, err)
	assert.Equal(t, "class Big {\n  int a;\n// ... trimmed ...\n", c.Render([]*syntax.Decl{big}))
}

func TestCompletionInsideMethod(t *testing.T) {
	p := syntaxtest.New("java")
	svc := p.Class("Svc.java", "com.acme.Svc", 0, 200)
	helper := p.Class("Helper.java", "com.acme.Helper", 0, 10)
	dto := p.Class("Dto.java", "com.acme.Dto", 0, 10)
	run := p.Method(svc, "run", 50, 100)
	assist := p.Method(helper, "assist", 1, 5)

	p.CallsOf[run] = []*syntax.Decl{assist, nil, assist}
	p.Uses[run] = []syntax.Type{{Class: dto}, {Class: helper}, {Class: dto}}

	c := newCollector(t, p)
	out, ok := c.CompletionRelatedClass("Svc.java", 60)
	require.True(t, ok)
	assert.Equal(t, "void assist() {}\nclass Dto {}\nclass Helper {}\n", out)
}

func TestCompletionInsideClass(t *testing.T) {
	p := syntaxtest.New("java")
	svc := p.Class("Svc.java", "com.acme.Svc", 0, 200)
	inner := p.Class("Svc.java", "com.acme.Svc.Inner", 120, 180)
	inner.Owner = svc
	repo := p.Class("Repo.java", "com.acme.Repo", 0, 10)
	cache := p.Class("Cache.java", "com.acme.Cache", 0, 10)
	p.Method(svc, "run", 50, 100)
	p.Field(svc, "repo", syntax.Type{Class: repo})
	p.Field(inner, "cache", syntax.Type{Class: cache})

	c := newCollector(t, p)

	out, ok := c.CompletionRelatedClass("Svc.java", 10)
	require.True(t, ok)
	assert.Equal(t, "class Repo {}\nclass Cache {}\n", out)

	// innermost class only sees its own fields
	out, ok = c.CompletionRelatedClass("Svc.java", 130)
	require.True(t, ok)
	assert.Equal(t, "class Cache {}\n", out)
}

func TestCompletionOutsideAnything(t *testing.T) {
	p := syntaxtest.New("java")
	p.Class("Svc.java", "com.acme.Svc", 10, 20)
	c := newCollector(t, p)

	out, ok := c.CompletionRelatedClass("Svc.java", 500)
	assert.False(t, ok)
	assert.Empty(t, out)
}

func TestFilter(t *testing.T) {
	f := DefaultFilter("java", nil, "com.vendor", " ")
	assert.True(t, f.Ignore(""))
	assert.True(t, f.Ignore("java.util.List"))
	assert.True(t, f.Ignore("javax.inject.Inject"))
	assert.True(t, f.Ignore("org.slf4j.Logger"))
	assert.True(t, f.Ignore("ch.qos.logback.classic.Logger"))
	assert.True(t, f.Ignore("com.vendor.Thing"))
	assert.False(t, f.Ignore("com.acme.User"))

	g := DefaultFilter("go", func(q string) bool { return !strings.Contains(q, ".") })
	assert.True(t, g.Ignore("go.uber.org/zap.Logger"))
	assert.True(t, g.Ignore("context"))
	assert.False(t, g.Ignore("example.com/app.User"))

	var nilFilter *Filter
	assert.False(t, nilFilter.Ignore("anything"))
	assert.True(t, nilFilter.Ignore(""))
}
