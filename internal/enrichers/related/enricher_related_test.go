package related

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vd09-projects/relctx/internal/core"
	"github.com/vd09-projects/relctx/internal/model"
	rel "github.com/vd09-projects/relctx/internal/related"
	"github.com/vd09-projects/relctx/internal/syntax"
	"github.com/vd09-projects/relctx/internal/syntax/syntaxtest"
)

func TestEnrich(t *testing.T) {
	p := syntaxtest.New("java")
	svc := p.Class("Svc.java", "com.acme.Svc", 0, 100)
	user := p.Class("User.java", "com.acme.User", 0, 10)
	user.StartLine, user.EndLine = 3, 9
	str := p.Class("String.java", "java.lang.String", 0, 10)
	run := p.Method(svc, "run", 10, 20)
	p.Params[run] = []syntax.Type{{Class: user}, {Class: str}}
	p.Returns[run] = []syntax.Type{{Class: svc}}

	c, err := rel.New(p, rel.Options{})
	require.NoError(t, err)

	runNode := &core.DeclNode{Decl: run}
	svcNode := &core.DeclNode{Decl: svc, Aspects: map[core.AspectKind]any{}}
	repo := &core.RepoNode{Files: []*core.FileNode{{RelPath: "Svc.java", Decls: []*core.DeclNode{svcNode, runNode}}}}

	e := New(Config{}, c, nil)
	assert.Equal(t, core.AspectRelated, e.Kind())
	require.NoError(t, e.Enrich(context.Background(), repo))

	assert.Equal(t, "com.acme.Svc", runNode.Aspects[core.AspectOwner])
	assert.Equal(t, []model.RelatedRef{
		{Kind: "class", Symbol: "com.acme.User", Path: "User.java", StartLine: 3, EndLine: 9},
		{Kind: "class", Symbol: "com.acme.Svc", Path: "Svc.java", StartLine: 1, EndLine: 1},
	}, runNode.Aspects[core.AspectRelated])
	assert.Equal(t, "class User {}\nclass Svc {}\n", runNode.Aspects[core.AspectContext])

	// classes relate through their method parameters and have no owner
	refs := svcNode.Aspects[core.AspectRelated].([]model.RelatedRef)
	require.Len(t, refs, 1)
	assert.Equal(t, "com.acme.User", refs[0].Symbol)
	assert.NotContains(t, svcNode.Aspects, core.AspectOwner)
}

func TestEnrichMaxRefs(t *testing.T) {
	p := syntaxtest.New("java")
	svc := p.Class("Svc.java", "com.acme.Svc", 0, 100)
	a := p.Class("A.java", "com.acme.A", 0, 10)
	b := p.Class("B.java", "com.acme.B", 0, 10)
	run := p.Method(svc, "run", 10, 20)
	p.Params[run] = []syntax.Type{{Class: a}, {Class: b}}

	c, err := rel.New(p, rel.Options{})
	require.NoError(t, err)
	node := &core.DeclNode{Decl: run}
	repo := &core.RepoNode{Files: []*core.FileNode{{Decls: []*core.DeclNode{node}}}}

	require.NoError(t, New(Config{MaxRefs: 1}, c, nil).Enrich(context.Background(), repo))
	refs := node.Aspects[core.AspectRelated].([]model.RelatedRef)
	require.Len(t, refs, 1)
	assert.Equal(t, "com.acme.A", refs[0].Symbol)
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, defaultMaxRefs, Config{}.withDefaults().MaxRefs)
	assert.Equal(t, hardCapMaxRefs, Config{MaxRefs: 1000}.withDefaults().MaxRefs)
	assert.Equal(t, 5, Config{MaxRefs: 5}.withDefaults().MaxRefs)
}

func TestEnrichCancelled(t *testing.T) {
	p := syntaxtest.New("go")
	c, err := rel.New(p, rel.Options{})
	require.NoError(t, err)
	repo := &core.RepoNode{Files: []*core.FileNode{{Decls: []*core.DeclNode{{}}}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, New(Config{}, c, nil).Enrich(ctx, repo), context.Canceled)
}
