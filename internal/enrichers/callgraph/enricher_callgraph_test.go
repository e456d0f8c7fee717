package callgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ncg "github.com/vd09-projects/relctx/internal/callgraph"
	"github.com/vd09-projects/relctx/internal/core"
	"github.com/vd09-projects/relctx/internal/logging"
	"github.com/vd09-projects/relctx/internal/model"
	"github.com/vd09-projects/relctx/internal/syntax"
	"github.com/vd09-projects/relctx/internal/syntax/syntaxtest"
)

func TestEnrich(t *testing.T) {
	p := syntaxtest.New("java")
	svc := p.Class("Svc.java", "a.Svc", 0, 100)
	run := p.Method(svc, "run", 10, 40)
	find := p.Method(svc, "find", 50, 60)
	idle := p.Method(svc, "idle", 70, 80)
	p.CallsOf[run] = []*syntax.Decl{find}

	g, err := ncg.Build(context.Background(), p)
	require.NoError(t, err)

	nodes := map[*syntax.Decl]*core.DeclNode{}
	var decls []*core.DeclNode
	for _, d := range []*syntax.Decl{svc, run, find, idle} {
		dn := &core.DeclNode{Decl: d, Symbol: d.Qualified}
		nodes[d] = dn
		decls = append(decls, dn)
	}
	repo := &core.RepoNode{Files: []*core.FileNode{{RelPath: "Svc.java", Decls: decls}}}

	e := New(Config{MaxCallers: 4, MaxCallees: 4}, g, logging.Discard())
	assert.Equal(t, core.AspectCallGraph, e.Kind())
	require.NoError(t, e.Enrich(context.Background(), repo))

	cg := nodes[run].Aspects[core.AspectCallGraph].(*model.CallGraph)
	assert.Equal(t, []model.Edge{{Symbol: "a.Svc.find", Path: "Svc.java"}}, cg.Callees)
	assert.Empty(t, cg.Callers)

	cg = nodes[find].Aspects[core.AspectCallGraph].(*model.CallGraph)
	assert.Equal(t, []model.Edge{{Symbol: "a.Svc.run", Path: "Svc.java"}}, cg.Callers)

	assert.NotContains(t, nodes[idle].Aspects, core.AspectCallGraph)
	assert.NotContains(t, nodes[svc].Aspects, core.AspectCallGraph, "classes have no call edges")
}
