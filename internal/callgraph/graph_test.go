package callgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vd09-projects/relctx/internal/model"
	"github.com/vd09-projects/relctx/internal/syntax"
	"github.com/vd09-projects/relctx/internal/syntax/syntaxtest"
)

func TestBuild(t *testing.T) {
	p := syntaxtest.New("java")
	svc := p.Class("Svc.java", "a.Svc", 0, 100)
	run := p.Method(svc, "run", 10, 40)
	stop := p.Method(svc, "stop", 50, 60)
	repo := p.Class("Repo.java", "a.Repo", 0, 50)
	find := p.Method(repo, "find", 5, 20)

	p.CallsOf[run] = []*syntax.Decl{find, stop, find, nil}
	p.CallsOf[stop] = []*syntax.Decl{find}

	g, err := Build(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, []*syntax.Decl{find, stop}, g.Callees(run))
	assert.Equal(t, []*syntax.Decl{run, stop}, g.Callers(find))
	assert.Equal(t, 2, g.FanIn(find))
	assert.Zero(t, g.FanIn(run))

	res := g.Result(find, 1, 5)
	assert.Equal(t, []model.Edge{{Symbol: "a.Svc.run", Path: "Svc.java"}}, res.Callers)
	assert.Nil(t, res.Callees)

	res = g.Result(run, 5, 5)
	assert.Equal(t, []model.Edge{
		{Symbol: "a.Repo.find", Path: "Repo.java"},
		{Symbol: "a.Svc.stop", Path: "Svc.java"},
	}, res.Callees)
}

func TestBuildStopsOnCancel(t *testing.T) {
	p := syntaxtest.New("go")
	p.Class("x.go", "x.T", 0, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, p)
	assert.ErrorIs(t, err, context.Canceled)
}
