package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vd09-projects/relctx/internal/core"
	"github.com/vd09-projects/relctx/internal/enrichers"
	relenricher "github.com/vd09-projects/relctx/internal/enrichers/related"
	"github.com/vd09-projects/relctx/internal/extractor"
	"github.com/vd09-projects/relctx/internal/model"
	"github.com/vd09-projects/relctx/internal/related"
	"github.com/vd09-projects/relctx/internal/stream"
	"github.com/vd09-projects/relctx/internal/syntax"
	"github.com/vd09-projects/relctx/internal/syntax/syntaxtest"
)

func program() *syntaxtest.Program {
	p := syntaxtest.New("java")
	p.Sources["Svc.java"] = "class Svc {}\n"
	p.Sources["User.java"] = "class User {}\n"
	svc := p.Class("Svc.java", "com.acme.Svc", 0, 100)
	user := p.Class("User.java", "com.acme.User", 0, 10)
	run := p.Method(svc, "run", 10, 20)
	run.StartLine, run.EndLine = 4, 6
	p.Params[run] = []syntax.Type{{Class: user}}
	return p
}

func TestRun(t *testing.T) {
	p := program()
	c, err := related.New(p, related.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	pl := New(p,
		extractor.NewDeclExtractor(0, 0),
		[]enrichers.Enricher{relenricher.New(relenricher.Config{}, c, nil)},
		stream.NewJSONLWriter[model.Record](&buf, nil, false),
		nil,
	)
	n, err := pl.Run(context.Background(), Options{RepoRoot: "/repo", RepoName: "acme/shop", CommitHash: "abc"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	recs, err := stream.NewJSONLReaderFrom[model.Record](&buf, nil).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)

	var run model.Record
	for _, r := range recs {
		assert.Equal(t, "java", r.Lang)
		assert.Equal(t, "acme/shop", r.Repo)
		if r.Symbol == "com.acme.Svc.run" {
			run = r
		}
	}
	assert.Equal(t, "method", run.Kind)
	assert.Equal(t, "com.acme.Svc", run.Owner)
	assert.Equal(t, "class User {}\n", run.Context)
	require.Len(t, run.Related, 1)
	assert.Equal(t, "com.acme.User", run.Related[0].Symbol)
}

type failing struct{}

func (failing) Kind() core.AspectKind { return "broken" }
func (failing) Enrich(context.Context, *core.RepoNode) error {
	return errors.New("boom")
}

func TestRunEnricherError(t *testing.T) {
	var buf bytes.Buffer
	pl := New(program(), extractor.NewDeclExtractor(0, 0), []enrichers.Enricher{failing{}},
		stream.NewJSONLWriter[model.Record](&buf, nil, false), nil)
	_, err := pl.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "enrich broken: "))
	assert.Zero(t, buf.Len())
}
