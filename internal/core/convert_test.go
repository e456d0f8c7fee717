package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vd09-projects/relctx/internal/model"
)

func TestToRecords(t *testing.T) {
	repo := &RepoNode{
		Root: "/repo",
		Lang: "java",
		Files: []*FileNode{
			{RelPath: "b/B.java", Decls: []*DeclNode{
				{Symbol: "b.B", Kind: "class", Signature: " class B ", StartLine: 1, EndLine: 3, Code: "class B {}\n"},
			}},
			{RelPath: "a/A.java", Decls: []*DeclNode{
				{Symbol: "a.A.run", Kind: "method", StartLine: 9, EndLine: 12, Aspects: map[AspectKind]any{
					AspectOwner:   "a.A",
					AspectContext: "class B {}\n",
					AspectRelated: []model.RelatedRef{{Kind: "class", Symbol: "b.B", Path: "b/B.java", StartLine: 1, EndLine: 3}},
				}},
				{Symbol: "a.A", Kind: "class", StartLine: 2, EndLine: 20},
			}},
		},
	}

	recs := ToRecords(repo, "acme/shop", "abc123")
	require.Len(t, recs, 3)

	assert.Equal(t, []string{"a.A", "a.A.run", "b.B"}, []string{recs[0].Symbol, recs[1].Symbol, recs[2].Symbol})
	assert.Equal(t, "java", recs[0].Lang)
	assert.Equal(t, "acme/shop", recs[0].Repo)
	assert.Equal(t, "abc123", recs[0].Commit)

	run := recs[1]
	assert.Equal(t, "a.A", run.Owner)
	assert.Equal(t, "class B {}\n", run.Context)
	require.Len(t, run.Related, 1)
	assert.Equal(t, "b.B", run.Related[0].Symbol)

	assert.Equal(t, "class B", recs[2].Signature)
	assert.Empty(t, recs[0].Related)
}

func TestRecordJSONOmitsEmpty(t *testing.T) {
	b, err := model.Record{Symbol: "x"}.ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(b), "related")
	assert.NotContains(t, string(b), "owner")
	assert.Contains(t, string(b), `"symbol":"x"`)
}

func TestToRecordsCarriesPipelineAspects(t *testing.T) {
	cg := &model.CallGraph{Callers: []model.Edge{{Symbol: "a.A.main", Path: "a/A.java"}}}
	sel := &model.Selection{Visibility: "public", Reason: "other", Score: 0.5}
	repo := &RepoNode{Files: []*FileNode{{RelPath: "a/A.java", Decls: []*DeclNode{
		{Symbol: "a.A.run", Aspects: map[AspectKind]any{
			AspectNeighbors: []model.Neighbor{{Path: "a/A.java", StartLine: 7, EndLine: 8, Code: "// run"}},
			AspectCallGraph: cg,
			AspectSelection: sel,
		}},
	}}}}

	recs := ToRecords(repo, "r", "c")
	require.Len(t, recs, 1)
	assert.Len(t, recs[0].Neighbors, 1)
	assert.Same(t, cg, recs[0].CallGraph)
	assert.Same(t, sel, recs[0].Selection)
}
