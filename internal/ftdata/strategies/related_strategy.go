package strategies

import (
	"fmt"
	"strings"

	ft "github.com/vd09-projects/relctx/internal/ftdata"
	"github.com/vd09-projects/relctx/internal/model"
)

// RelatedStrategy asks which declarations a record depends on.
type RelatedStrategy struct{}

func NewRelatedStrategy() *RelatedStrategy { return &RelatedStrategy{} }

func (*RelatedStrategy) Name() string { return "related" }

func (rs *RelatedStrategy) Apply(rec model.Record) []*ft.FineTuneRecord {
	if len(rec.Related) == 0 {
		return nil
	}
	q := ft.NewBaseContext(rec)
	q.Code = rec.Code

	names := make([]string, 0, len(rec.Related))
	for _, r := range rec.Related {
		names = append(names, "- "+r.Symbol+" ("+r.Kind+", "+r.Path+")")
	}
	ans := ft.NewBaseContext(rec)
	ans.Related = rec.Related
	ans.Context = rec.Context

	return []*ft.FineTuneRecord{ft.NewFineTuneRecord(rs.Name()).
		Ask(q, fmt.Sprintf("Which declarations does %q depend on through its parameter, return and field types?", rec.Symbol)).
		Answer(ans, strings.Join(names, "\n"))}
}

// CompletionStrategy gives the signature and the related declarations and
// asks for the body, the way a code assistant sees it.
type CompletionStrategy struct{}

func NewCompletionStrategy() *CompletionStrategy { return &CompletionStrategy{} }

func (*CompletionStrategy) Name() string { return "completion" }

func (cs *CompletionStrategy) Apply(rec model.Record) []*ft.FineTuneRecord {
	if rec.Kind != "method" || rec.Context == "" || rec.Code == "" {
		return nil
	}
	q := ft.NewBaseContext(rec)
	q.Context = rec.Context
	q.Neighbors = rec.Neighbors

	return []*ft.FineTuneRecord{ft.NewFineTuneRecord(cs.Name()).
		Ask(q, fmt.Sprintf("Implement %s using the related declarations in the context.", rec.Signature)).
		Answer(nil, rec.Code)}
}

// All returns every strategy, signature first.
func All() []ft.QuestionStrategy {
	return []ft.QuestionStrategy{
		NewSignatureStrategy(),
		NewCallgraphStrategy(),
		NewRelatedStrategy(),
		NewCompletionStrategy(),
	}
}
