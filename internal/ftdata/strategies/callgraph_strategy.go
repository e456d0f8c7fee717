package strategies

import (
	"fmt"

	ft "github.com/vd09-projects/relctx/internal/ftdata"
	"github.com/vd09-projects/relctx/internal/model"
	"github.com/vd09-projects/relctx/internal/utils"
)

const maxListed = 5

type CallgraphStrategy struct{}

func NewCallgraphStrategy() *CallgraphStrategy { return &CallgraphStrategy{} }

func (*CallgraphStrategy) Name() string { return "callgraph" }

func (cs *CallgraphStrategy) Apply(rec model.Record) []*ft.FineTuneRecord {
	if rec.CallGraph == nil {
		return nil
	}
	var out []*ft.FineTuneRecord
	if callers := rec.CallGraph.Callers; len(callers) > 0 {
		ans := ft.NewBaseContext(rec)
		ans.Callers = callers[:utils.Min(maxListed, len(callers))]
		out = append(out, ft.NewFineTuneRecord(cs.Name()).
			Ask(ft.NewBaseContext(rec), fmt.Sprintf("Can you list up to %d callers of %q?", maxListed, rec.Symbol)).
			Answer(ans, ""))
	}
	if callees := rec.CallGraph.Callees; len(callees) > 0 {
		q := ft.NewBaseContext(rec)
		q.Code = rec.Code
		ans := ft.NewBaseContext(rec)
		ans.Callees = callees[:utils.Min(maxListed, len(callees))]
		out = append(out, ft.NewFineTuneRecord(cs.Name()).
			Ask(q, fmt.Sprintf("Which methods of this repository does %q call?", rec.Symbol)).
			Answer(ans, ""))
	}
	return out
}
