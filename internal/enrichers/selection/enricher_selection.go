package selection

import (
	"context"

	"github.com/vd09-projects/relctx/internal/core"
	"github.com/vd09-projects/relctx/internal/model"
)

// Enricher scores every extracted declaration for sampling.
type Enricher struct {
	Strat Strategy
}

func New(strat Strategy) *Enricher {
	return &Enricher{Strat: strat}
}

func (e *Enricher) Kind() core.AspectKind { return core.AspectSelection }

func (e *Enricher) Enrich(ctx context.Context, repo *core.RepoNode) error {
	if repo == nil || e.Strat == nil {
		return nil
	}
	for _, f := range repo.Files {
		if f == nil || len(f.Decls) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, dn := range f.Decls {
			if dn.Decl == nil {
				continue
			}
			if dn.Aspects == nil {
				dn.Aspects = make(map[core.AspectKind]any, 1)
			}
			dn.Aspects[core.AspectSelection] = &model.Selection{
				Visibility: e.Strat.Visibility(dn),
				Reason:     e.Strat.ClassifyReason(dn),
				FanIn:      e.Strat.FanIn(dn),
				Score:      e.Strat.Score(dn),
			}
		}
	}
	return nil
}
