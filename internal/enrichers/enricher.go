package enrichers

import (
	"context"

	"github.com/vd09-projects/relctx/internal/core"
)

type Enricher interface {
	Kind() core.AspectKind
	Enrich(ctx context.Context, repo *core.RepoNode) error
}
