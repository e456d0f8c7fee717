package callgraph

import (
	"context"
	"log/slog"

	ncg "github.com/vd09-projects/relctx/internal/callgraph"
	"github.com/vd09-projects/relctx/internal/core"
	"github.com/vd09-projects/relctx/internal/syntax"
)

type Config struct {
	MaxCallers int
	MaxCallees int
}

// Enricher attaches callers and callees to every extracted method.
type Enricher struct {
	cfg   Config
	graph *ncg.Graph
	log   *slog.Logger
}

func New(cfg Config, graph *ncg.Graph, log *slog.Logger) *Enricher {
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{cfg: cfg, graph: graph, log: log}
}

func (e *Enricher) Kind() core.AspectKind { return core.AspectCallGraph }

func (e *Enricher) Enrich(ctx context.Context, repo *core.RepoNode) error {
	if repo == nil || e.graph == nil {
		return nil
	}
	edges := 0
	for _, f := range repo.Files {
		if f == nil || len(f.Decls) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, dn := range f.Decls {
			if dn.Decl == nil || dn.Decl.Kind != syntax.KindMethod {
				continue
			}
			res := e.graph.Result(dn.Decl, e.cfg.MaxCallers, e.cfg.MaxCallees)
			if len(res.Callers) == 0 && len(res.Callees) == 0 {
				continue
			}
			if dn.Aspects == nil {
				dn.Aspects = make(map[core.AspectKind]any, 1)
			}
			dn.Aspects[core.AspectCallGraph] = &res
			edges += len(res.Callers) + len(res.Callees)
		}
	}
	e.log.Debug("call edges attached", "edges", edges)
	return nil
}
