package related

import (
	"context"
	"log/slog"

	"github.com/vd09-projects/relctx/internal/core"
	"github.com/vd09-projects/relctx/internal/model"
	rel "github.com/vd09-projects/relctx/internal/related"
	"github.com/vd09-projects/relctx/internal/syntax"
	"github.com/vd09-projects/relctx/internal/utils"
)

// ---------- Config & construction ----------

const (
	defaultMaxRefs = 16
	hardCapMaxRefs = 64
)

type Config struct {
	MaxRefs int
}

func (c Config) withDefaults() Config {
	out := c
	if out.MaxRefs <= 0 {
		out.MaxRefs = defaultMaxRefs
	}
	out.MaxRefs = utils.Min(out.MaxRefs, hardCapMaxRefs)
	return out
}

// Enricher attaches the related declarations of every extracted class and
// method, both as structured refs and as rendered context.
type Enricher struct {
	cfg       Config
	collector *rel.Collector
	log       *slog.Logger
}

func New(cfg Config, collector *rel.Collector, log *slog.Logger) *Enricher {
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{cfg: cfg.withDefaults(), collector: collector, log: log}
}

func (e *Enricher) Kind() core.AspectKind { return core.AspectRelated }

// ---------- Public API ----------

func (e *Enricher) Enrich(ctx context.Context, repo *core.RepoNode) error {
	if repo == nil || e.collector == nil {
		return nil
	}
	total := 0
	for _, f := range repo.Files {
		if f == nil || len(f.Decls) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, dn := range f.Decls {
			total += e.enrichDecl(dn)
		}
	}
	e.log.Debug("related refs attached", "refs", total)
	return nil
}

func (e *Enricher) enrichDecl(dn *core.DeclNode) int {
	if dn.Decl == nil {
		return 0
	}
	if dn.Aspects == nil {
		dn.Aspects = make(map[core.AspectKind]any, 3)
	}
	if owner, ok := e.collector.FullClassName(dn.Decl); ok {
		dn.Aspects[core.AspectOwner] = owner
	}

	var kept []*syntax.Decl
	for _, d := range e.collector.RelatedDecls(dn.Decl) {
		if d == dn.Decl || e.collector.Ignored(d) {
			continue
		}
		kept = append(kept, d)
		if len(kept) == e.cfg.MaxRefs {
			break
		}
	}
	if len(kept) == 0 {
		return 0
	}
	dn.Aspects[core.AspectRelated] = toRefs(kept)
	dn.Aspects[core.AspectContext] = utils.NormalizeCode(e.collector.Render(kept))
	return len(kept)
}

// ---------- Helpers ----------

func toRefs(decls []*syntax.Decl) []model.RelatedRef {
	out := make([]model.RelatedRef, 0, len(decls))
	for _, d := range decls {
		out = append(out, model.RelatedRef{
			Kind:      d.Kind.String(),
			Symbol:    d.Qualified,
			Path:      d.Path,
			StartLine: d.StartLine,
			EndLine:   d.EndLine,
		})
	}
	return out
}
