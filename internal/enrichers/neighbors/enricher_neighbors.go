package neighbors

import (
	"context"
	"strings"

	"github.com/vd09-projects/relctx/internal/core"
	"github.com/vd09-projects/relctx/internal/model"
	"github.com/vd09-projects/relctx/internal/utils"
)

const maxSpan = 30

type Config struct {
	Before int
	After  int
}

// Enricher attaches the source lines just above and below each declaration,
// which usually hold its doc comment, annotations or the next member.
type Enricher struct{ cfg Config }

func New(cfg Config) *Enricher { return &Enricher{cfg: cfg} }

func (e *Enricher) Kind() core.AspectKind { return core.AspectNeighbors }

func (e *Enricher) Enrich(ctx context.Context, repo *core.RepoNode) error {
	if repo == nil {
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
			nbs := e.BuildNeighborsFromLines(f.Lines, f.RelPath, dn.StartLine, dn.EndLine)
			if len(nbs) == 0 {
				continue
			}
			if dn.Aspects == nil {
				dn.Aspects = make(map[core.AspectKind]any, 1)
			}
			dn.Aspects[core.AspectNeighbors] = nbs
		}
	}
	return nil
}

// BuildNeighborsFromLines returns up to Before lines above startLine and
// After lines below endLine (both 1-based), each capped at 30. Blank
// windows are dropped.
func (e *Enricher) BuildNeighborsFromLines(lines []string, relPath string, startLine, endLine int) []model.Neighbor {
	before := utils.Clamp(e.cfg.Before, 0, maxSpan)
	after := utils.Clamp(e.cfg.After, 0, maxSpan)
	if before == 0 && after == 0 {
		return nil
	}

	var out []model.Neighbor
	if before > 0 {
		s := utils.Max(1, startLine-before)
		end := utils.Min(len(lines), startLine-1)
		if nb, ok := window(lines, relPath, s, end); ok {
			out = append(out, nb)
		}
	}
	if after > 0 {
		s := endLine + 1
		end := utils.Min(len(lines), endLine+after)
		if nb, ok := window(lines, relPath, s, end); ok {
			out = append(out, nb)
		}
	}
	return out
}

func window(lines []string, relPath string, start, end int) (model.Neighbor, bool) {
	if start < 1 || end < start {
		return model.Neighbor{}, false
	}
	snip := strings.Join(lines[start-1:end], "\n")
	if strings.TrimSpace(snip) == "" {
		return model.Neighbor{}, false
	}
	return model.Neighbor{Path: relPath, StartLine: start, EndLine: end, Code: snip}, true
}
