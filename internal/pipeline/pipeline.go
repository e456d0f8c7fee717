package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vd09-projects/relctx/internal/core"
	"github.com/vd09-projects/relctx/internal/enrichers"
	"github.com/vd09-projects/relctx/internal/extractor"
	"github.com/vd09-projects/relctx/internal/model"
	"github.com/vd09-projects/relctx/internal/stream"
	"github.com/vd09-projects/relctx/internal/syntax"
)

type Options struct {
	RepoRoot   string
	RepoName   string
	CommitHash string
}

type Pipeline struct {
	Program   syntax.Program
	Extractor extractor.Extractor
	Enrichers []enrichers.Enricher
	Emitter   stream.Emitter[model.Record]
	Log       *slog.Logger
}

func New(prog syntax.Program, ex extractor.Extractor, ens []enrichers.Enricher, em stream.Emitter[model.Record], log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{Program: prog, Extractor: ex, Enrichers: ens, Emitter: em, Log: log}
}

// Run extracts, enriches and emits every record; it returns how many were
// written.
func (p *Pipeline) Run(ctx context.Context, opts Options) (int, error) {
	files, err := p.Extractor.Extract(ctx, p.Program)
	if err != nil {
		return 0, fmt.Errorf("extract: %w", err)
	}
	repo := &core.RepoNode{
		Root:  opts.RepoRoot,
		Lang:  p.Program.Language(),
		Files: files,
	}

	// enrichment passes
	for _, enr := range p.Enrichers {
		if err := enr.Enrich(ctx, repo); err != nil {
			return 0, fmt.Errorf("enrich %s: %w", enr.Kind(), err)
		}
	}

	// flatten -> records
	recs := core.ToRecords(repo, opts.RepoName, opts.CommitHash)
	if err := p.Emitter.Emit(recs); err != nil {
		return 0, fmt.Errorf("emit: %w", err)
	}
	p.Log.Info("scan complete", "files", len(files), "records", len(recs), "lang", repo.Lang)
	return len(recs), nil
}
