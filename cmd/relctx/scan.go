package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vd09-projects/relctx/internal/callgraph"
	"github.com/vd09-projects/relctx/internal/config"
	"github.com/vd09-projects/relctx/internal/enrichers"
	cgenricher "github.com/vd09-projects/relctx/internal/enrichers/callgraph"
	"github.com/vd09-projects/relctx/internal/enrichers/neighbors"
	relenricher "github.com/vd09-projects/relctx/internal/enrichers/related"
	"github.com/vd09-projects/relctx/internal/enrichers/selection"
	"github.com/vd09-projects/relctx/internal/extractor"
	"github.com/vd09-projects/relctx/internal/gitutil"
	"github.com/vd09-projects/relctx/internal/model"
	"github.com/vd09-projects/relctx/internal/pipeline"
	"github.com/vd09-projects/relctx/internal/stream"
	"github.com/vd09-projects/relctx/internal/syntax"
	"github.com/vd09-projects/relctx/internal/utils"
)

var (
	scanOut       string
	scanCommit    string
	scanNoRelated bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Emit one JSONL record per class and method",
	Long: `Scan the repository and write one JSON record per class and method,
with its trimmed code and the related declarations collected for it.
Depending on the config, records also carry the surrounding lines
(neighbors), callers and callees (callgraph) and a sampling score
(selection).

Records go to stdout unless --out is given; an existing file is appended
to after a "# Run at" header line.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOut, "out", "o", "", "JSONL output file (default stdout)")
	scanCmd.Flags().StringVar(&scanCommit, "commit", "", "Commit ref recorded in every record (default HEAD)")
	scanCmd.Flags().BoolVar(&scanNoRelated, "no-related", false, "Skip related-context collection")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	e := envOf(cmd)
	ctx := cmd.Context()

	prog, err := e.loadProgram(ctx)
	if err != nil {
		return err
	}
	defer closeProgram(prog)

	ens, err := e.buildEnrichers(ctx, prog)
	if err != nil {
		return err
	}

	em := stream.NewJSONLEmitter[model.Record](scanOut, func(r model.Record) ([]byte, error) { return r.ToJSON() }, scanOut != "")
	pl := pipeline.New(prog, extractor.NewDeclExtractor(e.cfg.MinLines, e.cfg.MaxLines), ens, em, e.log)

	n, err := pl.Run(ctx, pipeline.Options{
		RepoRoot:   e.root,
		RepoName:   gitutil.InferRepoName(ctx, e.root),
		CommitHash: gitutil.ResolveCommit(ctx, e.root, scanCommit),
	})
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	e.log.Debug("records written", "count", n, "out", utils.If(scanOut == "", "stdout").Else(scanOut))
	return nil
}

// buildEnrichers builds the configured enrichment chain. The call graph is
// built once and shared by the callgraph and selection enrichers.
func (e *env) buildEnrichers(ctx context.Context, prog syntax.Program) ([]enrichers.Enricher, error) {
	cfg := e.cfg
	var ens []enrichers.Enricher
	if !scanNoRelated {
		c, err := e.collector(prog)
		if err != nil {
			return nil, err
		}
		ens = append(ens, relenricher.New(relenricher.Config{MaxRefs: cfg.RelatedMaxRefs}, c, e.log))
	}
	if cfg.Neighbors != (config.NeighborsConfig{}) {
		ens = append(ens, neighbors.New(neighbors.Config{Before: cfg.Neighbors.Before, After: cfg.Neighbors.After}))
	}

	wantCalls := cfg.CallGraph.MaxCallers > 0 || cfg.CallGraph.MaxCallees > 0
	if !wantCalls && !cfg.Selection {
		return ens, nil
	}
	graph, err := callgraph.Build(ctx, prog)
	if err != nil {
		return nil, fmt.Errorf("build call graph: %w", err)
	}
	if wantCalls {
		ens = append(ens, cgenricher.New(cgenricher.Config{
			MaxCallers: cfg.CallGraph.MaxCallers,
			MaxCallees: cfg.CallGraph.MaxCallees,
		}, graph, e.log))
	}
	if cfg.Selection {
		ens = append(ens, selection.New(selection.NewDefaultStrategy(prog.Language(), graph)))
	}
	return ens, nil
}
