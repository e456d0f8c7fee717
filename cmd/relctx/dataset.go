package main

import (
	"fmt"

	"github.com/spf13/cobra"

	ft "github.com/vd09-projects/relctx/internal/ftdata"
	"github.com/vd09-projects/relctx/internal/ftdata/strategies"
	"github.com/vd09-projects/relctx/internal/model"
	"github.com/vd09-projects/relctx/internal/stream"
)

var (
	datasetIn         string
	datasetOut        string
	datasetStrategies []string
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Turn scan records into fine-tuning conversations",
	Long: `Read the JSONL written by "relctx scan" and write one chat-style
fine-tuning sample per strategy and record.

Strategies: signature, callgraph, related, completion.`,
	Args: cobra.NoArgs,
	RunE: runDataset,
}

func init() {
	datasetCmd.Flags().StringVarP(&datasetIn, "in", "i", "", "Scan JSONL (.gz accepted)")
	datasetCmd.Flags().StringVarP(&datasetOut, "out", "o", "", "Output JSONL (default stdout)")
	datasetCmd.Flags().StringSliceVarP(&datasetStrategies, "strategy", "s", []string{"signature", "related", "completion"}, "Strategies to run")
	_ = datasetCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(datasetCmd)
}

func runDataset(cmd *cobra.Command, _ []string) error {
	e := envOf(cmd)
	reg, err := ft.NewQuestionRegistry().Register(strategies.All()...).Select(datasetStrategies...)
	if err != nil {
		return err
	}
	gen := ft.NewGenerator(reg)

	jr, err := stream.NewJSONLReader[model.Record](datasetIn, nil)
	if err != nil {
		return err
	}
	defer jr.Close()
	je := stream.NewJSONLEmitter[*ft.FineTuneRecord](datasetOut, nil, datasetOut != "")

	records, samples := 0, 0
	for {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		rec, ok, err := jr.Next()
		if err != nil {
			return fmt.Errorf("read %s: %w", datasetIn, err)
		}
		if !ok {
			break
		}
		records++
		out := gen.Generate(rec)
		if len(out) == 0 {
			continue
		}
		if err := je.Emit(out); err != nil {
			return err
		}
		samples += len(out)
	}
	e.log.Info("dataset written", "records", records, "samples", samples)
	return nil
}
