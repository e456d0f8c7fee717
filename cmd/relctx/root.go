package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vd09-projects/relctx/internal/config"
	"github.com/vd09-projects/relctx/internal/lang"
	"github.com/vd09-projects/relctx/internal/logging"
	"github.com/vd09-projects/relctx/internal/related"
	"github.com/vd09-projects/relctx/internal/source"
	"github.com/vd09-projects/relctx/internal/syntax"
)

var (
	repoFlag     string
	configFlag   string
	langFlag     string
	logLevelFlag string
)

// env is what every command gets after the root pre-run.
type env struct {
	root string
	cfg  *config.Config
	log  *slog.Logger
}

type envKey struct{}

var rootCmd = &cobra.Command{
	Use:   "relctx",
	Short: "Collect related declarations as code-assistant context",
	Long: `relctx indexes a Go module or a Java source tree and collects, for any
class or method, the declarations it depends on: parameter, return and
field types, their generic arguments and the methods it calls.

The collected source is meant as context for a completion or generation
prompt. relctx also keeps a small notification history and can update
itself.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", ".", "Repository root")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default <repo>/.relctx.yaml)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Language backend: go or java (default: detect)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level override (debug, info, warn, error)")
}

func setup(cmd *cobra.Command, _ []string) error {
	root, err := filepath.Abs(repoFlag)
	if err != nil {
		return fmt.Errorf("resolve repo: %w", err)
	}
	cfg, err := config.Load(root, configFlag)
	if err != nil {
		return err
	}
	if langFlag != "" {
		cfg.Lang = langFlag
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, envKey{}, &env{root: root, cfg: cfg, log: log}))
	return nil
}

func envOf(cmd *cobra.Command) *env {
	return cmd.Context().Value(envKey{}).(*env)
}

// loadProgram parses the repository with the configured backend.
func (e *env) loadProgram(ctx context.Context) (syntax.Program, error) {
	excludes, err := source.CompileExcludes(e.cfg.Exclude)
	if err != nil {
		return nil, err
	}
	prog, err := lang.Load(ctx, e.root, strings.ToLower(e.cfg.Lang), lang.Options{
		Exclude: excludes,
		Tests:   e.cfg.Tests,
		Logger:  e.log,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", e.root, err)
	}
	return prog, nil
}

func (e *env) collector(prog syntax.Program) (*related.Collector, error) {
	return related.New(prog, related.Options{
		MaxLines: e.cfg.RelatedMaxLines,
		Filter:   related.DefaultFilter(prog.Language(), prog.IsStandard, e.cfg.IgnorePrefixes...),
		Logger:   e.log,
	})
}

// closeProgram releases backend resources such as syntax trees.
func closeProgram(prog syntax.Program) {
	if c, ok := prog.(interface{ Close() }); ok {
		c.Close()
	}
}
