package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vd09-projects/relctx/internal/i18n"
	"github.com/vd09-projects/relctx/internal/source"
	"github.com/vd09-projects/relctx/internal/syntax"
)

var completeCmd = &cobra.Command{
	Use:   "complete <file> <offset|line:col>",
	Short: "Print the completion context at a position",
	Long: `Print the context a completion at the given position would use.

Inside a method this is the source of every method it calls followed by
every type it mentions. Inside a class but outside its methods it is the
types of the class's fields, nested classes included.`,
	Args: cobra.ExactArgs(2),
	RunE: runComplete,
}

func init() {
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	e := envOf(cmd)
	prog, err := e.loadProgram(cmd.Context())
	if err != nil {
		return err
	}
	defer closeProgram(prog)

	rel := args[0]
	if filepath.IsAbs(rel) {
		rel = source.RelPosix(e.root, rel)
	}
	rel = source.ToPosix(filepath.Clean(rel))
	src, ok := prog.Source(rel)
	if !ok {
		return fmt.Errorf("%s is not part of the loaded %s program", rel, prog.Language())
	}
	offset, err := syntax.ParsePosition(src, args[1])
	if err != nil {
		return err
	}
	e.log.Debug("completion", "path", rel, "offset", offset, "line", syntax.LineAt(src, offset))

	c, err := e.collector(prog)
	if err != nil {
		return err
	}
	text, ok := c.CompletionRelatedClass(rel, offset)
	if !ok {
		return fmt.Errorf("%s", i18n.Get("complete.outside"))
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}
