package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vd09-projects/relctx/internal/i18n"
	"github.com/vd09-projects/relctx/internal/syntax"
)

var relatedJSON bool

var relatedCmd = &cobra.Command{
	Use:   "related <symbol>",
	Short: "Print the declarations a class or method depends on",
	Long: `Print the source of the classes related to a class or method.

For a method these are the classes of its parameter and return types; for
a class, the classes of every method parameter and field. Generic type
arguments count too. Standard-library and logging classes are left out.

The symbol is a qualified name (com.acme.Svc.run, example.com/m/pkg.T.M),
a Go method expression (pkg.(*T).M) or any unambiguous suffix of one.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

func init() {
	relatedCmd.Flags().BoolVar(&relatedJSON, "json", false, "Print the related symbols as JSON instead of source")
	rootCmd.AddCommand(relatedCmd)
}

type relatedResult struct {
	Symbol  string   `json:"symbol"`
	Owner   string   `json:"owner,omitempty"`
	Related []string `json:"related"`
}

func runRelated(cmd *cobra.Command, args []string) error {
	e := envOf(cmd)
	prog, err := e.loadProgram(cmd.Context())
	if err != nil {
		return err
	}
	defer closeProgram(prog)

	d, err := syntax.Find(prog, args[0])
	if err != nil {
		return err
	}
	c, err := e.collector(prog)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if relatedJSON {
		res := relatedResult{Symbol: d.Qualified, Related: []string{}}
		res.Owner, _ = c.FullClassName(d)
		for _, r := range c.RelatedDecls(d) {
			if !c.Ignored(r) {
				res.Related = append(res.Related, r.Qualified)
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	text := c.RelatedClass(d)
	if text == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), i18n.Get("related.none"))
		return nil
	}
	_, err = fmt.Fprint(out, text)
	return err
}
