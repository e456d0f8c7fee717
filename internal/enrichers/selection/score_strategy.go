package selection

import (
	"strings"
	"unicode"

	"github.com/vd09-projects/relctx/internal/callgraph"
	"github.com/vd09-projects/relctx/internal/core"
	"github.com/vd09-projects/relctx/internal/syntax"
	"github.com/vd09-projects/relctx/internal/utils"
)

const (
	langGo   = "go"
	fanInCap = 50.0
)

var accessorPrefixes = []string{"get", "set", "is", "has"}

type Strategy interface {
	Visibility(dn *core.DeclNode) string
	ClassifyReason(dn *core.DeclNode) string
	FanIn(dn *core.DeclNode) int
	Score(dn *core.DeclNode) float64
}

// DefaultStrategy favours exported, mid-sized, often-called declarations
// and penalises tests.
type DefaultStrategy struct {
	lang  string
	graph *callgraph.Graph
}

// NewDefaultStrategy scores declarations of lang; graph may be nil, in
// which case every fan-in is zero.
func NewDefaultStrategy(lang string, graph *callgraph.Graph) *DefaultStrategy {
	return &DefaultStrategy{lang: lang, graph: graph}
}

func (ds *DefaultStrategy) Visibility(dn *core.DeclNode) string {
	d := dn.Decl
	if ds.lang == langGo {
		return utils.If(isUpper(d.Name), "exported").Else("unexported")
	}
	head := d.Signature
	if i := strings.Index(head, "("); i >= 0 {
		head = head[:i]
	}
	for _, w := range strings.Fields(head) {
		switch w {
		case "public", "protected", "private":
			return w
		}
	}
	return "package"
}

func (ds *DefaultStrategy) ClassifyReason(dn *core.DeclNode) string {
	d := dn.Decl
	switch {
	case dn.IsTestFile:
		return "test"
	case d.Kind != syntax.KindMethod:
		return "type"
	case d.Name == "main":
		return "entrypoint"
	case ds.isConstructor(d):
		return "constructor"
	case isAccessor(d.Name):
		return "accessor"
	case ds.exported(dn):
		return "public_api"
	}
	return "other"
}

func (ds *DefaultStrategy) FanIn(dn *core.DeclNode) int {
	if ds.graph == nil {
		return 0
	}
	return ds.graph.FanIn(dn.Decl)
}

func (ds *DefaultStrategy) Score(dn *core.DeclNode) float64 {
	lineCount := dn.EndLine - dn.StartLine + 1
	faninNorm := utils.Min(1.0, float64(ds.FanIn(dn))/fanInCap)

	score := 0.40
	if ds.exported(dn) {
		score += 0.20
	}
	if ds.isConstructor(dn.Decl) {
		score += 0.15
	}
	if lineCount >= 5 && lineCount <= 80 {
		score += 0.10
	}
	if isAccessor(dn.Decl.Name) {
		score -= 0.10
	}
	score += 0.20 * faninNorm
	if dn.IsTestFile {
		score -= 0.25
	}
	return utils.RoundN(utils.Clamp(score, 0, 1), 2)
}

func (ds *DefaultStrategy) exported(dn *core.DeclNode) bool {
	v := ds.Visibility(dn)
	return v == "exported" || v == "public"
}

func (ds *DefaultStrategy) isConstructor(d *syntax.Decl) bool {
	if d.Kind != syntax.KindMethod {
		return false
	}
	if ds.lang == langGo {
		return d.Owner == nil && strings.HasPrefix(d.Name, "New")
	}
	return d.Owner != nil && d.Name == d.Owner.Name
}

func isAccessor(name string) bool {
	for _, p := range accessorPrefixes {
		if rest, ok := strings.CutPrefix(name, p); ok && isUpper(rest) {
			return true
		}
	}
	return false
}

func isUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
