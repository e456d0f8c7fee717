// Package callgraph indexes the static calls between the methods of a
// program, in both directions.
package callgraph

import (
	"context"
	"sort"

	"github.com/vd09-projects/relctx/internal/model"
	"github.com/vd09-projects/relctx/internal/syntax"
)

// Graph holds the resolved call edges of every method in a program. Calls
// the backend could not resolve (library code, dynamic dispatch it cannot
// see) are absent.
type Graph struct {
	callees map[*syntax.Decl][]*syntax.Decl
	callers map[*syntax.Decl][]*syntax.Decl
}

// Build walks every method of prog once.
func Build(ctx context.Context, prog syntax.Program) (*Graph, error) {
	g := &Graph{
		callees: make(map[*syntax.Decl][]*syntax.Decl),
		callers: make(map[*syntax.Decl][]*syntax.Decl),
	}
	for _, path := range prog.Files() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, d := range prog.Decls(path) {
			if d.Kind != syntax.KindMethod {
				continue
			}
			seen := make(map[*syntax.Decl]bool)
			for _, callee := range prog.Calls(d) {
				if callee == nil || seen[callee] {
					continue
				}
				seen[callee] = true
				g.callees[d] = append(g.callees[d], callee)
				g.callers[callee] = append(g.callers[callee], d)
			}
		}
	}
	return g, nil
}

func (g *Graph) Callees(d *syntax.Decl) []*syntax.Decl { return g.callees[d] }

func (g *Graph) Callers(d *syntax.Decl) []*syntax.Decl { return g.callers[d] }

// FanIn is the number of distinct methods calling d.
func (g *Graph) FanIn(d *syntax.Decl) int { return len(g.callers[d]) }

// Result returns up to maxCallers/maxCallees edges of d, sorted by symbol
// then path. A non-positive cap means no edges of that direction.
func (g *Graph) Result(d *syntax.Decl, maxCallers, maxCallees int) model.CallGraph {
	return model.CallGraph{
		Callees: edges(g.callees[d], maxCallees),
		Callers: edges(g.callers[d], maxCallers),
	}
}

func edges(ds []*syntax.Decl, capN int) []model.Edge {
	if capN <= 0 || len(ds) == 0 {
		return nil
	}
	out := make([]model.Edge, 0, len(ds))
	for _, d := range ds {
		out = append(out, model.Edge{Symbol: d.Qualified, Path: d.Path})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol == out[j].Symbol {
			return out[i].Path < out[j].Path
		}
		return out[i].Symbol < out[j].Symbol
	})
	if len(out) > capN {
		out = out[:capN]
	}
	return out
}
