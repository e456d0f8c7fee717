package ftdata

import (
	"fmt"
	"sort"

	"github.com/vd09-projects/relctx/internal/model"
)

// QuestionRegistry holds registered strategies in order.
type QuestionRegistry struct {
	strategies []QuestionStrategy
}

func NewQuestionRegistry() *QuestionRegistry {
	return &QuestionRegistry{}
}

func (r *QuestionRegistry) Register(strats ...QuestionStrategy) *QuestionRegistry {
	r.strategies = append(r.strategies, strats...)
	return r
}

func (r *QuestionRegistry) Strategies() []QuestionStrategy {
	out := make([]QuestionStrategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Select keeps the strategies whose names are listed, in registry order.
// Unknown names are an error.
func (r *QuestionRegistry) Select(names ...string) (*QuestionRegistry, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	out := NewQuestionRegistry()
	for _, s := range r.strategies {
		if want[s.Name()] {
			out.Register(s)
			delete(want, s.Name())
		}
	}
	if len(want) > 0 {
		var unknown []string
		for n := range want {
			unknown = append(unknown, n)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown strategies %v", unknown)
	}
	return out, nil
}

// Generator runs every registered strategy over a record.
type Generator struct {
	registry *QuestionRegistry
}

func NewGenerator(reg *QuestionRegistry) *Generator {
	return &Generator{registry: reg}
}

// Generate collects the samples of every strategy, in registry order.
func (g *Generator) Generate(rec model.Record) []*FineTuneRecord {
	var out []*FineTuneRecord
	for _, s := range g.registry.Strategies() {
		out = append(out, s.Apply(rec)...)
	}
	return out
}
