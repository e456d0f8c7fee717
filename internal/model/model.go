package model

import "encoding/json"

// RelatedRef points at one declaration pulled into a record's context.
type RelatedRef struct {
	Kind      string `json:"kind"`   // class|method|field
	Symbol    string `json:"symbol"` // qualified name
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

type Neighbor struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Code      string `json:"code"`
}

// Edge is one caller or callee of a method.
type Edge struct {
	Symbol string `json:"symbol"`
	Path   string `json:"path"`
}

type CallGraph struct {
	Callees []Edge `json:"callees,omitempty"`
	Callers []Edge `json:"callers,omitempty"`
}

type Selection struct {
	Visibility string  `json:"visibility"` // exported|unexported|public|protected|private|package
	Reason     string  `json:"reason"`     // constructor|accessor|entrypoint|test|public_api|other
	FanIn      int     `json:"fan_in"`
	Score      float64 `json:"score"` // 0..1 rounded to 2 decimals
}

type Record struct {
	Repo      string       `json:"repo"`
	Commit    string       `json:"commit"`
	Lang      string       `json:"lang"`
	Path      string       `json:"path"`
	Symbol    string       `json:"symbol"`
	Kind      string       `json:"kind"`
	Owner     string       `json:"owner,omitempty"`
	Signature string       `json:"signature"`
	StartLine int          `json:"start_line"`
	EndLine   int          `json:"end_line"`
	Code      string       `json:"code"`
	Related   []RelatedRef `json:"related,omitempty"`
	Context   string       `json:"context,omitempty"` // rendered related declarations
	Neighbors []Neighbor   `json:"neighbors,omitempty"`
	CallGraph *CallGraph   `json:"callgraph,omitempty"`
	Selection *Selection   `json:"selection,omitempty"`
}

func (r Record) ToJSON() ([]byte, error) {
	// compact JSON, omit empty via `omitempty`
	return json.Marshal(r)
}
