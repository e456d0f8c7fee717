// Package ftdata turns scan records into chat-style fine-tuning samples.
package ftdata

import "github.com/vd09-projects/relctx/internal/model"

const systemPrompt = `You are a senior engineer who knows this repository well.
You know how its classes and methods depend on each other and which declarations a piece of code needs in view.
Answer with accurate code and short, concrete explanations.`

// BaseContext is the slice of a record shown alongside a question.
type BaseContext struct {
	Repo      string             `json:"repo"`
	Lang      string             `json:"lang,omitempty"`
	Path      string             `json:"path"`
	Symbol    string             `json:"symbol"`
	Owner     string             `json:"owner,omitempty"`
	Lines     [2]int             `json:"lines"`
	Signature string             `json:"signature,omitempty"`
	Neighbors []model.Neighbor   `json:"neighbors,omitempty"`
	Callers   []model.Edge       `json:"callers,omitempty"`
	Callees   []model.Edge       `json:"callees,omitempty"`
	Related   []model.RelatedRef `json:"related,omitempty"`
	Context   string             `json:"context,omitempty"`
	Code      string             `json:"code,omitempty"`
}

// NewBaseContext fills the identifying fields of rec.
func NewBaseContext(rec model.Record) *BaseContext {
	return &BaseContext{
		Repo:      rec.Repo,
		Lang:      rec.Lang,
		Path:      rec.Path,
		Symbol:    rec.Symbol,
		Owner:     rec.Owner,
		Lines:     [2]int{rec.StartLine, rec.EndLine},
		Signature: rec.Signature,
	}
}

type Conversation struct {
	Role     string       `json:"role"`
	Context  *BaseContext `json:"context,omitempty"`
	Messages string       `json:"messages,omitempty"`
}

type FineTuneRecord struct {
	Strategy      string          `json:"strategy"`
	Conversations []*Conversation `json:"conversations"`
}

// NewFineTuneRecord starts a sample with the system turn.
func NewFineTuneRecord(strategy string) *FineTuneRecord {
	return &FineTuneRecord{
		Strategy:      strategy,
		Conversations: []*Conversation{{Role: "system", Messages: systemPrompt}},
	}
}

// Ask appends a user turn.
func (r *FineTuneRecord) Ask(ctx *BaseContext, question string) *FineTuneRecord {
	r.Conversations = append(r.Conversations, &Conversation{Role: "user", Context: ctx, Messages: question})
	return r
}

// Answer appends an assistant turn.
func (r *FineTuneRecord) Answer(ctx *BaseContext, answer string) *FineTuneRecord {
	r.Conversations = append(r.Conversations, &Conversation{Role: "assistant", Context: ctx, Messages: answer})
	return r
}

// QuestionStrategy decides whether and how to turn a record into samples.
type QuestionStrategy interface {
	Name() string
	Apply(rec model.Record) []*FineTuneRecord
}
