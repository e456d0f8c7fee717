package strategies

import (
	"fmt"

	ft "github.com/vd09-projects/relctx/internal/ftdata"
	"github.com/vd09-projects/relctx/internal/model"
)

type SignatureStrategy struct{}

func NewSignatureStrategy() *SignatureStrategy { return &SignatureStrategy{} }

func (*SignatureStrategy) Name() string { return "signature" }

func (*SignatureStrategy) Apply(rec model.Record) []*ft.FineTuneRecord {
	if rec.Signature == "" {
		return nil
	}
	ctx := ft.NewBaseContext(rec)
	ctx.Signature = ""
	ctx.Code = rec.Code

	q := fmt.Sprintf("What is the signature of the %s %q?", rec.Kind, rec.Symbol)
	a := fmt.Sprintf("The signature of %q is:\n\n%s", rec.Symbol, rec.Signature)
	return []*ft.FineTuneRecord{ft.NewFineTuneRecord("signature").Ask(ctx, q).Answer(nil, a)}
}
