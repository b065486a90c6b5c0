package verify

import (
	"context"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

// PageReader returns the readable text of a web page.
type PageReader interface {
	PageText(ctx context.Context, url string) (string, error)
}

// FetchAndJudge reads url with reader and judges it. A read failure is
// reported as a failed judgment.
func (v *Verifier) FetchAndJudge(ctx context.Context, reader PageReader, meta model.EntityQuery, url string) model.VerificationJudgment {
	text, err := reader.PageText(ctx, url)
	if err != nil {
		return failed("page fetch failed: " + err.Error())
	}
	return v.Judge(ctx, meta, url, text)
}
