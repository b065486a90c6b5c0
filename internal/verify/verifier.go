// Package verify asks an LLM whether a candidate page is an entity's
// official website and decodes the verdict into a VerificationJudgment.
package verify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/anthropic"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "claude-haiku-4-5-20251001"

// Verifier judges candidate pages. It is safe for concurrent use.
type Verifier struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	maxChars  int
	log       *zap.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithModel sets the model ID.
func WithModel(m string) Option {
	return func(v *Verifier) {
		if m != "" {
			v.model = m
		}
	}
}

// WithMaxTokens caps the response length.
func WithMaxTokens(n int64) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.maxTokens = n
		}
	}
}

// WithMaxPageChars caps the page text included in the prompt.
func WithMaxPageChars(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.maxChars = n
		}
	}
}

// WithLogger sets the logger. The default is zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.log = l
		}
	}
}

// New creates a Verifier over client.
func New(client anthropic.Client, opts ...Option) *Verifier {
	v := &Verifier{
		client:    client,
		model:     DefaultModel,
		maxTokens: 512,
		maxChars:  DefaultMaxPageChars,
		log:       zap.L(),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Judge asks the model whether url is meta's official website given the
// page text. It never returns an error: transport and parse failures come
// back as a non-match at confidence 0 with the cause in Evidence.
func (v *Verifier) Judge(ctx context.Context, meta model.EntityQuery, url, pageText string) model.VerificationJudgment {
	if v == nil || v.client == nil {
		return failed("verification unavailable: no model client configured")
	}
	if strings.TrimSpace(url) == "" {
		return failed("verification skipped: empty url")
	}

	temp := 0.0
	resp, err := v.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       v.model,
		MaxTokens:   v.maxTokens,
		System:      systemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: BuildPrompt(meta, url, pageText, v.maxChars)}},
		Temperature: &temp,
	})
	if err != nil {
		v.log.Warn("verify: model call failed",
			zap.String("entity", meta.Name),
			zap.String("url", url),
			zap.Error(err),
		)
		return failed(fmt.Sprintf("verification call failed: %v", err))
	}
	resp.Usage.LogCost(v.model, "verify")

	j := ParseJudgment(resp.Text())
	if j.ParseMode != model.ParseModeStrict {
		v.log.Debug("verify: non-strict parse",
			zap.String("entity", meta.Name),
			zap.String("mode", string(j.ParseMode)),
		)
	}
	return j
}
