package verify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/anthropic"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/anthropic/mocks"
)

var acme = model.EntityQuery{Name: "Acme Plumbing", City: "Denver"}

func textResponse(s string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{Content: []anthropic.ContentBlock{{Type: "text", Text: s}}}
}

func TestJudge_Success(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "test-model" && req.System != "" && len(req.Messages) == 1 &&
			req.Temperature != nil && *req.Temperature == 0
	})).Return(textResponse(`{"match": true, "confidence": 88, "evidence": "logo"}`), nil)

	v := New(client, WithModel("test-model"), WithLogger(zap.NewNop()))
	j := v.Judge(context.Background(), acme, "https://acmeplumbing.com", "Acme Plumbing, Denver")

	assert.True(t, j.Match)
	assert.Equal(t, 88, j.Confidence)
	assert.Equal(t, model.ParseModeStrict, j.ParseMode)
}

func TestJudge_TransportError(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("anthropic: create message: 529 overloaded"))

	j := New(client, WithLogger(zap.NewNop())).Judge(context.Background(), acme, "https://acmeplumbing.com", "text")
	assert.False(t, j.Match)
	assert.Zero(t, j.Confidence)
	assert.Contains(t, j.Evidence, "overloaded")
	assert.Equal(t, model.ParseModeFailed, j.ParseMode)
}

func TestJudge_NoClient(t *testing.T) {
	var v *Verifier
	j := v.Judge(context.Background(), acme, "https://acmeplumbing.com", "")
	assert.False(t, j.Match)

	j = New(nil).Judge(context.Background(), acme, "https://acmeplumbing.com", "")
	assert.Equal(t, model.ParseModeFailed, j.ParseMode)
}

type staticReader string

func (s staticReader) PageText(context.Context, string) (string, error) { return string(s), nil }

func TestFetchAndJudge(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return len(req.Messages) == 1 && strings.Contains(req.Messages[0].Content, "Serving Denver since 1990")
	})).Return(textResponse(`{"match": true, "confidence": 90}`), nil)

	reader := staticReader("Acme Plumbing\n\nServing Denver since 1990")
	j := New(client, WithLogger(zap.NewNop())).FetchAndJudge(context.Background(), reader, acme, "https://acmeplumbing.com")
	require.True(t, j.Match)
	assert.Equal(t, 90, j.Confidence)
}

type failingReader struct{}

func (failingReader) PageText(context.Context, string) (string, error) {
	return "", errors.New("dial tcp: no such host")
}

func TestFetchAndJudge_ReadFailure(t *testing.T) {
	j := New(mocks.NewMockClient(t)).FetchAndJudge(context.Background(), failingReader{}, acme, "https://acme.invalid")
	assert.False(t, j.Match)
	assert.Contains(t, j.Evidence, "page fetch failed")
}
