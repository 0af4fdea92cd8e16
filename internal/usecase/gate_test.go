package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"policyqa/internal/domain"
)

func TestAssess_NoPassagesSkipsJudge(t *testing.T) {
	llm := &fakeLLM{}
	gate := NewRelevanceGate(llm, zap.NewNop())

	verdict := gate.Assess(context.Background(), "What is the password policy?", nil)

	assert.False(t, verdict.Enhance)
	assert.Empty(t, llm.calls, "judge must not be called without passages")
}

func TestAssess_SingleJudgeCall(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{{text: "ENHANCE"}}}
	gate := NewRelevanceGate(llm, zap.NewNop())

	passages := passagesFrom("Passwords must be at least 12 characters.")
	verdict := gate.Assess(context.Background(), "What is the password policy?", passages)

	assert.True(t, verdict.Enhance)
	assert.Len(t, llm.calls, 1)
	assert.Equal(t, 0.2, llm.calls[0].opts.Temperature)
	assert.Equal(t, 50, llm.calls[0].opts.MaxTokens)
	assert.Contains(t, llm.calls[0].system, "What is the password policy?")
	assert.Contains(t, llm.calls[0].system, "Extract 1:")
}

func TestAssess_JudgeFailureFailsClosed(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{{err: errors.New("rate limited")}}}
	gate := NewRelevanceGate(llm, zap.NewNop())

	verdict := gate.Assess(context.Background(), "question", passagesFrom("text"))

	assert.False(t, verdict.Enhance)
	assert.Len(t, llm.calls, 1)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"bare positive", "ENHANCE", true},
		{"bare negative", "NO_ENHANCEMENT", false},
		{"negative contains positive substring", "Definitely NO_ENHANCEMENT here", false},
		{"positive with rationale", "ENHANCE - documents answer the query directly", true},
		{"lowercase positive", "enhance", true},
		{"mixed case negative", "No_Enhancement", false},
		{"neither token", "I cannot decide", false},
		{"empty", "", false},
		{"both tokens", "ENHANCE, no wait, NO_ENHANCEMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseVerdict(tt.raw))
		})
	}
}

func TestAssess_VerdictCarriesRationale(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{{text: "  ENHANCE - extracts cover the topic  "}}}
	gate := NewRelevanceGate(llm, zap.NewNop())

	verdict := gate.Assess(context.Background(), "q", []domain.Passage{{Text: "t", Rank: 1}})

	assert.True(t, verdict.Enhance)
	assert.Equal(t, "ENHANCE - extracts cover the topic", verdict.Rationale)
}
