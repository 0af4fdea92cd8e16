package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPipeline(llm *fakeLLM, retriever *fakeRetriever, topK int) *Pipeline {
	log := zap.NewNop()
	gate := NewRelevanceGate(llm, log)
	composer := NewAnswerComposer(llm, "", 0, log)
	return NewPipeline(retriever, gate, composer, topK, log)
}

func TestAnswer_BlankQuestion(t *testing.T) {
	llm := &fakeLLM{}
	retriever := &fakeRetriever{}
	pipeline := newPipeline(llm, retriever, 0)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := pipeline.Answer(context.Background(), q)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Zero(t, retriever.calls, "blank questions must not reach retrieval")
	assert.Empty(t, llm.calls, "blank questions must not reach the model")
}

func TestAnswer_DefaultTopK(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{{text: "NO_ENHANCEMENT"}, {text: "answer"}}}
	retriever := &fakeRetriever{passages: passagesFrom("p")}
	pipeline := newPipeline(llm, retriever, 0)

	_, err := pipeline.Answer(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, retriever.lastK)
}

func TestAnswer_RetrievalFailureAbsorbed(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{{text: "general answer"}}}
	retriever := &fakeRetriever{err: errors.New("index unavailable")}
	pipeline := newPipeline(llm, retriever, 4)

	answer, err := pipeline.Answer(context.Background(), "What is the password policy?")

	require.NoError(t, err)
	assert.Equal(t, "general answer", answer)
	// With retrieval absorbed as empty, the judge is skipped and the single
	// model call is the answer generation with the sentinel context.
	require.Len(t, llm.calls, 1)
	assert.Contains(t, llm.calls[0].system, sentinelContext)
}

func TestAnswer_PolicyQuestionEndToEnd(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{
		{text: "ENHANCE"},
		{text: "According to NovaTech's security policy, passwords must be at least 12 characters."},
	}}
	retriever := &fakeRetriever{passages: passagesFrom(
		"Passwords must be at least 12 characters and rotated every 90 days.",
		"MFA is required for remote access.",
	)}
	pipeline := newPipeline(llm, retriever, 4)

	answer, err := pipeline.Answer(context.Background(), "What is the minimum password length?")

	require.NoError(t, err)
	assert.Contains(t, answer, "12 characters")
	require.Len(t, llm.calls, 2)
	assert.Contains(t, llm.calls[1].system, "Extract 1:\nPasswords must be at least 12 characters")
}

func TestAnswer_OffTopicQuestionEndToEnd(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{
		{text: "NO_ENHANCEMENT - general geography"},
		{text: "The capital of France is Paris."},
	}}
	retriever := &fakeRetriever{passages: passagesFrom("Visitors must wear badges at all times.")}
	pipeline := newPipeline(llm, retriever, 4)

	answer, err := pipeline.Answer(context.Background(), "What is the capital of France?")

	require.NoError(t, err)
	assert.Equal(t, "The capital of France is Paris.", answer)
	require.Len(t, llm.calls, 2)
	assert.Contains(t, llm.calls[1].system, sentinelContext)
	assert.NotContains(t, llm.calls[1].system, "badges")
}

func TestAnswer_GenerationErrorPropagates(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{
		{text: "ENHANCE"},
		{err: errors.New("boom")},
		{err: errors.New("boom again")},
	}}
	retriever := &fakeRetriever{passages: passagesFrom("p")}
	pipeline := newPipeline(llm, retriever, 4)

	_, err := pipeline.Answer(context.Background(), "q")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
}

func TestAnswer_GateFailureStillAnswers(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{
		{err: errors.New("judge unavailable")},
		{text: "best-effort answer"},
	}}
	retriever := &fakeRetriever{passages: passagesFrom("p")}
	pipeline := newPipeline(llm, retriever, 4)

	answer, err := pipeline.Answer(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, "best-effort answer", answer)
	assert.Contains(t, llm.calls[1].system, sentinelContext)
}
