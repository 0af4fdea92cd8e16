package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"policyqa/internal/domain"
)

func TestCompose_PositiveVerdictUsesPassages(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{{text: "Passwords need 12 characters."}}}
	composer := NewAnswerComposer(llm, "", 0, zap.NewNop())

	passages := passagesFrom("Passwords must be at least 12 characters.", "Rotate passwords every 90 days.")
	answer, err := composer.Compose(context.Background(), "What is the password policy?", domain.Verdict{Enhance: true}, passages)

	require.NoError(t, err)
	assert.Equal(t, "Passwords need 12 characters.", answer)
	require.Len(t, llm.calls, 1)
	assert.Contains(t, llm.calls[0].system, "Extract 1:\nPasswords must be at least 12 characters.")
	assert.Contains(t, llm.calls[0].system, "Extract 2:\nRotate passwords every 90 days.")
	assert.NotContains(t, llm.calls[0].system, sentinelContext)
	assert.Equal(t, 0.7, llm.calls[0].opts.Temperature)
}

func TestCompose_NegativeVerdictUsesSentinel(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{{text: "Paris."}}}
	composer := NewAnswerComposer(llm, "", 0, zap.NewNop())

	passages := passagesFrom("Passwords must be at least 12 characters.")
	answer, err := composer.Compose(context.Background(), "What is the capital of France?", domain.Verdict{Enhance: false}, passages)

	require.NoError(t, err)
	assert.Equal(t, "Paris.", answer)
	require.Len(t, llm.calls, 1)
	assert.Contains(t, llm.calls[0].system, sentinelContext)
	assert.NotContains(t, llm.calls[0].system, "Extract 1:")
}

func TestCompose_PositiveVerdictWithoutPassagesUsesSentinel(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{{text: "ok"}}}
	composer := NewAnswerComposer(llm, "", 0, zap.NewNop())

	_, err := composer.Compose(context.Background(), "q", domain.Verdict{Enhance: true}, nil)

	require.NoError(t, err)
	assert.Contains(t, llm.calls[0].system, sentinelContext)
}

func TestCompose_FallbackOnPrimaryFailure(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{
		{err: errors.New("context too long")},
		{text: "fallback answer"},
	}}
	composer := NewAnswerComposer(llm, "", 0, zap.NewNop())

	answer, err := composer.Compose(context.Background(), "q", domain.Verdict{Enhance: true}, passagesFrom("text"))

	require.NoError(t, err)
	assert.Equal(t, "fallback answer", answer)
	require.Len(t, llm.calls, 2)
	assert.Equal(t, fallbackSystemPrompt, llm.calls[1].system)
}

func TestCompose_BothCallsFail(t *testing.T) {
	primary := errors.New("primary down")
	fallback := errors.New("fallback down")
	llm := &fakeLLM{responses: []fakeResponse{{err: primary}, {err: fallback}}}
	composer := NewAnswerComposer(llm, "", 0, zap.NewNop())

	_, err := composer.Compose(context.Background(), "q", domain.Verdict{}, nil)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, primary, genErr.Primary)
	assert.Equal(t, fallback, genErr.Fallback)
	assert.ErrorIs(t, err, primary)
}

func TestCompose_CustomTemplate(t *testing.T) {
	llm := &fakeLLM{responses: []fakeResponse{{text: "ok"}}}
	composer := NewAnswerComposer(llm, "CTX={context} Q={question}", 0, zap.NewNop())

	_, err := composer.Compose(context.Background(), "my question", domain.Verdict{}, nil)

	require.NoError(t, err)
	assert.Equal(t, "CTX="+sentinelContext+" Q=my question", llm.calls[0].system)
}

func TestFormatContext(t *testing.T) {
	assert.Equal(t, sentinelContext, FormatContext(nil))

	got := FormatContext(passagesFrom("first ", "second"))
	assert.Equal(t, "Extract 1:\nfirst\n\nExtract 2:\nsecond", got)
}
