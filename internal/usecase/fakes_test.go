package usecase

import (
	"context"
	"errors"

	"policyqa/internal/domain"
	"policyqa/internal/port"
)

// fakeLLM returns scripted responses in order and records every call.
type fakeLLM struct {
	responses []fakeResponse
	calls     []fakeCall
}

type fakeResponse struct {
	text string
	err  error
}

type fakeCall struct {
	system string
	user   string
	opts   port.GenOptions
}

func (f *fakeLLM) Generate(_ context.Context, system, user string, opts port.GenOptions) (string, error) {
	f.calls = append(f.calls, fakeCall{system: system, user: user, opts: opts})
	if len(f.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp.text, resp.err
}

func (f *fakeLLM) ModelName() string { return "fake-model" }

type fakeRetriever struct {
	passages []domain.Passage
	err      error
	calls    int
	lastK    int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, k int) ([]domain.Passage, error) {
	f.calls++
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.passages, nil
}

func passagesFrom(texts ...string) []domain.Passage {
	out := make([]domain.Passage, len(texts))
	for i, t := range texts {
		out[i] = domain.Passage{Text: t, Rank: i + 1}
	}
	return out
}
