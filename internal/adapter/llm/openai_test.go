package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyqa/internal/port"
)

func TestGenerate(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "generated answer"}},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("TEST_API_KEY", "test-key")
	client, err := NewOpenAIClient("TEST_API_KEY", "gpt-4o-mini", srv.URL, 5*time.Second)
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "system", "user", port.GenOptions{Temperature: 0.2, MaxTokens: 50})
	require.NoError(t, err)
	assert.Equal(t, "generated answer", text)

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, 0.2, gotReq.Temperature)
	assert.Equal(t, 50, gotReq.MaxTokens)
}

func TestGenerate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit exceeded", "type": "rate_limit"},
		})
	}))
	defer srv.Close()

	t.Setenv("TEST_API_KEY", "test-key")
	client, err := NewOpenAIClient("TEST_API_KEY", "gpt-4o-mini", srv.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "system", "user", port.GenOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestNewOpenAIClient_MissingKey(t *testing.T) {
	t.Setenv("TEST_API_KEY", "")
	_, err := NewOpenAIClient("TEST_API_KEY", "gpt-4o-mini", "", 0)
	assert.Error(t, err)
}
