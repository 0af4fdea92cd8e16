package compare

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubAPI answers every pipeline query with a fixed response and every
// completion with "7", which doubles as a parseable metric score.
func stubAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/query":
			json.NewEncoder(w).Encode(map[string]string{"response": "Passwords must be 12 characters."})
		case "/api/complete":
			json.NewEncoder(w).Encode(map[string]string{"text": "7"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEngineRun(t *testing.T) {
	srv := stubAPI(t)
	engine := NewEngine(NewClient(srv.URL, zap.NewNop()), 0, 0, zap.NewNop())

	comparison, err := engine.Run(context.Background(), "What is the password policy?")

	require.NoError(t, err)
	require.Len(t, comparison.Results, len(engine.VariantNames()))

	for _, r := range comparison.Results {
		require.NoError(t, r.Err, r.Variant)
		assert.NotEmpty(t, r.Response, r.Variant)
		assert.Equal(t, 7.0, r.Metrics["average"], r.Variant)
	}

	require.NotNil(t, comparison.Ranking)
	assert.Len(t, comparison.Ranking.Order, len(engine.VariantNames()))
}

func TestEngineVariantNames(t *testing.T) {
	engine := NewEngine(NewClient("http://example.invalid", zap.NewNop()), 0, 0, zap.NewNop())

	names := engine.VariantNames()
	assert.Equal(t, "Baseline", names[0])
	assert.Len(t, names, 7)
}

func TestRenderTable(t *testing.T) {
	comparison := &Comparison{
		Question: "q",
		Results: []Result{
			{Variant: "Baseline", Response: "a", Metrics: map[string]float64{"average": 7.0, "faithfulness": 8.0}},
		},
		Ranking: &Ranking{Order: []string{"Baseline"}},
	}

	var buf bytes.Buffer
	engine := NewEngine(NewClient("http://example.invalid", zap.NewNop()), 0, 0, zap.NewNop())
	engine.RenderTable(&buf, comparison)

	out := buf.String()
	assert.Contains(t, out, "Baseline")
	assert.Contains(t, out, "1. Baseline")
}

func TestSaveReport(t *testing.T) {
	comparison := &Comparison{
		Question: "What is the password policy?",
		Results: []Result{
			{Variant: "Baseline", Response: "12 characters.", Metrics: map[string]float64{"average": 7.0}},
		},
	}

	dir := filepath.Join(t.TempDir(), "reports")
	path, err := SaveReport(comparison, dir)

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Comparison Report")
	assert.Contains(t, string(data), "12 characters.")
}
