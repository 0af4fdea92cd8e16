package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyqa/internal/domain"
	"policyqa/internal/port"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestDocAndChunkRoundTrip(t *testing.T) {
	st := openTestStore(t)

	doc := domain.Document{ID: "doc1", Path: "/data/policy.md", ModTime: time.Now().Truncate(time.Second)}
	require.NoError(t, st.PutDoc(doc))

	chunks := []domain.Chunk{
		{ID: "c1", DocID: "doc1", Seq: 1, Text: "Passwords must be 12 characters."},
		{ID: "c2", DocID: "doc1", Seq: 2, Text: "Access is revoked within 4 hours."},
	}
	require.NoError(t, st.PutChunks(chunks))

	got, err := st.GetChunk("c2")
	require.NoError(t, err)
	assert.Equal(t, chunks[1], got)

	docs, err := st.ListDocs()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.Path, docs[0].Path)

	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 2, stats.Passages)
}

func TestDeleteDocRemovesChunksAndVectors(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.PutDoc(domain.Document{ID: "doc1", Path: "p", ModTime: time.Now()}))
	require.NoError(t, st.PutChunks([]domain.Chunk{{ID: "c1", DocID: "doc1", Seq: 1, Text: "t"}}))

	vs, err := NewBoltVectorStore(st.DB(), 3)
	require.NoError(t, err)
	require.NoError(t, vs.Upsert([]port.VectorItem{{ID: "c1", Vector: []float32{1, 0, 0}}}))

	require.NoError(t, st.DeleteDoc("doc1"))

	_, err = st.GetChunk("c1")
	assert.Error(t, err)

	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)
	assert.Zero(t, stats.Passages)
}

func TestVectorSearchRanking(t *testing.T) {
	st := openTestStore(t)

	vs, err := NewBoltVectorStore(st.DB(), 3)
	require.NoError(t, err)

	require.NoError(t, vs.Upsert([]port.VectorItem{
		{ID: "a", Vector: []float32{1, 0, 0}},
		{ID: "b", Vector: []float32{0.9, 0.1, 0}},
		{ID: "c", Vector: []float32{0, 1, 0}},
	}))

	results, err := vs.Search([]float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "b", results[1].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestVectorSearchDimensionMismatch(t *testing.T) {
	st := openTestStore(t)

	vs, err := NewBoltVectorStore(st.DB(), 3)
	require.NoError(t, err)

	_, err = vs.Search([]float32{1, 0}, 1)
	assert.Error(t, err)

	err = vs.Upsert([]port.VectorItem{{ID: "a", Vector: []float32{1}}})
	assert.Error(t, err)
}

func TestVectorsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	st, err := NewBoltStore(path)
	require.NoError(t, err)
	vs, err := NewBoltVectorStore(st.DB(), 2)
	require.NoError(t, err)
	require.NoError(t, vs.Upsert([]port.VectorItem{{ID: "a", Vector: []float32{1, 0}}}))
	require.NoError(t, st.Close())

	st, err = NewBoltStore(path)
	require.NoError(t, err)
	defer st.Close()

	vs, err = NewBoltVectorStore(st.DB(), 2)
	require.NoError(t, err)

	n, err := vs.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
