package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"policyqa/internal/adapter/chunker"
	"policyqa/internal/adapter/fs"
	"policyqa/internal/adapter/store"
	"policyqa/internal/domain"
	"policyqa/internal/port"
)

// Indexer builds the passage index: walk the document directory, chunk
// each file, embed the chunks, and persist passages plus vectors.
type Indexer struct {
	store       *store.BoltStore
	vectorStore port.VectorStore
	walker      *fs.Walker
	chunker     *chunker.TextChunker
	embedder    port.Embedder
	log         *zap.Logger
}

func NewIndexer(
	st *store.BoltStore,
	vectorStore port.VectorStore,
	walker *fs.Walker,
	textChunker *chunker.TextChunker,
	embedder port.Embedder,
	log *zap.Logger,
) *Indexer {
	return &Indexer{
		store:       st,
		vectorStore: vectorStore,
		walker:      walker,
		chunker:     textChunker,
		embedder:    embedder,
		log:         log,
	}
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	FilesIndexed  int
	FilesSkipped  int
	FilesDeleted  int
	ChunksCreated int
	Errors        []string
}

// Index indexes policy documents under root. Unchanged files are skipped,
// removed files are purged. The progress callback, when non-nil, is
// invoked once per processed file.
func (u *Indexer) Index(ctx context.Context, root string, progress func()) (*IndexResult, error) {
	result := &IndexResult{}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	existingDocs, err := u.store.ListDocs()
	if err != nil {
		return nil, fmt.Errorf("failed to list existing docs: %w", err)
	}

	existingMap := make(map[string]domain.Document)
	for _, doc := range existingDocs {
		existingMap[doc.Path] = doc
	}

	seenPaths := make(map[string]bool)

	for _, file := range files {
		seenPaths[file.Path] = true

		if existing, ok := existingMap[file.Path]; ok {
			if existing.ModTime.Unix() >= file.ModTime {
				result.FilesSkipped++
				if progress != nil {
					progress()
				}
				continue
			}
			// File modified, drop the stale passages and vectors.
			if err := u.store.DeleteDoc(existing.ID); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to delete old data for %s: %v", file.Path, err))
			}
		}

		created, err := u.indexFile(ctx, file)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to index %s: %v", file.Path, err))
		} else {
			result.FilesIndexed++
			result.ChunksCreated += created
		}
		if progress != nil {
			progress()
		}
	}

	for path, doc := range existingMap {
		if !seenPaths[path] {
			if err := u.store.DeleteDoc(doc.ID); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", path, err))
			} else {
				result.FilesDeleted++
			}
		}
	}

	u.log.Info("index build finished",
		zap.Int("indexed", result.FilesIndexed),
		zap.Int("skipped", result.FilesSkipped),
		zap.Int("deleted", result.FilesDeleted),
		zap.Int("chunks", result.ChunksCreated))

	return result, nil
}

func (u *Indexer) indexFile(ctx context.Context, file fs.FileInfo) (int, error) {
	content, err := fs.ReadFile(file.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	doc := domain.Document{
		ID:      docID(file.Path),
		Path:    file.Path,
		ModTime: time.Unix(file.ModTime, 0),
	}

	chunks, err := u.chunker.Chunk(doc, content)
	if err != nil {
		return 0, fmt.Errorf("failed to chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := u.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(embeddings))
	}

	if err := u.store.PutDoc(doc); err != nil {
		return 0, fmt.Errorf("failed to store document: %w", err)
	}
	if err := u.store.PutChunks(chunks); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	items := make([]port.VectorItem, len(chunks))
	for i, c := range chunks {
		items[i] = port.VectorItem{ID: c.ID, Vector: embeddings[i]}
	}
	if err := u.vectorStore.Upsert(items); err != nil {
		return 0, fmt.Errorf("failed to store vectors: %w", err)
	}

	return len(chunks), nil
}

func docID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}
