package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"policyqa/internal/domain"
)

var (
	bucketDocs      = []byte("docs")
	bucketChunks    = []byte("chunks")
	bucketDocChunks = []byte("doc_chunks")
)

// BoltStore persists documents and their chunks in BoltDB.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the index database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketDocs, bucketChunks, bucketDocChunks, bucketVectors}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// DB exposes the underlying database so the vector store can share it.
func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

type docMeta struct {
	Path    string `json:"path"`
	ModTime int64  `json:"mod_time"`
}

type chunkMeta struct {
	DocID string `json:"doc_id"`
	Seq   int    `json:"seq"`
	Text  string `json:"text"`
}

func (s *BoltStore) PutDoc(doc domain.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := docMeta{
			Path:    doc.Path,
			ModTime: doc.ModTime.Unix(),
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketDocs).Put([]byte(doc.ID), data)
	})
}

func (s *BoltStore) GetDoc(id string) (domain.Document, error) {
	var doc domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("document not found: %s", id)
		}
		var meta docMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		doc = domain.Document{
			ID:      id,
			Path:    meta.Path,
			ModTime: time.Unix(meta.ModTime, 0),
		}
		return nil
	})
	return doc, err
}

func (s *BoltStore) ListDocs() ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocs)
		return b.ForEach(func(k, v []byte) error {
			var meta docMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			docs = append(docs, domain.Document{
				ID:      string(k),
				Path:    meta.Path,
				ModTime: time.Unix(meta.ModTime, 0),
			})
			return nil
		})
	})
	return docs, err
}

// PutChunks stores chunks and records their membership in the document.
func (s *BoltStore) PutChunks(chunks []domain.Chunk) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		cb := tx.Bucket(bucketChunks)
		db := tx.Bucket(bucketDocChunks)

		for _, chunk := range chunks {
			meta := chunkMeta{
				DocID: chunk.DocID,
				Seq:   chunk.Seq,
				Text:  chunk.Text,
			}
			data, err := json.Marshal(meta)
			if err != nil {
				return err
			}
			if err := cb.Put([]byte(chunk.ID), data); err != nil {
				return err
			}

			var ids []string
			if existing := db.Get([]byte(chunk.DocID)); existing != nil {
				if err := json.Unmarshal(existing, &ids); err != nil {
					return err
				}
			}
			ids = append(ids, chunk.ID)
			idData, err := json.Marshal(ids)
			if err != nil {
				return err
			}
			if err := db.Put([]byte(chunk.DocID), idData); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) GetChunk(id string) (domain.Chunk, error) {
	var chunk domain.Chunk
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketChunks).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("chunk not found: %s", id)
		}
		var meta chunkMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		chunk = domain.Chunk{
			ID:    id,
			DocID: meta.DocID,
			Seq:   meta.Seq,
			Text:  meta.Text,
		}
		return nil
	})
	return chunk, err
}

// DeleteDoc removes a document, its chunks, their vectors, and the
// membership record. A vector store opened before the delete may still
// hold the vectors in memory; hits that no longer resolve to a chunk
// are skipped at retrieval time and drop out on the next open.
func (s *BoltStore) DeleteDoc(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		db := tx.Bucket(bucketDocChunks)
		cb := tx.Bucket(bucketChunks)
		vb := tx.Bucket(bucketVectors)

		if data := db.Get([]byte(id)); data != nil {
			var ids []string
			if err := json.Unmarshal(data, &ids); err == nil {
				for _, chunkID := range ids {
					if err := cb.Delete([]byte(chunkID)); err != nil {
						return err
					}
					if err := vb.Delete([]byte(chunkID)); err != nil {
						return err
					}
				}
			}
			if err := db.Delete([]byte(id)); err != nil {
				return err
			}
		}

		return tx.Bucket(bucketDocs).Delete([]byte(id))
	})
}

// Stats reports document and chunk counts.
func (s *BoltStore) Stats() (domain.IndexStats, error) {
	var stats domain.IndexStats
	err := s.db.View(func(tx *bbolt.Tx) error {
		stats.Documents = tx.Bucket(bucketDocs).Stats().KeyN
		stats.Passages = tx.Bucket(bucketChunks).Stats().KeyN
		return nil
	})
	return stats, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
