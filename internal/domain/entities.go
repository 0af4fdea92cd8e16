package domain

import "time"

// Document is a source policy document registered in the index.
type Document struct {
	ID      string
	Path    string
	ModTime time.Time
}

// Chunk is a slice of a document's text prepared for embedding.
type Chunk struct {
	ID    string
	DocID string
	Seq   int
	Text  string
}

// Passage is a retrieved chunk of policy text considered as candidate
// context for an answer. Passages are built fresh for every query and
// discarded when the answer is returned.
type Passage struct {
	Text string
	Rank int // 1-based retrieval order
}

// Verdict is the relevance gate's decision for one question.
// Enhance reports whether the retrieved passages should be folded into
// the final prompt; Rationale carries the raw judge output for logs only.
type Verdict struct {
	Enhance   bool
	Rationale string
}

// IndexStats summarizes the persisted index.
type IndexStats struct {
	Documents int
	Passages  int
}
