package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"policyqa/internal/domain"
)

// separators is the split cascade: paragraphs first, then lines, then
// sentences, then words. A unit that still exceeds the chunk size after
// the last separator is hard-cut.
var separators = []string{"\n\n", "\n", ". ", " "}

// TextChunker splits document text into overlapping character-bounded
// chunks, preferring paragraph and sentence boundaries.
type TextChunker struct {
	size    int // max characters per chunk
	overlap int // characters carried over between consecutive chunks
}

func NewTextChunker(size, overlap int) *TextChunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return &TextChunker{size: size, overlap: overlap}
}

func (c *TextChunker) Chunk(doc domain.Document, content string) ([]domain.Chunk, error) {
	units := c.split(content, 0)
	if len(units) == 0 {
		return nil, nil
	}

	var chunks []domain.Chunk
	var cur []string
	curLen := 0

	flush := func() {
		text := strings.TrimSpace(strings.Join(cur, ""))
		if text == "" {
			return
		}
		seq := len(chunks) + 1
		chunks = append(chunks, domain.Chunk{
			ID:    chunkID(doc.ID, seq),
			DocID: doc.ID,
			Seq:   seq,
			Text:  text,
		})
	}

	for _, unit := range units {
		if curLen > 0 && curLen+len(unit) > c.size {
			flush()
			cur = c.overlapTail(cur)
			curLen = 0
			for _, u := range cur {
				curLen += len(u)
			}
		}
		cur = append(cur, unit)
		curLen += len(unit)
	}
	flush()

	return chunks, nil
}

// split recursively breaks text into units no longer than the chunk size,
// trying each separator in turn. Separators stay attached to their unit so
// concatenating units reconstructs the original text.
func (c *TextChunker) split(text string, sepIdx int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= c.size {
		return []string{text}
	}
	if sepIdx >= len(separators) {
		var out []string
		for len(text) > c.size {
			out = append(out, text[:c.size])
			text = text[c.size:]
		}
		if text != "" {
			out = append(out, text)
		}
		return out
	}

	var out []string
	for _, part := range strings.SplitAfter(text, separators[sepIdx]) {
		if part == "" {
			continue
		}
		if len(part) <= c.size {
			out = append(out, part)
			continue
		}
		out = append(out, c.split(part, sepIdx+1)...)
	}
	return out
}

// overlapTail returns the trailing units of the previous chunk whose total
// length fits the configured overlap.
func (c *TextChunker) overlapTail(units []string) []string {
	if c.overlap == 0 {
		return nil
	}

	total := 0
	start := len(units)
	for i := len(units) - 1; i >= 0; i-- {
		if total+len(units[i]) > c.overlap {
			break
		}
		total += len(units[i])
		start = i
	}
	return append([]string(nil), units[start:]...)
}

func chunkID(docID string, seq int) string {
	data := fmt.Sprintf("%s:%d", docID, seq)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}
