// ABOUTME: Chunk represents a bounded, overlapping substring of a source document
// ABOUTME: The unit of embedding and retrieval for the index
package models

// Chunk is one piece of a chunked document, never mutated after creation.
// ChunkID is globally unique across a chunking run; ChunkIndex is the
// 0-based position within the chunk's own source document.
type Chunk struct {
	ChunkID     int     `json:"chunk_id"`
	ChunkIndex  int     `json:"chunk_index"`
	Text        string  `json:"text"`
	Source      string  `json:"source"`
	Type        DocType `json:"type"`
	TotalChunks int     `json:"total_chunks"`
}

// ChunkRef is the metadata stored alongside each indexed vector.
// The Nth ChunkRef in the index corresponds to the Nth stored vector.
type ChunkRef struct {
	Text       string `json:"text"`
	Source     string `json:"source"`
	ChunkID    int    `json:"chunk_id"`
	ChunkIndex int    `json:"chunk_index"`
}

// Ref returns the metadata record for this chunk
func (c Chunk) Ref() ChunkRef {
	return ChunkRef{
		Text:       c.Text,
		Source:     c.Source,
		ChunkID:    c.ChunkID,
		ChunkIndex: c.ChunkIndex,
	}
}
