// ABOUTME: Result types returned by similarity search and RAG queries
// ABOUTME: Fixed record shapes instead of dynamic rank/score/metadata bags
package models

// RetrievalResult is one ranked similarity search hit.
// Rank is 1-based; Score is the inner product between the query vector
// and the stored vector (cosine similarity for unit-normalized vectors).
type RetrievalResult struct {
	Rank     int      `json:"rank"`
	Score    float32  `json:"score"`
	Metadata ChunkRef `json:"metadata"`
}

// Answer is the result of a full RAG query
type Answer struct {
	Answer          string   `json:"answer"`
	Sources         []string `json:"sources"`
	Context         string   `json:"context"`
	ChunksRetrieved int      `json:"num_chunks_retrieved"`
}
