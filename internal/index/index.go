// ABOUTME: In-memory similarity index over dense vectors with parallel metadata
// ABOUTME: Inner-product search, equivalent to cosine similarity for unit vectors
package index

import (
	"errors"
	"fmt"
	"sort"

	"github.com/harper/medrag/internal/models"
)

var (
	// ErrDimension is returned when a vector does not match the index dimension
	ErrDimension = errors.New("vector dimension mismatch")
	// ErrCountMismatch is returned when vectors and metadata differ in length
	ErrCountMismatch = errors.New("vector/metadata count mismatch")
)

// Index stores embedding vectors alongside their chunk metadata.
// The two slices are always the same length; insertion position is the
// only cross-reference between a vector and its metadata record.
// Entries are never deleted or reordered individually.
type Index struct {
	dimension int
	vectors   [][]float32
	metadata  []models.ChunkRef
}

// New creates an empty index for vectors of the given dimension
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrDimension, dimension)
	}
	return &Index{dimension: dimension}, nil
}

// Dimension returns the fixed vector dimension
func (ix *Index) Dimension() int {
	return ix.dimension
}

// Size returns the number of stored entries
func (ix *Index) Size() int {
	return len(ix.vectors)
}

// Add appends vectors and their metadata records. All vectors are
// validated before anything is stored, so a failed Add leaves the
// index exactly as it was.
func (ix *Index) Add(vectors [][]float32, metadata []models.ChunkRef) error {
	if len(vectors) != len(metadata) {
		return fmt.Errorf("%w: %d vectors vs %d metadata records", ErrCountMismatch, len(vectors), len(metadata))
	}

	for i, vec := range vectors {
		if len(vec) != ix.dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrDimension, i, len(vec), ix.dimension)
		}
	}

	ix.vectors = append(ix.vectors, vectors...)
	ix.metadata = append(ix.metadata, metadata...)
	return nil
}

// Search returns the topK most similar entries to the query vector,
// ordered by descending inner-product score with 1-based ranks.
// Ties keep insertion order (stable sort). Searching an empty index
// returns an empty result set; callers may want to log that case.
func (ix *Index) Search(query []float32, topK int) ([]models.RetrievalResult, error) {
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, want %d", ErrDimension, len(query), ix.dimension)
	}
	if ix.Size() == 0 {
		return []models.RetrievalResult{}, nil
	}
	if topK > ix.Size() {
		topK = ix.Size()
	}
	if topK <= 0 {
		return []models.RetrievalResult{}, nil
	}

	type scored struct {
		pos   int
		score float32
	}

	all := make([]scored, len(ix.vectors))
	for i, vec := range ix.vectors {
		all[i] = scored{pos: i, score: innerProduct(query, vec)}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].score > all[j].score
	})

	results := make([]models.RetrievalResult, topK)
	for rank := 0; rank < topK; rank++ {
		results[rank] = models.RetrievalResult{
			Rank:     rank + 1,
			Score:    all[rank].score,
			Metadata: ix.metadata[all[rank].pos],
		}
	}
	return results, nil
}

func innerProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
