// ABOUTME: TextChunker splits document text into overlapping, boundary-aware chunks
// ABOUTME: Prefers paragraph breaks, then sentence ends, then spaces, then hard cuts
package ingestion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harper/medrag/internal/models"
)

// ErrBadChunkConfig is returned when chunker parameters are invalid
var ErrBadChunkConfig = errors.New("invalid chunker configuration")

var (
	paragraphSep = []rune("\n\n")
	// sentenceSeps are tried in priority order when no paragraph break is found
	sentenceSeps = [][]rune{[]rune(". "), []rune(".\n"), []rune("? "), []rune("! ")}
	wordSep      = []rune(" ")
)

// TextChunker splits text into chunks of at most chunkSize characters,
// repeating chunkOverlap characters between consecutive chunks so that
// no information is lost at chunk boundaries.
type TextChunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewTextChunker creates a TextChunker. chunkOverlap must be smaller
// than chunkSize or the overlap advance could never make progress.
func NewTextChunker(chunkSize, chunkOverlap int) (*TextChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrBadChunkConfig, chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must be non-negative, got %d", ErrBadChunkConfig, chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap (%d) must be less than chunk size (%d)", ErrBadChunkConfig, chunkOverlap, chunkSize)
	}
	return &TextChunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// ChunkText splits a single text into overlapping chunks.
// Sizes and positions count characters, not bytes, so multibyte text
// is never cut mid-rune. Empty or whitespace-only input yields no chunks.
func (tc *TextChunker) ChunkText(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0

	for start < len(runes) {
		end := start + tc.chunkSize

		if end >= len(runes) {
			// Last chunk takes everything remaining
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}

		splitPoint := tc.findSplitPoint(runes, start, end)

		if chunk := strings.TrimSpace(string(runes[start:splitPoint])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		// Move forward, keeping chunkOverlap characters of context.
		// If the overlap would put us at or before where this window
		// started, jump to the split point to guarantee progress.
		next := splitPoint - tc.chunkOverlap
		if next <= 0 || next <= splitPoint-tc.chunkSize {
			next = splitPoint
		}
		start = next
	}

	return chunks
}

// findSplitPoint picks the best split position in (start, end], searching
// the back half of the window so chunks stay reasonably full.
// Priority: paragraph break > sentence end > space > hard cut at end.
func (tc *TextChunker) findSplitPoint(runes []rune, start, end int) int {
	lo := start + tc.chunkSize/2
	window := runes[lo:end]

	if i := lastIndexRunes(window, paragraphSep); i != -1 {
		return lo + i + len(paragraphSep)
	}

	for _, sep := range sentenceSeps {
		if i := lastIndexRunes(window, sep); i != -1 {
			return lo + i + len(sep)
		}
	}

	if i := lastIndexRunes(window, wordSep); i != -1 {
		return lo + i + 1
	}

	return end
}

// lastIndexRunes returns the last position of sep in window, or -1
func lastIndexRunes(window, sep []rune) int {
	for i := len(window) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if window[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// ChunkDocuments chunks each document in order, assigning a single
// chunk ID counter across the whole batch. ChunkIndex restarts at 0
// for every document and TotalChunks records that document's count.
func (tc *TextChunker) ChunkDocuments(documents []models.Document) []models.Chunk {
	var all []models.Chunk
	chunkID := 0

	for _, doc := range documents {
		texts := tc.ChunkText(doc.Text)

		for idx, text := range texts {
			all = append(all, models.Chunk{
				ChunkID:     chunkID,
				ChunkIndex:  idx,
				Text:        text,
				Source:      doc.Source,
				Type:        doc.Type,
				TotalChunks: len(texts),
			})
			chunkID++
		}
	}

	return all
}
