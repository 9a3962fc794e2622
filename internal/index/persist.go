// ABOUTME: Index persistence as a two-artifact directory layout
// ABOUTME: Binary vector block plus inspectable JSON metadata, written atomically
package index

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harper/medrag/internal/models"
)

const (
	vectorsFile  = "vectors.bin"
	metadataFile = "metadata.json"
)

var (
	// ErrNoIndex is returned when the index directory is missing either artifact
	ErrNoIndex = errors.New("no persisted index")
	// ErrCorrupt is returned when persisted artifacts cannot be decoded or disagree
	ErrCorrupt = errors.New("persisted index is corrupt")
)

// vectorBlock is the gob-encoded binary artifact
type vectorBlock struct {
	Dimension int
	Vectors   [][]float32
}

// Save writes the index to dir as vectors.bin and metadata.json.
// Each artifact is written to a temp file and renamed into place so a
// crash mid-write never leaves a truncated file behind.
func (ix *Index) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	block := vectorBlock{Dimension: ix.dimension, Vectors: ix.vectors}
	if err := writeAtomic(filepath.Join(dir, vectorsFile), func(f *os.File) error {
		return gob.NewEncoder(f).Encode(&block)
	}); err != nil {
		return fmt.Errorf("writing vectors: %w", err)
	}

	// Metadata stays JSON so what was indexed can be inspected directly
	if err := writeAtomic(filepath.Join(dir, metadataFile), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(ix.metadata)
	}); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	return nil
}

// Exists reports whether dir holds a complete persisted index.
// One artifact without the other counts as no index at all.
func Exists(dir string) bool {
	for _, name := range []string{vectorsFile, metadataFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// Load reads a persisted index from dir. Both artifacts must be present
// and describe the same number of entries.
func Load(dir string) (*Index, error) {
	if !Exists(dir) {
		return nil, fmt.Errorf("%w at %s", ErrNoIndex, dir)
	}

	vf, err := os.Open(filepath.Join(dir, vectorsFile))
	if err != nil {
		return nil, fmt.Errorf("opening vectors: %w", err)
	}
	defer vf.Close()

	var block vectorBlock
	if err := gob.NewDecoder(vf).Decode(&block); err != nil {
		return nil, fmt.Errorf("%w: decoding vectors: %v", ErrCorrupt, err)
	}
	if block.Dimension <= 0 {
		return nil, fmt.Errorf("%w: invalid dimension %d", ErrCorrupt, block.Dimension)
	}

	mf, err := os.Open(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("opening metadata: %w", err)
	}
	defer mf.Close()

	var metadata []models.ChunkRef
	if err := json.NewDecoder(mf).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("%w: decoding metadata: %v", ErrCorrupt, err)
	}

	if len(block.Vectors) != len(metadata) {
		return nil, fmt.Errorf("%w: %d vectors vs %d metadata records", ErrCorrupt, len(block.Vectors), len(metadata))
	}
	for i, vec := range block.Vectors {
		if len(vec) != block.Dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrCorrupt, i, len(vec), block.Dimension)
		}
	}

	return &Index{
		dimension: block.Dimension,
		vectors:   block.Vectors,
		metadata:  metadata,
	}, nil
}

func writeAtomic(path string, write func(*os.File) error) error {
	tmp, err := os.Create(path + ".tmp")
	if err != nil {
		return err
	}

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
