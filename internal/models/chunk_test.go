// ABOUTME: Tests for Chunk and ChunkRef models
// ABOUTME: Verifies metadata projection and JSON field names
package models

import (
	"encoding/json"
	"testing"
)

func TestChunk_Ref(t *testing.T) {
	chunk := Chunk{
		ChunkID:     7,
		ChunkIndex:  2,
		Text:        "Diabetes mellitus is a metabolic disorder.",
		Source:      "data/raw/diabetes.txt",
		Type:        DocTypeText,
		TotalChunks: 4,
	}

	ref := chunk.Ref()

	if ref.ChunkID != 7 {
		t.Errorf("ChunkID = %d, want 7", ref.ChunkID)
	}
	if ref.ChunkIndex != 2 {
		t.Errorf("ChunkIndex = %d, want 2", ref.ChunkIndex)
	}
	if ref.Text != chunk.Text {
		t.Errorf("Text = %q, want %q", ref.Text, chunk.Text)
	}
	if ref.Source != chunk.Source {
		t.Errorf("Source = %q, want %q", ref.Source, chunk.Source)
	}
}

func TestChunkRef_JSONFieldNames(t *testing.T) {
	ref := ChunkRef{Text: "t", Source: "s", ChunkID: 1, ChunkIndex: 0}

	data, err := json.Marshal(ref)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"text", "source", "chunk_id", "chunk_index"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("JSON missing %q field", key)
		}
	}
}
