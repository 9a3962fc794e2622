// ABOUTME: Tests for the document loader
// ABOUTME: Verifies supported types, skip-on-error behavior, and empty filtering
package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harper/medrag/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

func TestNewDocumentLoader_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw")

	if _, err := NewDocumentLoader(dir); err != nil {
		t.Fatalf("NewDocumentLoader() error = %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data directory was not created: %v", err)
	}
}

func TestLoadAll_TextAndMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "diabetes.txt", "Diabetes is a metabolic disorder.")
	writeFile(t, dir, "asthma.md", "# Asthma\n\nAsthma is a chronic airway disease.")

	dl, err := NewDocumentLoader(dir)
	if err != nil {
		t.Fatalf("NewDocumentLoader() error = %v", err)
	}

	docs, err := dl.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("LoadAll() = %d documents, want 2", len(docs))
	}

	// Sorted by path: asthma.md before diabetes.txt
	if docs[0].Type != models.DocTypeMarkdown {
		t.Errorf("docs[0].Type = %q, want md", docs[0].Type)
	}
	if docs[1].Type != models.DocTypeText {
		t.Errorf("docs[1].Type = %q, want txt", docs[1].Type)
	}
	if docs[1].Text != "Diabetes is a metabolic disorder." {
		t.Errorf("docs[1].Text = %q", docs[1].Text)
	}
}

func TestLoadAll_IgnoresUnsupportedAndEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "Hypertension raises cardiovascular risk.")
	writeFile(t, dir, "image.png", "\x89PNG not a document")
	writeFile(t, dir, "empty.txt", "   \n\t  ")

	dl, err := NewDocumentLoader(dir)
	if err != nil {
		t.Fatalf("NewDocumentLoader() error = %v", err)
	}

	docs, err := dl.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	if len(docs) != 1 {
		t.Fatalf("LoadAll() = %d documents, want 1", len(docs))
	}
	if filepath.Base(docs[0].Source) != "notes.txt" {
		t.Errorf("docs[0].Source = %q, want notes.txt", docs[0].Source)
	}
}

func TestLoadAll_SkipsCorruptPDF(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.pdf", "this is not a real pdf")
	writeFile(t, dir, "good.txt", "Valid medical text.")

	dl, err := NewDocumentLoader(dir)
	if err != nil {
		t.Fatalf("NewDocumentLoader() error = %v", err)
	}

	// A single bad file must not fail the batch
	docs, err := dl.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	if len(docs) != 1 {
		t.Fatalf("LoadAll() = %d documents, want 1", len(docs))
	}
	if docs[0].Type != models.DocTypeText {
		t.Errorf("docs[0].Type = %q, want txt", docs[0].Type)
	}
}

func TestLoadAll_RecursesIntoSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "cardiology")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	writeFile(t, sub, "af.txt", "Atrial fibrillation is a common arrhythmia.")

	dl, err := NewDocumentLoader(dir)
	if err != nil {
		t.Fatalf("NewDocumentLoader() error = %v", err)
	}

	docs, err := dl.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	if len(docs) != 1 {
		t.Fatalf("LoadAll() = %d documents, want 1", len(docs))
	}
}

func TestLoadSingle_UnsupportedType(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "a,b,c")

	dl, err := NewDocumentLoader(dir)
	if err != nil {
		t.Fatalf("NewDocumentLoader() error = %v", err)
	}

	if _, err := dl.LoadSingle(path); err == nil {
		t.Error("LoadSingle() should fail for unsupported extension")
	}
}
