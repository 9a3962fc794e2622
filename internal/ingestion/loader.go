// ABOUTME: DocumentLoader reads raw documents from the data directory
// ABOUTME: Supports pdf, txt, and md files; skips unreadable files without failing
package ingestion

import (
	"bytes"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/harper/medrag/internal/models"
)

// supportedExtensions maps file extensions to document types
var supportedExtensions = map[string]models.DocType{
	".pdf": models.DocTypePDF,
	".txt": models.DocTypeText,
	".md":  models.DocTypeMarkdown,
}

// DocumentLoader loads documents from a directory tree
type DocumentLoader struct {
	dataDir string
}

// NewDocumentLoader creates a loader rooted at dataDir, creating the
// directory if it does not exist yet.
func NewDocumentLoader(dataDir string) (*DocumentLoader, error) {
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		log.Printf("Data directory does not exist, creating: %s", dataDir)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory %s: %w", dataDir, err)
		}
	}
	return &DocumentLoader{dataDir: dataDir}, nil
}

// LoadAll walks the data directory in sorted order and loads every
// supported file. A file that cannot be read is logged and skipped,
// never failing the whole batch. Only documents with non-empty
// extracted text are returned.
func (dl *DocumentLoader) LoadAll() ([]models.Document, error) {
	var paths []string

	err := filepath.WalkDir(dl.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("Skipping unreadable path %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking data directory %s: %w", dl.dataDir, err)
	}
	sort.Strings(paths)

	var documents []models.Document
	for _, path := range paths {
		doc, err := dl.LoadSingle(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		if strings.TrimSpace(doc.Text) == "" {
			continue
		}
		documents = append(documents, doc)
	}

	log.Printf("Loaded %d documents from %s", len(documents), dl.dataDir)
	return documents, nil
}

// LoadSingle loads one document and returns its extracted text
func (dl *DocumentLoader) LoadSingle(path string) (models.Document, error) {
	docType, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return models.Document{}, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}

	var text string
	var err error
	switch docType {
	case models.DocTypePDF:
		text, err = extractPDFText(path)
	default:
		text, err = loadTextFile(path)
	}
	if err != nil {
		return models.Document{}, err
	}

	return models.Document{Source: path, Text: text, Type: docType}, nil
}

func loadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading text file: %w", err)
	}
	return string(data), nil
}

func extractPDFText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pdf file: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing pdf: %w", err)
	}

	var parts []string
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d: %w", pageIndex, err)
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n"), nil
}
