// ABOUTME: Document represents a raw source document loaded for indexing
// ABOUTME: Produced by the ingestion loader, consumed by the chunker
package models

// DocType identifies the file format a document was extracted from
type DocType string

const (
	DocTypePDF      DocType = "pdf"
	DocTypeText     DocType = "txt"
	DocTypeMarkdown DocType = "md"
	DocTypeUnknown  DocType = "unknown"
)

// Document is a single source document with its extracted text
type Document struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Type   DocType `json:"type"`
}
