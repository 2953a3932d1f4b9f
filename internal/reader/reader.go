// Package reader extracts plain text (and a best-effort title) from the
// file formats accepted by batch-file uploads and the CLI. Readers do not
// clean the text; that is the pipeline's job.
package reader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Extracted is the flat result of reading one file.
type Extracted struct {
	Title string
	Text  string
}

// Reader converts raw file bytes into extracted text.
type Reader interface {
	Read(r io.Reader, filename string) (*Extracted, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".json":     true,
	".jsonl":    true,
}

// ForFile returns the reader for a filename. Unknown extensions fall back
// to the plain-text reader, so pasted articles without a real extension
// still work. JSON batch files are decoded by the caller, not here.
func ForFile(filename string) (Reader, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".md", ".markdown":
		return &Markdown{}, nil
	case ".csv":
		return &CSV{}, nil
	case ".html", ".htm":
		return &HTML{}, nil
	case ".pdf":
		return &PDF{}, nil
	case ".docx":
		return &DOCX{}, nil
	case ".json", ".jsonl":
		return nil, fmt.Errorf("structured batch file %s must be decoded as documents, not read as text", filename)
	default:
		return &Text{}, nil
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// baseTitle derives a fallback title from the filename.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
