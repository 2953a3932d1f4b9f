package reader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/textprep/internal/article"
)

// Documents turns the bytes of one batch or article file into documents.
// JSON and JSONL files carry structured documents; every other supported
// format goes through a reader and becomes a single document whose ID is
// derived from the file content. The int result counts JSONL lines that
// were skipped because they did not decode.
func Documents(data []byte, filename string) ([]*article.Document, int, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jsonl":
		return decodeLines(data)
	case ".json":
		return decodeDocuments(data)
	default:
		rd, err := ForFile(filename)
		if err != nil {
			return nil, 0, err
		}
		ex, err := rd.Read(bytes.NewReader(data), filename)
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", filename, err)
		}
		doc := &article.Document{
			DocumentID: article.ContentHash(data)[:16],
			Title:      ex.Title,
			Text:       ex.Text,
		}
		return []*article.Document{doc}, 0, nil
	}
}

// decodeLines decodes one document per line, counting malformed lines
// instead of failing the whole file.
func decodeLines(data []byte) ([]*article.Document, int, error) {
	var docs []*article.Document
	skipped := 0

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var doc article.Document
		if err := decodeStrict(line, &doc); err != nil {
			skipped++
			continue
		}
		docs = append(docs, &doc)
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("read JSONL file: %w", err)
	}
	return docs, skipped, nil
}

// decodeDocuments accepts either a JSON array of documents or a single
// document object.
func decodeDocuments(data []byte) ([]*article.Document, int, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, 0, errors.New("file is empty")
	}
	if trimmed[0] == '[' {
		var docs []*article.Document
		if err := decodeStrict(data, &docs); err != nil {
			return nil, 0, fmt.Errorf("invalid JSON document list: %w", err)
		}
		return docs, 0, nil
	}
	var doc article.Document
	if err := decodeStrict(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("invalid JSON document: %w", err)
	}
	return []*article.Document{&doc}, 0, nil
}

func decodeStrict(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
