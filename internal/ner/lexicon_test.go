package ner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLexiconExtract(t *testing.T) {
	lex := DefaultLexicon()
	text := "Apple Inc. announced the iPhone in California."

	ents, err := lex.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := map[string]string{
		"Apple Inc.": "ORG",
		"iPhone":     "PRODUCT",
		"California": "GPE",
	}
	if len(ents) != len(want) {
		t.Fatalf("got %d entities %v, want %d", len(ents), ents, len(want))
	}
	for _, e := range ents {
		if typ, ok := want[e.Text]; !ok || e.Type != typ {
			t.Errorf("unexpected entity %q type %s", e.Text, e.Type)
		}
		if text[e.Start:e.End] != e.Text {
			t.Errorf("span [%d,%d) = %q, want %q", e.Start, e.End, text[e.Start:e.End], e.Text)
		}
	}
	for i := 1; i < len(ents); i++ {
		if ents[i].Start < ents[i-1].Start {
			t.Error("entities not sorted by start offset")
		}
	}
}

func TestLexiconExtract_LongestMatchWins(t *testing.T) {
	text := "The New York City mayor spoke."
	ents, err := DefaultLexicon().Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(ents) != 1 {
		t.Fatalf("got %d entities %v, want 1", len(ents), ents)
	}
	if ents[0].Text != "New York City" {
		t.Errorf("got %q, want the longer match", ents[0].Text)
	}
}

func TestLexiconExtract_WordBoundaries(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"embedded suffix", "Applesauce recipe"},
		{"lowercase", "an apple a day"},
		{"embedded prefix", "in CaliforniaX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents, err := DefaultLexicon().Extract(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if len(ents) != 0 {
				t.Errorf("got %v, want no matches", ents)
			}
		})
	}
}

func TestLexiconExtract_EmptyText(t *testing.T) {
	ents, err := DefaultLexicon().Extract(context.Background(), "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(ents) != 0 {
		t.Errorf("got %v, want none", ents)
	}
}

func TestNewLexicon_NormalizesTypes(t *testing.T) {
	lex := NewLexicon(map[string][]string{"org": {" Acme Corp "}})
	ents, err := lex.Extract(context.Background(), "Acme Corp opened today")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(ents) != 1 || ents[0].Type != "ORG" || ents[0].Text != "Acme Corp" {
		t.Errorf("got %v, want one ORG entity for Acme Corp", ents)
	}
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `entities:
  ORG:
    - Acme Corp
  GPE:
    - Springfield
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}
	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("LoadLexicon: %v", err)
	}
	ents, err := lex.Extract(context.Background(), "Acme Corp of Springfield")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(ents) != 2 {
		t.Errorf("got %d entities %v, want 2", len(ents), ents)
	}
}

func TestLoadLexicon_Errors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("entitees:\n  ORG: [X]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadLexicon(bad); err == nil {
		t.Error("expected error for unknown key")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("entities: {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadLexicon(empty); err == nil {
		t.Error("expected error for empty lexicon")
	}

	if _, err := LoadLexicon(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
