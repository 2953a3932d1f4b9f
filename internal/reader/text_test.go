package reader

import (
	"strings"
	"testing"
)

func TestText_ParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &Text{}
	got, err := p.Read(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", got.Title)
	}
	want := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	if got.Text != want {
		t.Errorf("expected %q, got %q", want, got.Text)
	}
}

func TestText_EmptyInput(t *testing.T) {
	p := &Text{}
	got, err := p.Read(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", got.Title)
	}
	if got.Text != "" {
		t.Errorf("expected empty text, got %q", got.Text)
	}
}

func TestText_MultipleBlankLines(t *testing.T) {
	// Consecutive blank lines should not produce empty paragraphs.
	p := &Text{}
	got, err := p.Read(strings.NewReader("Para one.\n\n\n\nPara two."), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "Para one.\n\nPara two."; got.Text != want {
		t.Errorf("expected %q, got %q", want, got.Text)
	}
}

func TestText_WhitespaceOnlyLines(t *testing.T) {
	// Lines with only whitespace count as blank.
	p := &Text{}
	got, err := p.Read(strings.NewReader("Para one.\n   \nPara two."), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "Para one.\n\nPara two."; got.Text != want {
		t.Errorf("expected %q, got %q", want, got.Text)
	}
}
