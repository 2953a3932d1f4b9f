package reader

import (
	"strings"
	"testing"
)

func TestMarkdown_FirstHeadingBecomesTitle(t *testing.T) {
	input := `# Market Update

Stocks rose on Tuesday.

## Tech

Chipmakers led the rally.
`
	p := &Markdown{}
	got, err := p.Read(strings.NewReader(input), "update.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Title != "Market Update" {
		t.Errorf("expected title %q, got %q", "Market Update", got.Title)
	}
	for _, want := range []string{"Stocks rose on Tuesday.", "Tech", "Chipmakers led the rally."} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("expected text to contain %q, got %q", want, got.Text)
		}
	}
	// The title heading must not repeat inside the body.
	if strings.Contains(got.Text, "Market Update") {
		t.Errorf("title should not appear in text, got %q", got.Text)
	}
}

func TestMarkdown_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	p := &Markdown{}
	got, err := p.Read(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Title != "plain" {
		t.Errorf("expected fallback title %q, got %q", "plain", got.Title)
	}
	want := "Just some plain text.\n\nAnother paragraph here."
	if got.Text != want {
		t.Errorf("expected %q, got %q", want, got.Text)
	}
}

func TestMarkdown_NoDuplicatedParagraphs(t *testing.T) {
	p := &Markdown{}
	got, err := p.Read(strings.NewReader("One sentence only."), "single.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(got.Text, "One sentence only."); n != 1 {
		t.Errorf("expected paragraph to appear once, found %d times in %q", n, got.Text)
	}
}

func TestMarkdown_SecondLevelOneHeadingStaysInText(t *testing.T) {
	input := "# First\n\nBody A.\n\n# Second\n\nBody B.\n"
	p := &Markdown{}
	got, err := p.Read(strings.NewReader(input), "two.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "First" {
		t.Errorf("expected title %q, got %q", "First", got.Title)
	}
	if !strings.Contains(got.Text, "Second") {
		t.Errorf("expected later h1 to remain in text, got %q", got.Text)
	}
}

func TestMarkdown_CodeBlockContentKept(t *testing.T) {
	input := "# API Reference\n\nSome intro.\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &Markdown{}
	got, err := p.Read(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got.Text, "GET /api/users") {
		t.Errorf("expected code block content in text, got %q", got.Text)
	}
	if !strings.Contains(got.Text, "More text after code.") {
		t.Errorf("expected post-code text, got %q", got.Text)
	}
}

func TestMarkdown_EmptyInput(t *testing.T) {
	p := &Markdown{}
	got, err := p.Read(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "" {
		t.Errorf("expected empty text, got %q", got.Text)
	}
}
