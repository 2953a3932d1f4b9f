package enrich

import (
	"testing"
	"time"

	"github.com/dgallion1/textprep/internal/article"
)

func TestDetectLanguage(t *testing.T) {
	english := "The quick brown fox jumps over the lazy dog while the rest of the " +
		"world keeps turning and nobody pays much attention to either of them."
	got := DetectLanguage(english, "unknown", 0.5)
	if got.Code != "eng" {
		t.Errorf("Code = %q, want eng", got.Code)
	}
	if got.Confidence < 0.5 {
		t.Errorf("Confidence = %g, want >= 0.5", got.Confidence)
	}
}

func TestDetectLanguage_Fallbacks(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		got := DetectLanguage("   ", "unknown", 0.5)
		if got.Code != "unknown" || got.Confidence != 0 {
			t.Errorf("got %+v, want fallback with zero confidence", got)
		}
	})
	t.Run("below floor", func(t *testing.T) {
		// A floor above any reachable confidence forces the fallback path.
		got := DetectLanguage("plenty of ordinary english text here", "unknown", 1.1)
		if got.Code != "unknown" {
			t.Errorf("Code = %q, want unknown", got.Code)
		}
	})
}

func TestResolveDate_AbsoluteExpressions(t *testing.T) {
	r := NewDateResolver()
	ref := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		text string
		want string
	}{
		{"long month", "The accord was signed on March 5, 2024 in Paris.", "2024-03-05"},
		{"iso date", "Released 2024-12-01 worldwide.", "2024-12-01"},
		{"day first", "Polls opened on 7 July 2024 across the country.", "2024-07-07"},
		{"first of several", "Between March 5, 2024 and April 9, 2024 output doubled.", "2024-03-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.text, nil, ref)
			if got == nil {
				t.Fatal("Resolve returned nil")
			}
			if *got != tt.want {
				t.Errorf("Resolve = %q, want %q", *got, tt.want)
			}
		})
	}
}

func TestResolveDate_DateEntityFallback(t *testing.T) {
	r := NewDateResolver()
	ents := []article.Entity{
		{Text: "Acme", Type: "ORG", Start: 0, End: 4},
		{Text: "June 1, 2023", Type: "DATE", Start: 0, End: 0},
	}
	got := r.Resolve("Nothing inline to parse.", ents, time.Now())
	if got == nil || *got != "2023-06-01" {
		t.Errorf("Resolve = %v, want 2023-06-01 from DATE entity", got)
	}
}

func TestResolveDate_RelativeExpression(t *testing.T) {
	r := NewDateResolver()
	ref := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	got := r.Resolve("The match was played yesterday.", nil, ref)
	if got == nil || *got != "2025-10-14" {
		t.Errorf("Resolve = %v, want 2025-10-14", got)
	}
}

func TestResolveDate_AbsoluteBeatsRelative(t *testing.T) {
	r := NewDateResolver()
	ref := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	got := r.Resolve("Compared to yesterday, the March 5, 2024 results look strong.", nil, ref)
	if got == nil || *got != "2024-03-05" {
		t.Errorf("Resolve = %v, want the absolute date", got)
	}
}

func TestResolveDate_NoTemporalInformation(t *testing.T) {
	r := NewDateResolver()
	if got := r.Resolve("Nothing of note happened.", nil, time.Now()); got != nil {
		t.Errorf("Resolve = %q, want nil", *got)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two three", 3},
		{"spaced    out\nwords", 3},
	}
	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words, want int
	}{
		{0, 0},
		{1, 1},
		{224, 1},
		{225, 1},
		{226, 2},
		{675, 3},
	}
	for _, tt := range tests {
		if got := ReadingTime(tt.words); got != tt.want {
			t.Errorf("ReadingTime(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}
