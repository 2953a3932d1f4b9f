package clean

import (
	"testing"

	"github.com/dgallion1/textprep/internal/protect"
)

func TestFixEncoding_RepairsMojibake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"latin accent", "cafÃ©", "café"},                 // cafÃ© -> café
		{"curly apostrophe", "donâ€™t", "don’t"},     // donâ€™t -> don’t
		{"sentence", "The cafÃ© is open", "The café is open"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := FixEncoding(tt.in, protect.Set{}, Params{})
			if got != tt.want {
				t.Errorf("FixEncoding(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !changed {
				t.Error("changed = false after repair shortened the text")
			}
		})
	}
}

func TestFixEncoding_KeepsTextWhenRepairWouldCorrupt(t *testing.T) {
	// Uppercase Ã triggers the marker check, but re-encoding "SÃO" produces
	// invalid UTF-8, so the original must survive.
	in := "SÃO PAULO"
	got, changed := FixEncoding(in, protect.Set{}, Params{})
	if got != in {
		t.Errorf("FixEncoding(%q) = %q, want unchanged", in, got)
	}
	if changed {
		t.Error("changed = true for pass-through text")
	}
}

func TestFixEncoding_LeavesCleanAccentsAlone(t *testing.T) {
	in := "São Paulo, café, naïve"
	if got, _ := FixEncoding(in, protect.Set{}, Params{}); got != in {
		t.Errorf("clean text altered: %q", got)
	}
}

func TestFixEncoding_ReplacesControlCharacters(t *testing.T) {
	got, _ := FixEncoding("tab\tkept\nline\x07bell\x00nul", protect.Set{}, Params{})
	if want := "tab\tkept\nline bell nul"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFixEncoding_NormalizesToNFC(t *testing.T) {
	// e + combining acute accent composes to a single rune.
	got, changed := FixEncoding("café", protect.Set{}, Params{})
	if want := "café"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !changed {
		t.Error("changed = false after NFC composition shortened the text")
	}
}
