package clean

import (
	"testing"

	"github.com/dgallion1/textprep/internal/article"
	"github.com/dgallion1/textprep/internal/protect"
)

func TestNormalizePunctuation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"curly quotes", "It’s “fine”", `It's "fine"`},
		{"contraction survives", "don’t won’t", "don't won't"},
		{"dashes", "pre–war — era", "pre-war - era"},
		{"ellipsis", "wait…", "wait..."},
		{"ellipsis before word", "wait…what", "wait... what"},
		{"collapse exclamations", "Wait!!!!", "Wait!!!"},
		{"collapse questions", "Really?????", "Really???"},
		{"three kept", "Sure!!!", "Sure!!!"},
		{"space after period", "Hello.World", "Hello. World"},
		{"space after comma", "one,two", "one, two"},
		{"space after colon", "note:see below", "note: see below"},
		{"decimal untouched", "pi is 3.14", "pi is 3.14"},
		{"thousands untouched", "about 1,000 people", "about 1,000 people"},
		{"time untouched", "at 10:30 sharp", "at 10:30 sharp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := NormalizePunctuation(tt.in, protect.Set{}, Params{})
			if got != tt.want {
				t.Errorf("NormalizePunctuation(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePunctuation_ProtectedBytesVerbatim(t *testing.T) {
	// "mid " is 4 bytes, the curly-quoted span runs from byte 4 to 11.
	in := "mid “q” end"
	prot := protect.NewSet([]article.Entity{{Start: 4, End: 11}})
	got, changed := NormalizePunctuation(in, prot, Params{})
	if got != in {
		t.Errorf("protected span rewritten: got %q, want %q", got, in)
	}
	if changed {
		t.Error("changed = true although the protected span blocked every edit")
	}
	// Without protection the same text is rewritten.
	got, _ = NormalizePunctuation(in, protect.Set{}, Params{})
	if want := `mid "q" end`; got != want {
		t.Errorf("unprotected: got %q, want %q", got, want)
	}
}

func TestNormalizePunctuation_NoChangeReportsFalse(t *testing.T) {
	in := "Plain sentence, already fine."
	out, changed := NormalizePunctuation(in, protect.Set{}, Params{})
	if out != in || changed {
		t.Errorf("got (%q, %v), want input unchanged", out, changed)
	}
}
