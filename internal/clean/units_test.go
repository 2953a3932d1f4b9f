package clean

import (
	"testing"

	"github.com/dgallion1/textprep/internal/article"
	"github.com/dgallion1/textprep/internal/protect"
)

func TestStandardizeUnits(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"attached km", "ran 5km today", "ran 5 kilometers today"},
		{"spaced km", "a 5 km route", "a 5 kilometers route"},
		{"decimal kg", "weighs 2.5kg", "weighs 2.5 kilograms"},
		{"meters", "the 100m dash", "the 100 meters dash"},
		{"pounds", "lost 150lbs", "lost 150 pounds"},
		{"feet", "a 6ft fence", "a 6 feet fence"},
		{"miles", "drove 12mi", "drove 12 miles"},
		{"centimeters", "30cm ruler", "30 centimeters ruler"},
		{"percent attached", "up 75%", "up 75 percent"},
		{"percent spaced", "grew 3 %", "grew 3 percent"},
		{"unknown abbreviation", "waited 5min", "waited 5min"},
		{"plural abbreviation untouched", "several kms away", "several kms away"},
		{"unit without number", "km after km", "km after km"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := StandardizeUnits(tt.in, protect.Set{}, Params{})
			if got != tt.want {
				t.Errorf("StandardizeUnits(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStandardizeUnits_SkipsProtectedMatch(t *testing.T) {
	in := "the 5km point"
	// Protect "5km".
	prot := protect.NewSet([]article.Entity{{Start: 4, End: 7}})
	got, changed := StandardizeUnits(in, prot, Params{})
	if got != in {
		t.Errorf("protected measurement rewritten: %q", got)
	}
	if changed {
		t.Error("changed = true with every match protected")
	}
}
