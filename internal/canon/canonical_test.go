package canon

import "testing"

func TestCanonicalize_KnownBuildings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "Science Library", "Science Library"},
		{"with floor suffix", "Science Library - Level 2", "Science Library"},
		{"with lib tag", "[LIB] Science Library - Level 3", "Science Library"},
		{"with library prefix", "Library: Science Library", "Science Library"},
		{"with isd tag", "[ISD] Foster Court Cluster Room", "Foster Court"},
		{"case insensitive", "sCiEnCe LiBrArY", "Science Library"},
		{"group study qualifier", "Main Library (group study)", "Main Library"},
		{"date range suffix", "Student Centre 09/12/24-09/19/24", "Student Centre"},
		{"month year suffix", "Cruciform Hub Sep 2024", "Cruciform Hub"},
		{"season year suffix", "Senate House Autumn 2024", "Senate House Hub"},
		{"bare year suffix", "Graduate Hub 2025", "Graduate Hub"},
		{"version suffix", "Roberts Building v2.1", "Roberts Building"},
		{"american spelling", "Student Center", "Student Centre"},
		{"legacy alias", "DMS Watson Level 1", "Science Library"},
		{"messy whitespace", "  [LIB]   Main   Library  ", "Main Library"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonicalize(tt.raw); got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// A specific building rule must win over a later generic rule even when the
// generic pattern also matches ("Wilkins Library" is the Main Library; the
// bare "wilkins" rule for the Wilkins Building comes later in the table).
func TestCanonicalize_SpecificBeforeGeneric(t *testing.T) {
	if got := Canonicalize("Wilkins Library - 1st Floor"); got != "Main Library" {
		t.Errorf("Canonicalize(Wilkins Library) = %q, want Main Library", got)
	}
	if got := Canonicalize("Wilkins Building - Room 3"); got != "Wilkins Building" {
		t.Errorf("Canonicalize(Wilkins Building) = %q, want Wilkins Building", got)
	}
}

func TestCanonicalize_Fallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"dash split", "XYZ Annex - Room 5", "XYZ Annex"},
		{"dash split with tag", "[LIB] XYZ Annex - Room 5", "XYZ Annex"},
		{"no dash", "Mystery Hall", "Mystery Hall"},
		{"trailing dash only", "Mystery Hall -", "Mystery Hall -"},
		{"multi dash", "North Lodge - Wing A - Desk 3", "North Lodge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonicalize(tt.raw); got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCanonicalize_Deterministic(t *testing.T) {
	inputs := []string{
		"[LIB] Science Library - Level 2",
		"Torrington Place 1st Floor",
		"XYZ Annex - Room 5",
	}
	for _, in := range inputs {
		first := Canonicalize(in)
		for i := 0; i < 5; i++ {
			if got := Canonicalize(in); got != first {
				t.Fatalf("Canonicalize(%q) unstable: %q then %q", in, first, got)
			}
		}
		if first == "" {
			t.Fatalf("Canonicalize(%q) returned empty string", in)
		}
	}
}
