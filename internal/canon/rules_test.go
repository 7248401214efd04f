package canon

import (
	"strings"
	"testing"
)

// The table is configuration; these tests pin the invariants the matcher
// relies on, independent of the evaluation loop.
func TestRuleTable_WellFormed(t *testing.T) {
	rs := Rules()
	if len(rs) < 30 {
		t.Fatalf("rule table has %d rules, expected the full catalog", len(rs))
	}

	seen := make(map[string]bool)
	for i, r := range rs {
		if r.Canonical == "" {
			t.Errorf("rule %d has empty canonical name", i)
		}
		if len(r.Patterns) == 0 {
			t.Errorf("rule %q has no patterns", r.Canonical)
		}
		if seen[r.Canonical] {
			t.Errorf("rule %q appears more than once", r.Canonical)
		}
		seen[r.Canonical] = true

		for _, p := range r.Patterns {
			if p == "" {
				t.Errorf("rule %q has an empty pattern", r.Canonical)
			}
			if p != strings.ToLower(p) {
				t.Errorf("rule %q pattern %q is not lower-case", r.Canonical, p)
			}
			if p != strings.TrimSpace(p) {
				t.Errorf("rule %q pattern %q has surrounding whitespace", r.Canonical, p)
			}
		}
	}
}

// Every pattern must be reachable: no earlier rule may contain it.
// Guards the specific-before-generic ordering the matcher depends on.
func TestRuleTable_NoShadowedPatterns(t *testing.T) {
	rs := Rules()
	for i, r := range rs {
		for _, p := range r.Patterns {
			for j := 0; j < i; j++ {
				for _, earlier := range rs[j].Patterns {
					if strings.Contains(p, earlier) {
						t.Errorf("rule %q pattern %q is shadowed by rule %q pattern %q",
							r.Canonical, p, rs[j].Canonical, earlier)
					}
				}
			}
		}
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	a := Rules()
	a[0].Canonical = "mutated"
	if Rules()[0].Canonical == "mutated" {
		t.Error("Rules() exposes internal table to mutation")
	}
}
