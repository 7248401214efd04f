// Package canon normalizes the free-text space names reported by the campus
// occupancy feeds into canonical location identities, extracts the sub-space
// label (floor, room, wing) that distinguishes spaces within one location,
// and resolves floor labels to a physical ordering key.
//
// The canonical-location rule table is configuration, not code: it ships as
// an embedded YAML document so the ordered matching data can be tested and
// amended independently of the evaluation loop.
package canon

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed locations.yaml
var locationsYAML []byte

// Rule maps raw-name substrings to a canonical location. Patterns are
// lower-case; a rule matches when any pattern is contained in any cleaned
// variant of the raw name.
type Rule struct {
	Canonical string   `yaml:"canonical"`
	Patterns  []string `yaml:"patterns"`
}

// Section is a named group of rules in the catalog (libraries, computer
// clusters, miscellaneous campus buildings). Sections exist for the table's
// readability; evaluation order is the flattened section order.
type Section struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

type ruleTable struct {
	Sections []Section `yaml:"sections"`
}

// rules is the flattened, ordered rule list evaluated by Canonicalize.
var rules = mustLoadRules(locationsYAML)

func mustLoadRules(src []byte) []Rule {
	var t ruleTable
	if err := yaml.Unmarshal(src, &t); err != nil {
		panic(fmt.Sprintf("canon: parse embedded rule table: %v", err))
	}
	var flat []Rule
	for _, s := range t.Sections {
		flat = append(flat, s.Rules...)
	}
	if len(flat) == 0 {
		panic("canon: embedded rule table is empty")
	}
	return flat
}

// Rules returns the ordered rule table. Exposed so the table itself can be
// validated apart from the matching loop.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}
