package canon

import "strings"

// Canonicalize maps a raw space name to its canonical location name.
//
// The cleaned name is matched in three lower-cased variants against the
// ordered rule table; the first rule whose any pattern is contained in any
// variant wins. Unmatched names degrade to a documented fallback: the part
// before the first "-" when the name splits into two or more non-empty
// parts, otherwise the full cleaned name. Pure and total: the result is
// always non-empty for non-empty input, never an error.
func Canonicalize(rawName string) string {
	cleaned := Clean(rawName)
	vs := variants(cleaned)

	for _, r := range rules {
		for _, p := range r.Patterns {
			for _, v := range vs {
				if strings.Contains(v, p) {
					return r.Canonical
				}
			}
		}
	}

	return fallbackName(cleaned)
}

// fallbackName implements the unmatched-name policy: keep whatever precedes
// the first dash when the name looks like "Building - Qualifier".
func fallbackName(cleaned string) string {
	parts := strings.Split(cleaned, "-")
	nonEmpty := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty++
		}
	}
	if nonEmpty >= 2 {
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				return t
			}
		}
	}
	return cleaned
}
