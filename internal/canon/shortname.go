package canon

import (
	"regexp"
	"strings"
)

// ordinalWords are spelled-out floor ordinals, lowest first.
var ordinalWords = []string{
	"first", "second", "third", "fourth", "fifth",
	"sixth", "seventh", "eighth", "ninth", "tenth",
}

// floorKeywords flag a name fragment as floor/area-related.
var floorKeywords = append([]string{
	"floor", "level", "b1", "b2", "ground", "basement", "room", "area", "zone",
}, ordinalWords...)

var (
	// Floor-only labels used by the Student Centre feed rows.
	studentCentreFloorPattern = regexp.MustCompile(
		`(?i)\b(?:Level\s+B\d|\d+(?:st|nd|rd|th)\s+Floor|Ground\s+Floor|Mezzanine)\b`)

	// Date prefixes some survey tools prepend ("Updated 09/12/24 ...").
	datePrefixPattern = regexp.MustCompile(
		`(?i)^(?:original|updated)\s+\d{1,2}/\d{1,2}/\d{2,4}\S*\s*`)

	// General floor/room extraction, first alternative wins.
	floorPattern = regexp.MustCompile(
		`(?i)\b(?:\d+(?:st|nd|rd|th)\s+Floor|Room\s+\S+|Level\s+\S+|B\d|` +
			strings.Join(ordinalWords, "|") + `|Ground)\b`)

	numericPattern = regexp.MustCompile(`^\d+$`)
)

// ShortName derives the human-meaningful sub-space label (floor, room, wing)
// for a raw name within its canonical location. An empty result means the
// record has no distinguishing sub-space and no label should be displayed.
// Pure, total, deterministic; the first applicable rule wins.
func ShortName(rawName, canonicalLocation string) string {
	cleaned := Clean(rawName)
	lower := strings.ToLower(cleaned)
	lowerCanon := strings.ToLower(canonicalLocation)

	// The Student Centre rows encode only the floor; keep the floor label
	// verbatim when one is present.
	if canonicalLocation == "Student Centre" {
		if m := studentCentreFloorPattern.FindString(cleaned); m != "" {
			return m
		}
	}

	// Remainder after the canonical location, when it appears inside the name.
	if idx := strings.Index(lower, lowerCanon); idx >= 0 && lowerCanon != "" {
		remainder := strings.TrimSpace(cleaned[idx+len(lowerCanon):])
		if rest, ok := stripSeparator(remainder); ok {
			return rest
		}
		if containsFloorKeyword(strings.ToLower(remainder)) {
			return remainder
		}
	}

	// No embedded location name, but the text is floor-related: extract the
	// floor/room fragment after dropping any survey date prefix.
	if containsFloorKeyword(lower) {
		stripped := datePrefixPattern.ReplaceAllString(cleaned, "")
		if m := floorPattern.FindString(stripped); m != "" {
			return m
		}
	}

	if numericPattern.MatchString(cleaned) {
		return cleaned
	}

	if strings.EqualFold(cleaned, canonicalLocation) {
		return ""
	}

	if strings.HasPrefix(lower, lowerCanon) && lowerCanon != "" {
		remainder := strings.TrimSpace(cleaned[len(lowerCanon):])
		if rest, ok := stripSeparator(remainder); ok {
			return rest
		}
		return remainder
	}

	return cleaned
}

// stripSeparator removes a leading "-", "|", or ":" and reports whether one
// was present.
func stripSeparator(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	switch s[0] {
	case '-', '|', ':':
		return strings.TrimSpace(s[1:]), true
	}
	return s, false
}

func containsFloorKeyword(lower string) bool {
	for _, kw := range floorKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
