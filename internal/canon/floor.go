package canon

import (
	"regexp"
	"strconv"
	"strings"
)

// UnrankedFloor is the priority for short names with no recognizable floor;
// they sort after every ranked floor, stable by name as tiebreak at the
// sort site.
const UnrankedFloor = 100

var leadingOrdinalPattern = regexp.MustCompile(`^(\d+)(?:st|nd|rd|th)?\b`)

// FloorPriority resolves a sub-space short name to an integer ordering key,
// ascending from basement to top floor. Used only as a sort key, never
// displayed.
func FloorPriority(shortName string) int {
	s := strings.ToLower(strings.TrimSpace(shortName))

	switch {
	case strings.Contains(s, "b1"):
		return -1
	case strings.Contains(s, "b2"):
		return -2
	case strings.Contains(s, "b3"):
		return -3
	}

	if m := leadingOrdinalPattern.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}

	switch {
	case strings.Contains(s, "lower ground"), strings.Contains(s, "basement"):
		return -1
	case strings.Contains(s, "ground"):
		return 0
	}

	for i, word := range ordinalWords {
		if strings.Contains(s, word) {
			return i + 1
		}
	}

	return UnrankedFloor
}
