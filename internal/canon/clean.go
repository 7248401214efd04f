package canon

import (
	"regexp"
	"strings"
)

var (
	// Feed-specific bracket tags prepended by the providers.
	tagPattern = regexp.MustCompile(`\[(?:LIB|ISD)\]`)

	whitespacePattern = regexp.MustCompile(`\s+`)

	// Qualifier appended to group-study bookable variants of a space.
	groupStudyPattern = regexp.MustCompile(`\(group study\)`)

	// Date, season, year, and version suffixes that survey tools append to
	// space names. Matched against the lower-cased cleaned string.
	suffixPatterns = []*regexp.Regexp{
		// MM/DD/YY or MM/DD/YYYY, optionally as a range.
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}(?:\s*[-–]\s*\d{1,2}/\d{1,2}/\d{2,4})?\b`),
		// Month-name YYYY ("sep 2024", "september 2024").
		regexp.MustCompile(`\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4}\b`),
		// Season YYYY.
		regexp.MustCompile(`\b(?:spring|summer|autumn|fall|winter)\s+\d{4}\b`),
		// Bare 4-digit years.
		regexp.MustCompile(`\b(?:19|20)\d{2}\b`),
		// Version markers: v2, v1.3, ...
		regexp.MustCompile(`\bv\d+(?:\.\d+)*\b`),
	}
)

// Clean strips provider tags and the "Library: " prefix from a raw space
// name, collapses repeated whitespace, and trims. Steps 1-2 of the
// canonicalization algorithm, shared with short-name extraction.
func Clean(raw string) string {
	s := tagPattern.ReplaceAllString(raw, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Library: ")
	return strings.TrimSpace(s)
}

// variants returns the three lower-cased match candidates for a cleaned
// name: as-is, with the "(group study)" qualifier removed, and with
// date/version suffixes removed.
func variants(cleaned string) [3]string {
	lower := strings.ToLower(cleaned)

	noQualifier := strings.TrimSpace(groupStudyPattern.ReplaceAllString(lower, " "))
	noQualifier = whitespacePattern.ReplaceAllString(noQualifier, " ")

	noSuffix := lower
	for _, p := range suffixPatterns {
		noSuffix = p.ReplaceAllString(noSuffix, " ")
	}
	noSuffix = strings.TrimSpace(whitespacePattern.ReplaceAllString(noSuffix, " "))

	return [3]string{lower, noQualifier, noSuffix}
}
