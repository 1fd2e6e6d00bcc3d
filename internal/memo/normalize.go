package memo

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// colorRegex matches #RRGGBB hex colors.
var colorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Normalize trims, lowercases and collapses internal whitespace.
// Used for folder name uniqueness.
func Normalize(s string) string {
	return strings.ToLower(CollapseWhitespace(s))
}

// CollapseWhitespace trims s and collapses internal whitespace to single spaces.
func CollapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// ValidColor reports whether s is a #RRGGBB hex color.
func ValidColor(s string) bool {
	return colorRegex.MatchString(s)
}

// NormalizeColor uppercases a valid color; invalid input is returned trimmed.
func NormalizeColor(s string) string {
	s = strings.TrimSpace(s)
	if ValidColor(s) {
		return strings.ToUpper(s)
	}
	return s
}

// NormalizeURL trims u and adds https:// when no http(s) scheme is present.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}
