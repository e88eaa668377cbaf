package matching

import (
	"net/http"
	"strings"
)

// MatchHeader reports whether the named header satisfies pattern. Names are
// case-insensitive. Patterns without * must match exactly; otherwise
// "prefix*", "*suffix" and "*middle*" forms are supported. A lone "*" only
// requires the header to be present.
func MatchHeader(name, pattern string, headers http.Header) bool {
	values := headers.Values(name)
	if len(values) == 0 {
		return false
	}
	actual := values[0]

	switch {
	case pattern == "*":
		return true
	case !strings.Contains(pattern, "*"):
		return actual == pattern
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*"):
		return strings.Contains(actual, strings.Trim(pattern, "*"))
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(actual, strings.TrimSuffix(pattern, "*"))
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(actual, strings.TrimPrefix(pattern, "*"))
	default:
		return matchWildcard(pattern, actual)
	}
}

// MatchHeaders returns the header score for expected, or 0 if any header
// does not match.
func MatchHeaders(expected map[string]string, headers http.Header) int {
	score := 0
	for name, pattern := range expected {
		if !MatchHeader(name, pattern, headers) {
			return 0
		}
		score += ScoreHeader
	}
	return score
}
