package bookmarks

import (
	"regexp"
	"strings"
	"time"
)

// timestampLayouts are tried in order; the first that parses wins.
// Fractional seconds are optional in every ISO layout.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"Mon Jan 02 15:04:05 -0700 2006",
}

// ParseTimestamp parses an export timestamp.
// Values without an explicit offset are UTC. It reports false for empty or
// unrecognized input; that is never an error.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var statusPattern = regexp.MustCompile(`/status/(\d+)`)

// ExtractStatusID returns the numeric post identifier following /status/ in a URL.
func ExtractStatusID(link string) string {
	m := statusPattern.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	return m[1]
}

// CanonicalURL builds the platform's post URL from a handle and identifier.
func CanonicalURL(handle, id string) string {
	return "https://x.com/" + handle + "/status/" + id
}
