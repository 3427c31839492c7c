package enrich

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/bookdigest/ai"
)

var (
	keywordNoise      = regexp.MustCompile("[\\[\\]\"'`]")
	keywordDelimiters = regexp.MustCompile("[,、，\n]")
)

// ParseKeywords recovers at most max keywords from a model response.
//
// It tries, in order: a JSON array of the whole response, a JSON array after
// stripping code fences, and finally splitting the de-bracketed text on
// commas, full-width commas and newlines. Empty entries are dropped.
func ParseKeywords(response string, max int) []string {
	if max <= 0 {
		return []string{}
	}

	for _, candidate := range []string{strings.TrimSpace(response), ai.StripCodeFence(response)} {
		var items []any
		if err := json.Unmarshal([]byte(candidate), &items); err == nil {
			return collect(items, max)
		}
	}

	cleaned := keywordNoise.ReplaceAllString(ai.StripCodeFence(response), "")
	parts := keywordDelimiters.Split(cleaned, -1)
	out := make([]string, 0, max)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
			if len(out) == max {
				break
			}
		}
	}
	return out
}

func collect(items []any, max int) []string {
	out := make([]string, 0, max)
	for _, item := range items {
		if item == nil {
			continue
		}
		k := strings.TrimSpace(fmt.Sprint(item))
		if k == "" {
			continue
		}
		out = append(out, k)
		if len(out) == max {
			break
		}
	}
	return out
}
