package bookmarks

import (
	"encoding/json"
	"strconv"
	"strings"
)

// fields is one raw export element keyed by field name.
type fields map[string]any

// extractor pulls one candidate value out of an element.
// It returns "" when the candidate is absent.
type extractor func(fields) string

// key reads a top-level field.
func key(name string) extractor {
	return func(f fields) string {
		return stringify(f[name])
	}
}

// nested reads a field of a child object, e.g. user.screen_name.
func nested(parent, name string) extractor {
	return func(f fields) string {
		child, ok := f[parent].(map[string]any)
		if !ok {
			return ""
		}
		return stringify(child[name])
	}
}

// first applies extractors in priority order and returns the first non-empty value.
func first(f fields, extractors ...extractor) string {
	for _, ex := range extractors {
		if v := strings.TrimSpace(ex(f)); v != "" {
			return v
		}
	}
	return ""
}

// firstCount is first for engagement counters: zero, negative and
// unparsable values fall through to the next alias.
func firstCount(f fields, extractors ...extractor) int {
	for _, ex := range extractors {
		if n := parseCount(ex(f)); n > 0 {
			return n
		}
	}
	return 0
}

func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return max(n, 0)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}

// stringify renders scalar JSON values as strings.
// Objects, arrays, booleans and nulls yield "".
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// Alias tables, highest priority first.
var (
	idAliases = []extractor{key("id"), key("id_str"), key("tweet_id")}

	textAliases = []extractor{key("text"), key("full_text"), key("content")}

	authorNameAliases = []extractor{key("author_name"), nested("user", "name"), nested("user", "display_name")}

	authorHandleAliases = []extractor{
		key("author_username"),
		key("screen_name"),
		nested("user", "screen_name"),
		nested("user", "username"),
	}

	urlAliases = []extractor{key("url"), key("tweet_url")}

	timestampAliases = []extractor{key("created_at"), key("timestamp")}

	likeAliases = []extractor{key("like_count"), key("favorite_count"), nested("public_metrics", "like_count")}

	retweetAliases = []extractor{key("retweet_count"), nested("public_metrics", "retweet_count")}

	replyAliases = []extractor{key("reply_count"), nested("public_metrics", "reply_count")}
)

// CSV header aliases, matched case-insensitively.
var (
	csvLinkColumns    = []string{"link", "url", "tweet_url"}
	csvIDColumns      = []string{"id", "tweet_id", "id_str"}
	csvTextColumns    = []string{"text", "content", "full_text"}
	csvHandleColumns  = []string{"username", "screen_name", "author_username", "handle"}
	csvNameColumns    = []string{"displayname", "display_name", "name", "author_name"}
	csvTimeColumns    = []string{"timestamp", "created_at", "createdat"}
	csvLikeColumns    = []string{"like_count", "likes", "favorite_count"}
	csvRetweetColumns = []string{"retweet_count", "retweets"}
	csvReplyColumns   = []string{"reply_count", "replies"}
)

func columns(names []string) []extractor {
	out := make([]extractor, len(names))
	for i, n := range names {
		out[i] = key(n)
	}
	return out
}
