package bookmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/poiesic/bookdigest/core"
)

// ParseJSON decodes a JSON export. The top-level value must be an array.
// Elements that are not objects or lack an identifier are skipped and logged.
func (l *Loader) ParseJSON(data []byte) ([]core.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []core.Record{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	// Keep 64-bit identifiers exact.
	dec.UseNumber()

	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	items, ok := top.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level JSON value must be an array, got %s", ErrMalformed, jsonKind(top))
	}

	records := make([]core.Record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			l.logger.Warn("skipping element", "index", i, "reason", "not an object")
			continue
		}
		outcome := ParseJSONItem(obj)
		if !outcome.Ok() {
			l.logger.Warn("skipping element", "index", i, "reason", outcome.SkipReason, "item", snippet(obj))
			continue
		}
		l.warnTimestamp(obj, timestampAliases, outcome.Record)
		records = append(records, outcome.Record)
	}
	return records, nil
}

// ParseJSONItem maps one JSON object to a Record using the alias tables.
func ParseJSONItem(obj map[string]any) core.ParseOutcome {
	f := fields(obj)
	id := first(f, idAliases...)
	if id == "" {
		return core.Skipped("missing identifier")
	}

	handle := strings.TrimPrefix(first(f, authorHandleAliases...), "@")
	if handle == "" {
		handle = "unknown"
	}
	name := first(f, authorNameAliases...)
	if name == "" {
		name = "Unknown"
	}
	url := first(f, urlAliases...)
	if url == "" {
		url = CanonicalURL(handle, id)
	}

	rec := core.Record{
		ID:             id,
		Text:           first(f, textAliases...),
		AuthorName:     name,
		AuthorUsername: handle,
		URL:            url,
		LikeCount:      firstCount(f, likeAliases...),
		RetweetCount:   firstCount(f, retweetAliases...),
		ReplyCount:     firstCount(f, replyAliases...),
	}
	if ts, ok := ParseTimestamp(first(f, timestampAliases...)); ok {
		rec.CreatedAt = &ts
	}
	return core.Parsed(rec)
}

func jsonKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func snippet(obj map[string]any) string {
	b, err := json.Marshal(obj)
	if err != nil {
		return ""
	}
	if len(b) > 100 {
		b = b[:100]
	}
	return string(b)
}
