// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package summarize

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/core"
)

// Summary is the category and summary for one record.
type Summary struct {
	ID       string        `json:"id"`
	Category core.Category `json:"category"`
	Summary  string        `json:"summary"`
	// Fallback is set when the entry was synthesized rather than returned by the model.
	Fallback bool `json:"-"`
}

var (
	greedyArray = regexp.MustCompile(`(?s)\[.*\]`)
	lazyArray   = regexp.MustCompile(`(?s)\[.*?\]`)
)

// ParseSummaries turns a chunk response into exactly one Summary per record
// in chunk, in chunk order.
//
// Candidates are tried in order: the raw response, the response with code
// fences stripped, the stripped response with keys repaired, then the widest
// and narrowest bracketed substrings. The first candidate that decodes as a
// JSON array is used. Entries for unknown identifiers are dropped, repeated
// identifiers keep their first entry, and records the model omitted get a
// default entry built from the record's own text. The result has the same
// length as chunk.
func ParseSummaries(response string, chunk []core.Record, fallbackLength int) []Summary {
	parsed := decodeLadder(response)

	byID := make(map[string]Summary, len(parsed))
	for _, item := range parsed {
		id := strings.TrimSpace(stringify(item["id"]))
		if id == "" {
			continue
		}
		if _, dup := byID[id]; dup {
			continue
		}
		byID[id] = Summary{
			ID:       id,
			Category: core.NormalizeCategory(stringify(item["category"])),
			Summary:  strings.TrimSpace(stringify(item["summary"])),
		}
	}

	out := make([]Summary, 0, len(chunk))
	for _, r := range chunk {
		s, ok := byID[r.ID]
		if !ok {
			out = append(out, DefaultSummary(r, fallbackLength))
			continue
		}
		if s.Summary == "" {
			s.Summary = DefaultSummary(r, fallbackLength).Summary
			s.Fallback = true
		}
		out = append(out, s)
	}
	return out
}

// DefaultSummary is the entry used when the model produced nothing usable for r.
func DefaultSummary(r core.Record, length int) Summary {
	return Summary{
		ID:       r.ID,
		Category: core.CategoryOther,
		Summary:  core.Truncate(strings.TrimSpace(r.Text), length),
		Fallback: true,
	}
}

func decodeLadder(response string) []map[string]any {
	stripped := ai.StripCodeFence(response)
	candidates := []string{
		strings.TrimSpace(response),
		stripped,
		ai.RepairJSON(stripped),
		greedyArray.FindString(stripped),
		lazyArray.FindString(stripped),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if items, ok := decodeArray(c); ok {
			return items
		}
	}
	return nil
}

func decodeArray(s string) ([]map[string]any, bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	items := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		var obj map[string]any
		dec := json.NewDecoder(bytes.NewReader(r))
		dec.UseNumber()
		if err := dec.Decode(&obj); err == nil && obj != nil {
			items = append(items, obj)
		}
	}
	return items, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
