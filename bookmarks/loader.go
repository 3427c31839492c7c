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

package bookmarks

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/poiesic/bookdigest/core"
)

// Format is a detected export encoding.
type Format int

const (
	FormatEmpty Format = iota
	FormatJSON
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	default:
		return "empty"
	}
}

// DetectFormat inspects the first non-whitespace byte after an optional BOM:
// '[' or '{' means JSON, anything else CSV.
func DetectFormat(data []byte) Format {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return FormatEmpty
	}
	switch data[0] {
	case '[', '{':
		return FormatJSON
	default:
		return FormatCSV
	}
}

// Loader reads export files.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger uses slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With("component", "bookmarks")}
}

// Load reads the export at path using a default Loader.
func Load(path string) ([]core.Record, error) {
	return NewLoader(nil).Load(path)
}

// Load reads, parses and deduplicates the export at path.
//
// A missing file returns ErrNotFound. A zero-byte or whitespace-only file
// returns an empty slice and no error.
func (l *Loader) Load(path string) ([]core.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	format := DetectFormat(data)
	var records []core.Record
	switch format {
	case FormatEmpty:
		l.logger.Info("bookmark file is empty", "path", path)
		return []core.Record{}, nil
	case FormatJSON:
		records, err = l.ParseJSON(bytes.TrimPrefix(data, utf8BOM))
	default:
		records, err = l.ParseCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	unique := Dedupe(records)
	l.logger.Info("loaded bookmarks",
		"path", path,
		"format", format.String(),
		"parsed", len(records),
		"unique", len(unique))
	return unique, nil
}

// Dedupe removes records whose identifier was already seen, keeping the first
// occurrence and the original order.
func Dedupe(records []core.Record) []core.Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]core.Record, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

func (l *Loader) warnTimestamp(f fields, aliases []extractor, rec core.Record) {
	if rec.CreatedAt != nil {
		return
	}
	if raw := first(f, aliases...); raw != "" {
		l.logger.Warn("unparseable timestamp", "id", rec.ID, "value", raw)
	}
}
