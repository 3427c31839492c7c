package bookmarks

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/bookdigest/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV decodes a header-driven CSV export.
// Header names are matched case-insensitively against the alias tables.
// A Link column stands in for a missing identifier column.
func (l *Loader) ParseCSV(data []byte) ([]core.Record, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.Record{}, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrMalformed, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	records := make([]core.Record, 0)
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.logger.Warn("skipping row", "line", line, "reason", err)
			continue
		}

		f := make(fields, len(index))
		for name, i := range index {
			if i < len(row) {
				f[name] = row[i]
			}
		}

		outcome := ParseCSVRow(f)
		if !outcome.Ok() {
			l.logger.Warn("skipping row", "line", line, "reason", outcome.SkipReason)
			continue
		}
		l.warnTimestamp(f, columns(csvTimeColumns), outcome.Record)
		records = append(records, outcome.Record)
	}
	return records, nil
}

// ParseCSVRow maps one row, keyed by lowercased header name, to a Record.
func ParseCSVRow(row map[string]any) core.ParseOutcome {
	f := fields(row)
	link := first(f, columns(csvLinkColumns)...)
	id := first(f, columns(csvIDColumns)...)
	if id == "" {
		id = ExtractStatusID(link)
	}
	if id == "" {
		return core.Skipped("missing identifier")
	}

	handle := strings.TrimPrefix(first(f, columns(csvHandleColumns)...), "@")
	if handle == "" {
		handle = "unknown"
	}
	name := first(f, columns(csvNameColumns)...)
	if name == "" {
		name = handle
	}
	url := link
	if url == "" {
		url = CanonicalURL(handle, id)
	}

	rec := core.Record{
		ID:             id,
		Text:           first(f, columns(csvTextColumns)...),
		AuthorName:     name,
		AuthorUsername: handle,
		URL:            url,
		LikeCount:      firstCount(f, columns(csvLikeColumns)...),
		RetweetCount:   firstCount(f, columns(csvRetweetColumns)...),
		ReplyCount:     firstCount(f, columns(csvReplyColumns)...),
	}
	if ts, ok := ParseTimestamp(first(f, columns(csvTimeColumns)...)); ok {
		rec.CreatedAt = &ts
	}
	return core.Parsed(rec)
}
