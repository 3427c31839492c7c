package bookmarks

import "errors"

var (
	// ErrNotFound is returned when the export file does not exist.
	ErrNotFound = errors.New("bookmark file not found")

	// ErrMalformed is returned when the export cannot be decoded at all,
	// e.g. a JSON top-level value that is not an array.
	ErrMalformed = errors.New("malformed bookmark file")
)
