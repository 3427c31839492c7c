// Package bookmarks loads saved-post exports into canonical core.Record values.
//
// Two encodings are accepted and told apart by content, not by file
// extension: a JSON array of loosely structured objects, or a CSV table with
// a header row. Field names vary between exporters, so every canonical field
// is resolved from an ordered list of aliases and the first non-empty value
// wins. Elements without an identifier are skipped and logged; they never
// abort the load.
//
// Load deduplicates by identifier, keeping the first occurrence, so loading
// the same file twice always yields the same records.
package bookmarks
