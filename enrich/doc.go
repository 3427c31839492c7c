// Package enrich attaches search keywords and web results to records.
//
// For each record the Completion Service is asked for a handful of search
// keywords, the keywords are sent to the Web Search Service, and when the
// general query comes back thin a second query restricted to the source
// platform is appended. Enrichment is best effort: a record whose calls fail
// after retries yields an empty Result and the batch moves on.
//
// Records are processed one at a time with a configurable pause between
// them to stay under the search service's informal rate limits.
package enrich
