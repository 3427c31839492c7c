// Package watermark persists the set of already-digested record identifiers.
//
// The set is stored as {"ids": [...]} sorted by descending numeric value and
// capped at a ceiling. When the cap is exceeded the numerically smallest
// identifiers, which are the oldest for monotonically increasing post IDs,
// are evicted first. Identifiers that are not integers rank below every
// numeric identifier and are evicted before them.
//
// A Cache assumes a single writer per file. Loading never fails: a missing
// or corrupt file reads as the empty set.
package watermark
