// Package summarize categorizes and summarizes records in fixed-size chunks
// and writes short enrichment notes from attached web results.
//
// Each chunk is one Completion Service call that returns a JSON array of
// {id, category, summary} objects. Model output is often imperfect, so
// ParseSummaries walks a fallback ladder (strict parse, code-fence strip,
// key repair, bracketed-array extraction) and finally synthesizes a default
// entry for any record the model left out. The result always has exactly one
// Summary per input record.
//
// Only transport failures are retried; malformed output is absorbed by the
// ladder. A chunk that still fails after retries fails the whole stage.
package summarize
