// Package digest merges stage outputs into enriched records and renders them
// as notification blocks.
//
// Assemble joins records with their summaries, enrichment results and notes,
// then assigns each an importance tier through a Classifier. Render turns a
// core.DigestResult into an ordered block list: a spotlight section for high
// tier records, one block per category for normal tier records, and a single
// compact block for low tier records. Paginate splits a block list that
// exceeds the per-message ceiling into ordered pages.
package digest
