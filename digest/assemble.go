package digest

import (
	"github.com/poiesic/bookdigest/core"
	"github.com/poiesic/bookdigest/enrich"
	"github.com/poiesic/bookdigest/summarize"
)

// DefaultSummaryLength is the rune budget of the summary used for a record
// missing from the summary map.
const DefaultSummaryLength = 100

// Assemble merges records with their summaries, enrichment and notes, keyed
// by identifier, and tiers each result with classifier (nil uses
// DefaultClassifier). Output order follows records.
//
// A record without a summary gets category Other and a truncated copy of its
// body. A record without enrichment gets no keywords and no web results.
// A classifier answer outside the tier set is treated as normal.
func Assemble(
	records []core.Record,
	summaries map[string]summarize.Summary,
	enrichments map[string]enrich.Result,
	notes map[string]string,
	classifier Classifier,
) []core.EnrichedRecord {
	if classifier == nil {
		classifier = DefaultClassifier()
	}

	out := make([]core.EnrichedRecord, 0, len(records))
	for _, r := range records {
		er := core.EnrichedRecord{
			Record:     r,
			Category:   core.CategoryOther,
			Summary:    core.Truncate(r.Text, DefaultSummaryLength),
			Keywords:   []string{},
			WebResults: []core.WebResult{},
		}

		if s, ok := summaries[r.ID]; ok {
			er.Summary = s.Summary
			if s.Category != "" {
				er.Category = s.Category
			}
		}
		if e, ok := enrichments[r.ID]; ok {
			if e.Keywords != nil {
				er.Keywords = e.Keywords
			}
			if e.WebResults != nil {
				er.WebResults = e.WebResults
			}
		}
		er.EnrichmentNote = notes[r.ID]

		tier := classifier.Classify(er)
		if core.ValidateTier(tier) != nil {
			tier = core.TierNormal
		}
		er.Tier = tier

		out = append(out, er)
	}
	return out
}
