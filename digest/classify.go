package digest

import (
	"strings"
	"unicode/utf8"

	"github.com/poiesic/bookdigest/core"
)

// Classifier assigns an importance tier to an assembled record.
type Classifier interface {
	Classify(record core.EnrichedRecord) core.Tier
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(record core.EnrichedRecord) core.Tier

// Classify calls f(record).
func (f ClassifierFunc) Classify(record core.EnrichedRecord) core.Tier {
	return f(record)
}

// EngagementClassifier tiers records by like count and body length.
type EngagementClassifier struct {
	// HighLikes is the like count at which a record becomes high tier.
	HighLikes int
	// MinTextLength is the body length in runes below which a record is low tier.
	MinTextLength int
}

// DefaultClassifier returns an EngagementClassifier with default thresholds.
func DefaultClassifier() EngagementClassifier {
	return EngagementClassifier{HighLikes: 1000, MinTextLength: 20}
}

// Classify implements Classifier. A record is high when its likes reach
// HighLikes, low when its body is shorter than MinTextLength, otherwise normal.
// Engagement wins over length.
func (c EngagementClassifier) Classify(record core.EnrichedRecord) core.Tier {
	if c.HighLikes > 0 && record.Record.LikeCount >= c.HighLikes {
		return core.TierHigh
	}
	if utf8.RuneCountInString(strings.TrimSpace(record.Record.Text)) < c.MinTextLength {
		return core.TierLow
	}
	return core.TierNormal
}

var _ Classifier = EngagementClassifier{}
