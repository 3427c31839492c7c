package core

import (
	"encoding/binary"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// RunID identifies one digest run.
// It is derived from the identifiers digested in that run.
type RunID uint64

// RunIDFromRecords generates a deterministic RunID from a set of record identifiers using BLAKE2b hashing.
// Identifier order does not matter: the same set always produces the same RunID.
func RunIDFromRecords(ids []string) RunID {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(strings.Join(sorted, "\n")))
	sum := h.Sum(nil)
	return RunID(binary.LittleEndian.Uint64(sum))
}

// Record is one saved social-media post (a bookmark).
// Identifier is never empty for a Record produced by the bookmarks package.
type Record struct {
	ID             string     `json:"id"`
	Text           string     `json:"text"`
	AuthorName     string     `json:"author_name"`
	AuthorUsername string     `json:"author_username"`
	URL            string     `json:"url"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	LikeCount      int        `json:"like_count"`
	RetweetCount   int        `json:"retweet_count"`
	ReplyCount     int        `json:"reply_count"`
}

// WebResult is one read-only search hit attached to a record as evidence.
type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Tier is the importance class that controls rendering density.
type Tier string

const (
	// TierHigh records are rendered one rich block each.
	TierHigh Tier = "high"
	// TierNormal records are grouped by category.
	TierNormal Tier = "normal"
	// TierLow records collapse into a single block of linked handles.
	TierLow Tier = "low"
)

// Tiers lists the valid tiers in rendering order.
var Tiers = []Tier{TierHigh, TierNormal, TierLow}

// Category is one entry of the closed category enumeration.
type Category string

const (
	CategoryTech          Category = "AI & Tech"
	CategoryBusiness      Category = "Business"
	CategoryMarketing     Category = "Marketing"
	CategoryHealth        Category = "Sports & Health"
	CategoryLearning      Category = "Learning"
	CategoryNews          Category = "News & Society"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
)

// Categories defines the valid categories in display order.
// CategoryOther is always last and is the fallback for anything unrecognized.
var Categories = []Category{
	CategoryTech,
	CategoryBusiness,
	CategoryMarketing,
	CategoryHealth,
	CategoryLearning,
	CategoryNews,
	CategoryEntertainment,
	CategoryOther,
}

// EnrichedRecord owns one Record plus everything downstream stages attached to it.
// It is immutable after assembly except for Tier.
type EnrichedRecord struct {
	Record         Record      `json:"record"`
	Category       Category    `json:"category"`
	Summary        string      `json:"summary"`
	Keywords       []string    `json:"keywords"`
	WebResults     []WebResult `json:"web_results"`
	EnrichmentNote string      `json:"enrichment_note"`
	Tier           Tier        `json:"tier"`
}

// TokenUsage aggregates completion token counters.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add returns the sum of two usages.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}

// DigestResult is the output of one pipeline execution.
type DigestResult struct {
	RunID      RunID            `json:"run_id"`
	Date       time.Time        `json:"date"`
	Records    []EnrichedRecord `json:"records"`
	TotalCount int              `json:"total_count"`
	Models     []string         `json:"models"`
	TokenUsage TokenUsage       `json:"token_usage"`
}

// IDs returns the record identifiers of the digest in order.
func (d *DigestResult) IDs() []string {
	ids := make([]string, len(d.Records))
	for i, r := range d.Records {
		ids[i] = r.Record.ID
	}
	return ids
}

// ParseOutcome is the result of mapping one raw export element to a Record.
// Exactly one of Record or SkipReason is meaningful: Ok reports which.
type ParseOutcome struct {
	Record     Record
	SkipReason string
}

// Ok reports whether the outcome carries a Record.
func (o ParseOutcome) Ok() bool {
	return o.SkipReason == ""
}

// Parsed wraps a successfully parsed record.
func Parsed(r Record) ParseOutcome {
	return ParseOutcome{Record: r}
}

// Skipped creates an outcome for an element that was dropped.
func Skipped(reason string) ParseOutcome {
	if reason == "" {
		reason = "skipped"
	}
	return ParseOutcome{SkipReason: reason}
}
