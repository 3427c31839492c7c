package digest

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/poiesic/bookdigest/core"
)

// RenderConfig holds the text budgets and labels used by Render.
type RenderConfig struct {
	// Title heads the digest and prefixes the fallback text.
	Title string

	// Footer is the closing context line.
	Footer string

	// DateLayout formats the run date in the header.
	DateLayout string

	// SummaryLength is the rune budget of a spotlight summary.
	SummaryLength int

	// NoteLength is the rune budget of a spotlight enrichment note.
	NoteLength int

	// LinkTitleLength is the rune budget of a web result link title.
	LinkTitleLength int

	// MaxLinks is the number of web result links shown per spotlight record.
	MaxLinks int

	// LineSummaryLength is the rune budget of a summary in a category line.
	LineSummaryLength int

	// BlockTextLimit is the per-block text ceiling of the notification service.
	BlockTextLimit int

	// HeaderTextLimit is the ceiling for header blocks.
	HeaderTextLimit int

	// MaxBlocks is the per-message block ceiling of the notification service.
	MaxBlocks int

	// PageMargin is subtracted from MaxBlocks to size pages when splitting.
	PageMargin int

	// RankBy orders records inside a category block, highest first.
	// Nil ranks by like count.
	RankBy func(core.EnrichedRecord) int
}

// DefaultRenderConfig returns a RenderConfig tuned for Slack Block Kit.
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		Title:             "X Bookmark Digest",
		Footer:            "_X Bookmark Digest | Powered by Claude_",
		DateLayout:        "2006-01-02",
		SummaryLength:     250,
		NoteLength:        180,
		LinkTitleLength:   40,
		MaxLinks:          2,
		LineSummaryLength: 120,
		BlockTextLimit:    3000,
		HeaderTextLimit:   150,
		MaxBlocks:         50,
		PageMargin:        2,
	}
}

var categoryEmoji = map[core.Category]string{
	core.CategoryTech:          "🤖",
	core.CategoryBusiness:      "💼",
	core.CategoryMarketing:     "📣",
	core.CategoryHealth:        "🏃",
	core.CategoryLearning:      "📖",
	core.CategoryNews:          "📰",
	core.CategoryEntertainment: "🎭",
	core.CategoryOther:         "📌",
}

// CategoryEmoji returns the marker shown next to a category label.
func CategoryEmoji(c core.Category) string {
	if e, ok := categoryEmoji[c]; ok {
		return e
	}
	return "📌"
}

// Render converts a digest into an ordered block list.
// config: nil uses DefaultRenderConfig().
func Render(result *core.DigestResult, config *RenderConfig) []Block {
	if config == nil {
		config = DefaultRenderConfig()
	}
	r := renderer{config: config}

	var high, normal, low []core.EnrichedRecord
	for _, rec := range result.Records {
		switch rec.Tier {
		case core.TierHigh:
			high = append(high, rec)
		case core.TierLow:
			low = append(low, rec)
		default:
			normal = append(normal, rec)
		}
	}

	title := fmt.Sprintf("📚 %s | %s", config.Title, result.Date.Format(config.DateLayout))
	blocks := []Block{
		Header(core.Truncate(title, config.HeaderTextLimit)),
		r.context(countLine(len(high), len(normal), len(low), result.TotalCount)),
		Divider(),
	}

	if len(high) > 0 {
		blocks = append(blocks, r.section("*🔴 Highlights*"))
		for _, rec := range high {
			blocks = append(blocks, r.section(r.spotlight(rec)))
		}
		blocks = append(blocks, Divider())
	}

	if len(normal) > 0 {
		for _, group := range groupByCategory(normal) {
			blocks = append(blocks, r.section(r.categoryText(group)))
		}
		blocks = append(blocks, Divider())
	}

	if len(low) > 0 {
		text := r.bounded(fmt.Sprintf("*⚫ Thin or no text (%d)*\n", len(low)))
		for i, rec := range low {
			link := handleLink(rec.Record)
			if i > 0 {
				link = "  " + link
			}
			if !text.add(link) {
				break
			}
		}
		blocks = append(blocks, r.section(text.String()), Divider())
	}

	blocks = append(blocks, r.context(config.Footer))
	return blocks
}

type renderer struct {
	config *RenderConfig
}

func (r renderer) section(text string) Block {
	return Section(core.Truncate(text, r.config.BlockTextLimit))
}

func (r renderer) context(text string) Block {
	return Context(core.Truncate(text, r.config.BlockTextLimit))
}

func (r renderer) spotlight(rec core.EnrichedRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔴 *%s*", handleLink(rec.Record))
	if rec.Record.LikeCount > 0 {
		fmt.Fprintf(&b, "  👍 %s", formatCount(rec.Record.LikeCount))
	}
	fmt.Fprintf(&b, "  _%s %s_", CategoryEmoji(rec.Category), rec.Category)
	b.WriteString("\n")
	b.WriteString(core.Truncate(rec.Summary, r.config.SummaryLength))

	if rec.EnrichmentNote != "" {
		fmt.Fprintf(&b, "\n> _%s_", core.Truncate(rec.EnrichmentNote, r.config.NoteLength))
	}

	var links []string
	shown := max(0, min(len(rec.WebResults), r.config.MaxLinks))
	for _, w := range rec.WebResults[:shown] {
		if w.URL == "" || w.Title == "" {
			continue
		}
		links = append(links, fmt.Sprintf("<%s|%s>", w.URL, core.Truncate(w.Title, r.config.LinkTitleLength)))
	}
	if len(links) > 0 {
		b.WriteString("\n🔗 ")
		b.WriteString(strings.Join(links, "  /  "))
	}
	return b.String()
}

func (r renderer) categoryText(group categoryGroup) string {
	rank := r.config.RankBy
	if rank == nil {
		rank = func(rec core.EnrichedRecord) int { return rec.Record.LikeCount }
	}
	members := slices.Clone(group.records)
	slices.SortStableFunc(members, func(a, b core.EnrichedRecord) int {
		return cmp.Compare(rank(b), rank(a))
	})

	text := r.bounded(fmt.Sprintf("*%s %s*", CategoryEmoji(group.category), group.category))
	for _, rec := range members {
		likes := ""
		if rec.Record.LikeCount > 0 {
			likes = " 👍" + formatCount(rec.Record.LikeCount)
		}
		line := fmt.Sprintf("\n• %s%s — %s",
			handleLink(rec.Record), likes, core.Truncate(rec.Summary, r.config.LineSummaryLength))
		if !text.add(line) {
			break
		}
	}
	return text.String()
}

// boundedText accumulates whole pieces of block text up to a rune limit.
// A piece that does not fit is dropped along with everything after it, so
// link markup is never cut.
type boundedText struct {
	b     strings.Builder
	runes int
	limit int
	full  bool
}

func (r renderer) bounded(head string) *boundedText {
	t := &boundedText{limit: r.config.BlockTextLimit}
	head = core.Truncate(head, t.limit)
	t.b.WriteString(head)
	t.runes = utf8.RuneCountInString(head)
	return t
}

func (t *boundedText) add(piece string) bool {
	n := utf8.RuneCountInString(piece)
	if t.full || t.runes+n > t.limit {
		t.full = true
		return false
	}
	t.b.WriteString(piece)
	t.runes += n
	return true
}

func (t *boundedText) String() string { return t.b.String() }

type categoryGroup struct {
	category core.Category
	records  []core.EnrichedRecord
}

// groupByCategory orders groups by member count descending, then by the
// position of the category in core.Categories.
func groupByCategory(records []core.EnrichedRecord) []categoryGroup {
	index := make(map[core.Category]int)
	var groups []categoryGroup
	for _, rec := range records {
		i, ok := index[rec.Category]
		if !ok {
			i = len(groups)
			index[rec.Category] = i
			groups = append(groups, categoryGroup{category: rec.Category})
		}
		groups[i].records = append(groups[i].records, rec)
	}
	slices.SortStableFunc(groups, func(a, b categoryGroup) int {
		if c := cmp.Compare(len(b.records), len(a.records)); c != 0 {
			return c
		}
		return cmp.Compare(categoryOrder(a.category), categoryOrder(b.category))
	})
	return groups
}

func categoryOrder(c core.Category) int {
	if i := slices.Index(core.Categories, c); i >= 0 {
		return i
	}
	return len(core.Categories)
}

func countLine(high, normal, low, total int) string {
	var parts []string
	if high > 0 {
		parts = append(parts, fmt.Sprintf("🔴 High %d", high))
	}
	if normal > 0 {
		parts = append(parts, fmt.Sprintf("🔵 Normal %d", normal))
	}
	if low > 0 {
		parts = append(parts, fmt.Sprintf("⚫ Thin %d", low))
	}
	parts = append(parts, fmt.Sprintf("Total %d", total))
	return strings.Join(parts, "  ")
}

func handleLink(r core.Record) string {
	return fmt.Sprintf("<%s|@%s>", r.URL, r.AuthorUsername)
}

// formatCount renders n with comma thousands separators.
func formatCount(n int) string {
	return humanize.Comma(int64(n))
}
