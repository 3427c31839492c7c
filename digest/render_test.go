package digest

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/poiesic/bookdigest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, user string, tier core.Tier, cat core.Category, likes int, summary string) core.EnrichedRecord {
	return core.EnrichedRecord{
		Record: core.Record{
			ID:             id,
			AuthorUsername: user,
			URL:            "https://x.com/" + user + "/status/" + id,
			LikeCount:      likes,
		},
		Category: cat,
		Summary:  summary,
		Tier:     tier,
	}
}

func digestOf(records ...core.EnrichedRecord) *core.DigestResult {
	return &core.DigestResult{
		Date:       time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC),
		Records:    records,
		TotalCount: len(records),
	}
}

func TestRender_Structure(t *testing.T) {
	high := rec("1", "alice", core.TierHigh, core.CategoryTech, 1234, "Big news.")
	high.EnrichmentNote = "Context from the web."
	high.WebResults = []core.WebResult{
		{Title: "First", URL: "https://a"},
		{Title: "", URL: "https://skipped"},
		{Title: "Third", URL: "https://c"},
	}

	blocks := Render(digestOf(
		high,
		rec("2", "bob", core.TierNormal, core.CategoryBusiness, 3, "Biz one."),
		rec("3", "carol", core.TierNormal, core.CategoryLearning, 10, "Learn one."),
		rec("4", "dave", core.TierNormal, core.CategoryLearning, 50, "Learn two."),
		rec("5", "erin", core.TierLow, core.CategoryOther, 0, ""),
	), nil)

	types := make([]BlockType, len(blocks))
	for i, b := range blocks {
		types[i] = b.Type
	}
	assert.Equal(t, []BlockType{
		BlockHeader, BlockContext, BlockDivider,
		BlockSection, BlockSection, BlockDivider, // highlights
		BlockSection, BlockSection, BlockDivider, // two categories
		BlockSection, BlockDivider, // thin
		BlockContext,
	}, types)

	assert.Equal(t, "📚 X Bookmark Digest | 2025-03-07", blocks[0].Text)
	assert.Equal(t, "🔴 High 1  🔵 Normal 3  ⚫ Thin 1  Total 5", blocks[1].Text)

	spotlight := blocks[4].Text
	assert.Equal(t, "🔴 *<https://x.com/alice/status/1|@alice>*  👍 1,234  _🤖 AI & Tech_\n"+
		"Big news.\n"+
		"> _Context from the web._\n"+
		"🔗 <https://a|First>", spotlight, "only the first two results are considered")

	// Learning has two members so it comes first; members ranked by likes.
	assert.Equal(t, "*📖 Learning*\n"+
		"• <https://x.com/dave/status/4|@dave> 👍50 — Learn two.\n"+
		"• <https://x.com/carol/status/3|@carol> 👍10 — Learn one.", blocks[6].Text)
	assert.True(t, strings.HasPrefix(blocks[7].Text, "*💼 Business*\n"))

	assert.Equal(t, "*⚫ Thin or no text (1)*\n<https://x.com/erin/status/5|@erin>", blocks[9].Text)
	assert.Equal(t, DefaultRenderConfig().Footer, blocks[11].Text)
}

func TestRender_EmptySectionsOmitted(t *testing.T) {
	blocks := Render(digestOf(rec("1", "u", core.TierNormal, core.CategoryOther, 0, "s")), nil)
	require.Len(t, blocks, 6)
	assert.Equal(t, "🔵 Normal 1  Total 1", blocks[1].Text)
	assert.NotContains(t, blocks[3].Text, "👍", "zero likes are not shown")
}

func TestRender_CategoryTieUsesCategoryOrder(t *testing.T) {
	blocks := Render(digestOf(
		rec("1", "u", core.TierNormal, core.CategoryOther, 0, "s"),
		rec("2", "u", core.TierNormal, core.CategoryTech, 0, "s"),
	), nil)
	assert.True(t, strings.HasPrefix(blocks[3].Text, "*🤖 AI & Tech*"))
	assert.True(t, strings.HasPrefix(blocks[4].Text, "*📌 Other*"))
}

func TestRender_CustomRank(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.RankBy = func(r core.EnrichedRecord) int { return r.Record.RetweetCount }
	a := rec("1", "a", core.TierNormal, core.CategoryNews, 100, "a")
	b := rec("2", "b", core.TierNormal, core.CategoryNews, 1, "b")
	b.Record.RetweetCount = 10

	blocks := Render(digestOf(a, b), cfg)
	lines := strings.Split(blocks[3].Text, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "@b")
	assert.Contains(t, lines[2], "@a")
}

func TestRender_TruncatesFields(t *testing.T) {
	long := strings.Repeat("あ", 400)
	high := rec("1", "u", core.TierHigh, core.CategoryTech, 0, long)
	high.EnrichmentNote = long
	normal := rec("2", "u", core.TierNormal, core.CategoryTech, 0, long)

	blocks := Render(digestOf(high, normal), nil)

	spotlight := strings.Split(blocks[4].Text, "\n")
	assert.Equal(t, 250, utf8.RuneCountInString(spotlight[1]))
	assert.True(t, strings.HasSuffix(spotlight[1], core.Ellipsis))
	assert.Equal(t, "> _"+strings.Repeat("あ", 179)+core.Ellipsis+"_", spotlight[2])

	line := strings.Split(blocks[6].Text, "\n")[1]
	assert.True(t, strings.HasSuffix(line, strings.Repeat("あ", 119)+core.Ellipsis))
}

func TestRender_BlockTextCeiling(t *testing.T) {
	var records []core.EnrichedRecord
	for i := 0; i < 200; i++ {
		records = append(records, rec("1", strings.Repeat("h", 20), core.TierLow, core.CategoryOther, 0, ""))
	}
	cfg := DefaultRenderConfig()
	for _, b := range Render(digestOf(records...), cfg) {
		assert.LessOrEqual(t, utf8.RuneCountInString(b.Text), cfg.BlockTextLimit)
	}
}

func TestRender_LowLinksStopBeforeLimit(t *testing.T) {
	var records []core.EnrichedRecord
	for i := 0; i < 200; i++ {
		records = append(records, rec("1", strings.Repeat("h", 20), core.TierLow, core.CategoryOther, 0, ""))
	}
	cfg := DefaultRenderConfig()

	var low string
	for _, b := range Render(digestOf(records...), cfg) {
		if strings.HasPrefix(b.Text, "*⚫ Thin or no text") {
			low = b.Text
		}
	}
	require.NotEmpty(t, low)
	assert.LessOrEqual(t, utf8.RuneCountInString(low), cfg.BlockTextLimit)
	assert.True(t, strings.HasSuffix(low, ">"), "last link is complete")
	assert.NotContains(t, low, core.Ellipsis)
	assert.Equal(t, strings.Count(low, "<"), strings.Count(low, ">"))
	assert.Less(t, strings.Count(low, "<"), 200, "links past the limit are dropped")
}

func TestRender_CategoryLinesStopBeforeLimit(t *testing.T) {
	var records []core.EnrichedRecord
	for i := 0; i < 200; i++ {
		records = append(records, rec("1", strings.Repeat("n", 20), core.TierNormal, core.CategoryTech, 0, "short"))
	}
	cfg := DefaultRenderConfig()

	blocks := Render(digestOf(records...), cfg)
	text := blocks[3].Text
	assert.LessOrEqual(t, utf8.RuneCountInString(text), cfg.BlockTextLimit)
	lines := strings.Split(text, "\n")
	require.Greater(t, len(lines), 1)
	assert.Less(t, len(lines), 201)
	for _, line := range lines[1:] {
		assert.True(t, strings.HasSuffix(line, "— short"), line)
	}
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		12345:    "12,345",
		123456:   "123,456",
		1234567:  "1,234,567",
		-9876543: "-9,876,543",
	}
	for n, want := range tests {
		assert.Equal(t, want, formatCount(n), n)
	}
}
