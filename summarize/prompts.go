package summarize

import (
	"fmt"
	"strings"

	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/core"
)

// NoInfo is the reply the note prompt asks for when the web results add nothing.
const NoInfo = "NO_INFO"

// noInfoReplies are treated as an empty note.
var noInfoReplies = []string{NoInfo, "（補足情報なし）", "(補足情報なし)", "補足情報なし"}

const summarySystemPrompt = `You analyze saved social media posts.
Respond with JSON only: no explanation, no Markdown.`

func categoryList() string {
	names := make([]string, len(core.Categories))
	for i, c := range core.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, " | ")
}

func buildSummaryPrompt(chunk []core.Record, textPrefix int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `For every post below:
1. Pick exactly one category from: %s
2. Write a faithful one to two sentence summary in the language of the post.

Return a JSON array with one object per post:
[
  {"id": "post id", "category": "category name", "summary": "summary text"}
]

Posts:
`, categoryList())

	for i, r := range chunk {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[ID:%s]\n@%s (%s)\n%s", r.ID, r.AuthorUsername, r.AuthorName, ai.Prefix(r.Text, textPrefix))
	}
	return b.String()
}

func buildNotePrompt(text, results string) string {
	return fmt.Sprintf(`Original post:
%s

Related web search results:
%s

In one or two sentences, in the language of the post, summarize the background,
context or latest developments these results add. Do not add a prefix such as "Note:".
If the results add nothing, reply exactly %s.`, text, results, NoInfo)
}
