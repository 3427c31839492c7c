package enrich

import "fmt"

const keywordSystemPrompt = `You extract web search keywords from social media posts.
Prefer proper nouns, technical terms, product or service names and people's names.
Keywords may be Japanese or English, matching the post.
Respond with a JSON array of strings only, no explanation.`

func buildKeywordPrompt(text string, max int) string {
	return fmt.Sprintf(`Extract %d search keywords from this post.

Example: ["Claude API", "generative AI", "Anthropic"]

Post:
%s

Keywords:`, max, text)
}
