package ask

import "strings"

// Stop words to filter out when matching question words
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "what": true, "about": true, "me": true, "today": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation, and removes stop words
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}#@"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// countQueryWords returns how many distinct query words appear in document.
func countQueryWords(document string, queryWords []string) int {
	if len(queryWords) == 0 {
		return 0
	}

	docWords := tokenizeAndFilter(document)
	docWordSet := make(map[string]bool, len(docWords))
	for _, word := range docWords {
		docWordSet[word] = true
	}

	count := 0
	seen := make(map[string]bool, len(queryWords))
	for _, qWord := range queryWords {
		if seen[qWord] {
			continue
		}
		seen[qWord] = true
		if docWordSet[qWord] {
			count++
		}
	}
	return count
}
