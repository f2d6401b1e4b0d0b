// Package keywords extracts top keywords from page titles and descriptions
// for run stats and the JSON export.
package keywords

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dtnitsch/llms-builder/models"
)

// stopwords are skipped during frequency analysis. Extended with web/UI
// noise words that crawl titles are full of.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "across": {}, "after": {}, "all": {},
	"also": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"between": {}, "both": {}, "but": {}, "by": {},
	"can": {}, "could": {},
	"did": {}, "do": {}, "does": {}, "down": {}, "during": {},
	"each": {}, "either": {}, "every": {},
	"few": {}, "for": {}, "from": {},
	"had": {}, "has": {}, "have": {}, "he": {}, "her": {}, "here": {},
	"his": {}, "how": {},
	"i": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {},
	"just": {},
	"like": {},
	"many": {}, "may": {}, "more": {}, "most": {}, "much": {}, "must": {},
	"my": {},
	"no": {}, "not": {}, "now": {},
	"of": {}, "off": {}, "on": {}, "once": {}, "one": {}, "only": {},
	"or": {}, "other": {}, "our": {}, "out": {}, "over": {}, "own": {},
	"per": {},
	"same": {}, "she": {}, "should": {}, "so": {}, "some": {}, "such": {},
	"than": {}, "that": {}, "the": {}, "their": {}, "them": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "those": {},
	"through": {}, "to": {}, "too": {},
	"under": {}, "until": {}, "up": {}, "upon": {}, "us": {}, "use": {},
	"very": {}, "via": {},
	"was": {}, "we": {}, "well": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "who": {}, "why": {}, "will": {},
	"with": {}, "within": {}, "without": {}, "would": {},
	"you": {}, "your": {},

	// Web/UI noise
	"click": {}, "button": {}, "link": {}, "menu": {},
	"page": {}, "pages": {}, "website": {}, "site": {},
	"home": {}, "homepage": {}, "welcome": {},
	"learn": {}, "read": {}, "information": {},
}

// IsStopword reports whether a word is filtered from frequency analysis.
func IsStopword(word string) bool {
	_, exists := stopwords[strings.ToLower(word)]
	return exists
}

// Frequency counts non-stopword word occurrences in the given text.
func Frequency(text string) map[string]int {
	words := strings.Fields(strings.ToLower(text))
	frequencies := make(map[string]int)

	for _, word := range words {
		// Strip punctuation, keep lowercase letters and digits.
		word = strings.TrimFunc(word, func(r rune) bool {
			return ('a' > r || r > 'z') && ('0' > r || r > '9')
		})
		if word == "" || len(word) < 3 {
			continue
		}
		if _, exists := stopwords[word]; exists {
			continue
		}
		frequencies[word]++
	}

	return frequencies
}

// TopN returns the n most frequent keywords formatted as "word:count",
// sorted by descending count with alphabetical tie-break so output is
// deterministic.
func TopN(frequencies map[string]int, n int) []string {
	type wordCount struct {
		Word  string
		Count int
	}

	counts := make([]wordCount, 0, len(frequencies))
	for k, v := range frequencies {
		counts = append(counts, wordCount{k, v})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Word < counts[j].Word
	})

	limit := n
	if len(counts) < limit {
		limit = len(counts)
	}
	top := make([]string, limit)
	for i := 0; i < limit; i++ {
		top[i] = fmt.Sprintf("%s:%d", counts[i].Word, counts[i].Count)
	}
	return top
}

// FromPages aggregates titles and descriptions of every page in the set
// and returns the top n keywords.
func FromPages(set *models.CategorizedSet, n int) []string {
	var b strings.Builder
	for _, cat := range set.Categories() {
		for _, p := range set.Pages(cat) {
			b.WriteString(p.Title)
			b.WriteString(" ")
			b.WriteString(p.Description)
			b.WriteString(" ")
		}
	}
	return TopN(Frequency(b.String()), n)
}
