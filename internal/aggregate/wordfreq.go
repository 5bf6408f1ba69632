package aggregate

import (
	"sort"

	"egolens/internal/measure"
	"egolens/internal/textmetric"
)

// stopWords removes standard English function words plus tutoring terms
// common to every condition, so frequency profiles highlight what
// differs between cells rather than what tutoring text always contains.
var stopWords = func() map[string]struct{} {
	words := []string{
		"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did", "will", "would", "could",
		"should", "may", "might", "shall", "can", "need", "dare", "ought",
		"used", "to", "of", "in", "for", "on", "with", "at", "by", "from",
		"as", "into", "through", "during", "before", "after", "above", "below",
		"between", "out", "off", "over", "under", "again", "further", "then",
		"once", "here", "there", "when", "where", "why", "how", "all", "each",
		"every", "both", "few", "more", "most", "other", "some", "such", "no",
		"nor", "not", "only", "own", "same", "so", "than", "too", "very",
		"just", "because", "but", "and", "or", "if", "while", "about", "up",
		"that", "this", "these", "those", "it", "its", "he", "she", "they",
		"them", "their", "we", "our", "you", "your", "i", "me", "my", "also",
		"which", "who", "whom", "what", "any", "much", "many", "well",
		"still", "even", "back", "get", "go", "make", "like", "take",
		"one", "two", "first", "new", "way", "us",
		// Tutoring vocabulary shared by every condition.
		"lecture", "student", "course", "content", "topic", "material",
		"next", "current", "help", "suggest", "review", "start", "continue",
		"see", "know", "think", "let", "look", "want", "come",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// WordFreq is one token with its pooled occurrence count.
type WordFreq struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// TokenFrequencies pools every dialogue's final message for one
// condition and returns the top content tokens by count, ties broken
// alphabetically. Tokens shorter than three characters are dropped.
func TokenFrequencies(sets []*measure.Set, condition string, limit int) []WordFreq {
	counts := make(map[string]int)
	for _, s := range sets {
		if s.Condition != condition || s.FinalMessage == "" {
			continue
		}
		for _, tok := range textmetric.Tokenize(s.FinalMessage) {
			if len(tok) < 3 {
				continue
			}
			if _, stop := stopWords[tok]; stop {
				continue
			}
			counts[tok]++
		}
	}

	out := make([]WordFreq, 0, len(counts))
	for tok, n := range counts {
		out = append(out, WordFreq{Token: tok, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Token < out[j].Token
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
