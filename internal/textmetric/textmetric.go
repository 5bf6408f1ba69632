// Package textmetric provides lexical similarity and distance functions
// over tokenized text. All similarities are in [0,1]; dissimilarity is
// 1 − similarity or an already-normalized distance. Nothing here is
// semantic: two texts that say the same thing in different words score
// as different.
package textmetric

import (
	"math"
	"regexp"
	"strings"
)

// EditDistanceTokenCap bounds the Levenshtein dynamic program. Only the
// first EditDistanceTokenCap tokens of each side are compared, so
// divergence after the cap is invisible to NormalizedEditDistance. Raise
// it if long-text drift matters more than O(n·m) cost.
const EditDistanceTokenCap = 200

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Tokenize lowercases text, strips punctuation, and splits on whitespace.
// Token order is preserved for edit distance; frequency metrics treat the
// result as a multiset.
func Tokenize(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	return strings.Fields(cleaned)
}

// JaccardSimilarity returns |A∩B| / |A∪B| over token sets.
// Both empty → 1, exactly one empty → 0.
func JaccardSimilarity(a, b string) float64 {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		setB[t] = struct{}{}
	}

	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// CosineSimilarity returns the term-frequency cosine over the union
// vocabulary. Both empty → 1, exactly one empty → 0.
func CosineSimilarity(a, b string) float64 {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	freqA := termFrequencies(ta)
	freqB := termFrequencies(tb)

	var dot, normA, normB float64
	for t, fa := range freqA {
		dot += float64(fa) * float64(freqB[t])
		normA += float64(fa) * float64(fa)
	}
	for _, fb := range freqB {
		normB += float64(fb) * float64(fb)
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// NormalizedEditDistance returns token-level Levenshtein distance divided
// by the longer token count, computed over at most EditDistanceTokenCap
// tokens per side. Both empty → 0, exactly one empty → 1.
func NormalizedEditDistance(a, b string) float64 {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 0
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 1
	}
	if len(ta) > EditDistanceTokenCap {
		ta = ta[:EditDistanceTokenCap]
	}
	if len(tb) > EditDistanceTokenCap {
		tb = tb[:EditDistanceTokenCap]
	}

	dist := levenshtein(ta, tb)
	longer := len(ta)
	if len(tb) > longer {
		longer = len(tb)
	}
	return float64(dist) / float64(longer)
}

func termFrequencies(tokens []string) map[string]int {
	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}
	return freq
}

// levenshtein computes token-level edit distance with a two-row table.
func levenshtein(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
