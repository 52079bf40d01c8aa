package cluster

import (
	"sort"
	"strings"
)

var stopWords = map[string]bool{
	"the": true, "is": true, "in": true, "at": true, "of": true, "and": true,
	"a": true, "to": true, "for": true, "on": true, "this": true, "that": true,
	"with": true, "have": true, "has": true, "been": true, "from": true,
	"there": true, "their": true, "they": true, "were": true, "which": true,
	"about": true, "since": true, "still": true, "please": true,
}

// KeywordCount is a word and how often it occurs.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// TopKeywords returns the most frequent description words longer than three
// letters, excluding common stop words.
func TopKeywords(texts []string, limit int) []KeywordCount {
	counts := countWords(texts, func(w string) bool { return len(w) > 3 && !stopWords[w] })
	ranked := rank(counts)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func topWords(texts []string, limit int, keep func(string) bool) []string {
	ranked := rank(countWords(texts, keep))
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	words := make([]string, len(ranked))
	for i, kc := range ranked {
		words[i] = kc.Keyword
	}
	return words
}

func countWords(texts []string, keep func(string) bool) map[string]int {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, word := range strings.Fields(strings.ToLower(text)) {
			word = strings.Trim(word, ".,!?:;\"'()-[]")
			if keep(word) {
				counts[word]++
			}
		}
	}
	return counts
}

// rank orders by frequency, then alphabetically for stable output.
func rank(counts map[string]int) []KeywordCount {
	out := make([]KeywordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, KeywordCount{Keyword: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	return out
}
