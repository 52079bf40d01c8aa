package taxonomy

import "strings"

// CountMatches returns how many keywords occur as substrings of text.
// Each keyword counts at most once.
func CountMatches(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
