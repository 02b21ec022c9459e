package engine

import "strings"

// Matches reports whether the text contains any of the keywords,
// case-insensitively. Keywords are tried in order and the first hit wins.
// Matching is plain substring with no word boundaries, so "art" matches
// "party". Empty text or an empty keyword list never matches.
func Matches(text string, keywords []string) bool {
	if text == "" || len(keywords) == 0 {
		return false
	}

	lower := strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
