package cleaner

import "unicode/utf8"

// EstimateTokens approximates a prompt token count as runes / 3, with a
// floor of 1 for non-empty text.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	est := n / 3
	if est < 1 {
		return 1
	}
	return est
}
