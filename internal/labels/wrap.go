package labels

import (
	"strings"
	"unicode/utf8"
)

// DefaultLineChars is the character budget of one address line on a label.
const DefaultLineChars = 36

// SplitTextSmart wraps input greedily: each whitespace-delimited word is
// appended to the current line while the line stays within maxChars runes,
// otherwise it starts a new line. A word longer than maxChars gets a line of
// its own. There is no rebalancing between lines.
func SplitTextSmart(input string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultLineChars
	}

	lines := []string{""}
	for _, word := range strings.Fields(input) {
		last := len(lines) - 1
		if lines[last] == "" {
			lines[last] = word
			continue
		}

		candidate := lines[last] + " " + word
		if utf8.RuneCountInString(candidate) <= maxChars {
			lines[last] = candidate
		} else {
			lines = append(lines, word)
		}
	}
	return lines
}
