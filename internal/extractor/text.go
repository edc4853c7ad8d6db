package extractor

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeText prepares a text layer for chunking. Line structure is kept
// intact so blank lines still mark chunk boundaries. Thai tone marks and
// vowels are composed to NFC so the same label always yields the same text.
func normalizeText(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\f\v")
	}

	return norm.NFC.String(strings.Join(lines, "\n"))
}
