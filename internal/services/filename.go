package services

import (
	"strings"
)

// DownloadName is the attachment name of the merged output for an upload
// named original: the percent-encoded stem with '%' removed, plus
// "_label.pdf".
func DownloadName(original string) string {
	return strings.ReplaceAll(encodeURIComponent(stem(original)), "%", "") + "_label.pdf"
}

// encodeURIComponent percent-encodes every byte outside the URI
// component unreserved set A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
