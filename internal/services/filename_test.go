package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownloadName(t *testing.T) {
	tests := []struct {
		original string
		want     string
	}{
		{"orders.pdf", "orders_label.pdf"},
		{"shopee orders.pdf", "shopee20orders_label.pdf"},
		{"report.final.PDF", "report.final_label.pdf"},
		{"/tmp/uploads/a.pdf", "a_label.pdf"},
		{`C:\Users\me\b.pdf`, "b_label.pdf"},
		{"ใบสั่ง.pdf", "E0B983E0B89AE0B8AAE0B8B1E0B988E0B887_label.pdf"},
		{`quote".pdf`, "quote22_label.pdf"},
		{"it's (1).pdf", "it's20(1)_label.pdf"},
		{"100%.pdf", "10025_label.pdf"},
		{"", "_label.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			assert.Equal(t, tt.want, DownloadName(tt.original))
		})
	}
}

func TestSafeBaseName(t *testing.T) {
	assert.Equal(t, "orders", safeBaseName("orders.pdf"))
	assert.Equal(t, "orders", safeBaseName("../../etc/orders.pdf"))
	assert.Equal(t, "upload", safeBaseName(""))
	assert.Equal(t, "upload", safeBaseName(".."))
	assert.Equal(t, "ab", safeBaseName("a\x01b.pdf"))
}
