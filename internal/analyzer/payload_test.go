package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
)

func TestStripMarkdownJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n[{\"order\":\"A\"}]\n```", `[{"order":"A"}]`},
		{"upper case fence", "```JSON [] ```", "[]"},
		{"bare fence", "```\n[]\n```", "[]"},
		{"no fence", "  [1]  ", "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdownJSON(tt.in))
		})
	}
}

func TestParseRecords(t *testing.T) {
	content := "```json\n" + `[
  {"order": 250101123456, "recipient": "นาย สมชาย ใจดี 123 หมู่ 1 ตำบลบางพลี 10540", "sender": "ร้านค้า"},
  {"order": "ABC123", "recipient": null},
  {}
]` + "\n```"

	records, err := ParseRecords(content)
	require.NoError(t, err)

	assert.Equal(t, []models.ShipmentRecord{
		{Order: "250101123456", Recipient: "นาย สมชาย ใจดี 123 หมู่ 1 ตำบลบางพลี 10540", Sender: "ร้านค้า"},
		{Order: "ABC123"},
		{},
	}, records)
}

func TestParseRecordsKeepsLargeNumericIDs(t *testing.T) {
	// float64 decoding would turn this into 2.5010112345678902e+17.
	records, err := ParseRecords(`[{"order": 250101123456789012}]`)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "250101123456789012", records[0].Order)
}

func TestParseRecordsWithSurroundingProse(t *testing.T) {
	records, err := ParseRecords("Here are the orders:\n[{\"order\":\"X1\"}]\nHope this helps.")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "X1", records[0].Order)
}

func TestParseRecordsEmptyArray(t *testing.T) {
	records, err := ParseRecords("[]")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseRecordsRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "ไม่พบข้อมูล"},
		{"object instead of array", `{"order": "A"}`},
		{"array of strings", `["A", "B"]`},
		{"wrong field type", `[{"order": "A", "recipient": {"name": "x"}}]`},
		{"truncated", `[{"order": "A"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecords(tt.content)
			assert.Error(t, err)
		})
	}
}
