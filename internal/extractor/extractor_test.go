package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/label-ocr-api/internal/testutil"
)

func TestExtractPDF(t *testing.T) {
	data := testutil.BuildPDF(
		[]string{"Order No 250101ABC", "Ship to Somchai"},
		[]string{"Second page"},
	)

	pages, err := ExtractPDF(data)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Contains(t, pages[0], "Order No 250101ABC")
	assert.Contains(t, pages[0], "Ship to Somchai")
	assert.Contains(t, pages[1], "Second page")

	t.Logf("Extracted PDF text:\n%s", strings.Join(pages, "\n----\n"))
}

func TestExtractPDFSkipsPagesWithoutText(t *testing.T) {
	data := testutil.BuildPDF(
		[]string{},
		[]string{"only text"},
	)

	pages, err := ExtractPDF(data)
	require.NoError(t, err)
	assert.Equal(t, 1, len(pages))
}

func TestExtractPDFUnreadable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a pdf", []byte("hello, this is plain text")},
		{"empty", nil},
		{"no text layer", testutil.BuildPDF([]string{}, []string{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractPDF(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnreadable))
		})
	}
}

func TestSegment(t *testing.T) {
	first := testutil.Paragraph("Order ABC123 recipient", 60)
	data := testutil.BuildPDF(
		[]string{first, "", "short footer"},
		[]string{testutil.Paragraph("Order XYZ789 recipient", 60)},
	)

	seg, err := Segment(data, SegmentOptions{})
	require.NoError(t, err)

	require.Len(t, seg.Chunks, 3)
	assert.Equal(t, 0, seg.Dropped)
	for i, c := range seg.Chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, len(c.Text), c.ByteLen)
	}
	assert.Contains(t, seg.Chunks[0].Text, "ABC123")
	assert.Equal(t, "short footer", strings.TrimSpace(seg.Chunks[1].Text))
	assert.Contains(t, seg.Chunks[2].Text, "XYZ789")

	assert.False(t, seg.Chunks[0].Empty(50))
	assert.True(t, seg.Chunks[1].Empty(50))
}

func TestSegmentUnreadable(t *testing.T) {
	_, err := Segment([]byte("%PDF-1.4 garbage"), SegmentOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestSplitChunksBound(t *testing.T) {
	parts := make([]string, 14)
	for i := range parts {
		parts[i] = strings.Repeat(string(rune('a'+i)), 3)
	}

	seg := SplitChunks(strings.Join(parts, "\n\n"), 10)

	require.Len(t, seg.Chunks, 10)
	assert.Equal(t, 14, seg.Total)
	assert.Equal(t, 4, seg.Dropped)
	assert.Equal(t, "aaa", seg.Chunks[0].Text)
	assert.Equal(t, "jjj", seg.Chunks[9].Text)
}

func TestSplitChunksUnbounded(t *testing.T) {
	seg := SplitChunks("one\n\ntwo", 0)
	require.Len(t, seg.Chunks, 2)
	assert.Equal(t, 0, seg.Dropped)
}

func TestNormalizeText(t *testing.T) {
	in := "\ufeffline one  \r\nline\x00 two\r\n\r\nnext"
	assert.Equal(t, "line one\nline two\n\nnext", normalizeText(in))

	// Combining sequences are composed.
	assert.Equal(t, "caf\u00e9", normalizeText("cafe\u0301"))
}
