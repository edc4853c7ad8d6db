package extractor

import (
	"fmt"
	"strings"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
)

const (
	DefaultMaxChunks = 10
	chunkSeparator   = "\n\n"
)

type SegmentOptions struct {
	// MaxChunks bounds how many chunks are returned; the rest are dropped.
	MaxChunks int
}

// Segmentation is the ordered chunk list plus how many were cut off.
type Segmentation struct {
	Chunks  []models.TextChunk
	Total   int
	Dropped int
}

// Segment extracts the text layer of a PDF and splits it into ordered
// chunks along blank lines. Pages are joined with a blank line so a page
// boundary is always a chunk boundary.
func Segment(data []byte, opts SegmentOptions) (*Segmentation, error) {
	if opts.MaxChunks <= 0 {
		opts.MaxChunks = DefaultMaxChunks
	}

	pages, err := ExtractPDF(data)
	if err != nil {
		return nil, err
	}

	text := normalizeText(strings.Join(pages, chunkSeparator))
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text layer is blank", ErrUnreadable)
	}

	return SplitChunks(text, opts.MaxChunks), nil
}

// SplitChunks splits already-extracted text on blank lines and keeps the
// first maxChunks pieces in their original order.
func SplitChunks(text string, maxChunks int) *Segmentation {
	parts := strings.Split(text, chunkSeparator)

	seg := &Segmentation{Total: len(parts)}
	if maxChunks > 0 && len(parts) > maxChunks {
		seg.Dropped = len(parts) - maxChunks
		parts = parts[:maxChunks]
	}

	seg.Chunks = make([]models.TextChunk, len(parts))
	for i, p := range parts {
		seg.Chunks[i] = models.TextChunk{
			Index:   i,
			Text:    p,
			ByteLen: len(p),
		}
	}

	return seg
}
