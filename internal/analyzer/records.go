package analyzer

import (
	"context"
	"time"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

const (
	DefaultPacing   = 500 * time.Millisecond
	DefaultMinChars = 50
)

// ExtractStats summarises one ExtractAll run.
type ExtractStats struct {
	Chunks   int  `json:"chunks"`
	Skipped  int  `json:"skipped"`
	Calls    int  `json:"calls"`
	Failed   int  `json:"failed"`
	Records  int  `json:"records"`
	Degraded bool `json:"degraded"`
}

// RecordExtractor runs an Analyzer over a document's chunks one at a time.
type RecordExtractor struct {
	analyzer Analyzer
	pacing   time.Duration
	minChars int
	logger   *utils.Logger
}

// NewRecordExtractor builds an extractor. A nil analyzer selects degraded
// mode; a negative pacing disables the delay between calls.
func NewRecordExtractor(a Analyzer, pacing time.Duration, minChars int, logger *utils.Logger) *RecordExtractor {
	if pacing == 0 {
		pacing = DefaultPacing
	}
	if pacing < 0 {
		pacing = 0
	}
	if minChars <= 0 {
		minChars = DefaultMinChars
	}
	return &RecordExtractor{
		analyzer: a,
		pacing:   pacing,
		minChars: minChars,
		logger:   logger,
	}
}

// ExtractAll returns the records of all chunks concatenated in chunk order.
// A failing chunk contributes no records; only a done ctx aborts the run.
func (e *RecordExtractor) ExtractAll(ctx context.Context, chunks []models.TextChunk) ([]models.ShipmentRecord, ExtractStats, error) {
	stats := ExtractStats{Chunks: len(chunks)}

	if e.analyzer == nil {
		e.logger.Warn("llm.extract.degraded", "reason", "no inference service configured")
		stats.Degraded = true
		stats.Records = 1
		return []models.ShipmentRecord{PlaceholderRecord}, stats, nil
	}

	var all []models.ShipmentRecord

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		if chunk.Empty(e.minChars) {
			stats.Skipped++
			e.logger.Debug("llm.extract.skip_chunk", "chunk", chunk.Index, "bytes", chunk.ByteLen)
			continue
		}

		if stats.Calls > 0 && e.pacing > 0 {
			if err := sleep(ctx, e.pacing); err != nil {
				return nil, stats, err
			}
		}

		stats.Calls++
		records, err := e.analyzer.Extract(ctx, chunk.Text)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, stats, ctxErr
			}
			stats.Failed++
			e.logger.Warn("llm.extract.chunk_failed", "chunk", chunk.Index, "error", err)
			continue
		}

		if len(records) == 0 {
			e.logger.Info("llm.extract.chunk_empty", "chunk", chunk.Index)
			continue
		}

		all = append(all, records...)
		e.logger.Info("llm.extract.chunk_ok", "chunk", chunk.Index, "records", len(records))
	}

	stats.Records = len(all)
	return all, stats, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
