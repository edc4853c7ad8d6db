package labels

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

// ErrRenderingFailed wraps every failure of Render.
var ErrRenderingFailed = errors.New("label rendering failed")

// Renderer turns shipment records into one PDF with a label page per record.
type Renderer struct {
	store  TemplateStore
	engine Engine
	page   PageSize
	logger *utils.Logger
}

func NewRenderer(store TemplateStore, engine Engine, logger *utils.Logger) *Renderer {
	return &Renderer{
		store:  store,
		engine: engine,
		page:   LabelPage,
		logger: logger,
	}
}

func (r *Renderer) Render(ctx context.Context, records []models.ShipmentRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records to render", ErrRenderingFailed)
	}

	start := time.Now()

	tmpl, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderingFailed, err)
	}

	markup := BuildDocument(tmpl, records)

	data, err := r.engine.PrintPDF(ctx, markup, r.page)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderingFailed, err)
	}

	r.logger.Info("Labels rendered",
		"records", len(records),
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds())

	return data, nil
}
