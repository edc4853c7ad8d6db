// Package reporting forwards extracted shipment records to an external
// collector (the original deployment used a Google Sheets web app).
package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

// Sink receives the records of a successful job.
type Sink interface {
	Send(ctx context.Context, records []models.ShipmentRecord) error
}

type payload struct {
	Data []models.ShipmentRecord `json:"data"`
}

// WebhookSink POSTs {"data": records} as JSON to URL.
type WebhookSink struct {
	URL    string
	Client *http.Client
}

func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{URL: url, Client: &http.Client{}}
}

func (s *WebhookSink) Send(ctx context.Context, records []models.ShipmentRecord) error {
	body, err := json.Marshal(payload{Data: records})
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sink returned status %d: %s", resp.StatusCode, string(b))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Dispatch sends records in the background on a context detached from the
// caller, bounded by timeout. The outcome is only logged. The returned
// channel is closed once the attempt finishes.
func Dispatch(sink Sink, records []models.ShipmentRecord, timeout time.Duration, logger *utils.Logger) <-chan struct{} {
	done := make(chan struct{})
	if sink == nil || len(records) == 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		if err := sink.Send(ctx, records); err != nil {
			logger.Warn("Report sink delivery failed",
				"records", len(records),
				"elapsed_ms", time.Since(start).Milliseconds(),
				"error", err)
			return
		}
		logger.Info("Records delivered to report sink",
			"records", len(records),
			"elapsed_ms", time.Since(start).Milliseconds())
	}()

	return done
}
