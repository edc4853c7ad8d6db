package analyzer

import (
	"context"
	"sync"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
)

// MockResponse is one scripted answer of a MockAnalyzer.
type MockResponse struct {
	Records []models.ShipmentRecord
	Err     error
}

// MockAnalyzer is a deterministic Analyzer. It answers the n-th call with
// Responses[n] (or Fallback once they run out), unless Func is set.
type MockAnalyzer struct {
	Responses []MockResponse
	Fallback  MockResponse
	Func      func(text string) ([]models.ShipmentRecord, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockAnalyzer) Extract(ctx context.Context, text string) ([]models.ShipmentRecord, error) {
	m.mu.Lock()
	n := len(m.calls)
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Func != nil {
		return m.Func(text)
	}

	resp := m.Fallback
	if n < len(m.Responses) {
		resp = m.Responses[n]
	}
	return resp.Records, resp.Err
}

// Calls returns the texts received so far, in call order.
func (m *MockAnalyzer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
