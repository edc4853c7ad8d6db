package analyzer

import (
	"context"
	"time"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

// Analyzer turns the text of one chunk into zero or more shipment records.
type Analyzer interface {
	Extract(ctx context.Context, text string) ([]models.ShipmentRecord, error)
}

// PlaceholderRecord is returned when no inference service is configured, so
// callers still receive a label they can inspect.
var PlaceholderRecord = models.ShipmentRecord{
	Order:     "MOCK123",
	Recipient: "นาย ทดสอบ ระบบ 123 หมู่ 1 ตำบลบางพลี อำเภอบางพลี จังหวัดสมุทรปราการ 10540 Tel: 081-234-5678",
	Sender:    "บริษัท กิจกนก จำกัด 91-93-95 ซอยสวนผัก 29, แขวงตลิ่งชัน, เขตตลิ่งชัน, จังหวัดกรุงเทพมหานคร 10170",
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// NewAnalyzer returns the production analyzer, or nil when no API key is
// configured. A nil Analyzer puts the RecordExtractor in degraded mode.
func NewAnalyzer(cfg Config, logger *utils.Logger) Analyzer {
	if cfg.APIKey == "" {
		logger.Warn("OpenAI API key not configured, extraction will return placeholder records")
		return nil
	}
	return NewOpenAIAnalyzer(cfg, logger)
}
