package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

type openAIAnalyzer struct {
	cfg    Config
	logger *utils.Logger
	client *http.Client
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Choices []Choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

type Choice struct {
	Message Message `json:"message"`
}

func NewOpenAIAnalyzer(cfg Config, logger *utils.Logger) Analyzer {
	cfg.defaults()
	return &openAIAnalyzer{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (a *openAIAnalyzer) Extract(ctx context.Context, text string) ([]models.ShipmentRecord, error) {
	reqID := utils.GenerateID()
	start := time.Now()

	a.logger.Debug("llm.extract.start", "req_id", reqID, "model", a.cfg.Model, "text_len", len(text))

	reqBody := ChatRequest{
		Model: a.cfg.Model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(text)},
		},
		Temperature: a.cfg.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimRight(a.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("llm.extract.http_error",
			"req_id", reqID,
			"status", resp.StatusCode,
			"body", string(body),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("inference API returned status %d", resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("inference API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	content := chatResp.Choices[0].Message.Content
	a.logger.Debug("llm.extract.raw", "req_id", reqID, "content", content)

	records, err := ParseRecords(content)
	if err != nil {
		a.logger.Warn("llm.extract.parse_failed",
			"req_id", reqID,
			"error", err,
			"content", content,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	a.logger.Info("llm.extract.ok",
		"req_id", reqID,
		"records", len(records),
		"elapsed_ms", time.Since(start).Milliseconds())

	return records, nil
}
