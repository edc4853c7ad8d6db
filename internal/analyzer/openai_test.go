package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

func newTestServer(t *testing.T, status int, content string) (*httptest.Server, *ChatRequest) {
	t.Helper()
	var got ChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
			return
		}
		json.NewEncoder(w).Encode(ChatResponse{
			Choices: []Choice{{Message: Message{Role: "assistant", Content: content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestOpenAIAnalyzerExtract(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, "```json\n[{\"order\":\"ABC123\",\"recipient\":\"r\",\"sender\":\"s\"}]\n```")

	a := NewOpenAIAnalyzer(Config{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		Temperature: 0.2,
	}, utils.NewDiscardLogger())

	records, err := a.Extract(context.Background(), "Order ABC123 ...")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ABC123", records[0].Order)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.InDelta(t, 0.2, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.True(t, strings.Contains(got.Messages[1].Content, "Order ABC123 ..."))
}

func TestOpenAIAnalyzerErrors(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusTooManyRequests, "")
		a := NewOpenAIAnalyzer(Config{APIKey: "test-key", BaseURL: srv.URL}, utils.NewDiscardLogger())

		_, err := a.Extract(context.Background(), "text")
		assert.ErrorContains(t, err, "429")
	})

	t.Run("unparseable content", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusOK, "sorry, I cannot help")
		a := NewOpenAIAnalyzer(Config{APIKey: "test-key", BaseURL: srv.URL}, utils.NewDiscardLogger())

		_, err := a.Extract(context.Background(), "text")
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(srv.Close)

		a := NewOpenAIAnalyzer(Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, utils.NewDiscardLogger())
		_, err := a.Extract(context.Background(), "text")
		assert.Error(t, err)
	})
}

func TestNewAnalyzerWithoutKey(t *testing.T) {
	assert.Nil(t, NewAnalyzer(Config{}, utils.NewDiscardLogger()))
	assert.NotNil(t, NewAnalyzer(Config{APIKey: "k"}, utils.NewDiscardLogger()))
}
