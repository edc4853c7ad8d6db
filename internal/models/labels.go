package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// SourceDocument is an uploaded PDF as received from the caller.
type SourceDocument struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// TextChunk is one page-like unit of a document's text layer.
type TextChunk struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	ByteLen int    `json:"byte_len"`
}

// Empty reports whether the chunk, trimmed of surrounding whitespace, has
// fewer than minChars runes and should not be sent for extraction.
func (c TextChunk) Empty(minChars int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(c.Text)) < minChars
}

// ShipmentRecord is one order extracted from a label page.
// All fields are always present; unknown values are empty strings.
type ShipmentRecord struct {
	Order     string `json:"order"`
	Recipient string `json:"recipient"`
	Sender    string `json:"sender"`
}

// LabelResult is the outcome of a completed pipeline run.
type LabelResult struct {
	JobID       string
	Filename    string
	PDF         []byte
	Records     []ShipmentRecord
	SourcePages int
	LabelPages  int
}

type JobState string

const (
	StateReceived   JobState = "received"
	StateSegmenting JobState = "segmenting"
	StateExtracting JobState = "extracting"
	StateRendering  JobState = "rendering"
	StateMerging    JobState = "merging"
	StateCompleted  JobState = "completed"
	StateFailed     JobState = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s JobState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Job is the persisted history entry of one upload.
type Job struct {
	ID           string           `json:"id" db:"id"`
	Filename     string           `json:"filename" db:"filename"`
	FileSize     int64            `json:"file_size" db:"file_size"`
	State        JobState         `json:"state" db:"state"`
	ChunkCount   int              `json:"chunk_count" db:"chunk_count"`
	RecordCount  int              `json:"record_count" db:"record_count"`
	Records      []ShipmentRecord `json:"records,omitempty" db:"-"`
	ErrorCode    *string          `json:"error_code,omitempty" db:"error_code"`
	ErrorMessage *string          `json:"error_message,omitempty" db:"error_message"`
	ArchiveKey   *string          `json:"archive_key,omitempty" db:"archive_key"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
}
