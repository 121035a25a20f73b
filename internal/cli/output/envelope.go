package output

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Envelope is the JSON document written for every result in json mode.
type Envelope struct {
	Success  bool       `json:"success"`
	SQL      string     `json:"sql,omitempty"`
	Error    *ErrorBody `json:"error,omitempty"`
	Summary  any        `json:"summary,omitempty"`
	Metadata Metadata   `json:"metadata"`
}

// ErrorBody describes a failure.
type ErrorBody struct {
	Topic       Topic    `json:"topic"`
	Stage       string   `json:"stage,omitempty"`
	Message     string   `json:"message"`
	ExitCode    int      `json:"exit_code"`
	Description string   `json:"description,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Metadata describes the request that produced an envelope.
type Metadata struct {
	RequestID    string    `json:"request_id"`
	Timestamp    time.Time `json:"timestamp"`
	Dialect      string    `json:"dialect,omitempty"`
	ProcessingMS float64   `json:"processing_ms"`
	Cached       bool      `json:"cached"`
	Input        InputInfo `json:"input"`
}

// InputInfo describes the transpiled source.
type InputInfo struct {
	Source string `json:"source"`
	Bytes  int    `json:"bytes"`
	Lines  int    `json:"lines"`
}

// DescribeInput returns InputInfo for text read from source.
func DescribeInput(source, text string) InputInfo {
	lines := 0
	if text != "" {
		lines = strings.Count(strings.TrimRight(text, "\n"), "\n") + 1
	}
	return InputInfo{Source: source, Bytes: len(text), Lines: lines}
}

// NewMetadata stamps a fresh request id and the current time.
func NewMetadata(dialect string, input InputInfo) Metadata {
	return Metadata{
		RequestID: uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Dialect:   dialect,
		Input:     input,
	}
}

// Elapsed records the processing time since start.
func (m *Metadata) Elapsed(start time.Time) {
	m.ProcessingMS = float64(time.Since(start).Microseconds()) / 1000
}

// SuccessEnvelope wraps generated SQL.
func SuccessEnvelope(sql string, meta Metadata) Envelope {
	return Envelope{Success: true, SQL: sql, Metadata: meta}
}

// ErrorEnvelope wraps a failure.
func ErrorEnvelope(body ErrorBody, meta Metadata) Envelope {
	return Envelope{Error: &body, Metadata: meta}
}
