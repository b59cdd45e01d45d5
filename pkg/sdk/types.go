package llmpulse

import (
	"fmt"
	"time"
)

// Event statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Event is one recorded LLM invocation. Pointer fields are optional:
// leave nil when the value is unknown. ID and CreatedAt are assigned
// by the server.
type Event struct {
	ID               string         `json:"id,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
	Model            string         `json:"model"`
	PromptTokens     *int           `json:"prompt_tokens,omitempty"`
	CompletionTokens *int           `json:"completion_tokens,omitempty"`
	TotalTokens      *int           `json:"total_tokens,omitempty"`
	LatencyMs        *int           `json:"latency_ms,omitempty"`
	CostUSD          *float64       `json:"cost_usd,omitempty"`
	Status           string         `json:"status,omitempty"`
	ErrorMessage     string         `json:"error_message,omitempty"`
	Tags             map[string]any `json:"tags,omitempty"`
	CreatedAt        time.Time      `json:"created_at,omitzero"`
}

// Overview is the aggregate metrics snapshot for a trailing window.
type Overview struct {
	TotalRequests   int            `json:"total_requests"`
	TotalCost       float64        `json:"total_cost"`
	AvgLatencyMs    float64        `json:"avg_latency_ms"`
	ErrorRate       float64        `json:"error_rate"`
	RequestsByModel map[string]int `json:"requests_by_model"`
}

// Time-series intervals and metrics (wire spellings).
const (
	IntervalHour = "1h"
	IntervalDay  = "1d"

	MetricRequests = "requests"
	MetricCost     = "cost"
	MetricLatency  = "latency"
)

// TimeSeriesQuery selects a bucketed metric over a time range.
// Interval defaults to hourly and Metric to request counts; Model
// filters exactly when non-empty.
type TimeSeriesQuery struct {
	Start    time.Time
	End      time.Time
	Interval string
	Metric   string
	Model    string
}

// TimeSeriesPoint is one (bucket, model) aggregate.
type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Model     string    `json:"model"`
}

// ListParams selects a page of the conversation listing. Zero Page
// means the first page; zero PageSize uses the server default.
type ListParams struct {
	Page     int
	PageSize int
	Model    string
	Status   string
}

// Conversations is one page of events plus the full filtered count.
type Conversations struct {
	Events   []Event `json:"events"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llmpulse: %s (http %d): %s", e.Code, e.StatusCode, e.Message)
}
