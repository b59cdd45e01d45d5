package chi

import (
	"time"

	domanalytics "github.com/helio-labs/llmpulse/internal/domain/analytics"
	domevent "github.com/helio-labs/llmpulse/internal/domain/event"
	healthuc "github.com/helio-labs/llmpulse/internal/usecase/health"
)

// errorCode classifies error responses on the wire.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeUnauthorized     errorCode = "unauthorized"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// createEventRequest is the ingestion payload. Pointer fields are
// optional; absent status defaults to "success".
type createEventRequest struct {
	Timestamp        time.Time      `json:"timestamp"`
	Model            string         `json:"model"`
	PromptTokens     *int           `json:"prompt_tokens"`
	CompletionTokens *int           `json:"completion_tokens"`
	TotalTokens      *int           `json:"total_tokens"`
	LatencyMs        *int           `json:"latency_ms"`
	CostUSD          *float64       `json:"cost_usd"`
	Status           string         `json:"status"`
	ErrorMessage     string         `json:"error_message"`
	Tags             map[string]any `json:"tags"`
}

type eventResponse struct {
	ID               string         `json:"id"`
	Timestamp        time.Time      `json:"timestamp"`
	Model            string         `json:"model"`
	PromptTokens     *int           `json:"prompt_tokens"`
	CompletionTokens *int           `json:"completion_tokens"`
	TotalTokens      *int           `json:"total_tokens"`
	LatencyMs        *int           `json:"latency_ms"`
	CostUSD          *float64       `json:"cost_usd"`
	Status           string         `json:"status"`
	ErrorMessage     string         `json:"error_message,omitempty"`
	Tags             map[string]any `json:"tags,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

type overviewResponse struct {
	TotalRequests   int            `json:"total_requests"`
	TotalCost       float64        `json:"total_cost"`
	AvgLatencyMs    float64        `json:"avg_latency_ms"`
	ErrorRate       float64        `json:"error_rate"`
	RequestsByModel map[string]int `json:"requests_by_model"`
}

type timeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Model     string    `json:"model"`
}

type timeSeriesResponse struct {
	Data []timeSeriesPoint `json:"data"`
}

type conversationsResponse struct {
	Events   []eventResponse `json:"events"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (r createEventRequest) toInput() domevent.Input {
	status := r.Status
	if status == "" {
		status = string(domevent.StatusSuccess)
	}
	return domevent.Input{
		Timestamp:        r.Timestamp,
		Model:            r.Model,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
		LatencyMs:        r.LatencyMs,
		CostUSD:          r.CostUSD,
		Status:           domevent.Status(status),
		ErrorMessage:     r.ErrorMessage,
		Tags:             r.Tags,
	}
}

func eventToWire(evt *domevent.Event) eventResponse {
	resp := eventResponse{
		ID:           evt.ID(),
		Timestamp:    evt.Timestamp(),
		Model:        evt.Model(),
		Status:       string(evt.Status()),
		ErrorMessage: evt.ErrorMessage(),
		Tags:         evt.Tags(),
		CreatedAt:    evt.CreatedAt(),
	}
	if v, ok := evt.PromptTokens(); ok {
		resp.PromptTokens = &v
	}
	if v, ok := evt.CompletionTokens(); ok {
		resp.CompletionTokens = &v
	}
	if v, ok := evt.TotalTokens(); ok {
		resp.TotalTokens = &v
	}
	if v, ok := evt.LatencyMs(); ok {
		resp.LatencyMs = &v
	}
	if v, ok := evt.CostUSD(); ok {
		resp.CostUSD = &v
	}
	return resp
}

func pointsToWire(points []domanalytics.Point) timeSeriesResponse {
	data := make([]timeSeriesPoint, len(points))
	for i, p := range points {
		data[i] = timeSeriesPoint{
			Timestamp: p.BucketStart,
			Value:     p.Value,
			Model:     p.Model,
		}
	}
	return timeSeriesResponse{Data: data}
}

func healthToWire(report healthuc.Report) healthResponse {
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return healthResponse{Status: string(report.Status), Checks: checks}
}
