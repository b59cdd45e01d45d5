// Package event defines the LLM call event aggregate.
package event

import (
	"fmt"
	"time"

	"github.com/helio-labs/llmpulse/internal/domain"
)

// MaxModelLen bounds the model identifier length.
const MaxModelLen = 100

// Status is the outcome of an LLM call.
type Status string

// Status values. Anything else is a validation failure, never a
// silent coercion.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusSuccess, StatusError:
		return Status(s), nil
	default:
		return "", fmt.Errorf("status must be %q or %q, got %q: %w",
			StatusSuccess, StatusError, s, domain.ErrValidation)
	}
}

// Input carries caller-supplied fields for a new event. Pointer fields
// are optional: nil means absent, which aggregation coalesces to zero.
type Input struct {
	Timestamp        time.Time
	Model            string
	PromptTokens     *int
	CompletionTokens *int
	TotalTokens      *int
	LatencyMs        *int
	CostUSD          *float64
	Status           Status
	ErrorMessage     string
	Tags             map[string]any
}

// Event is one recorded LLM invocation (immutable value object).
// ID and CreatedAt are stamped at persistence time; events are
// append-only and never updated or deleted.
type Event struct {
	id               string
	timestamp        time.Time
	model            string
	promptTokens     *int
	completionTokens *int
	totalTokens      *int
	latencyMs        *int
	costUSD          *float64
	status           Status
	errorMessage     string
	tags             map[string]any
	createdAt        time.Time
}

// New validates caller input and creates an Event without server
// stamps. Token counts, latency, and cost must be non-negative when
// present. Tags are opaque to the core and copied as-is.
func New(in Input) (Event, error) {
	if in.Timestamp.IsZero() {
		return Event{}, fmt.Errorf("timestamp is required: %w", domain.ErrValidation)
	}
	if in.Model == "" {
		return Event{}, fmt.Errorf("model is required: %w", domain.ErrValidation)
	}
	if len(in.Model) > MaxModelLen {
		return Event{}, fmt.Errorf("model too long (max %d): %w", MaxModelLen, domain.ErrValidation)
	}
	if _, err := ParseStatus(string(in.Status)); err != nil {
		return Event{}, err
	}
	for name, v := range map[string]*int{
		"prompt_tokens":     in.PromptTokens,
		"completion_tokens": in.CompletionTokens,
		"total_tokens":      in.TotalTokens,
		"latency_ms":        in.LatencyMs,
	} {
		if v != nil && *v < 0 {
			return Event{}, fmt.Errorf("%s must be non-negative: %w", name, domain.ErrValidation)
		}
	}
	if in.CostUSD != nil && *in.CostUSD < 0 {
		return Event{}, fmt.Errorf("cost_usd must be non-negative: %w", domain.ErrValidation)
	}

	return Event{
		timestamp:        in.Timestamp,
		model:            in.Model,
		promptTokens:     cloneInt(in.PromptTokens),
		completionTokens: cloneInt(in.CompletionTokens),
		totalTokens:      cloneInt(in.TotalTokens),
		latencyMs:        cloneInt(in.LatencyMs),
		costUSD:          cloneFloat(in.CostUSD),
		status:           in.Status,
		errorMessage:     in.ErrorMessage,
		tags:             cloneTags(in.Tags),
	}, nil
}

// Reconstruct creates an Event without validation (storage hydration).
func Reconstruct(
	id string, timestamp time.Time, model string,
	promptTokens, completionTokens, totalTokens, latencyMs *int,
	costUSD *float64, status Status, errorMessage string,
	tags map[string]any, createdAt time.Time,
) Event {
	return Event{
		id:               id,
		timestamp:        timestamp,
		model:            model,
		promptTokens:     promptTokens,
		completionTokens: completionTokens,
		totalTokens:      totalTokens,
		latencyMs:        latencyMs,
		costUSD:          costUSD,
		status:           status,
		errorMessage:     errorMessage,
		tags:             tags,
		createdAt:        createdAt,
	}
}

// ID returns the server-assigned identifier (empty before persistence).
func (e *Event) ID() string { return e.id }

// Timestamp returns the caller-supplied instant of the call.
func (e *Event) Timestamp() time.Time { return e.timestamp }

// Model returns the model identifier.
func (e *Event) Model() string { return e.model }

// PromptTokens returns the input token count and whether it was supplied.
func (e *Event) PromptTokens() (int, bool) { return deref(e.promptTokens) }

// CompletionTokens returns the output token count and whether it was supplied.
func (e *Event) CompletionTokens() (int, bool) { return deref(e.completionTokens) }

// TotalTokens returns the total token count and whether it was supplied.
func (e *Event) TotalTokens() (int, bool) { return deref(e.totalTokens) }

// LatencyMs returns the call latency and whether it was supplied.
func (e *Event) LatencyMs() (int, bool) { return deref(e.latencyMs) }

// CostUSD returns the cost and whether it is set. Always set after
// persistence: the ingest path fills missing costs before writing.
func (e *Event) CostUSD() (float64, bool) {
	if e.costUSD == nil {
		return 0, false
	}
	return *e.costUSD, true
}

// Status returns the call outcome.
func (e *Event) Status() Status { return e.status }

// ErrorMessage returns the error text (meaningful only for StatusError).
func (e *Event) ErrorMessage() string { return e.errorMessage }

// Tags returns the opaque tag mapping. Never interpreted by aggregation.
func (e *Event) Tags() map[string]any { return e.tags }

// CreatedAt returns the server persistence timestamp.
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// WithCost returns a copy with cost_usd set.
func (e Event) WithCost(cost float64) Event {
	e.costUSD = &cost
	return e
}

// Stamped returns a copy carrying the server-assigned identifier and
// persistence timestamp.
func (e Event) Stamped(id string, createdAt time.Time) Event {
	e.id = id
	e.createdAt = createdAt
	return e
}

func deref(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTags(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
