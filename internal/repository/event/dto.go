package event

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domevent "github.com/helio-labs/llmpulse/internal/domain/event"
)

// Hash field names. Optional fields are simply absent from the hash
// when unset; tags are stored as one JSON blob since their contents
// are opaque to the core.
const (
	fieldTimestamp        = "ts"
	fieldModel            = "model"
	fieldPromptTokens     = "prompt_tokens"
	fieldCompletionTokens = "completion_tokens"
	fieldTotalTokens      = "total_tokens"
	fieldLatencyMs        = "latency_ms"
	fieldCostUSD          = "cost_usd"
	fieldStatus           = "status"
	fieldErrorMessage     = "error_message"
	fieldTags             = "tags"
	fieldCreatedAt        = "created_at"
)

// buildHashFields converts a domain Event into a flat map[string]string.
func buildHashFields(evt *domevent.Event) map[string]string {
	m := map[string]string{
		fieldTimestamp: strconv.FormatInt(evt.Timestamp().UnixMilli(), 10),
		fieldModel:     evt.Model(),
		fieldStatus:    string(evt.Status()),
		fieldCreatedAt: strconv.FormatInt(evt.CreatedAt().UnixMilli(), 10),
	}
	if v, ok := evt.PromptTokens(); ok {
		m[fieldPromptTokens] = strconv.Itoa(v)
	}
	if v, ok := evt.CompletionTokens(); ok {
		m[fieldCompletionTokens] = strconv.Itoa(v)
	}
	if v, ok := evt.TotalTokens(); ok {
		m[fieldTotalTokens] = strconv.Itoa(v)
	}
	if v, ok := evt.LatencyMs(); ok {
		m[fieldLatencyMs] = strconv.Itoa(v)
	}
	if v, ok := evt.CostUSD(); ok {
		m[fieldCostUSD] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if msg := evt.ErrorMessage(); msg != "" {
		m[fieldErrorMessage] = msg
	}
	if tags := evt.Tags(); tags != nil {
		if data, err := json.Marshal(tags); err == nil {
			m[fieldTags] = string(data)
		}
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Event.
func parseHashFields(id string, m map[string]string) (domevent.Event, error) {
	tsMilli, err := strconv.ParseInt(m[fieldTimestamp], 10, 64)
	if err != nil {
		return domevent.Event{}, fmt.Errorf("parse ts %q: %w", m[fieldTimestamp], err)
	}
	createdMilli, err := strconv.ParseInt(m[fieldCreatedAt], 10, 64)
	if err != nil {
		return domevent.Event{}, fmt.Errorf("parse created_at %q: %w", m[fieldCreatedAt], err)
	}

	promptTokens, err := optionalInt(m, fieldPromptTokens)
	if err != nil {
		return domevent.Event{}, err
	}
	completionTokens, err := optionalInt(m, fieldCompletionTokens)
	if err != nil {
		return domevent.Event{}, err
	}
	totalTokens, err := optionalInt(m, fieldTotalTokens)
	if err != nil {
		return domevent.Event{}, err
	}
	latencyMs, err := optionalInt(m, fieldLatencyMs)
	if err != nil {
		return domevent.Event{}, err
	}

	var costUSD *float64
	if raw, ok := m[fieldCostUSD]; ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domevent.Event{}, fmt.Errorf("parse cost_usd %q: %w", raw, err)
		}
		costUSD = &v
	}

	var tags map[string]any
	if raw, ok := m[fieldTags]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return domevent.Event{}, fmt.Errorf("parse tags: %w", err)
		}
	}

	return domevent.Reconstruct(
		id,
		time.UnixMilli(tsMilli).UTC(),
		m[fieldModel],
		promptTokens, completionTokens, totalTokens, latencyMs,
		costUSD,
		domevent.Status(m[fieldStatus]),
		m[fieldErrorMessage],
		tags,
		time.UnixMilli(createdMilli).UTC(),
	), nil
}

func optionalInt(m map[string]string, field string) (*int, error) {
	raw, ok := m[field]
	if !ok {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	return &v, nil
}
