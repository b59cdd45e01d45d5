// Package analytics defines the aggregation value types: the overview
// summary and the bucketed time series.
package analytics

import (
	"fmt"
	"time"

	"github.com/helio-labs/llmpulse/internal/domain"
)

// Window bounds for the overview query, in hours.
const (
	MinWindowHours = 1
	MaxWindowHours = 168
)

// Interval is the time-series bucket width.
type Interval string

// Interval values.
const (
	IntervalHour Interval = "hour"
	IntervalDay  Interval = "day"
)

// ParseInterval validates a raw interval string.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case IntervalHour, IntervalDay:
		return Interval(s), nil
	default:
		return "", fmt.Errorf("interval must be %q or %q, got %q: %w",
			IntervalHour, IntervalDay, s, domain.ErrValidation)
	}
}

// Metric selects the reduced value per bucket.
type Metric string

// Metric values.
const (
	MetricRequests Metric = "requests"
	MetricCost     Metric = "cost"
	MetricLatency  Metric = "latency"
)

// ParseMetric validates a raw metric string.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricRequests, MetricCost, MetricLatency:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("metric must be one of requests, cost, latency, got %q: %w",
			s, domain.ErrValidation)
	}
}

// Overview summarizes events within a rolling window.
// RequestsByModel is sparse: models with zero events are omitted.
type Overview struct {
	TotalRequests   int
	TotalCost       float64
	AvgLatencyMs    float64
	ErrorRate       float64
	RequestsByModel map[string]int
}

// Point is one (bucket, model) row of a time series. Buckets with no
// events are absent: the series is sparse, not zero-filled.
type Point struct {
	BucketStart time.Time
	Value       float64
	Model       string
}

// Truncate aligns t to the start of its containing bucket, in UTC.
func (i Interval) Truncate(t time.Time) time.Time {
	u := t.UTC()
	if i == IntervalDay {
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	}
	return u.Truncate(time.Hour)
}
