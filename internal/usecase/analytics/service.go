// Package analytics aggregates stored events into overview and
// time-series metrics. Both views recompute from the event log on
// every call; there is no materialized state.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/helio-labs/llmpulse/internal/domain"
	domanalytics "github.com/helio-labs/llmpulse/internal/domain/analytics"
	domevent "github.com/helio-labs/llmpulse/internal/domain/event"
)

// DefaultOverviewHours is the window the transport applies when the
// caller does not name one.
const DefaultOverviewHours = 24

// TimeSeriesQuery carries a time-series request after transport
// decoding. Model filters exactly when non-empty.
type TimeSeriesQuery struct {
	Start    time.Time
	End      time.Time
	Interval domanalytics.Interval
	Metric   domanalytics.Metric
	Model    string
}

// Service computes aggregate metrics over the event log.
type Service struct {
	source EventSource
	now    func() time.Time
}

// New creates an analytics service.
func New(source EventSource) *Service {
	return &Service{source: source, now: time.Now}
}

// Overview aggregates the last `hours` hours of events. The window is
// anchored to a single clock read, so the bounds cannot drift apart
// within one call.
func (s *Service) Overview(ctx context.Context, hours int) (domanalytics.Overview, error) {
	if hours < domanalytics.MinWindowHours || hours > domanalytics.MaxWindowHours {
		return domanalytics.Overview{}, fmt.Errorf(
			"hours must be in [%d, %d], got %d: %w",
			domanalytics.MinWindowHours, domanalytics.MaxWindowHours, hours,
			domain.ErrValidation,
		)
	}

	now := s.now().UTC()
	events, err := s.source.Window(ctx, now.Add(-time.Duration(hours)*time.Hour), now)
	if err != nil {
		return domanalytics.Overview{}, fmt.Errorf("load window: %w", err)
	}

	ov := domanalytics.Overview{
		TotalRequests:   len(events),
		RequestsByModel: make(map[string]int),
	}
	if len(events) == 0 {
		return ov, nil
	}

	var latencySum, latencyCount, errorCount int
	for _, evt := range events {
		if cost, ok := evt.CostUSD(); ok {
			ov.TotalCost += cost
		}
		if lat, ok := evt.LatencyMs(); ok {
			latencySum += lat
			latencyCount++
		}
		if evt.Status() == domevent.StatusError {
			errorCount++
		}
		ov.RequestsByModel[evt.Model()]++
	}

	if latencyCount > 0 {
		ov.AvgLatencyMs = float64(latencySum) / float64(latencyCount)
	}
	ov.ErrorRate = math.Round(float64(errorCount)/float64(len(events))*100*100) / 100
	return ov, nil
}

// TimeSeries buckets events by (interval-truncated timestamp, model)
// and reduces each bucket per the requested metric. Buckets with no
// events do not appear.
func (s *Service) TimeSeries(ctx context.Context, q TimeSeriesQuery) ([]domanalytics.Point, error) {
	if q.Start.IsZero() || q.End.IsZero() {
		return nil, fmt.Errorf("start and end are required: %w", domain.ErrValidation)
	}
	if q.End.Before(q.Start) {
		return nil, fmt.Errorf("start must not be after end: %w", domain.ErrValidation)
	}

	events, err := s.source.Window(ctx, q.Start, q.End)
	if err != nil {
		return nil, fmt.Errorf("load range: %w", err)
	}

	type bucketKey struct {
		start time.Time
		model string
	}
	type bucketAgg struct {
		requests     int
		cost         float64
		latencySum   int
		latencyCount int
	}

	buckets := make(map[bucketKey]*bucketAgg)
	for _, evt := range events {
		if q.Model != "" && evt.Model() != q.Model {
			continue
		}
		key := bucketKey{start: q.Interval.Truncate(evt.Timestamp()), model: evt.Model()}
		agg := buckets[key]
		if agg == nil {
			agg = &bucketAgg{}
			buckets[key] = agg
		}
		agg.requests++
		if cost, ok := evt.CostUSD(); ok {
			agg.cost += cost
		}
		if lat, ok := evt.LatencyMs(); ok {
			agg.latencySum += lat
			agg.latencyCount++
		}
	}

	points := make([]domanalytics.Point, 0, len(buckets))
	for key, agg := range buckets {
		var value float64
		switch q.Metric {
		case domanalytics.MetricCost:
			value = agg.cost
		case domanalytics.MetricLatency:
			if agg.latencyCount > 0 {
				value = float64(agg.latencySum) / float64(agg.latencyCount)
			}
		default:
			value = float64(agg.requests)
		}
		points = append(points, domanalytics.Point{
			BucketStart: key.start,
			Value:       value,
			Model:       key.model,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		if !points[i].BucketStart.Equal(points[j].BucketStart) {
			return points[i].BucketStart.Before(points[j].BucketStart)
		}
		return points[i].Model < points[j].Model
	})
	return points, nil
}
