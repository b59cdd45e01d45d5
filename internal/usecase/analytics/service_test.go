package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/helio-labs/llmpulse/internal/domain"
	domanalytics "github.com/helio-labs/llmpulse/internal/domain/analytics"
	domevent "github.com/helio-labs/llmpulse/internal/domain/event"
)

// --- Mocks ---

type mockSource struct {
	events   []domevent.Event
	err      error
	gotFrom  time.Time
	gotTo    time.Time
	reported bool
}

func (m *mockSource) Window(_ context.Context, from, to time.Time) ([]domevent.Event, error) {
	m.gotFrom, m.gotTo, m.reported = from, to, true
	if m.err != nil {
		return nil, m.err
	}
	// The store scans the index by score, so emulate its inclusive
	// filtering here to keep fixtures simple.
	var out []domevent.Event
	for _, evt := range m.events {
		ts := evt.Timestamp()
		if ts.Before(from) || ts.After(to) {
			continue
		}
		out = append(out, evt)
	}
	return out, nil
}

type eventSpec struct {
	ts      time.Time
	model   string
	status  domevent.Status
	latency *int
	cost    *float64
}

func makeEvents(t *testing.T, specs []eventSpec) []domevent.Event {
	t.Helper()
	events := make([]domevent.Event, 0, len(specs))
	for i, sp := range specs {
		evt, err := domevent.New(domevent.Input{
			Timestamp: sp.ts,
			Model:     sp.model,
			LatencyMs: sp.latency,
			CostUSD:   sp.cost,
			Status:    sp.status,
		})
		if err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		events = append(events, evt.Stamped("evt", sp.ts))
	}
	return events
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(src *mockSource) *Service {
	svc := New(src)
	svc.now = func() time.Time { return testNow }
	return svc
}

// --- Overview ---

func TestOverview_EmptyWindow(t *testing.T) {
	svc := newTestService(&mockSource{})

	ov, err := svc.Overview(context.Background(), 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ov.TotalRequests != 0 || ov.TotalCost != 0 || ov.AvgLatencyMs != 0 || ov.ErrorRate != 0 {
		t.Errorf("expected all-zero overview, got %+v", ov)
	}
	if len(ov.RequestsByModel) != 0 {
		t.Errorf("expected empty model map, got %v", ov.RequestsByModel)
	}
}

func TestOverview_Aggregates(t *testing.T) {
	src := &mockSource{events: makeEvents(t, []eventSpec{
		{ts: testNow.Add(-1 * time.Hour), model: "gpt-4", status: domevent.StatusSuccess,
			latency: intp(100), cost: floatp(0.5)},
		{ts: testNow.Add(-2 * time.Hour), model: "gpt-4", status: domevent.StatusError,
			latency: intp(200), cost: floatp(0.25)},
		{ts: testNow.Add(-3 * time.Hour), model: "claude-3-opus", status: domevent.StatusSuccess},
	})}
	svc := newTestService(src)

	ov, err := svc.Overview(context.Background(), 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ov.TotalRequests != 3 {
		t.Errorf("expected 3 requests, got %d", ov.TotalRequests)
	}
	if ov.TotalCost != 0.75 {
		t.Errorf("expected total cost 0.75, got %f", ov.TotalCost)
	}
	// Third event has no latency and must not drag the mean down.
	if ov.AvgLatencyMs != 150 {
		t.Errorf("expected avg latency 150, got %f", ov.AvgLatencyMs)
	}
	if ov.ErrorRate != 33.33 {
		t.Errorf("expected error rate 33.33, got %f", ov.ErrorRate)
	}
	if ov.RequestsByModel["gpt-4"] != 2 || ov.RequestsByModel["claude-3-opus"] != 1 {
		t.Errorf("unexpected model counts: %v", ov.RequestsByModel)
	}
	if len(ov.RequestsByModel) != 2 {
		t.Errorf("model map must stay sparse, got %v", ov.RequestsByModel)
	}
}

func TestOverview_WindowBounds(t *testing.T) {
	src := &mockSource{}
	svc := newTestService(src)

	if _, err := svc.Overview(context.Background(), 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !src.gotTo.Equal(testNow) {
		t.Errorf("window end must be the call's now, got %v", src.gotTo)
	}
	if !src.gotFrom.Equal(testNow.Add(-6 * time.Hour)) {
		t.Errorf("unexpected window start: %v", src.gotFrom)
	}
}

func TestOverview_HoursOutOfRange(t *testing.T) {
	svc := newTestService(&mockSource{})

	for _, hours := range []int{0, -1, 169} {
		if _, err := svc.Overview(context.Background(), hours); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("hours=%d: expected ErrValidation, got %v", hours, err)
		}
	}
}

func TestOverview_SourceErrorSurfaces(t *testing.T) {
	srcErr := errors.New("CLUSTERDOWN")
	svc := newTestService(&mockSource{err: srcErr})

	if _, err := svc.Overview(context.Background(), 24); !errors.Is(err, srcErr) {
		t.Fatalf("expected source error, got %v", err)
	}
}

// --- TimeSeries ---

func TestTimeSeries_CollapsesSameBucket(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	src := &mockSource{events: makeEvents(t, []eventSpec{
		{ts: base.Add(5 * time.Minute), model: "gpt-4", status: domevent.StatusSuccess},
		{ts: base.Add(45 * time.Minute), model: "gpt-4", status: domevent.StatusSuccess},
	})}
	svc := newTestService(src)

	points, err := svc.TimeSeries(context.Background(), TimeSeriesQuery{
		Start:    base,
		End:      base.Add(time.Hour),
		Interval: domanalytics.IntervalHour,
		Metric:   domanalytics.MetricRequests,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(points))
	}
	if points[0].Value != 2 || !points[0].BucketStart.Equal(base) || points[0].Model != "gpt-4" {
		t.Errorf("unexpected point: %+v", points[0])
	}
}

func TestTimeSeries_ExcludesOutOfRange(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	src := &mockSource{events: makeEvents(t, []eventSpec{
		{ts: base.Add(-time.Minute), model: "gpt-4", status: domevent.StatusSuccess},
		{ts: base.Add(10 * time.Minute), model: "gpt-4", status: domevent.StatusSuccess},
		{ts: base.Add(2 * time.Hour), model: "gpt-4", status: domevent.StatusSuccess},
	})}
	svc := newTestService(src)

	points, err := svc.TimeSeries(context.Background(), TimeSeriesQuery{
		Start:    base,
		End:      base.Add(time.Hour),
		Interval: domanalytics.IntervalHour,
		Metric:   domanalytics.MetricRequests,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 || points[0].Value != 1 {
		t.Fatalf("expected only the in-range event, got %+v", points)
	}
}

func TestTimeSeries_OrderedByBucketThenModel(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	src := &mockSource{events: makeEvents(t, []eventSpec{
		{ts: base.Add(90 * time.Minute), model: "gpt-4", status: domevent.StatusSuccess},
		{ts: base.Add(10 * time.Minute), model: "gpt-4", status: domevent.StatusSuccess},
		{ts: base.Add(15 * time.Minute), model: "claude-3-opus", status: domevent.StatusSuccess},
	})}
	svc := newTestService(src)

	points, err := svc.TimeSeries(context.Background(), TimeSeriesQuery{
		Start:    base,
		End:      base.Add(2 * time.Hour),
		Interval: domanalytics.IntervalHour,
		Metric:   domanalytics.MetricRequests,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].Model != "claude-3-opus" || points[1].Model != "gpt-4" {
		t.Errorf("same-bucket points must sort by model: %+v", points[:2])
	}
	if !points[2].BucketStart.After(points[0].BucketStart) {
		t.Errorf("buckets must sort ascending: %+v", points)
	}
}

func TestTimeSeries_ModelFilter(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	src := &mockSource{events: makeEvents(t, []eventSpec{
		{ts: base.Add(5 * time.Minute), model: "gpt-4", status: domevent.StatusSuccess},
		{ts: base.Add(6 * time.Minute), model: "claude-3-opus", status: domevent.StatusSuccess},
	})}
	svc := newTestService(src)

	points, err := svc.TimeSeries(context.Background(), TimeSeriesQuery{
		Start:    base,
		End:      base.Add(time.Hour),
		Interval: domanalytics.IntervalHour,
		Metric:   domanalytics.MetricRequests,
		Model:    "claude-3-opus",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 || points[0].Model != "claude-3-opus" {
		t.Fatalf("expected only claude points, got %+v", points)
	}
}

func TestTimeSeries_CostAndLatencyMetrics(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	specs := []eventSpec{
		{ts: base.Add(5 * time.Minute), model: "gpt-4", status: domevent.StatusSuccess,
			latency: intp(100), cost: floatp(0.5)},
		{ts: base.Add(6 * time.Minute), model: "gpt-4", status: domevent.StatusSuccess,
			latency: intp(300), cost: floatp(0.25)},
		{ts: base.Add(7 * time.Minute), model: "gpt-4", status: domevent.StatusSuccess},
	}
	query := TimeSeriesQuery{
		Start:    base,
		End:      base.Add(time.Hour),
		Interval: domanalytics.IntervalHour,
	}

	svc := newTestService(&mockSource{events: makeEvents(t, specs)})

	query.Metric = domanalytics.MetricCost
	points, err := svc.TimeSeries(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 || points[0].Value != 0.75 {
		t.Errorf("expected cost 0.75, got %+v", points)
	}

	query.Metric = domanalytics.MetricLatency
	points, err = svc.TimeSeries(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Mean over the two events that carry a latency.
	if len(points) != 1 || points[0].Value != 200 {
		t.Errorf("expected latency 200, got %+v", points)
	}
}

func TestTimeSeries_DayBuckets(t *testing.T) {
	day1 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 2, 20, 0, 0, 0, time.UTC)
	src := &mockSource{events: makeEvents(t, []eventSpec{
		{ts: day1, model: "gpt-4", status: domevent.StatusSuccess},
		{ts: day2, model: "gpt-4", status: domevent.StatusSuccess},
	})}
	svc := newTestService(src)

	points, err := svc.TimeSeries(context.Background(), TimeSeriesQuery{
		Start:    day1.Add(-time.Hour),
		End:      day2.Add(time.Hour),
		Interval: domanalytics.IntervalDay,
		Metric:   domanalytics.MetricRequests,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(points))
	}
	if !points[0].BucketStart.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected first bucket: %v", points[0].BucketStart)
	}
}

func TestTimeSeries_InvalidRange(t *testing.T) {
	svc := newTestService(&mockSource{})

	_, err := svc.TimeSeries(context.Background(), TimeSeriesQuery{
		Start:    time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Interval: domanalytics.IntervalHour,
		Metric:   domanalytics.MetricRequests,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	_, err = svc.TimeSeries(context.Background(), TimeSeriesQuery{
		Interval: domanalytics.IntervalHour,
		Metric:   domanalytics.MetricRequests,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for zero range, got %v", err)
	}
}
