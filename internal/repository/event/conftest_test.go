package event

import (
	"context"
	"testing"
	"time"

	domevent "github.com/helio-labs/llmpulse/internal/domain/event"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetIndexedFn      func(ctx context.Context, key string, fields map[string]string, indexKey, member string, score float64) error
	zrangeByScoreFn    func(ctx context.Context, key string, min, max float64) ([]string, error)
	zrevRangeByScoreFn func(ctx context.Context, key string, max, min float64) ([]string, error)
	hgetAllMultiFn     func(ctx context.Context, keys []string) ([]map[string]string, error)
}

func (m *mockStore) HSetIndexed(
	ctx context.Context, key string, fields map[string]string,
	indexKey, member string, score float64,
) error {
	if m.hsetIndexedFn != nil {
		return m.hsetIndexedFn(ctx, key, fields, indexKey, member, score)
	}
	return nil
}

func (m *mockStore) ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	if m.zrangeByScoreFn != nil {
		return m.zrangeByScoreFn(ctx, key, min, max)
	}
	return nil, nil
}

func (m *mockStore) ZRevRangeByScore(ctx context.Context, key string, max, min float64) ([]string, error) {
	if m.zrevRangeByScoreFn != nil {
		return m.zrevRangeByScoreFn(ctx, key, max, min)
	}
	return nil, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, ""), ms
}

func testEvent(t *testing.T) domevent.Event {
	t.Helper()
	prompt, completion, latency := 100, 50, 850
	cost := 0.006
	evt, err := domevent.New(domevent.Input{
		Timestamp:        time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Model:            "gpt-4",
		PromptTokens:     &prompt,
		CompletionTokens: &completion,
		LatencyMs:        &latency,
		CostUSD:          &cost,
		Status:           domevent.StatusSuccess,
		Tags:             map[string]any{"user_id": "123"},
	})
	if err != nil {
		t.Fatalf("build test event: %v", err)
	}
	return evt.Stamped("evt-1", time.Date(2024, 1, 1, 12, 0, 1, 0, time.UTC))
}

func minimalEvent(t *testing.T) domevent.Event {
	t.Helper()
	evt, err := domevent.New(domevent.Input{
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Model:     "gpt-4",
		Status:    domevent.StatusSuccess,
	})
	if err != nil {
		t.Fatalf("build minimal event: %v", err)
	}
	return evt.Stamped("evt-min", time.Date(2024, 1, 1, 12, 0, 1, 0, time.UTC))
}
