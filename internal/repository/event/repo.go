// Package event persists LLM call events as one hash per event plus a
// sorted-set index scored by the event timestamp. All reads re-scan
// the index: there is no cached aggregate state to keep consistent.
package event

import (
	"context"
	"fmt"
	"math"
	"time"

	domevent "github.com/helio-labs/llmpulse/internal/domain/event"
)

// DefaultKeyPrefix namespaces all keys written by this repository.
const DefaultKeyPrefix = "llmpulse:"

// store is the consumer interface for event persistence (ISP).
type store interface {
	HSetIndexed(ctx context.Context, key string, fields map[string]string,
		indexKey, member string, score float64) error
	ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error)
	ZRevRangeByScore(ctx context.Context, key string, max, min float64) ([]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements the event Repository contracts of the usecase layer.
type Repo struct {
	store  store
	prefix string
}

// New creates an event repository.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: keyPrefix}
}

// Create writes a fully-populated event. The hash and its index entry
// land in one transaction, so a failure leaves no partial record.
// Events are append-only: nothing ever rewrites or removes them.
func (r *Repo) Create(ctx context.Context, evt *domevent.Event) error {
	if evt.ID() == "" {
		return fmt.Errorf("event must be stamped before persistence")
	}

	key := r.eventKey(evt.ID())
	fields := buildHashFields(evt)
	score := float64(evt.Timestamp().UnixMilli())

	if err := r.store.HSetIndexed(ctx, key, fields, r.indexKey(), evt.ID(), score); err != nil {
		return fmt.Errorf("persist event %s: %w", evt.ID(), err)
	}
	return nil
}

// Window returns events with timestamp in [from, to] inclusive,
// ascending by timestamp.
func (r *Repo) Window(ctx context.Context, from, to time.Time) ([]domevent.Event, error) {
	ids, err := r.store.ZRangeByScore(ctx, r.indexKey(),
		float64(from.UnixMilli()), float64(to.UnixMilli()))
	if err != nil {
		return nil, fmt.Errorf("scan window: %w", err)
	}
	return r.hydrate(ctx, ids)
}

// AllDesc returns every stored event, newest first.
func (r *Repo) AllDesc(ctx context.Context) ([]domevent.Event, error) {
	ids, err := r.store.ZRevRangeByScore(ctx, r.indexKey(), math.Inf(1), math.Inf(-1))
	if err != nil {
		return nil, fmt.Errorf("scan all: %w", err)
	}
	return r.hydrate(ctx, ids)
}

func (r *Repo) hydrate(ctx context.Context, ids []string) ([]domevent.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.eventKey(id)
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	events := make([]domevent.Event, 0, len(ids))
	for i, fields := range hashes {
		if len(fields) == 0 {
			// Index entry without a hash: skip rather than fail the scan.
			continue
		}
		evt, err := parseHashFields(ids[i], fields)
		if err != nil {
			return nil, fmt.Errorf("decode event %s: %w", ids[i], err)
		}
		events = append(events, evt)
	}
	return events, nil
}

func (r *Repo) eventKey(id string) string {
	return r.prefix + "event:" + id
}

func (r *Repo) indexKey() string {
	return r.prefix + "events:by_ts"
}
