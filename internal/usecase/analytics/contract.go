package analytics

import (
	"context"
	"time"

	domevent "github.com/helio-labs/llmpulse/internal/domain/event"
)

// EventSource reads events by timestamp window, ascending, inclusive
// on both ends.
type EventSource interface {
	Window(ctx context.Context, from, to time.Time) ([]domevent.Event, error)
}
