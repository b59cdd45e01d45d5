package event

import (
	"context"

	domevent "github.com/helio-labs/llmpulse/internal/domain/event"
)

// Repository defines the storage contract for events.
type Repository interface {
	Create(ctx context.Context, evt *domevent.Event) error
	AllDesc(ctx context.Context) ([]domevent.Event, error)
}

// Pricer computes the USD cost of a call from its token counts.
type Pricer interface {
	Cost(model string, promptTokens, completionTokens int) float64
}

// Recorder counts ingested events. Can be nil.
type Recorder interface {
	ObserveIngest(model, status string, costUSD float64)
}
