package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces (ISP).
type Store interface {
	Pinger
	HashStore
	TimeIndex
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based record operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// TimeIndex provides a sorted-set index keyed by timestamp score.
// HSetIndexed writes a record hash together with its index entry in a
// single MULTI/EXEC transaction so a failure leaves no partial record.
type TimeIndex interface {
	HSetIndexed(ctx context.Context, key string, fields map[string]string,
		indexKey, member string, score float64) error
	ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error)
	ZRevRangeByScore(ctx context.Context, key string, max, min float64) ([]string, error)
	ZCount(ctx context.Context, key string, min, max float64) (int64, error)
}
