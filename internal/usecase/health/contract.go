package health

import "context"

// DBPinger checks event store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}
