package project

import (
	"context"
	"time"

	"github.com/kailas-cloud/hitprint/internal/domain/record"
)

// Query is a ready-to-run query bound to its search backend.
type Query interface {
	Execute(ctx context.Context) ([]record.Record, error)
}

// Observer receives one report per query execution.
type Observer interface {
	ObserveExecution(backend string, dur time.Duration, records int, err error)
}

// labeled is implemented by queries that know which backend they run on.
type labeled interface {
	Backend() string
}
