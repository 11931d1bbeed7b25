package db

import (
	"context"
	"time"
)

// Store is the backend facade used by the composition root.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher executes queries against a search index.
type Searcher interface {
	Search(ctx context.Context, q *Query) (*SearchResult, error)
	SearchCount(ctx context.Context, index, expression string) (int, error)
	// Backend names the driver for logs and metrics labels.
	Backend() string
}
