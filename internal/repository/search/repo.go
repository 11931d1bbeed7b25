package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/hitprint/internal/db"
	"github.com/kailas-cloud/hitprint/internal/domain/query"
	"github.com/kailas-cloud/hitprint/internal/domain/record"
	"github.com/kailas-cloud/hitprint/internal/usecase/project"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, expression string) (int, error)
	Backend() string
}

// Repo binds query specs to a search backend.
type Repo struct {
	store        store
	defaultLimit int
	maxLimit     int
}

// New creates a search repository. defaultLimit replaces an unset page size,
// maxLimit caps it; zero disables either.
func New(s store, defaultLimit, maxLimit int) *Repo {
	return &Repo{store: s, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Bind returns a query that runs spec against the repository's backend.
func (r *Repo) Bind(spec query.Spec) project.Query {
	return &Bound{store: r.store, q: r.toQuery(spec)}
}

// Count returns the number of documents matching spec.
func (r *Repo) Count(ctx context.Context, spec query.Spec) (int, error) {
	n, err := r.store.SearchCount(ctx, spec.Index(), spec.Expression())
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", spec.Index(), err)
	}
	return n, nil
}

func (r *Repo) toQuery(spec query.Spec) db.Query {
	q := db.Query{
		IndexName:    spec.Index(),
		Expression:   spec.Expression(),
		Offset:       spec.Offset(),
		DefaultLimit: r.defaultLimit,
		MaxLimit:     r.maxLimit,
		ReturnFields: spec.ReturnFields(),
	}
	if spec.Limit() > 0 {
		q.Limit = q.Clamp(spec.Limit())
	}
	return q
}

// Bound is a query bound to a backend store.
type Bound struct {
	store store
	q     db.Query
}

// Execute runs the query once. Backend errors are returned as-is.
func (b *Bound) Execute(ctx context.Context) ([]record.Record, error) {
	q := b.q
	sr, err := b.store.Search(ctx, &q)
	if err != nil {
		return nil, err //nolint:wrapcheck // backend error surface is part of the contract
	}

	records := make([]record.Record, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		records = append(records, record.New(e.Key, e.Score, e.Fields))
	}
	return records, nil
}

// Backend names the driver the query runs on.
func (b *Bound) Backend() string { return b.store.Backend() }

// Index returns the target index name.
func (b *Bound) Index() string { return b.q.IndexName }
