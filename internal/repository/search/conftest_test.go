package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/hitprint/internal/db"
	"github.com/kailas-cloud/hitprint/internal/domain/query"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn      func(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	searchCountFn func(ctx context.Context, index, expression string) (int, error)
	searchCalls   int
}

func (m *mockStore) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	m.searchCalls++
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, expression string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, expression)
	}
	return 0, nil
}

func (m *mockStore) Backend() string { return "mock" }

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, 0, 0), ms
}

func mustSpec(t *testing.T, index, expr string, limit, offset int, rf ...string) query.Spec {
	t.Helper()
	s, err := query.New(index, expr, limit, offset, rf)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return s
}
