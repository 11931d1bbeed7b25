package query

import (
	"fmt"

	"github.com/kailas-cloud/hitprint/internal/domain"
)

// Spec is a caller-written query ready to run against one index.
// Expression is opaque backend text: an FT.SEARCH query string for
// Redis/Valkey, a JSON request body for Elasticsearch. It is never rewritten.
type Spec struct {
	index        string
	expression   string
	limit        int
	offset       int
	returnFields []string
}

// New validates and creates a query spec. limit=0 leaves the page size to the backend.
func New(index, expression string, limit, offset int, returnFields []string) (Spec, error) {
	if index == "" {
		return Spec{}, fmt.Errorf("%w: index is required", domain.ErrInvalidQuery)
	}
	if expression == "" {
		return Spec{}, fmt.Errorf("%w: expression is required", domain.ErrInvalidQuery)
	}
	if limit < 0 {
		return Spec{}, fmt.Errorf("%w: limit must be non-negative, got %d", domain.ErrInvalidQuery, limit)
	}
	if offset < 0 {
		return Spec{}, fmt.Errorf("%w: offset must be non-negative, got %d", domain.ErrInvalidQuery, offset)
	}
	var rf []string
	if len(returnFields) > 0 {
		rf = make([]string, len(returnFields))
		copy(rf, returnFields)
	}
	return Spec{
		index:        index,
		expression:   expression,
		limit:        limit,
		offset:       offset,
		returnFields: rf,
	}, nil
}

// Index returns the target index name.
func (s Spec) Index() string { return s.index }

// Expression returns the backend query text.
func (s Spec) Expression() string { return s.expression }

// Limit returns the page size (0 = backend default).
func (s Spec) Limit() int { return s.limit }

// Offset returns the number of hits to skip.
func (s Spec) Offset() int { return s.offset }

// ReturnFields returns the server-side field narrowing list.
func (s Spec) ReturnFields() []string { return s.returnFields }
