package db

// DefaultLimit is the page size applied when a query does not set one.
// It matches the FT.SEARCH and Elasticsearch server defaults.
const DefaultLimit = 10

// Query is the input for a single search execution.
type Query struct {
	IndexName  string
	Expression string // backend query text, passed through untouched
	Offset     int
	Limit      int // set by the caller; 0 = unset

	// DefaultLimit replaces an unset Limit (0 = package DefaultLimit).
	DefaultLimit int
	// MaxLimit caps every page size (0 = no cap).
	MaxLimit int

	ReturnFields []string
}

// PageSize returns the effective page size: Limit, else DefaultLimit, capped at MaxLimit.
func (q *Query) PageSize() int {
	n := q.Limit
	if n <= 0 {
		n = q.DefaultLimit
	}
	if n <= 0 {
		n = DefaultLimit
	}
	return q.Clamp(n)
}

// Clamp caps n at MaxLimit.
func (q *Query) Clamp(n int) int {
	if q.MaxLimit > 0 && n > q.MaxLimit {
		return q.MaxLimit
	}
	return n
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]any
}
