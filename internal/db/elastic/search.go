package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/hitprint/internal/db"
)

// searchResponse is the subset of the _search response read by the store.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string         `json:"_id"`
			Score  *float64       `json:"_score"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type countResponse struct {
	Count int `json:"count"`
}

type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// Search runs q.Expression against the index. A JSON object expression is
// sent as the request body; anything else is passed as a Lucene query string.
//
// URL from/size take precedence over the body, so a body keeps its own
// paging unless the caller set Limit/Offset or its size exceeds MaxLimit.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Expression == "" {
		return nil, fmt.Errorf("query expression is required")
	}

	opts := []func(*esapi.SearchRequest){
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(q.IndexName),
	}
	if isJSONBody(q.Expression) {
		opts = append(opts, s.client.Search.WithBody(strings.NewReader(q.Expression)))
		opts = append(opts, s.bodyPaging(q)...)
	} else {
		opts = append(opts,
			s.client.Search.WithQuery(q.Expression),
			s.client.Search.WithFrom(q.Offset),
			s.client.Search.WithSize(q.PageSize()),
		)
	}
	if len(q.ReturnFields) > 0 {
		opts = append(opts, s.client.Search.WithSourceIncludes(q.ReturnFields...))
	}

	res, err := s.client.Search(opts...)
	if err != nil {
		return nil, &db.Error{Op: db.OpESSearch, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, &db.Error{Op: db.OpESSearch, Err: responseErr(q.IndexName, res.StatusCode, res.Body)}
	}

	return parseSearchResponse(res.Body)
}

// SearchCount returns the number of documents matching expression via _count.
// Only the "query" clause of a JSON body is forwarded; size/sort/_source are not valid there.
func (s *Store) SearchCount(ctx context.Context, index, expression string) (int, error) {
	opts := []func(*esapi.CountRequest){
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(index),
	}
	if isJSONBody(expression) {
		body, err := countBody(expression)
		if err != nil {
			return 0, err
		}
		opts = append(opts, s.client.Count.WithBody(bytes.NewReader(body)))
	} else if expression != "" {
		opts = append(opts, s.client.Count.WithQuery(expression))
	}

	res, err := s.client.Count(opts...)
	if err != nil {
		return 0, &db.Error{Op: db.OpESCount, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, &db.Error{Op: db.OpESCount, Err: responseErr(index, res.StatusCode, res.Body)}
	}

	var cr countResponse
	if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return cr.Count, nil
}

// bodyPaging returns the from/size URL parameters for a JSON body query.
func (s *Store) bodyPaging(q *db.Query) []func(*esapi.SearchRequest) {
	var opts []func(*esapi.SearchRequest)
	if q.Offset > 0 {
		opts = append(opts, s.client.Search.WithFrom(q.Offset))
	}

	size, hasSize := bodySize(q.Expression)
	switch {
	case q.Limit > 0:
		opts = append(opts, s.client.Search.WithSize(q.PageSize()))
	case hasSize:
		if clamped := q.Clamp(size); clamped != size {
			opts = append(opts, s.client.Search.WithSize(clamped))
		}
	default:
		opts = append(opts, s.client.Search.WithSize(q.PageSize()))
	}
	return opts
}

// bodySize reads the top-level integer "size" of a search body.
func bodySize(expression string) (int, bool) {
	var body struct {
		Size *int `json:"size"`
	}
	if err := json.Unmarshal([]byte(expression), &body); err != nil || body.Size == nil {
		return 0, false
	}
	return *body.Size, true
}

func parseSearchResponse(body io.Reader) (*db.SearchResult, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber() // keep integer fields as written ("1", not "1e+00")

	var sr searchResponse
	if err := dec.Decode(&sr); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	entries := make([]db.SearchEntry, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		var score float64
		if h.Score != nil {
			score = *h.Score
		}
		entries = append(entries, db.SearchEntry{
			Key:    h.ID,
			Score:  score,
			Fields: h.Source,
		})
	}

	return &db.SearchResult{Total: sr.Hits.Total.Value, Entries: entries}, nil
}

func countBody(expression string) ([]byte, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal([]byte(expression), &body); err != nil {
		return nil, fmt.Errorf("parse query body: %w", err)
	}
	q, ok := body["query"]
	if !ok {
		return []byte(`{}`), nil
	}
	out, err := json.Marshal(map[string]json.RawMessage{"query": q})
	if err != nil {
		return nil, fmt.Errorf("build count body: %w", err)
	}
	return out, nil
}

func responseErr(index string, status int, body io.Reader) error {
	var er errorResponse
	if err := json.NewDecoder(body).Decode(&er); err != nil || er.Error.Type == "" {
		return fmt.Errorf("status %d", status)
	}
	if er.Error.Type == "index_not_found_exception" {
		return fmt.Errorf("%w: %s", db.ErrIndexNotFound, index)
	}
	return errors.New(er.Error.Type + ": " + er.Error.Reason)
}

func isJSONBody(expression string) bool {
	return strings.HasPrefix(strings.TrimSpace(expression), "{")
}
