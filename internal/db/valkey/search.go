package valkey

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/hitprint/internal/db"
)

// Search runs q.Expression through FT.SEARCH. Valkey-search does not support
// bare FT.SEARCH without KNN, so expression "*" falls back to SCAN + HGETALL.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Expression == "" {
		return nil, fmt.Errorf("query expression is required")
	}

	if q.Expression == "*" {
		return s.scanList(ctx, q)
	}

	args := []string{q.IndexName, q.Expression}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.PageSize()),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, searchErr(q.IndexName, err)
	}

	return parseListResult(raw)
}

// SearchCount returns document count. Falls back to SCAN for expression "*".
func (s *Store) SearchCount(ctx context.Context, index, expression string) (int, error) {
	if expression == "*" {
		keys, err := s.scanKeys(ctx, indexToKeyPrefix(index)+"*")
		if err != nil {
			return 0, fmt.Errorf("scan for count: %w", err)
		}
		return len(keys), nil
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, expression, "LIMIT", "0", "0").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, searchErr(index, err)
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// scanList lists hash documents under the index key prefix in key order.
func (s *Store) scanList(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	keys, err := s.scanKeys(ctx, indexToKeyPrefix(q.IndexName)+"*")
	if err != nil {
		return nil, fmt.Errorf("scan for list: %w", err)
	}

	sort.Strings(keys) // deterministic ordering

	total := len(keys)
	if q.Offset >= total {
		return &db.SearchResult{Total: total}, nil
	}

	end := min(q.Offset+q.PageSize(), total)
	pageKeys := keys[q.Offset:end]

	hashes, err := s.hgetAllMulti(ctx, pageKeys)
	if err != nil {
		return nil, err
	}

	entries := make([]db.SearchEntry, 0, len(pageKeys))
	for i, key := range pageKeys {
		if len(hashes[i]) == 0 {
			continue // key deleted between SCAN and HGETALL
		}
		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: narrow(hashes[i], q.ReturnFields),
		})
	}

	return &db.SearchResult{Total: total, Entries: entries}, nil
}

// narrow keeps only the requested fields, mirroring FT.SEARCH RETURN.
func narrow(hash map[string]string, fields []string) map[string]any {
	if len(fields) == 0 {
		m := make(map[string]any, len(hash))
		for k, v := range hash {
			m[k] = v
		}
		return m
	}
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := hash[f]; ok {
			m[f] = v
		}
	}
	return m
}

// indexToKeyPrefix converts index name to a SCAN prefix.
// "articles:idx" -> "articles:"
func indexToKeyPrefix(index string) string {
	if strings.HasSuffix(index, ":idx") {
		return index[:len(index)-3]
	}
	return index + ":"
}

func searchErr(index string, err error) error {
	if isValkeyErr(err, "not found") || isValkeyErr(err, "unknown index name") {
		return &db.Error{Op: db.OpSearch, Err: fmt.Errorf("%w: %s", db.ErrIndexNotFound, index)}
	}
	return &db.Error{Op: db.OpSearch, Err: err}
}

// --- Result parsing ---

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entry := db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		}

		// KNN expressions return the distance as a pseudo-field; surface it as the score.
		if scoreStr, ok := entry.Fields["__vector_score"].(string); ok {
			if s, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				entry.Score = s
			}
		}

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]any {
	m := make(map[string]any, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		if fields[j+1].IsNil() {
			m[name] = nil
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
