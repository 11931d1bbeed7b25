package hitprint

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	dbValkey "github.com/kailas-cloud/hitprint/internal/db/valkey"
)

// --- Helpers ---

type stubQuery struct {
	records []Record
	err     error
	calls   int
}

func (q *stubQuery) Execute(_ context.Context) ([]Record, error) {
	q.calls++
	return q.records, q.err
}

func newMockClient(t *testing.T, opts ...Option) (*Client, *mock.Client, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	rc := mock.NewClient(ctrl)

	var buf bytes.Buffer
	cfg := &clientConfig{output: &buf}
	for _, o := range opts {
		o.apply(cfg)
	}
	c, err := wireClient(dbValkey.NewStoreForTest(rc), cfg)
	if err != nil {
		t.Fatalf("wireClient: %v", err)
	}
	return c, rc, &buf
}

// --- Tests ---

func TestNew_NoAddress(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestCreateStore_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown", addrs: []string{"localhost:1234"}}
	_, err := createStore(cfg)
	if !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestCreateStore_Elasticsearch(t *testing.T) {
	cfg := &clientConfig{}
	WithElasticsearch("http://localhost:9200", "key").apply(cfg)

	s, err := createStore(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Backend() != "elasticsearch" {
		t.Errorf("backend = %q", s.Backend())
	}
}

func TestProject_Scenario(t *testing.T) {
	var buf bytes.Buffer
	q := &stubQuery{records: []Record{
		NewRecord("1", 0, map[string]any{"title": "A", "score": 1}),
		NewRecord("2", 0, map[string]any{"title": "B"}),
	}}

	if err := Project(context.Background(), &buf, q, []string{"title", "score"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "title: A\nscore: 1\ntitle: B\nscore: None\n"
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
	if q.calls != 1 {
		t.Errorf("Execute called %d times", q.calls)
	}
}

func TestProject_ErrorUnchanged(t *testing.T) {
	var buf bytes.Buffer
	backendErr := errors.New("cluster down")

	err := Project(context.Background(), &buf, &stubQuery{err: backendErr}, []string{"a"})
	if err != backendErr { //nolint:errorlint // identity is the contract
		t.Fatalf("got %v, want backend error", err)
	}
}

func TestClient_QueryAndProject(t *testing.T) {
	c, rc, buf := newMockClient(t)

	rc.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "articles:idx", "@lang:{go}",
			"RETURN", "2", "title", "score",
			"LIMIT", "0", "2", "DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("articles:1"),
			mock.RedisArray(
				mock.RedisString("title"), mock.RedisString("A"),
				mock.RedisString("score"), mock.RedisString("1"),
			),
			mock.RedisString("articles:2"),
			mock.RedisArray(mock.RedisString("title"), mock.RedisString("B")),
		)))

	q, err := c.Query("articles:idx", "@lang:{go}",
		WithLimit(2), WithReturnFields("title", "score"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if err := c.Project(context.Background(), q, []string{"title", "score"}); err != nil {
		t.Fatalf("Project: %v", err)
	}

	want := "title: A\nscore: 1\ntitle: B\nscore: None\n"
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestClient_ProjectBackendError(t *testing.T) {
	c, rc, buf := newMockClient(t)

	rc.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisError("Unknown index name")))

	q, err := c.Query("nope:idx", "@a:{b}")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	err = c.Project(context.Background(), q, []string{"title"})
	if !errors.Is(err, ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
	var be *BackendError
	if !errors.As(err, &be) || be.Op != "FT.SEARCH" {
		t.Errorf("expected *BackendError with op FT.SEARCH, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("no output expected, got %q", buf.String())
	}
}

func TestClient_QueryValidation(t *testing.T) {
	c, _, _ := newMockClient(t)

	if _, err := c.Query("", "*"); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("empty index: got %v", err)
	}
	if _, err := c.Query("idx", "*", WithOffset(-1)); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("negative offset: got %v", err)
	}
}

func TestClient_Count(t *testing.T) {
	c, rc, _ := newMockClient(t)

	rc.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "@a:{b}", "LIMIT", "0", "0")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(4))))

	n, err := c.Count(context.Background(), "idx", "@a:{b}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Errorf("count = %d, want 4", n)
	}
}

func TestClient_Limits(t *testing.T) {
	c, rc, _ := newMockClient(t, WithLimits(5, 50))

	rc.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "@a:{b}", "LIMIT", "0", "5", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))
	rc.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "@a:{b}", "LIMIT", "0", "50", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	for _, opts := range [][]QueryOption{nil, {WithLimit(500)}} {
		q, err := c.Query("idx", "@a:{b}", opts...)
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if err := c.Project(context.Background(), q, []string{"a"}); err != nil {
			t.Fatalf("Project: %v", err)
		}
	}
}

func TestClient_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, _, _ := newMockClient(t, WithPrometheus(reg), WithLogger(zap.NewNop()))

	q := &stubQuery{records: []Record{NewRecord("1", 0, nil), NewRecord("2", 0, nil)}}
	if err := c.Project(context.Background(), q, []string{"a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = c.Project(context.Background(), &stubQuery{err: errors.New("x")}, nil)

	m := c.observer.metrics
	if got := testutil.ToFloat64(m.operations.WithLabelValues("project", "unknown", "ok")); got != 1 {
		t.Errorf("ok operations = %f, want 1", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("project", "unknown", "error")); got != 1 {
		t.Errorf("error operations = %f, want 1", got)
	}
	if got := testutil.ToFloat64(m.records); got != 2 {
		t.Errorf("records = %f, want 2", got)
	}
}

func TestRegisterOrReuse(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}
	second, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("second registration: %v", err)
	}
	if first.operations != second.operations {
		t.Error("expected existing collector to be reused")
	}
}

func TestNewObserver_Disabled(t *testing.T) {
	obs, err := newObserver(nil, nil)
	if err != nil || obs != nil {
		t.Fatalf("expected nil observer, got %v, %v", obs, err)
	}
	obs.observe("count", time.Now(), nil)
}
