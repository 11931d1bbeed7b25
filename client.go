package hitprint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/hitprint/internal/db"
	dbElastic "github.com/kailas-cloud/hitprint/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/hitprint/internal/db/redis"
	dbValkey "github.com/kailas-cloud/hitprint/internal/db/valkey"
	"github.com/kailas-cloud/hitprint/internal/domain"
	"github.com/kailas-cloud/hitprint/internal/domain/query"
	"github.com/kailas-cloud/hitprint/internal/domain/record"
	"github.com/kailas-cloud/hitprint/internal/logger"
	searchrepo "github.com/kailas-cloud/hitprint/internal/repository/search"
	"github.com/kailas-cloud/hitprint/internal/usecase/project"
)

const defaultReadinessTimeout = 10 * time.Second

// None is printed in place of a missing or null field.
const None = record.None

// Record is a single search hit.
type Record = record.Record

// Query is a ready-to-run query. Execute is called exactly once per projection.
type Query = project.Query

// NewRecord builds a record, e.g. for test doubles. fields is copied.
func NewRecord(id string, score float64, fields map[string]any) Record {
	return record.New(id, score, fields)
}

// Client is the hitprint SDK entry point.
type Client struct {
	store     db.Store
	repo      *searchrepo.Repo
	projector *project.Service
	observer  *observer
}

// New creates a Client and waits for the backend to answer.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("hitprint: backend address required (use WithValkey, WithRedis or WithElasticsearch)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(context.Background(), cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("hitprint: backend not ready: %w", err)
	}

	c, err := wireClient(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("hitprint: create valkey store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("hitprint: create redis store: %w", err)
		}
		return s, nil
	case "elasticsearch":
		s, err := dbElastic.NewStore(dbElastic.Config{
			Addrs:     cfg.addrs,
			Username:  cfg.username,
			Password:  cfg.password,
			APIKey:    cfg.apiKey,
			Transport: cfg.transport,
		})
		if err != nil {
			return nil, fmt.Errorf("hitprint: create elasticsearch store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("hitprint: %w %q", domain.ErrUnknownDriver, cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	opts := []project.Option{project.WithOutput(cfg.output)}
	if obs != nil {
		obs.backend = store.Backend()
		opts = append(opts, project.WithObserver(obs))
	}

	return &Client{
		store:     store,
		repo:      searchrepo.New(store, cfg.defaultLimit, cfg.maxLimit),
		projector: project.New(opts...),
		observer:  obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks backend connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Backend names the configured driver.
func (c *Client) Backend() string { return c.store.Backend() }

// Query binds expression on index to the client's backend. Nothing is executed yet.
// expression is backend text: FT.SEARCH syntax for valkey/redis, a Lucene query
// string or JSON request body for elasticsearch.
func (c *Client) Query(index, expression string, opts ...QueryOption) (Query, error) {
	qc := &queryConfig{}
	for _, o := range opts {
		o(qc)
	}

	spec, err := query.New(index, expression, qc.limit, qc.offset, qc.returnFields)
	if err != nil {
		return nil, fmt.Errorf("hitprint: %w", err)
	}
	return c.repo.Bind(spec), nil
}

// Count returns the number of documents matching expression on index.
func (c *Client) Count(ctx context.Context, index, expression string) (int, error) {
	start := time.Now()

	spec, err := query.New(index, expression, 0, 0, nil)
	if err != nil {
		return 0, fmt.Errorf("hitprint: %w", err)
	}
	n, err := c.repo.Count(ctx, spec)
	c.observer.observe("count", start, err)
	if err != nil {
		return 0, fmt.Errorf("hitprint: %w", err)
	}
	return n, nil
}

// Project executes q once and writes the requested fields of every hit to the
// client output. Backend errors are returned unchanged.
func (c *Client) Project(ctx context.Context, q Query, fields []string) error {
	if c.observer != nil && c.observer.logger != nil {
		ctx = logger.ContextWithLogger(ctx, c.observer.logger)
	}
	return c.projector.Project(ctx, q, fields) //nolint:wrapcheck // backend errors reach the caller untouched
}

// Project executes q once and writes the requested fields of every hit to w.
// Backend errors are returned unchanged.
func Project(ctx context.Context, w io.Writer, q Query, fields []string) error {
	return project.New(project.WithOutput(w)).Project(ctx, q, fields) //nolint:wrapcheck // see Client.Project
}
