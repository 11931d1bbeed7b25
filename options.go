package hitprint

import (
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey", "redis" or "elasticsearch"
	addrs    []string
	username string
	password string
	apiKey   string

	transport http.RoundTripper // elasticsearch only

	readinessTimeout time.Duration
	defaultLimit     int
	maxLimit         int

	output     io.Writer
	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to query a Valkey instance with valkey-search.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to query a Redis instance with RediSearch.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithElasticsearch configures the client to query an Elasticsearch cluster.
// apiKey may be empty for unsecured clusters.
func WithElasticsearch(addr, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "elasticsearch"
		c.addrs = []string{addr}
		c.apiKey = apiKey
	})
}

// WithCredentials sets username and password for ACL or basic auth.
func WithCredentials(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithHTTPTransport overrides the Elasticsearch HTTP round tripper.
func WithHTTPTransport(rt http.RoundTripper) Option {
	return optionFunc(func(c *clientConfig) {
		c.transport = rt
	})
}

// WithReadinessTimeout bounds how long New waits for the backend. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLimits sets the page size used when a query sets none and the cap applied
// to every query. Zero leaves the backend default and no cap.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithOutput sets where Client.Project writes. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(c *clientConfig) {
		c.output = w
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK query metrics on the given registerer.
// Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// QueryOption configures a single query.
type QueryOption func(*queryConfig)

type queryConfig struct {
	limit        int
	offset       int
	returnFields []string
}

// WithLimit sets the maximum number of hits.
func WithLimit(n int) QueryOption {
	return func(q *queryConfig) { q.limit = n }
}

// WithOffset skips the first n hits.
func WithOffset(n int) QueryOption {
	return func(q *queryConfig) { q.offset = n }
}

// WithReturnFields asks the backend to return only the named fields.
func WithReturnFields(fields ...string) QueryOption {
	return func(q *queryConfig) { q.returnFields = fields }
}
