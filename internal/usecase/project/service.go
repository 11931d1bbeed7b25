package project

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hitprint/internal/domain/record"
	"github.com/kailas-cloud/hitprint/internal/logger"
)

// Option configures a Service.
type Option func(*Service)

// WithOutput sets the destination for projection lines. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.out = w
		}
	}
}

// WithObserver reports every execution to o.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// Service executes queries and prints the requested fields of each hit.
type Service struct {
	out      io.Writer
	observer Observer
}

// New creates a projection service.
func New(opts ...Option) *Service {
	s := &Service{out: os.Stdout}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Project executes q once and writes "<field>: <value>" for every field of
// every returned record, records in backend order and fields in the given order.
// An execution error is returned as-is and nothing is written.
func (s *Service) Project(ctx context.Context, q Query, fields []string) error {
	start := time.Now()
	records, err := q.Execute(ctx)
	dur := time.Since(start)

	if s.observer != nil {
		s.observer.ObserveExecution(backendOf(q), dur, len(records), err)
	}
	if err != nil {
		return err //nolint:wrapcheck // backend errors reach the caller untouched
	}

	logger.FromContext(ctx).Debug("query executed",
		zap.String("backend", backendOf(q)),
		zap.Int("records", len(records)),
		zap.Int("fields", len(fields)),
		zap.Duration("duration", dur),
	)

	return Write(s.out, records, fields)
}

// Write prints the projection of records onto w.
func Write(w io.Writer, records []record.Record, fields []string) error {
	for _, r := range records {
		for _, f := range fields {
			if _, err := io.WriteString(w, f+": "+r.Value(f)+"\n"); err != nil {
				return fmt.Errorf("write projection: %w", err)
			}
		}
	}
	return nil
}

func backendOf(q Query) string {
	if l, ok := q.(labeled); ok {
		return l.Backend()
	}
	return "unknown"
}
