package review

import (
	"io"
	"log/slog"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/state"
)

// DefaultConcurrency bounds in-flight requests during a bulk update.
const DefaultConcurrency = 8

// Service loads applications into a store and reconciles status changes with
// the remote source.
type Service struct {
	source      applications.Source
	cvs         CVWriter
	store       *state.Store
	logger      *slog.Logger
	policy      BulkPolicy
	concurrency int
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger; the default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger.With(slog.String("component", "review"))
		}
	}
}

// WithBulkPolicy selects how bulk updates handle partial failure.
func WithBulkPolicy(p BulkPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithConcurrency bounds the number of concurrent bulk requests.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService builds a Service. cvs may be nil, in which case CV payloads are
// ignored.
func NewService(source applications.Source, cvs CVWriter, store *state.Store, opts ...Option) *Service {
	s := &Service{
		source:      source,
		cvs:         cvs,
		store:       store,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		policy:      PerItem,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source returns the data source the service reads and updates.
func (s *Service) Source() applications.Source {
	return s.source
}

// Store returns the store the service writes to.
func (s *Service) Store() *state.Store {
	return s.store
}

// Policy returns the configured bulk policy.
func (s *Service) Policy() BulkPolicy {
	return s.policy
}
