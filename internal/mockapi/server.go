package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/five82/docket/internal/applications"
)

const (
	maxBodyBytes    = 1 << 10
	shutdownTimeout = 5 * time.Second
)

// Server serves an in-memory application collection over the docket HTTP
// contract.
type Server struct {
	mu       sync.Mutex
	items    []applications.Application
	logger   *slog.Logger
	latency  time.Duration
	failRate float64
	failIDs  map[int64]bool
	roll     func() float64
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger.With(slog.String("component", "mockapi"))
		}
	}
}

// WithLatency delays every API response by d.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// WithFailRate fails that fraction of status updates with a 500.
func WithFailRate(rate float64) Option {
	return func(s *Server) { s.failRate = min(max(rate, 0), 1) }
}

// WithFailIDs always fails status updates for ids.
func WithFailIDs(ids ...int64) Option {
	return func(s *Server) {
		for _, id := range ids {
			s.failIDs[id] = true
		}
	}
}

// New returns a Server holding a copy of items. A nil slice serves
// applications.SeedData.
func New(items []applications.Application, opts ...Option) *Server {
	if items == nil {
		items = applications.SeedData()
	}
	s := &Server{
		items:   append([]applications.Application(nil), items...),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		failIDs: make(map[int64]bool),
		roll:    rand.Float64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router with logging, metrics and recovery installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger(s.logger))
	r.Use(Metrics())

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/api/applications", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Patch("/{id}/status", s.handleStatus)
	})
	return r
}

// Snapshot returns a copy of the current collection.
func (s *Server) Snapshot() []applications.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]applications.Application(nil), s.items...)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if !s.wait(r.Context()) {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}

	var body applications.StatusUpdate
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status, err := applications.ParseStatus(string(body.Status))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !s.wait(r.Context()) {
		return
	}
	if s.shouldFail(id) {
		injectedFailures.Inc()
		s.logger.Warn("injected status failure", slog.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "injected failure")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].ApplicationStatus = string(status)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "application not found")
}

func (s *Server) shouldFail(id int64) bool {
	if s.failIDs[id] {
		return true
	}
	return s.failRate > 0 && s.roll() < s.failRate
}

// wait applies the configured latency. It returns false when the client went
// away first.
func (s *Server) wait(ctx context.Context) bool {
	if s.latency <= 0 {
		return true
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock api listening", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mock api: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("mock api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mock api shutdown: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
