package applications

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Mock is an in-process Source backed by a copy of the seed data. It is used
// for demos (source = "mock") and as the fake in tests.
type Mock struct {
	mu      sync.Mutex
	items   []Application
	latency time.Duration
	failIDs map[int64]bool
	failAll bool
	calls   []int64
}

// MockOption customises a Mock.
type MockOption func(*Mock)

// WithLatency delays every call by d, honouring context cancellation.
func WithLatency(d time.Duration) MockOption {
	return func(m *Mock) { m.latency = d }
}

// WithFailingIDs makes UpdateStatus fail for the given ids.
func WithFailingIDs(ids ...int64) MockOption {
	return func(m *Mock) {
		for _, id := range ids {
			m.failIDs[id] = true
		}
	}
}

// WithLoadFailure makes FetchApplications fail.
func WithLoadFailure() MockOption {
	return func(m *Mock) { m.failAll = true }
}

// NewMock returns a Mock serving items. A nil slice uses SeedData.
func NewMock(items []Application, opts ...MockOption) *Mock {
	if items == nil {
		items = SeedData()
	}
	m := &Mock{
		items:   cloneApplications(items),
		failIDs: make(map[int64]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FetchApplications returns a copy of the current collection.
func (m *Mock) FetchApplications(ctx context.Context) ([]Application, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, &APIError{Method: "GET", Path: applicationsPath, Status: 503}
	}
	return cloneApplications(m.items), nil
}

// UpdateStatus records a status change for id.
func (m *Mock) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, id)
	path := fmt.Sprintf("%s/%d/status", applicationsPath, id)
	if !status.Valid() {
		return &APIError{Method: "PATCH", Path: path, Status: 400}
	}
	if m.failIDs[id] {
		return &APIError{Method: "PATCH", Path: path, Status: 500}
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].ApplicationStatus = string(status)
			return nil
		}
	}
	return &APIError{Method: "PATCH", Path: path, Status: 404}
}

// Calls returns the ids passed to UpdateStatus so far, in call order.
func (m *Mock) Calls() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Mock) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func cloneApplications(items []Application) []Application {
	if items == nil {
		return nil
	}
	out := make([]Application, len(items))
	for i, item := range items {
		out[i] = item
		if item.FinalYearModules != nil {
			out[i].FinalYearModules = append([]Module(nil), item.FinalYearModules...)
		}
	}
	return out
}
