package review

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/state"
)

// BulkPolicy decides how a bulk update treats partial failure.
type BulkPolicy string

const (
	// PerItem applies every acknowledged change and reports failures per id.
	PerItem BulkPolicy = "per-item"
	// AllOrNothing applies nothing locally when any request fails.
	AllOrNothing BulkPolicy = "all-or-nothing"
)

// ParseBulkPolicy accepts the config spelling of a policy; empty means PerItem.
func ParseBulkPolicy(value string) (BulkPolicy, error) {
	switch BulkPolicy(value) {
	case "", PerItem:
		return PerItem, nil
	case AllOrNothing:
		return AllOrNothing, nil
	}
	return "", fmt.Errorf("unknown bulk policy %q (want %q or %q)", value, PerItem, AllOrNothing)
}

// BulkResult reports the outcome of a bulk update.
type BulkResult struct {
	Status    applications.Status
	Requested []int64
	// Acknowledged lists ids the server accepted.
	Acknowledged []int64
	// Applied lists ids whose local status changed.
	Applied []int64
}

// SetStatus sends a single status change and patches the store once the
// server acknowledges it. applied is false when a newer update or a reload
// superseded this one.
func (s *Service) SetStatus(ctx context.Context, id int64, status applications.Status) (applied bool, err error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: application %d: invalid status %q", ErrStatusUpdate, id, status)
	}
	tokens := s.store.BeginUpdate(id)
	if err := s.source.UpdateStatus(ctx, id, status); err != nil {
		s.store.Release(tokens)
		err = fmt.Errorf("%w: application %d: %w", ErrStatusUpdate, id, err)
		s.logger.Error("status update failed", slog.Int64("id", id), slog.String("status", status.String()), slog.Any("error", err))
		return false, err
	}

	got := s.store.ApplyStatus([]state.StatusChange{{ID: id, Token: tokens[id], Status: status}})
	if len(got) == 0 {
		s.logger.Debug("discarding superseded status update", slog.Int64("id", id))
		return false, nil
	}
	s.logger.Info("status updated", slog.Int64("id", id), slog.String("status", status.String()))
	return true, nil
}

// BulkSetStatus sends one request per id concurrently and writes the store
// once after every request has settled. Failures are returned as a
// *BulkError; which successes are applied depends on the bulk policy.
func (s *Service) BulkSetStatus(ctx context.Context, ids []int64, status applications.Status) (BulkResult, error) {
	ids = unique(ids)
	res := BulkResult{Status: status, Requested: ids}
	if len(ids) == 0 {
		return res, nil
	}
	if !status.Valid() {
		return res, fmt.Errorf("%w: invalid status %q", ErrBulkUpdate, status)
	}

	tokens := s.store.BeginUpdate(ids...)

	var (
		mu     sync.Mutex
		failed = make(map[int64]error)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := s.source.UpdateStatus(gctx, id, status); err != nil {
				mu.Lock()
				failed[id] = err
				mu.Unlock()
			}
			// Per-id failures are collected, not propagated, so one failure
			// does not cancel the siblings.
			return nil
		})
	}
	_ = g.Wait()

	changes := make([]state.StatusChange, 0, len(ids))
	for _, id := range ids {
		if _, bad := failed[id]; bad {
			continue
		}
		res.Acknowledged = append(res.Acknowledged, id)
		changes = append(changes, state.StatusChange{ID: id, Token: tokens[id], Status: status})
	}

	if len(failed) == 0 || s.policy == PerItem {
		res.Applied = s.store.ApplyStatus(changes)
	}
	release := make(map[int64]state.Token, len(ids))
	for _, id := range ids {
		if !slices.Contains(res.Applied, id) {
			release[id] = tokens[id]
		}
	}
	s.store.Release(release)

	if len(failed) == 0 {
		s.logger.Info("bulk status updated", slog.String("status", status.String()), slog.Int("count", len(res.Applied)))
		return res, nil
	}

	for id, err := range failed {
		s.logger.Warn("bulk status update failed for application", slog.Int64("id", id), slog.Any("error", err))
	}
	bulkErr := &BulkError{Status: status, Policy: s.policy, Total: len(ids), Failed: failed}
	s.logger.Error("bulk status update incomplete",
		slog.String("policy", string(s.policy)),
		slog.Int("failed", len(failed)),
		slog.Int("applied", len(res.Applied)),
	)
	return res, bulkErr
}

func unique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
