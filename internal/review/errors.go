package review

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/five82/docket/internal/applications"
)

var (
	// ErrLoad wraps any failure fetching the collection.
	ErrLoad = errors.New("load applications")
	// ErrStatusUpdate wraps a failed single status change.
	ErrStatusUpdate = errors.New("update status")
	// ErrBulkUpdate is matched by every *BulkError.
	ErrBulkUpdate = errors.New("bulk status update")
	// ErrSuperseded reports that a newer load replaced this one before it finished.
	ErrSuperseded = errors.New("superseded by a newer load")
)

// BulkError describes the requests that failed during a bulk update.
type BulkError struct {
	Status applications.Status
	Policy BulkPolicy
	Total  int
	Failed map[int64]error
}

func (e *BulkError) Error() string {
	ids := slices.Sorted(maps.Keys(e.Failed))
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d: %v", id, e.Failed[id]))
	}
	return fmt.Sprintf("%s to %s: %d of %d failed (%s)", ErrBulkUpdate, e.Status, len(e.Failed), e.Total, strings.Join(parts, "; "))
}

// Unwrap exposes ErrBulkUpdate together with each per-id failure.
func (e *BulkError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed)+1)
	errs = append(errs, ErrBulkUpdate)
	for _, id := range slices.Sorted(maps.Keys(e.Failed)) {
		errs = append(errs, e.Failed[id])
	}
	return errs
}

// FailedIDs returns the failed ids in ascending order.
func (e *BulkError) FailedIDs() []int64 {
	return slices.Sorted(maps.Keys(e.Failed))
}
