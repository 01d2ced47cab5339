// Package table derives the visible page of the applications table from the
// full collection and the current table state. Derive is pure; the State
// methods are the only mutators.
package table

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/record"
)

// PageSizes are the page sizes the UI cycles through.
var PageSizes = []int{5, 10, 20}

// DefaultPageSize is the initial page size.
const DefaultPageSize = 5

// SortKey is one level of a sort specification.
type SortKey struct {
	Column Column
	Desc   bool
}

// State is the ephemeral table state.
type State struct {
	Global     string
	Status     applications.Status // empty means no status filter
	Sort       []SortKey
	PageIndex  int
	PageSize   int
	DateLayout string

	selected map[int64]struct{}
	expanded map[int64]struct{}
}

// NewState returns an empty state with the given page size.
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		PageSize:   pageSize,
		DateLayout: record.DefaultDateLayout,
		selected:   make(map[int64]struct{}),
		expanded:   make(map[int64]struct{}),
	}
}

// View is the result of Derive.
type View struct {
	// Filtered holds every row that passes the filters, in sort order.
	Filtered []record.Record
	// Rows is the current page of Filtered.
	Rows      []record.Record
	Total     int
	PageIndex int
	PageCount int
	PageSize  int
	CanPrev   bool
	CanNext   bool
	Selected  int
}

// Derive filters, sorts and paginates rows according to s. Neither argument
// is modified.
func Derive(s State, rows []record.Record) View {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	filtered := filterRows(s, rows)
	sortRows(filtered, s.Sort)

	pageCount := max((len(filtered)+size-1)/size, 1)
	page := min(max(s.PageIndex, 0), pageCount-1)

	start := min(page*size, len(filtered))
	end := min(start+size, len(filtered))

	selected := 0
	for _, r := range rows {
		if _, ok := s.selected[r.ID]; ok {
			selected++
		}
	}

	return View{
		Filtered:  filtered,
		Rows:      filtered[start:end:end],
		Total:     len(rows),
		PageIndex: page,
		PageCount: pageCount,
		PageSize:  size,
		CanPrev:   page > 0,
		CanNext:   page < pageCount-1,
		Selected:  selected,
	}
}

func filterRows(s State, rows []record.Record) []record.Record {
	needle := strings.TrimSpace(s.Global)
	fold := cases.Fold()
	if needle != "" {
		needle = fold.String(needle)
	}

	out := make([]record.Record, 0, len(rows))
	for _, r := range rows {
		if s.Status != "" && r.Status != s.Status {
			continue
		}
		if needle != "" && !matchesGlobal(r, needle, s.DateLayout, fold) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesGlobal(r record.Record, needle, dateLayout string, fold cases.Caser) bool {
	for _, c := range Columns {
		if strings.Contains(fold.String(c.Text(r, dateLayout)), needle) {
			return true
		}
	}
	// The raw date is searchable too, so "2025-07" finds July submissions.
	return strings.Contains(fold.String(r.SubmissionDate), needle)
}

func sortRows(rows []record.Record, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	// Ties fall back to the id in the direction of the last key, so flipping
	// the direction of a single key yields exactly the reversed sequence.
	last := keys[len(keys)-1]
	slices.SortStableFunc(rows, func(a, b record.Record) int {
		for _, k := range keys {
			cmp := k.Column.compare(a, b)
			if cmp == 0 {
				continue
			}
			if k.Desc {
				return -cmp
			}
			return cmp
		}
		cmp := ColumnID.compare(a, b)
		if last.Desc {
			return -cmp
		}
		return cmp
	})
}
