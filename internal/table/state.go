package table

import (
	"slices"
	"strings"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/record"
)

// SetGlobalFilter replaces the search text and returns to the first page.
func (s *State) SetGlobalFilter(q string) {
	if s.Global == q {
		return
	}
	s.Global = q
	s.PageIndex = 0
}

// SetStatusFilter filters on status. An empty status clears the filter.
func (s *State) SetStatusFilter(status applications.Status) {
	if s.Status == status {
		return
	}
	s.Status = status
	s.PageIndex = 0
}

// CycleStatusFilter steps All → Pending → Approved → Rejected → All.
func (s *State) CycleStatusFilter() {
	if s.Status == "" {
		s.SetStatusFilter(applications.Statuses[0])
		return
	}
	idx := slices.Index(applications.Statuses, s.Status)
	if idx < 0 || idx == len(applications.Statuses)-1 {
		s.SetStatusFilter("")
		return
	}
	s.SetStatusFilter(applications.Statuses[idx+1])
}

// ToggleSort advances c through unsorted → ascending → descending → unsorted
// and makes it the only sort key. Unsortable columns are ignored.
func (s *State) ToggleSort(c Column) {
	if !c.Sortable() {
		return
	}
	current, ok := s.SortFor(c)
	switch {
	case !ok:
		s.Sort = []SortKey{{Column: c}}
	case !current.Desc:
		s.Sort = []SortKey{{Column: c, Desc: true}}
	default:
		s.Sort = nil
	}
}

// AddSort appends or flips c as a secondary sort key.
func (s *State) AddSort(c Column, desc bool) {
	if !c.Sortable() {
		return
	}
	for i := range s.Sort {
		if s.Sort[i].Column == c {
			s.Sort[i].Desc = desc
			return
		}
	}
	s.Sort = append(s.Sort, SortKey{Column: c, Desc: desc})
}

// SortFor returns the sort key for c, if any.
func (s State) SortFor(c Column) (SortKey, bool) {
	for _, k := range s.Sort {
		if k.Column == c {
			return k, true
		}
	}
	return SortKey{}, false
}

// SetPageSize changes the page size and returns to the first page.
func (s *State) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	s.PageSize = size
	s.PageIndex = 0
}

// CyclePageSize steps through PageSizes.
func (s *State) CyclePageSize() {
	idx := slices.Index(PageSizes, s.PageSize)
	s.SetPageSize(PageSizes[(idx+1)%len(PageSizes)])
}

// GotoPage moves to page, clamped to the pages in v.
func (s *State) GotoPage(page int, v View) {
	s.PageIndex = min(max(page, 0), max(v.PageCount-1, 0))
}

// NextPage advances one page when possible.
func (s *State) NextPage(v View) {
	if v.CanNext {
		s.GotoPage(v.PageIndex+1, v)
	}
}

// PrevPage goes back one page when possible.
func (s *State) PrevPage(v View) {
	if v.CanPrev {
		s.GotoPage(v.PageIndex-1, v)
	}
}

// Sync stores the clamped page index from v so later mutations start from a
// valid page.
func (s *State) Sync(v View) {
	s.PageIndex = v.PageIndex
}

// ToggleSelected flips selection for id.
func (s *State) ToggleSelected(id int64) {
	s.ensure()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

// IsSelected reports whether id is selected.
func (s State) IsSelected(id int64) bool {
	_, ok := s.selected[id]
	return ok
}

// ToggleSelectAll selects every filtered row, or clears those rows when all of
// them are already selected.
func (s *State) ToggleSelectAll(v View) {
	s.ensure()
	all := len(v.Filtered) > 0
	for _, r := range v.Filtered {
		if _, ok := s.selected[r.ID]; !ok {
			all = false
			break
		}
	}
	for _, r := range v.Filtered {
		if all {
			delete(s.selected, r.ID)
		} else {
			s.selected[r.ID] = struct{}{}
		}
	}
}

// Deselect removes ids from the selection.
func (s *State) Deselect(ids ...int64) {
	for _, id := range ids {
		delete(s.selected, id)
	}
}

// ClearSelection empties the selection.
func (s *State) ClearSelection() {
	clear(s.selected)
}

// SelectedIDs returns the selected ids that still exist in rows, in
// collection order.
func (s State) SelectedIDs(rows []record.Record) []int64 {
	var ids []int64
	for _, r := range rows {
		if _, ok := s.selected[r.ID]; ok {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// ToggleExpanded flips the inline detail row for id.
func (s *State) ToggleExpanded(id int64) {
	s.ensure()
	if _, ok := s.expanded[id]; ok {
		delete(s.expanded, id)
		return
	}
	s.expanded[id] = struct{}{}
}

// IsExpanded reports whether id shows its detail row.
func (s State) IsExpanded(id int64) bool {
	_, ok := s.expanded[id]
	return ok
}

// Prune forgets selected and expanded ids that are no longer in rows.
func (s *State) Prune(rows []record.Record) {
	present := make(map[int64]struct{}, len(rows))
	for _, r := range rows {
		present[r.ID] = struct{}{}
	}
	for id := range s.selected {
		if _, ok := present[id]; !ok {
			delete(s.selected, id)
		}
	}
	for id := range s.expanded {
		if _, ok := present[id]; !ok {
			delete(s.expanded, id)
		}
	}
}

// Describe summarises active filters and sort for headers and reports.
func (s State) Describe() string {
	var parts []string
	if q := strings.TrimSpace(s.Global); q != "" {
		parts = append(parts, "search \""+q+"\"")
	}
	if s.Status != "" {
		parts = append(parts, "status "+s.Status.String())
	}
	for _, k := range s.Sort {
		dir := "asc"
		if k.Desc {
			dir = "desc"
		}
		parts = append(parts, "sort "+k.Column.Title()+" "+dir)
	}
	return strings.Join(parts, ", ")
}

func (s *State) ensure() {
	if s.selected == nil {
		s.selected = make(map[int64]struct{})
	}
	if s.expanded == nil {
		s.expanded = make(map[int64]struct{})
	}
}
