package table

import (
	"fmt"
	"slices"
	"testing"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/record"
)

func sampleRows() []record.Record {
	return []record.Record{
		{ID: 1, ApplicationID: "DSA-100001", SubmissionDate: "2025-07-10", FullName: "Alice Moyo", CourseCode: "DSA101", Status: applications.StatusPending,
			Modules: []record.Module{{ID: 101, Name: "AI Basics", Mark: 85}, {ID: 102, Name: "Data Wrangling", Mark: 90}}},
		{ID: 2, ApplicationID: "DSA-100002", SubmissionDate: "2025-07-11", FullName: "Brian Nkosi", CourseCode: "DSA102", Status: applications.StatusApproved,
			Modules: []record.Module{{ID: 201, Name: "Statistics", Mark: 78}, {ID: 202, Name: "Machine Learning", Mark: 82}}},
		{ID: 3, ApplicationID: "DSA-100003", SubmissionDate: "2025-07-12", FullName: "Clara Dlamini", CourseCode: "DSA103", Status: applications.StatusRejected,
			Modules: []record.Module{{ID: 301, Name: "Big Data", Mark: 88}}},
		{ID: 4, ApplicationID: "DSA-100004", SubmissionDate: "2025-07-12", FullName: "Daniel Mokoena", CourseCode: "DSA101", Status: applications.StatusApproved},
	}
}

func manyRows(n int) []record.Record {
	rows := make([]record.Record, n)
	for i := range rows {
		rows[i] = record.Record{
			ID:             int64(i + 1),
			FullName:       fmt.Sprintf("Applicant %02d", i+1),
			SubmissionDate: fmt.Sprintf("2025-07-%02d", i+1),
			Status:         applications.StatusPending,
		}
	}
	return rows
}

func ids(rows []record.Record) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestDerive_GlobalFilterFindsAndClears(t *testing.T) {
	rows := sampleRows()
	s := NewState(10)

	s.SetGlobalFilter("Alice")
	v := Derive(s, rows)
	if got := ids(v.Filtered); !slices.Equal(got, []int64{1}) {
		t.Fatalf("filtered ids = %v, want [1]", got)
	}

	s.SetGlobalFilter("")
	v = Derive(s, rows)
	if len(v.Filtered) != len(rows) {
		t.Fatalf("cleared filter kept %d rows, want %d", len(v.Filtered), len(rows))
	}
}

func TestDerive_GlobalFilterIsCaseInsensitiveAcrossColumns(t *testing.T) {
	rows := sampleRows()
	cases := []struct {
		query string
		want  []int64
	}{
		{"alice", []int64{1}},
		{"dsa101", []int64{1, 4}},
		{"APPROVED", []int64{2, 4}},
		{"87.5", []int64{1}},
		{"12 Jul", []int64{3, 4}},
		{"2025-07-11", []int64{2}},
		{"nobody", []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			s := NewState(10)
			s.SetGlobalFilter(tc.query)
			got := ids(Derive(s, rows).Filtered)
			if !slices.Equal(got, tc.want) {
				t.Fatalf("query %q ids = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}

func TestDerive_StatusFilterIsExact(t *testing.T) {
	rows := sampleRows()
	s := NewState(10)
	s.SetStatusFilter(applications.StatusApproved)

	v := Derive(s, rows)
	for _, r := range v.Filtered {
		if r.Status != applications.StatusApproved {
			t.Fatalf("row %d has status %s", r.ID, r.Status)
		}
	}
	if got := ids(v.Filtered); !slices.Equal(got, []int64{2, 4}) {
		t.Fatalf("filtered ids = %v, want [2 4]", got)
	}
}

func TestDerive_SortByDateAscThenDescIsReverse(t *testing.T) {
	rows := sampleRows()
	s := NewState(10)

	s.ToggleSort(ColumnDate)
	asc := ids(Derive(s, rows).Filtered)
	s.ToggleSort(ColumnDate)
	desc := ids(Derive(s, rows).Filtered)

	reversed := slices.Clone(desc)
	slices.Reverse(reversed)
	if !slices.Equal(asc, reversed) {
		t.Fatalf("asc = %v, desc = %v, want exact reverse", asc, desc)
	}
	if asc[0] != 1 {
		t.Fatalf("earliest submission first = %d, want 1", asc[0])
	}
}

func TestDerive_SortKinds(t *testing.T) {
	rows := sampleRows()
	cases := []struct {
		col  Column
		desc bool
		want []int64
	}{
		{ColumnAverage, true, []int64{3, 1, 2, 4}},
		{ColumnModules, false, []int64{4, 3, 1, 2}},
		{ColumnName, false, []int64{1, 2, 3, 4}},
		{ColumnName, true, []int64{4, 3, 2, 1}},
		{ColumnStatus, false, []int64{2, 4, 1, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.col.Title(), func(t *testing.T) {
			s := NewState(10)
			s.Sort = []SortKey{{Column: tc.col, Desc: tc.desc}}
			got := ids(Derive(s, rows).Filtered)
			if !slices.Equal(got, tc.want) {
				t.Fatalf("sort %s desc=%v = %v, want %v", tc.col.Title(), tc.desc, got, tc.want)
			}
		})
	}
}

func TestDerive_UnparseableDatesSortFirst(t *testing.T) {
	rows := sampleRows()
	rows[2].SubmissionDate = "unknown"
	s := NewState(10)
	s.Sort = []SortKey{{Column: ColumnDate}}
	if got := ids(Derive(s, rows).Filtered); got[0] != 3 {
		t.Fatalf("ids = %v, want unparseable date first", got)
	}
}

func TestDerive_StackedSort(t *testing.T) {
	rows := sampleRows()
	s := NewState(10)
	s.AddSort(ColumnCourse, false)
	s.AddSort(ColumnDate, true)
	if got := ids(Derive(s, rows).Filtered); !slices.Equal(got, []int64{4, 1, 2, 3}) {
		t.Fatalf("stacked sort ids = %v, want [4 1 2 3]", got)
	}
}

func TestToggleSort_CyclesAndIgnoresCV(t *testing.T) {
	s := NewState(5)
	s.ToggleSort(ColumnCV)
	if len(s.Sort) != 0 {
		t.Fatalf("CV column sorted: %v", s.Sort)
	}
	s.ToggleSort(ColumnName)
	if k, ok := s.SortFor(ColumnName); !ok || k.Desc {
		t.Fatalf("first toggle = %v, want ascending", s.Sort)
	}
	s.ToggleSort(ColumnName)
	if k, ok := s.SortFor(ColumnName); !ok || !k.Desc {
		t.Fatalf("second toggle = %v, want descending", s.Sort)
	}
	s.ToggleSort(ColumnName)
	if len(s.Sort) != 0 {
		t.Fatalf("third toggle = %v, want unsorted", s.Sort)
	}
	s.ToggleSort(ColumnName)
	s.ToggleSort(ColumnDate)
	if len(s.Sort) != 1 || s.Sort[0].Column != ColumnDate {
		t.Fatalf("single-column UI sort = %v, want only Date", s.Sort)
	}
}

func TestDerive_PageSizeChangeFromFiveToTen(t *testing.T) {
	rows := manyRows(12)
	s := NewState(5)
	v := Derive(s, rows)
	s.GotoPage(2, v)
	if Derive(s, rows).PageIndex != 2 {
		t.Fatalf("GotoPage(2) did not stick")
	}

	s.SetPageSize(10)
	v = Derive(s, rows)
	if v.PageIndex != 0 || v.PageCount != 2 {
		t.Fatalf("page = %d of %d, want 0 of 2", v.PageIndex, v.PageCount)
	}
	if got := ids(v.Rows); !slices.Equal(got, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}) {
		t.Fatalf("page rows = %v, want 1..10", got)
	}
	if v.CanPrev || !v.CanNext {
		t.Fatalf("CanPrev=%v CanNext=%v, want false/true", v.CanPrev, v.CanNext)
	}
}

func TestDerive_ClampsPageWhenFilterShrinks(t *testing.T) {
	rows := manyRows(12)
	s := NewState(5)
	s.PageIndex = 2
	s.Global = "Applicant 0"
	v := Derive(s, rows)
	if v.PageCount != 2 || v.PageIndex != 1 {
		t.Fatalf("page = %d of %d, want clamped to 1 of 2", v.PageIndex, v.PageCount)
	}
	s.Sync(v)
	if s.PageIndex != 1 {
		t.Fatalf("Sync PageIndex = %d, want 1", s.PageIndex)
	}
}

func TestDerive_EmptyCollectionHasOnePage(t *testing.T) {
	v := Derive(NewState(5), nil)
	if v.PageCount != 1 || v.PageIndex != 0 || len(v.Rows) != 0 || v.CanNext || v.CanPrev {
		t.Fatalf("empty view = %+v", v)
	}
}

func TestPagingMutators(t *testing.T) {
	rows := manyRows(12)
	s := NewState(5)

	s.PrevPage(Derive(s, rows))
	if s.PageIndex != 0 {
		t.Fatalf("PrevPage on first page moved to %d", s.PageIndex)
	}
	s.NextPage(Derive(s, rows))
	s.NextPage(Derive(s, rows))
	s.NextPage(Derive(s, rows))
	if s.PageIndex != 2 {
		t.Fatalf("NextPage past end = %d, want 2", s.PageIndex)
	}
	v := Derive(s, rows)
	if got := ids(v.Rows); !slices.Equal(got, []int64{11, 12}) {
		t.Fatalf("last page rows = %v, want [11 12]", got)
	}
	s.GotoPage(-4, v)
	if s.PageIndex != 0 {
		t.Fatalf("GotoPage(-4) = %d, want 0", s.PageIndex)
	}

	s.CyclePageSize()
	if s.PageSize != 10 {
		t.Fatalf("CyclePageSize 5 -> %d, want 10", s.PageSize)
	}
	s.CyclePageSize()
	s.CyclePageSize()
	if s.PageSize != 5 {
		t.Fatalf("CyclePageSize wrap = %d, want 5", s.PageSize)
	}
}

func TestSelection_SurvivesSortAndFilter(t *testing.T) {
	rows := sampleRows()
	s := NewState(2)
	s.ToggleSelected(3)
	s.ToggleSelected(1)

	s.ToggleSort(ColumnName)
	s.SetStatusFilter(applications.StatusApproved)
	if !s.IsSelected(3) || !s.IsSelected(1) {
		t.Fatalf("selection lost after sort/filter")
	}
	if v := Derive(s, rows); v.Selected != 2 {
		t.Fatalf("Selected = %d, want 2", v.Selected)
	}
	if got := s.SelectedIDs(rows); !slices.Equal(got, []int64{1, 3}) {
		t.Fatalf("SelectedIDs = %v, want [1 3]", got)
	}

	s.Prune(rows[:2])
	if s.IsSelected(3) {
		t.Fatalf("Prune kept id 3")
	}
	s.ToggleSelected(1)
	if s.IsSelected(1) {
		t.Fatalf("ToggleSelected did not deselect")
	}
}

func TestSelection_SelectAllUsesFilteredSet(t *testing.T) {
	rows := sampleRows()
	s := NewState(1)
	s.SetStatusFilter(applications.StatusApproved)

	s.ToggleSelectAll(Derive(s, rows))
	if got := s.SelectedIDs(rows); !slices.Equal(got, []int64{2, 4}) {
		t.Fatalf("select all = %v, want [2 4] across pages", got)
	}
	s.ToggleSelectAll(Derive(s, rows))
	if got := s.SelectedIDs(rows); len(got) != 0 {
		t.Fatalf("second select all = %v, want cleared", got)
	}

	s.ToggleSelected(1)
	s.Deselect(1, 99)
	s.ToggleSelected(2)
	s.ClearSelection()
	if len(s.SelectedIDs(rows)) != 0 {
		t.Fatalf("ClearSelection left ids selected")
	}
}

func TestExpansion_IndependentOfSelection(t *testing.T) {
	s := NewState(5)
	s.ToggleExpanded(2)
	if !s.IsExpanded(2) || s.IsSelected(2) {
		t.Fatalf("expanded=%v selected=%v, want true/false", s.IsExpanded(2), s.IsSelected(2))
	}
	s.ToggleExpanded(2)
	if s.IsExpanded(2) {
		t.Fatalf("ToggleExpanded did not collapse")
	}
}

func TestCycleStatusFilter(t *testing.T) {
	s := NewState(5)
	want := []applications.Status{
		applications.StatusPending,
		applications.StatusApproved,
		applications.StatusRejected,
		"",
	}
	for _, w := range want {
		s.CycleStatusFilter()
		if s.Status != w {
			t.Fatalf("CycleStatusFilter = %q, want %q", s.Status, w)
		}
	}
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	rows := sampleRows()
	before := ids(rows)
	s := NewState(10)
	s.Sort = []SortKey{{Column: ColumnName, Desc: true}}
	_ = Derive(s, rows)
	if !slices.Equal(ids(rows), before) {
		t.Fatalf("Derive reordered its input")
	}
}

func TestDescribe(t *testing.T) {
	s := NewState(5)
	if s.Describe() != "" {
		t.Fatalf("Describe empty = %q", s.Describe())
	}
	s.SetGlobalFilter("moyo")
	s.SetStatusFilter(applications.StatusPending)
	s.ToggleSort(ColumnDate)
	if got := s.Describe(); got != `search "moyo", status Pending, sort Date asc` {
		t.Fatalf("Describe = %q", got)
	}
}
