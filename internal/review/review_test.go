package review

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/cv"
	"github.com/five82/docket/internal/record"
	"github.com/five82/docket/internal/state"
)

func newService(t *testing.T, src applications.Source, opts ...Option) (*Service, *state.Store) {
	t.Helper()
	cvs, err := cv.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = cvs.Close() })
	store := &state.Store{}
	return NewService(src, cvs, store, opts...), store
}

func loaded(t *testing.T, svc *Service) {
	t.Helper()
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func byID(records []record.Record, id int64) record.Record {
	for _, r := range records {
		if r.ID == id {
			return r
		}
	}
	return record.Record{}
}

func TestLoad_SeedData(t *testing.T) {
	svc, store := newService(t, applications.NewMock(nil))

	res, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Count != 12 || res.CVFailures != 1 {
		t.Fatalf("result = %+v, want 12 records and 1 cv failure", res)
	}

	snap := store.Snapshot()
	if !snap.Loaded || snap.Loading || len(snap.Records) != 12 {
		t.Fatalf("snapshot = loaded %v loading %v records %d", snap.Loaded, snap.Loading, len(snap.Records))
	}

	alice := byID(snap.Records, 1)
	if !alice.CV.Available() || alice.CV.Pages != 1 {
		t.Fatalf("alice cv = %+v, want a 1 page handle", alice.CV)
	}
	if alice.ModuleCount() != 2 || alice.AverageLabel() != "87.5" {
		t.Fatalf("alice modules = %d avg %s", alice.ModuleCount(), alice.AverageLabel())
	}
	if got := byID(snap.Records, 11).CV; got.Available() {
		t.Fatalf("corrupt cv produced a handle: %+v", got)
	}
	if got := byID(snap.Records, 12).CV; got.Available() {
		t.Fatalf("missing cv produced a handle: %+v", got)
	}
	if got := byID(snap.Records, 3).Location(); got != record.LocationPlaceholder {
		t.Fatalf("location = %q, want placeholder", got)
	}
}

func TestLoad_NormalisesRecords(t *testing.T) {
	items := []applications.Application{
		{ID: 1, Email: "a@example.org", FullName: " Ada ", ApplicationStatus: "approved"},
		{ID: 2, ApplicationID: "X-2", ApplicationStatus: "Withdrawn"},
		{ID: 1, FullName: "duplicate", ApplicationStatus: "Pending"},
	}
	svc, store := newService(t, applications.NewMock(items))
	loaded(t, svc)

	recs := store.Snapshot().Records
	if len(recs) != 2 {
		t.Fatalf("records = %d, want duplicate dropped", len(recs))
	}
	if recs[0].Status != applications.StatusApproved || recs[0].FullName != "Ada" || recs[0].Identifier() != "a@example.org" {
		t.Fatalf("first record = %+v", recs[0])
	}
	if recs[1].Status != applications.StatusPending || recs[1].Identifier() != "X-2" {
		t.Fatalf("second record = %+v", recs[1])
	}
}

func TestLoad_FailureKeepsCollectionEmpty(t *testing.T) {
	svc, store := newService(t, applications.NewMock(nil, applications.WithLoadFailure()))

	_, err := svc.Load(context.Background())
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("err = %v, want ErrLoad", err)
	}
	var apiErr *applications.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 503 {
		t.Fatalf("err = %v, want wrapped 503", err)
	}
	snap := store.Snapshot()
	if len(snap.Records) != 0 || snap.Loading || !errors.Is(snap.LastError, ErrLoad) {
		t.Fatalf("snapshot = %+v", snap)
	}
}

// gatedSource blocks the first fetch until release is closed.
type gatedSource struct {
	applications.Source
	once    sync.Once
	started chan struct{}
	release chan struct{}
	first   []applications.Application
}

func (g *gatedSource) FetchApplications(ctx context.Context) ([]applications.Application, error) {
	gated := false
	g.once.Do(func() { gated = true })
	if gated {
		close(g.started)
		select {
		case <-g.release:
		case <-ctx.Done():
		}
		return g.first, nil
	}
	return g.Source.FetchApplications(ctx)
}

func TestLoad_SupersededLoadIsDiscarded(t *testing.T) {
	src := &gatedSource{
		Source:  applications.NewMock(nil),
		started: make(chan struct{}),
		release: make(chan struct{}),
		first:   []applications.Application{{ID: 99, FullName: "stale", ApplicationStatus: "Pending"}},
	}
	svc, store := newService(t, src)

	errc := make(chan error, 1)
	go func() {
		_, err := svc.Load(context.Background())
		errc <- err
	}()
	<-src.started

	loaded(t, svc)
	close(src.release)

	if err := <-errc; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("first load err = %v, want ErrSuperseded", err)
	}
	recs := store.Snapshot().Records
	if len(recs) != 12 || byID(recs, 99).ID != 0 {
		t.Fatalf("stale load leaked into store: %d records", len(recs))
	}
}

func TestSetStatus(t *testing.T) {
	mock := applications.NewMock(nil)
	svc, store := newService(t, mock)
	loaded(t, svc)

	applied, err := svc.SetStatus(context.Background(), 1, applications.StatusApproved)
	if err != nil || !applied {
		t.Fatalf("SetStatus = %v, %v", applied, err)
	}
	if got := byID(store.Snapshot().Records, 1).Status; got != applications.StatusApproved {
		t.Fatalf("status = %s, want Approved", got)
	}
	remote, _ := mock.FetchApplications(context.Background())
	if remote[0].ApplicationStatus != "Approved" {
		t.Fatalf("remote status = %s", remote[0].ApplicationStatus)
	}
}

func TestSetStatus_FailureLeavesRecordUnchanged(t *testing.T) {
	svc, store := newService(t, applications.NewMock(nil, applications.WithFailingIDs(2)))
	loaded(t, svc)

	_, err := svc.SetStatus(context.Background(), 2, applications.StatusRejected)
	if !errors.Is(err, ErrStatusUpdate) {
		t.Fatalf("err = %v, want ErrStatusUpdate", err)
	}
	if got := byID(store.Snapshot().Records, 2).Status; got != applications.StatusApproved {
		t.Fatalf("status = %s, want unchanged Approved", got)
	}

	if _, err := svc.SetStatus(context.Background(), 1, applications.Status("Maybe")); !errors.Is(err, ErrStatusUpdate) {
		t.Fatalf("invalid status err = %v", err)
	}
}

func TestBulkSetStatus_AllSucceed(t *testing.T) {
	svc, store := newService(t, applications.NewMock(nil), WithConcurrency(2))
	loaded(t, svc)

	ids := []int64{1, 4, 5, 7}
	res, err := svc.BulkSetStatus(context.Background(), ids, applications.StatusApproved)
	if err != nil {
		t.Fatalf("BulkSetStatus: %v", err)
	}
	if !slices.Equal(res.Applied, ids) || !slices.Equal(res.Acknowledged, ids) {
		t.Fatalf("result = %+v", res)
	}
	for _, id := range ids {
		if got := byID(store.Snapshot().Records, id).Status; got != applications.StatusApproved {
			t.Fatalf("id %d status = %s", id, got)
		}
	}
}

func TestBulkSetStatus_PerItemAppliesSuccesses(t *testing.T) {
	svc, store := newService(t, applications.NewMock(nil, applications.WithFailingIDs(4)))
	loaded(t, svc)

	res, err := svc.BulkSetStatus(context.Background(), []int64{1, 4, 5}, applications.StatusRejected)
	var bulkErr *BulkError
	if !errors.As(err, &bulkErr) || !errors.Is(err, ErrBulkUpdate) {
		t.Fatalf("err = %v, want *BulkError", err)
	}
	if !slices.Equal(bulkErr.FailedIDs(), []int64{4}) || bulkErr.Total != 3 {
		t.Fatalf("bulk error = %+v", bulkErr)
	}
	var apiErr *applications.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 500 {
		t.Fatalf("per-id cause not reachable: %v", err)
	}
	if !slices.Equal(res.Applied, []int64{1, 5}) {
		t.Fatalf("applied = %v, want [1 5]", res.Applied)
	}

	recs := store.Snapshot().Records
	if byID(recs, 1).Status != applications.StatusRejected || byID(recs, 5).Status != applications.StatusRejected {
		t.Fatalf("successes not applied")
	}
	if byID(recs, 4).Status != applications.StatusPending {
		t.Fatalf("failed id changed: %s", byID(recs, 4).Status)
	}
}

func TestBulkSetStatus_AllOrNothing(t *testing.T) {
	mock := applications.NewMock(nil, applications.WithFailingIDs(4))
	svc, store := newService(t, mock, WithBulkPolicy(AllOrNothing))
	loaded(t, svc)

	res, err := svc.BulkSetStatus(context.Background(), []int64{1, 4, 5}, applications.StatusApproved)
	if !errors.Is(err, ErrBulkUpdate) {
		t.Fatalf("err = %v, want ErrBulkUpdate", err)
	}
	if len(res.Applied) != 0 || !slices.Equal(res.Acknowledged, []int64{1, 5}) {
		t.Fatalf("result = %+v", res)
	}
	for _, id := range []int64{1, 4, 5} {
		if got := byID(store.Snapshot().Records, id).Status; got != applications.StatusPending {
			t.Fatalf("id %d status = %s, want Pending", id, got)
		}
	}
	calls := mock.Calls()
	slices.Sort(calls)
	if !slices.Equal(calls, []int64{1, 4, 5}) {
		t.Fatalf("calls = %v, every request should still be sent", calls)
	}
}

func TestBulkSetStatus_EmptyAndDuplicateIDs(t *testing.T) {
	mock := applications.NewMock(nil)
	svc, _ := newService(t, mock)
	loaded(t, svc)

	res, err := svc.BulkSetStatus(context.Background(), nil, applications.StatusApproved)
	if err != nil || len(res.Applied) != 0 || len(mock.Calls()) != 0 {
		t.Fatalf("empty bulk = %+v, %v, calls %v", res, err, mock.Calls())
	}

	res, err = svc.BulkSetStatus(context.Background(), []int64{2, 2, 3}, applications.StatusPending)
	if err != nil || !slices.Equal(res.Applied, []int64{2, 3}) {
		t.Fatalf("bulk = %+v, %v", res, err)
	}
	if got := len(mock.Calls()); got != 2 {
		t.Fatalf("calls = %d, want duplicates collapsed", got)
	}
}

func TestParseBulkPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    BulkPolicy
		wantErr bool
	}{
		{"", PerItem, false},
		{"per-item", PerItem, false},
		{"all-or-nothing", AllOrNothing, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBulkPolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("ParseBulkPolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFetch_CancelledLoadIsSuperseded(t *testing.T) {
	mock := applications.NewMock(nil, applications.WithLatency(time.Hour))
	svc, store := newService(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	first := svc.BeginLoad()
	svc.BeginLoad()
	cancel()

	if _, err := svc.Fetch(ctx, first); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("err = %v, want ErrSuperseded", err)
	}
	snap := store.Snapshot()
	if !snap.Loading || snap.LastError != nil {
		t.Fatalf("superseded load touched the store: %+v", snap)
	}
}
