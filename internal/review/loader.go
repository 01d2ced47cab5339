package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/cv"
	"github.com/five82/docket/internal/record"
)

// CVWriter stores decoded CV payloads for the session.
type CVWriter interface {
	Put(id int64, payload string) (cv.Handle, error)
}

// LoadResult summarises a completed load.
type LoadResult struct {
	Count      int
	CVFailures int
	Generation uint64
}

// Load fetches the collection and installs it in the store. A load that is
// overtaken by a later Load returns ErrSuperseded and leaves the store alone.
func (s *Service) Load(ctx context.Context) (LoadResult, error) {
	return s.Fetch(ctx, s.BeginLoad())
}

// BeginLoad starts a new load generation without doing any I/O, so callers
// can supersede an in-flight load before its replacement is scheduled.
func (s *Service) BeginLoad() uint64 {
	return s.store.BeginLoad()
}

// Fetch performs the load for generation gen.
func (s *Service) Fetch(ctx context.Context, gen uint64) (LoadResult, error) {
	s.logger.Debug("loading applications", slog.Uint64("generation", gen))

	items, err := s.source.FetchApplications(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrLoad, err)
		if !s.store.FinishLoad(gen, nil, err) {
			return LoadResult{Generation: gen}, ErrSuperseded
		}
		s.logger.Error("load failed", slog.Uint64("generation", gen), slog.Any("error", err))
		return LoadResult{Generation: gen}, err
	}

	records, cvFailures := s.mapAll(items)
	if !s.store.FinishLoad(gen, records, nil) {
		s.logger.Debug("discarding superseded load", slog.Uint64("generation", gen))
		return LoadResult{Generation: gen}, ErrSuperseded
	}
	s.logger.Info("applications loaded",
		slog.Uint64("generation", gen),
		slog.Int("count", len(records)),
		slog.Int("cv_failures", cvFailures),
	)
	return LoadResult{Count: len(records), CVFailures: cvFailures, Generation: gen}, nil
}

func (s *Service) mapAll(items []applications.Application) ([]record.Record, int) {
	records := make([]record.Record, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	failures := 0
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			s.logger.Warn("skipping duplicate application id", slog.Int64("id", item.ID))
			continue
		}
		seen[item.ID] = struct{}{}

		rec, err := s.toRecord(item)
		if err != nil {
			failures++
			s.logger.Warn("cv unavailable", slog.Int64("id", item.ID), slog.Any("error", err))
		}
		records = append(records, rec)
	}
	return records, failures
}

// toRecord maps one raw application. A CV error leaves the handle empty and
// is returned alongside the otherwise complete record.
func (s *Service) toRecord(item applications.Application) (record.Record, error) {
	status, err := applications.ParseStatus(item.ApplicationStatus)
	if err != nil {
		s.logger.Warn("unknown status, treating as pending",
			slog.Int64("id", item.ID),
			slog.String("status", item.ApplicationStatus),
		)
		status = applications.StatusPending
	}

	rec := record.Record{
		ID:                item.ID,
		ApplicationID:     strings.TrimSpace(item.ApplicationID),
		Email:             strings.TrimSpace(item.Email),
		SubmissionDate:    strings.TrimSpace(item.SubmissionDate),
		FullName:          strings.TrimSpace(item.FullName),
		CourseCode:        strings.TrimSpace(item.CourseCode),
		PreferredLocation: strings.TrimSpace(item.PreferredLocation),
		Status:            status,
	}
	if len(item.FinalYearModules) > 0 {
		rec.Modules = make([]record.Module, 0, len(item.FinalYearModules))
		for _, m := range item.FinalYearModules {
			rec.Modules = append(rec.Modules, record.Module{ID: m.ID, Name: m.ModuleName, Mark: m.Mark})
		}
	}

	if s.cvs == nil || strings.TrimSpace(item.CVFile) == "" {
		return rec, nil
	}
	handle, err := s.cvs.Put(item.ID, item.CVFile)
	if err != nil {
		if !errors.Is(err, cv.ErrDecode) {
			err = fmt.Errorf("store cv: %w", err)
		}
		return rec, err
	}
	rec.CV = handle
	return rec, nil
}
