// Package record defines the application view model shared by the loader,
// the store, the table engine and the UI.
package record

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/cv"
)

// LocationPlaceholder is shown when an applicant gave no preferred location.
const LocationPlaceholder = "Not specified"

// DefaultDateLayout renders submission dates when no layout is configured.
const DefaultDateLayout = "2 Jan 2006"

var dateLayouts = []string{"2006-01-02", time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"}

// Record is one application as the dashboard sees it.
type Record struct {
	ID                int64
	ApplicationID     string
	Email             string
	SubmissionDate    string
	FullName          string
	CourseCode        string
	PreferredLocation string
	Modules           []Module
	Status            applications.Status
	CV                cv.Handle
}

// Module is a final-year module and its mark.
type Module struct {
	ID   int64
	Name string
	Mark float64
}

// ModuleCount returns the number of final-year modules.
func (r Record) ModuleCount() int {
	return len(r.Modules)
}

// Average returns the mean mark, or 0 when there are no modules.
func (r Record) Average() float64 {
	if len(r.Modules) == 0 {
		return 0
	}
	var sum float64
	for _, m := range r.Modules {
		sum += m.Mark
	}
	avg := sum / float64(len(r.Modules))
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return 0
	}
	return avg
}

// AverageLabel formats Average with exactly one fractional digit.
func (r Record) AverageLabel() string {
	return fmt.Sprintf("%.1f", r.Average())
}

// Identifier is the applicant's display identifier.
func (r Record) Identifier() string {
	if strings.TrimSpace(r.ApplicationID) != "" {
		return r.ApplicationID
	}
	return r.Email
}

// Location returns the preferred location or the placeholder.
func (r Record) Location() string {
	if strings.TrimSpace(r.PreferredLocation) == "" {
		return LocationPlaceholder
	}
	return r.PreferredLocation
}

// SubmittedAt parses SubmissionDate. ok is false when no known layout fits.
func (r Record) SubmittedAt() (t time.Time, ok bool) {
	value := strings.TrimSpace(r.SubmissionDate)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// DisplayDate renders the submission date with layout, falling back to the
// raw value when it cannot be parsed.
func (r Record) DisplayDate(layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}
	if t, ok := r.SubmittedAt(); ok {
		return t.Format(layout)
	}
	return r.SubmissionDate
}

// Clone returns a copy that shares no slices with r.
func (r Record) Clone() Record {
	dup := r
	if r.Modules != nil {
		dup.Modules = append([]Module(nil), r.Modules...)
	}
	return dup
}

// CloneAll copies a collection.
func CloneAll(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
