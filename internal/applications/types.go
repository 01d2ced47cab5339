package applications

import (
	"fmt"
	"strings"
)

// Status is the review state of an application.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// ParseStatus matches value against the known statuses, ignoring case and
// surrounding whitespace.
func ParseStatus(value string) (Status, error) {
	trimmed := strings.TrimSpace(value)
	for _, s := range Statuses {
		if strings.EqualFold(trimmed, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", value)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Application mirrors a record returned by GET /api/applications.
type Application struct {
	ID                int64    `json:"id"`
	ApplicationID     string   `json:"applicationId,omitempty"`
	Email             string   `json:"email,omitempty"`
	SubmissionDate    string   `json:"submissionDate"`
	FullName          string   `json:"fullName"`
	CourseCode        string   `json:"courseCode"`
	PreferredLocation string   `json:"preferredLocation,omitempty"`
	FinalYearModules  []Module `json:"finalYearModules,omitempty"`
	ApplicationStatus string   `json:"applicationStatus"`
	CVFile            string   `json:"cvFile,omitempty"`
}

// Module is one final-year module with its mark.
type Module struct {
	ID         int64   `json:"id"`
	ModuleName string  `json:"moduleName"`
	Mark       float64 `json:"mark"`
}

// StatusUpdate is the body of PATCH /api/applications/{id}/status.
type StatusUpdate struct {
	Status Status `json:"status"`
}
