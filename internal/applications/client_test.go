package applications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_RequiresValue(t *testing.T) {
	if _, err := parseBaseURL("   "); !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("parseBaseURL blank error = %v, want ErrNoBaseURL", err)
	}
}

func TestParseBaseURL_Normalizes(t *testing.T) {
	u, err := parseBaseURL("10.0.0.5:8080")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "10.0.0.5:8080" {
		t.Fatalf("url = %q, want http://10.0.0.5:8080", u.String())
	}

	u, err = parseBaseURL("https://example.com/review/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/review" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchAndUpdate(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotContentType, gotRequestID, gotUserAgent string
	var gotBody StatusUpdate

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/base/api/applications":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]Application{{
				ID:                7,
				Email:             "alice@example.org",
				FullName:          "Alice Moyo",
				ApplicationStatus: "Pending",
				FinalYearModules:  []Module{{ID: 1, ModuleName: "AI Basics", Mark: 85}},
			}})
		case r.Method == http.MethodPatch && r.URL.Path == "/base/api/applications/7/status":
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotContentType = r.Header.Get("Content-Type")
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &gotBody)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/base/", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	items, err := c.FetchApplications(ctx)
	if err != nil {
		t.Fatalf("FetchApplications returned error: %v", err)
	}
	if len(items) != 1 || items[0].ID != 7 || len(items[0].FinalYearModules) != 1 {
		t.Fatalf("FetchApplications items = %#v, want 1 item id=7 with 1 module", items)
	}

	if err := c.UpdateStatus(ctx, 7, StatusApproved); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/base/api/applications/7/status" {
		t.Fatalf("UpdateStatus hit %s %s", gotMethod, gotPath)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotBody.Status != StatusApproved {
		t.Fatalf("body status = %q, want Approved", gotBody.Status)
	}
	if gotRequestID == "" {
		t.Fatalf("X-Request-ID header missing")
	}
	if !strings.HasPrefix(gotUserAgent, "docket/") {
		t.Fatalf("User-Agent = %q, want docket/*", gotUserAgent)
	}
}

func TestClient_NonSuccessStatusIsAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.Error(w, "conflict", http.StatusConflict)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchApplications(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("FetchApplications error = %v, want APIError 500", err)
	}

	err = c.UpdateStatus(context.Background(), 3, StatusRejected)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("UpdateStatus error = %v, want APIError 409", err)
	}
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchApplications(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchApplications error = %v, want decode response error", err)
	}
}

func TestClient_RejectsInvalidStatus(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.UpdateStatus(context.Background(), 1, Status("Maybe")); err == nil {
		t.Fatalf("UpdateStatus returned nil error for invalid status")
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"Approved", StatusApproved, false},
		{"  rejected ", StatusRejected, false},
		{"PENDING", StatusPending, false},
		{"archived", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
