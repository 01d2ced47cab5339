package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/cv"
	"github.com/five82/docket/internal/record"
)

func sampleRows() []record.Record {
	return []record.Record{
		{
			ID: 1, ApplicationID: "DSA-100001", SubmissionDate: "2025-07-10", FullName: "Alice Moyo",
			CourseCode: "DSA101", Status: applications.StatusPending,
			Modules: []record.Module{{Name: "AI Basics", Mark: 85}, {Name: "Data Wrangling", Mark: 90}},
			CV:      cv.Handle{Path: "/tmp/a.pdf", Size: 10, Pages: 2},
		},
		{
			ID: 2, Email: "brian@example.org", SubmissionDate: "2025-07-11", FullName: "Nkosi, Brian",
			CourseCode: "DSA102", Status: applications.StatusApproved,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows(), record.DefaultDateLayout); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header plus 2 rows", len(lines))
	}
	wantHeader := []string{"ID", "App. ID", "Date", "Name", "Course", "# Modules", "Average", "CV", "Status"}
	if strings.Join(lines[0], "|") != strings.Join(wantHeader, "|") {
		t.Fatalf("header = %v", lines[0])
	}
	wantFirst := []string{"1", "DSA-100001", "10 Jul 2025", "Alice Moyo", "DSA101", "2", "87.5", "PDF (2p)", "Pending"}
	if strings.Join(lines[1], "|") != strings.Join(wantFirst, "|") {
		t.Fatalf("row 1 = %v", lines[1])
	}
	if lines[2][1] != "brian@example.org" || lines[2][3] != "Nkosi, Brian" || lines[2][6] != "0.0" {
		t.Fatalf("row 2 = %v", lines[2])
	}
}

func TestWriteCSV_EmptyHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, record.DefaultDateLayout); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Fatalf("lines = %d, want 1", got)
	}
}

func TestExporter_CSVWritesFixedName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e := New(dir, "", "")

	path, err := e.CSV(sampleRows())
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if path != filepath.Join(dir, CSVName) {
		t.Fatalf("path = %s", path)
	}
	if _, err := e.CSV(sampleRows()[:1]); err != nil {
		t.Fatalf("second CSV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 2 {
		t.Fatalf("lines = %d, want export replaced", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, temp files left behind", len(entries))
	}
}

func TestReport(t *testing.T) {
	at := time.Date(2025, 7, 20, 9, 30, 0, 0, time.UTC)
	out := Report(sampleRows(), `search "moyo", status Pending`, record.DefaultDateLayout, at)

	for _, want := range []string{"Applications report", "20 Jul 2025 09:30", "2 application(s)", `Showing search "moyo", status Pending`, "App. ID", "Alice Moyo", "brian@example.org", "87.5"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("report contains ANSI escapes")
	}

	if out := Report(sampleRows(), "  ", record.DefaultDateLayout, at); !strings.Contains(out, "Showing all applications\n") {
		t.Fatalf("unscoped report heading:\n%s", out)
	}
}

func TestExporter_PrintRunsCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	dir := t.TempDir()
	marker := filepath.Join(dir, "printed")
	script := filepath.Join(dir, "print.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\ncp \"$1\" "+marker+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	e := New(dir, "", script)

	path, err := e.Print(context.Background(), sampleRows(), "")
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	if path != filepath.Join(dir, ReportName) {
		t.Fatalf("path = %s", path)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("print command did not run: %v", err)
	}
}

func TestExporter_PrintCommandFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses false")
	}
	e := New(t.TempDir(), "", "false")
	path, err := e.Print(context.Background(), sampleRows(), "")
	if !errors.Is(err, ErrPrint) {
		t.Fatalf("err = %v, want ErrPrint", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("report should still be written: %v", statErr)
	}
}
