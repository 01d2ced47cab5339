package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", lines, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		level   string
		message string
		attrs   string
		hasTime bool
	}{
		{
			name:    "slog text",
			line:    `time=2025-07-10T09:00:00.000Z level=WARN msg="cv unavailable" component=review id=11 error="decode cv payload: illegal base64"`,
			level:   "WARN",
			message: "cv unavailable",
			attrs:   `component=review id=11 error="decode cv payload: illegal base64"`,
			hasTime: true,
		},
		{
			name:    "no attrs",
			line:    `time=2025-07-10T09:00:00Z level=INFO msg=started`,
			level:   "INFO",
			message: "started",
			hasTime: true,
		},
		{
			name:    "plain text",
			line:    "panic: something broke",
			message: "panic: something broke",
		},
		{
			name:    "unterminated quote",
			line:    `level=INFO msg="half`,
			message: `level=INFO msg="half`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Parse(tt.line)
			if e.Level != tt.level || e.Message != tt.message || e.Text() != tt.attrs {
				t.Fatalf("Parse() = level %q msg %q attrs %q", e.Level, e.Message, e.Text())
			}
			if e.Time.IsZero() == tt.hasTime {
				t.Fatalf("Parse() time = %v, hasTime %v", e.Time, tt.hasTime)
			}
			if e.Raw != tt.line {
				t.Fatalf("Raw = %q", e.Raw)
			}
		})
	}
}

func TestParseLines(t *testing.T) {
	got := ParseLines([]string{"level=ERROR msg=boom", "x"})
	if len(got) != 2 || got[0].Level != "ERROR" || got[1].Message != "x" {
		t.Fatalf("ParseLines() = %+v", got)
	}
}
