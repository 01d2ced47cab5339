// Package export writes the filtered application set to disk as CSV or as a
// plain-text report that can be handed to a print command.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/docket/internal/record"
	"github.com/five82/docket/internal/table"
)

const (
	// CSVName is the fixed file name of a CSV export.
	CSVName = "applications.csv"
	// ReportName is the fixed file name of a printable report.
	ReportName = "applications.txt"
)

// ErrPrint wraps failures from the configured print command.
var ErrPrint = errors.New("print report")

// Exporter writes exports into a single directory.
type Exporter struct {
	dir          string
	dateLayout   string
	printCommand []string
	now          func() time.Time
}

// New returns an Exporter writing to dir. printCommand may be empty, in which
// case Print only writes the report.
func New(dir, dateLayout, printCommand string) *Exporter {
	if strings.TrimSpace(dateLayout) == "" {
		dateLayout = record.DefaultDateLayout
	}
	return &Exporter{
		dir:          dir,
		dateLayout:   dateLayout,
		printCommand: strings.Fields(printCommand),
		now:          time.Now,
	}
}

// Dir returns the export directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// CSV writes rows to <dir>/applications.csv, replacing any previous export.
func (e *Exporter) CSV(rows []record.Record) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, e.dateLayout); err != nil {
		return "", err
	}
	return e.write(CSVName, buf.Bytes())
}

// Print writes the report to <dir>/applications.txt and, when a print
// command is configured, runs it with the report path as the last argument.
func (e *Exporter) Print(ctx context.Context, rows []record.Record, scope string) (string, error) {
	report := Report(rows, scope, e.dateLayout, e.now())
	path, err := e.write(ReportName, []byte(report))
	if err != nil {
		return "", err
	}
	if len(e.printCommand) == 0 {
		return path, nil
	}

	args := append(append([]string(nil), e.printCommand[1:]...), path)
	cmd := exec.CommandContext(ctx, e.printCommand[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return path, fmt.Errorf("%w: %s: %w (%s)", ErrPrint, e.printCommand[0], err, msg)
		}
		return path, fmt.Errorf("%w: %s: %w", ErrPrint, e.printCommand[0], err)
	}
	return path, nil
}

// WriteCSV writes a header row followed by one line per record, using the
// table's column set.
func WriteCSV(w io.Writer, rows []record.Record, dateLayout string) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Title()
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		line := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			line[i] = c.Text(r, dateLayout)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// write replaces name in the export directory via a temp file and rename.
func (e *Exporter) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(e.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return path, nil
}

// CanPrint reports whether a print command is configured.
func (e *Exporter) CanPrint() bool {
	return len(e.printCommand) > 0
}
