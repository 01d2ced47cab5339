package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/record"
	"github.com/five82/docket/internal/review"
)

// Messages

type reloadMsg struct{}

type loadedMsg struct {
	result review.LoadResult
	err    error
}

type statusMsg struct {
	id      int64
	status  applications.Status
	applied bool
	err     error
}

type bulkConfirmedMsg struct {
	status applications.Status
}

type bulkMsg struct {
	result review.BulkResult
	err    error
}

type exportKind int

const (
	exportCSV exportKind = iota
	exportPrint
)

type exportMsg struct {
	kind    exportKind
	path    string
	count   int
	printed bool
	err     error
}

// Commands

// startLoad supersedes any in-flight load and fetches the collection again.
// The new generation is claimed here, on the update loop, so a cancelled
// predecessor can never be mistaken for the current load.
func (m *Model) startLoad() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	if m.cancelLoad != nil {
		m.cancelLoad()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelLoad = cancel

	gen := m.svc.BeginLoad()
	m.snapshot = m.store.Snapshot()

	svc := m.svc
	return func() tea.Msg {
		res, err := svc.Fetch(ctx, gen)
		return loadedMsg{result: res, err: err}
	}
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, review.ErrSuperseded) {
		return m, nil
	}
	m.refresh()
	if msg.err != nil {
		cmd := m.pushToast(toastError, "Failed to load applications: "+errorText(msg.err))
		return m, cmd
	}
	if msg.result.CVFailures > 0 {
		cmd := m.pushToast(toastWarning, fmt.Sprintf("%s could not be decoded", plural(msg.result.CVFailures, "CV")))
		return m, cmd
	}
	return m, nil
}

// setStatus sends a status change for the row under the cursor.
func (m *Model) setStatus(status applications.Status) tea.Cmd {
	rec, ok := m.currentRecord()
	if !ok || m.svc == nil {
		return nil
	}
	if _, busy := m.inFlight[rec.ID]; busy {
		return m.pushToast(toastInfo, "An update for "+rec.Identifier()+" is already in progress")
	}
	m.inFlight[rec.ID] = status

	svc, ctx, id := m.svc, m.ctx, rec.ID
	return func() tea.Msg {
		applied, err := svc.SetStatus(ctx, id, status)
		return statusMsg{id: id, status: status, applied: applied, err: err}
	}
}

func (m Model) handleStatus(msg statusMsg) (tea.Model, tea.Cmd) {
	delete(m.inFlight, msg.id)
	m.refresh()
	if msg.err != nil {
		cmd := m.pushToast(toastError, "Failed to update status: "+errorText(msg.err))
		return m, cmd
	}
	if !msg.applied {
		cmd := m.pushToast(toastInfo, "Status change was superseded by a reload")
		return m, cmd
	}
	cmd := m.pushToast(toastSuccess, fmt.Sprintf("Status set to %q", msg.status.String()))
	return m, cmd
}

// confirmBulk asks before changing the status of every selected row.
func (m *Model) confirmBulk(status applications.Status) tea.Cmd {
	n := len(m.selectedIDs())
	if n == 0 {
		return m.pushToast(toastInfo, "Select one or more applications first")
	}
	m.modal = confirmModal{
		title:   "Set status to " + status.String(),
		body:    fmt.Sprintf("Change the status of %s to %q?", plural(n, "selected application"), status.String()),
		confirm: bulkConfirmedMsg{status: status},
	}
	return nil
}

// bulkSetStatus sends status for every selected id. The selection is read
// once, here. Ids with an update already in flight are left out and stay
// selected.
func (m *Model) bulkSetStatus(status applications.Status) tea.Cmd {
	selected := m.selectedIDs()
	if len(selected) == 0 || m.svc == nil {
		return m.pushToast(toastInfo, "Select one or more applications first")
	}
	ids := make([]int64, 0, len(selected))
	for _, id := range selected {
		if _, busy := m.inFlight[id]; !busy {
			ids = append(ids, id)
		}
	}
	var skipped tea.Cmd
	if n := len(selected) - len(ids); n > 0 {
		if len(ids) == 0 {
			return m.pushToast(toastInfo, "Every selected application already has an update in progress")
		}
		skipped = m.pushToast(toastInfo, fmt.Sprintf("Skipped %s with an update in progress", plural(n, "application")))
	}
	for _, id := range ids {
		m.inFlight[id] = status
	}

	svc, ctx := m.svc, m.ctx
	send := func() tea.Msg {
		res, err := svc.BulkSetStatus(ctx, ids, status)
		return bulkMsg{result: res, err: err}
	}
	if skipped == nil {
		return send
	}
	return tea.Batch(skipped, send)
}

func (m Model) handleBulk(msg bulkMsg) (tea.Model, tea.Cmd) {
	res := msg.result
	for _, id := range res.Requested {
		delete(m.inFlight, id)
	}
	m.table.Deselect(res.Applied...)
	m.refresh()

	if msg.err == nil {
		cmd := m.pushToast(toastSuccess, fmt.Sprintf("Status set to %q for %s", res.Status.String(), plural(len(res.Applied), "application")))
		return m, cmd
	}

	var bulkErr *review.BulkError
	if !errors.As(msg.err, &bulkErr) {
		cmd := m.pushToast(toastError, "Bulk update failed: "+errorText(msg.err))
		return m, cmd
	}
	if bulkErr.Policy == review.AllOrNothing {
		cmd := m.pushToast(toastError, fmt.Sprintf("Bulk update failed (%d of %d requests); no changes applied", len(bulkErr.Failed), bulkErr.Total))
		return m, cmd
	}
	failed := make([]string, 0, len(bulkErr.Failed))
	for _, id := range bulkErr.FailedIDs() {
		failed = append(failed, fmt.Sprint(id))
	}
	cmd := m.pushToast(toastError, fmt.Sprintf("Updated %d of %d; failed: %s", len(res.Applied), bulkErr.Total, strings.Join(failed, ", ")))
	return m, cmd
}

// exportCSV writes every filtered row, in sort order, to the CSV file.
func (m *Model) exportCSV() tea.Cmd {
	if m.exporter == nil {
		return m.pushToast(toastError, "Export is not configured")
	}
	exp := m.exporter
	rows := record.CloneAll(m.view.Filtered)
	return func() tea.Msg {
		path, err := exp.CSV(rows)
		return exportMsg{kind: exportCSV, path: path, count: len(rows), err: err}
	}
}

// printReport writes the text report and hands it to the print command.
func (m *Model) printReport() tea.Cmd {
	if m.exporter == nil {
		return m.pushToast(toastError, "Printing is not configured")
	}
	exp, ctx := m.exporter, m.ctx
	rows := record.CloneAll(m.view.Filtered)
	scope := m.table.Describe()
	return func() tea.Msg {
		path, err := exp.Print(ctx, rows, scope)
		return exportMsg{kind: exportPrint, path: path, count: len(rows), printed: exp.CanPrint(), err: err}
	}
}

func (m Model) handleExport(msg exportMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("export failed", slog.String("path", msg.path), slog.Any("error", msg.err))
		cmd := m.pushToast(toastError, errorText(msg.err))
		return m, cmd
	}
	m.logger.Info("export written", slog.String("path", msg.path), slog.Int("rows", msg.count))
	switch {
	case msg.kind == exportCSV:
		cmd := m.pushToast(toastSuccess, fmt.Sprintf("Exported %s to %s", plural(msg.count, "row"), msg.path))
		return m, cmd
	case msg.printed:
		cmd := m.pushToast(toastSuccess, "Report sent to printer")
		return m, cmd
	default:
		cmd := m.pushToast(toastSuccess, "Report written to "+msg.path)
		return m, cmd
	}
}

// openCV launches the external viewer for the row under the cursor.
func (m *Model) openCV() tea.Cmd {
	rec, ok := m.currentRecord()
	if !ok {
		return nil
	}
	if !rec.CV.Available() {
		return m.pushToast(toastWarning, "No CV available for "+rec.Identifier())
	}
	if m.opener == nil {
		return m.pushToast(toastError, "No CV viewer configured")
	}
	if err := m.opener.Open(rec.CV); err != nil {
		m.logger.Error("open cv", slog.Int64("id", rec.ID), slog.Any("error", err))
		return m.pushToast(toastError, "Could not open CV: "+errorText(err))
	}
	return m.pushToast(toastInfo, "Opening CV for "+rec.FullName)
}

// errorText flattens err onto one line for a toast.
func errorText(err error) string {
	return strings.Join(strings.Fields(err.Error()), " ")
}
