package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastWarning
	toastError
)

type toast struct {
	id   int
	kind toastKind
	text string
}

type toastExpiredMsg struct{ id int }

// pushToast shows a notification and schedules its dismissal. Only the newest
// MaxToasts are kept.
func (m *Model) pushToast(kind toastKind, text string) tea.Cmd {
	m.nextToast++
	id := m.nextToast
	m.toasts = append(m.toasts, toast{id: id, kind: kind, text: text})
	if len(m.toasts) > MaxToasts {
		m.toasts = m.toasts[len(m.toasts)-MaxToasts:]
	}
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) dismissToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
			return
		}
	}
}

func (m Model) toastColor(kind toastKind) string {
	switch kind {
	case toastSuccess:
		return m.theme.Success
	case toastWarning:
		return m.theme.Warning
	case toastError:
		return m.theme.Danger
	default:
		return m.theme.Info
	}
}

// renderToasts returns one line per toast, newest last.
func (m Model) renderToasts() []string {
	lines := make([]string, 0, len(m.toasts))
	width := min(ToastWidth, max(m.width-4, 10))
	for _, t := range m.toasts {
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(m.toastColor(t.kind))).
			Foreground(lipgloss.Color(m.theme.Background)).
			Bold(t.kind == toastError).
			Padding(0, 1)
		lines = append(lines, style.Render(truncate(t.text, width-2)))
	}
	return lines
}

// overlayToasts stacks toasts at the bottom-right of content, directly above
// its last line, keeping whatever was on the left of each replaced line.
func overlayToasts(content string, toasts []string, width int) string {
	if len(toasts) == 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	bottom := len(lines) - 2
	for i := len(toasts) - 1; i >= 0 && bottom >= 0; i-- {
		t := toasts[i]
		tw := ansi.StringWidth(t)
		left := max(width-tw-1, 0)
		kept := ansi.Truncate(lines[bottom], left, "")
		pad := strings.Repeat(" ", max(left-ansi.StringWidth(kept), 0))
		lines[bottom] = kept + pad + t
		bottom--
	}
	return strings.Join(lines, "\n")
}
