package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/docket/internal/logtail"
)

type logMsg struct {
	entries []logtail.Entry
	err     error
}

// readLogCmd tails the session log file.
func (m Model) readLogCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return logMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logMsg{err: err}
		}
		return logMsg{entries: logtail.ParseLines(lines)}
	}
}

func (m *Model) handleLog(msg logMsg) {
	m.logView.Width = max(m.width-2, 0)
	m.logView.Height = max(m.height-3, 0)
	m.logView.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.SurfaceAlt))

	switch {
	case msg.err != nil:
		m.logView.SetContent(m.theme.Styles().DangerText.Render("Could not read log: " + msg.err.Error()))
	case len(msg.entries) == 0:
		m.logView.SetContent(m.theme.Styles().MutedText.Render("No activity yet"))
	default:
		m.logView.SetContent(m.renderLogEntries(msg.entries))
	}
	m.logView.GotoBottom()
}

func (m Model) renderLogEntries(entries []logtail.Entry) string {
	styles := m.theme.Styles()
	width := max(m.logView.Width-1, 10)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Level == "" {
			lines = append(lines, styles.FaintText.Render(truncate(e.Raw, width)))
			continue
		}
		ts := "        "
		if !e.Time.IsZero() {
			ts = e.Time.Local().Format("15:04:05")
		}
		level := fit(e.Level, 5, false)
		rest := e.Message
		if attrs := e.Text(); attrs != "" {
			rest += "  " + attrs
		}
		rest = truncate(rest, max(width-len(ts)-len(level)-2, 1))
		lines = append(lines,
			styles.FaintText.Render(ts)+" "+
				m.levelStyle(e.Level).Render(level)+" "+
				styles.Text.Render(rest))
	}
	return strings.Join(lines, "\n")
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch level {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}

// handleLogKey scrolls the activity log; esc, q or L closes it.
func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape, m.keys.ActivityLog), msg.String() == "q":
		m.showLog = false
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.readLogCmd()
	case msg.Type == tea.KeyCtrlC:
		m.shutdown()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// renderLog renders the activity log overlay.
func (m Model) renderLog() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	title := "Activity"
	if m.logPath != "" {
		title += " · " + truncateMiddle(m.logPath, max(m.width-20, 10))
	}
	box := m.renderTitledBox(title, m.logView.View(), m.width, max(m.height-1, 3))

	colon := bg.Render(":", styles.FaintText)
	hints := bg.Join([]string{
		bg.Render("j/k", styles.AccentText) + colon + bg.Render("Scroll", styles.MutedText),
		bg.Render("ctrl+r", styles.AccentText) + colon + bg.Render("Refresh", styles.MutedText),
		bg.Render("esc", styles.AccentText) + colon + bg.Render("Close", styles.MutedText),
	}, "  ")
	footer := styles.Footer.Width(m.width).MaxWidth(m.width).Render(hints)
	return box + "\n" + footer
}
