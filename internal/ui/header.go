package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/docket/internal/table"
)

// renderHeader renders the status bar: logo, source, counts and the active
// filters.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	segments := []string{bg.Render("docket", styles.Logo)}
	if m.sourceLabel != "" && !compact {
		segments = append(segments, bg.Render(m.sourceLabel, styles.FaintText))
	}

	switch {
	case m.snapshot.Loading:
		segments = append(segments, bg.Render(m.spinner.View()+" Loading", styles.InfoText))
	case m.snapshot.LastError != nil && !m.snapshot.Loaded:
		segments = append(segments, bg.Render("Load failed", styles.DangerText))
	}

	segments = append(segments,
		bg.Label("Total", strconv.Itoa(m.view.Total), styles.MutedText, styles.Text),
		bg.Label("Showing", strconv.Itoa(len(m.view.Filtered)), styles.MutedText, styles.Text),
		bg.Label("Selected", strconv.Itoa(m.view.Selected), styles.MutedText, styles.AccentText),
	)

	status := "All"
	statusStyle := styles.Text
	if m.table.Status != "" {
		status = m.table.Status.String()
		statusStyle = styles.StatusText(m.table.Status).Background(lipgloss.Color(m.theme.Surface))
	}
	segments = append(segments, bg.Label("Status", status, styles.MutedText, statusStyle))

	if len(m.table.Sort) > 0 && !compact {
		k := m.table.Sort[0]
		segments = append(segments, bg.Label("Sort", k.Column.Title()+" "+sortArrow(k), styles.MutedText, styles.Text))
	}

	if q := strings.TrimSpace(m.table.Global); q != "" && !m.searching {
		segments = append(segments, bg.Render("/"+truncate(q, 20), styles.AccentText))
	}

	content := bg.Join(segments, "  ")
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(content)
}

// renderCommandBar renders the key hints, or the search box while searching.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.searching {
		return styles.Header.Width(m.width).MaxWidth(m.width).Render(m.search.View())
	}

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"/", "Search"},
		{"f", "Filter"},
		{"s", "Sort"},
		{"space", "Select"},
		{"enter", "Expand"},
		{"A/R/U", "Status"},
		{"E", "Export"},
		{"p", "Print"},
		{"?", "More"},
	}
	if m.width < LayoutCompactWidth {
		commands = []cmd{{"/", "Search"}, {"A/R", "Status"}, {"E", "Export"}, {"?", "More"}}
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(bg.Join(segments, "  "))
}

func sortArrow(k table.SortKey) string {
	if k.Desc {
		return "▼"
	}
	return "▲"
}
