package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/docket/internal/record"
	"github.com/five82/docket/internal/table"
)

const (
	checkboxWidth = 4 // "[x] "
	minNameWidth  = 12
	detailIndent  = 4
)

type columnSpec struct {
	col   table.Column
	width int
	right bool
}

var columnWidths = map[table.Column]columnSpec{
	table.ColumnID:            {table.ColumnID, 4, true},
	table.ColumnApplicationID: {table.ColumnApplicationID, 14, false},
	table.ColumnDate:          {table.ColumnDate, 11, false},
	table.ColumnName:          {table.ColumnName, minNameWidth, false},
	table.ColumnCourse:        {table.ColumnCourse, 8, false},
	table.ColumnModules:       {table.ColumnModules, 9, true},
	table.ColumnAverage:       {table.ColumnAverage, 7, true},
	table.ColumnCV:            {table.ColumnCV, 9, false},
	table.ColumnStatus:        {table.ColumnStatus, 9, false},
}

// Columns are dropped in this order when the terminal is too narrow.
var dropOrder = []table.Column{
	table.ColumnCourse,
	table.ColumnModules,
	table.ColumnApplicationID,
	table.ColumnCV,
	table.ColumnDate,
}

// layoutColumns picks the columns that fit width and gives the name column
// whatever is left over.
func layoutColumns(width int) []columnSpec {
	hidden := make(map[table.Column]bool)
	var specs []columnSpec
	for drop := 0; ; drop++ {
		specs = specs[:0]
		used := checkboxWidth
		for _, c := range table.Columns {
			if hidden[c] {
				continue
			}
			spec := columnWidths[c]
			specs = append(specs, spec)
			used += spec.width + 1
		}
		if used <= width || drop >= len(dropOrder) {
			extra := max(width-used, 0)
			for i := range specs {
				if specs[i].col == table.ColumnName {
					specs[i].width += extra
				}
			}
			return specs
		}
		hidden[dropOrder[drop]] = true
	}
}

// renderTable renders the column header, the current page and any expanded
// detail lines.
func (m Model) renderTable(width, height int) string {
	bgColor := m.theme.SurfaceAlt
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles().WithBackground(bgColor)

	if len(m.view.Rows) == 0 {
		var msg string
		switch {
		case m.snapshot.Loading && !m.snapshot.Loaded:
			msg = m.spinner.View() + " Loading applications"
		case m.view.Total == 0:
			msg = "No applications"
		default:
			msg = "No applications match"
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			bg.Render(msg, styles.MutedText),
			lipgloss.WithWhitespaceBackground(lipgloss.Color(bgColor)))
	}

	specs := layoutColumns(width)
	lines := []string{m.renderColumnHeader(specs, width)}
	for i, rec := range m.view.Rows {
		lines = append(lines, m.renderRow(rec, specs, width, i == m.cursor))
		if m.table.IsExpanded(rec.ID) {
			lines = append(lines, m.renderDetail(rec, width)...)
		}
	}

	// Keep the cursor row on screen when expansion overflows the box.
	if len(lines) > height && height > 1 {
		cursorLine := 1
		for i := 0; i < m.cursor; i++ {
			cursorLine++
			if m.table.IsExpanded(m.view.Rows[i].ID) {
				cursorLine += len(m.renderDetail(m.view.Rows[i], width))
			}
		}
		start := max(cursorLine-height+1, 0)
		body := lines[1:]
		start = min(start, len(body)-(height-1))
		lines = append(lines[:1:1], body[start:start+height-1]...)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderColumnHeader(specs []columnSpec, width int) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	titleStyle := styles.MutedText.Bold(true)
	focusStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.FocusBg)).
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true)
	focused := table.Columns[m.focusCol]

	parts := []string{bg.Spaces(checkboxWidth)}
	for _, spec := range specs {
		title := spec.col.Title()
		if k, ok := m.table.SortFor(spec.col); ok {
			title += " " + sortArrow(k)
		}
		cell := fit(title, spec.width, spec.right)
		if spec.col == focused {
			parts = append(parts, focusStyle.Render(cell))
		} else {
			parts = append(parts, bg.Render(cell, titleStyle))
		}
	}
	return bg.FillLine(bg.Join(parts, " "), width)
}

func (m Model) renderRow(rec record.Record, specs []columnSpec, width int, cursor bool) string {
	bgColor := m.theme.SurfaceAlt
	switch {
	case cursor:
		bgColor = m.theme.SelectionBg
	case m.table.IsSelected(rec.ID):
		bgColor = m.theme.MarkedBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles().WithBackground(bgColor)
	textStyle := styles.Text
	if cursor {
		textStyle = textStyle.Foreground(lipgloss.Color(m.theme.SelectionText))
	}

	box := "[ ] "
	if m.table.IsSelected(rec.ID) {
		box = "[x] "
	}
	parts := []string{bg.Render(box, styles.AccentText)}

	for _, spec := range specs {
		text := spec.col.Text(rec, m.table.DateLayout)
		style := textStyle
		switch spec.col {
		case table.ColumnStatus:
			style = styles.StatusText(rec.Status)
			if target, busy := m.inFlight[rec.ID]; busy {
				text = ellipsis + target.String()
				style = styles.InfoText
			}
		case table.ColumnCV:
			if !rec.CV.Available() {
				style = styles.FaintText
			}
		}
		parts = append(parts, bg.Render(fit(text, spec.width, spec.right), style))
	}
	return bg.FillLine(bg.Join(parts, " "), width)
}

// renderDetail renders the expanded lines under a row.
func (m Model) renderDetail(rec record.Record, width int) []string {
	bgColor := m.theme.SurfaceAlt
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles().WithBackground(bgColor)
	inner := max(width-detailIndent, 1)
	indent := bg.Spaces(detailIndent)

	line := func(label, value string, vs lipgloss.Style) string {
		value = truncate(value, max(inner-len(label)-1, 1))
		return bg.FillLine(indent+bg.Label(label, value, styles.MutedText, vs), width)
	}

	lines := []string{
		line("Email", rec.Email, styles.Text),
		line("Location", rec.Location(), styles.Text),
	}

	if rec.CV.Available() {
		cvText := truncateMiddle(rec.CV.Path, max(inner-20, 10))
		if rec.CV.Pages > 0 {
			cvText += fmt.Sprintf(" (%s)", plural(rec.CV.Pages, "page"))
		}
		lines = append(lines, line("CV", cvText, styles.Text))
	} else {
		lines = append(lines, line("CV", "not available", styles.FaintText))
	}

	if len(rec.Modules) == 0 {
		lines = append(lines, line("Modules", "none", styles.FaintText))
		return lines
	}
	lines = append(lines, line("Modules", fmt.Sprintf("%d, average %s", len(rec.Modules), rec.AverageLabel()), styles.Text))
	for _, mod := range rec.Modules {
		text := truncate(fmt.Sprintf("• %s: %g", mod.Name, mod.Mark), max(inner-2, 1))
		lines = append(lines, bg.FillLine(indent+bg.Spaces(2)+bg.Render(text, styles.Text), width))
	}
	return lines
}

// renderTitledBox renders content in a box with the title embedded in the top
// border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	bgColor := lipgloss.Color(m.theme.SurfaceAlt)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Border))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bgColor)
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	padded := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		padded = append(padded,
			bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(padded, "\n") + "\n" + bottomBorder
}
