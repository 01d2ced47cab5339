package ui

import (
	"fmt"
	"strconv"
)

// renderMain composes header, command bar, table box and footer, then lays
// the toasts over the bottom-right corner of the table.
func (m Model) renderMain() string {
	header := m.renderHeader()
	cmdBar := m.renderCommandBar()
	footer := m.renderFooter()

	boxHeight := max(m.height-headerLines-footerLines, 3)
	title := "Applications"
	if d := m.table.Describe(); d != "" {
		title += " · " + d
	}
	content := m.renderTable(m.width-2, boxHeight-2)
	box := m.renderTitledBox(title, content, m.width, boxHeight)
	box = overlayToasts(box, m.renderToasts(), m.width)

	return header + "\n" + cmdBar + "\n" + box + "\n" + footer
}

// renderFooter renders pagination, page size and the bulk action hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	v := m.view

	nav := func(label string, enabled bool) string {
		if enabled {
			return bg.Render(label, styles.AccentText)
		}
		return bg.Render(label, styles.FaintText)
	}

	pager := nav("«", v.CanPrev) + bg.Space() + nav("‹", v.CanPrev) + bg.Space() +
		bg.Render(fmt.Sprintf("Page %d of %d", v.PageIndex+1, v.PageCount), styles.Text) +
		bg.Space() + nav("›", v.CanNext) + bg.Space() + nav("»", v.CanNext)

	hasSelection := v.Selected > 0
	hint := func(k, desc string) string {
		colon := bg.Render(":", styles.FaintText)
		if !hasSelection {
			return bg.Render(k, styles.FaintText) + colon + bg.Render(desc, styles.FaintText)
		}
		return bg.Render(k, styles.AccentText) + colon + bg.Render(desc, styles.MutedText)
	}

	segments := []string{
		pager,
		bg.Label("Rows", strconv.Itoa(v.PageSize)+" per page", styles.MutedText, styles.Text),
		bg.Label("Selected", strconv.Itoa(v.Selected), styles.MutedText, styles.AccentText),
		hint("B", "Approve selected"),
		hint("X", "Reject selected"),
	}
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(bg.Join(segments, "  "))
}
