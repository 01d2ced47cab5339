package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/five82/docket/internal/record"
	"github.com/five82/docket/internal/table"
)

// Report renders rows as an uncoloured text table with a short heading. scope
// describes the filters and sort that produced rows; empty means all rows.
func Report(rows []record.Record, scope, dateLayout string, generated time.Time) string {
	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Title()
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			line[i] = c.Text(r, dateLayout)
		}
		cells = append(cells, line)
	}

	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})

	var b strings.Builder
	fmt.Fprintf(&b, "Applications report\n")
	fmt.Fprintf(&b, "Generated %s, %d application(s)\n", generated.Format("2 Jan 2006 15:04"), len(rows))
	if scope = strings.TrimSpace(scope); scope == "" {
		scope = "all applications"
	}
	fmt.Fprintf(&b, "Showing %s\n\n", scope)
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}
