package table

import (
	"strconv"
	"strings"

	"github.com/five82/docket/internal/record"
)

// Column identifies a table column.
type Column int

const (
	ColumnID Column = iota
	ColumnApplicationID
	ColumnDate
	ColumnName
	ColumnCourse
	ColumnModules
	ColumnAverage
	ColumnCV
	ColumnStatus
)

// Columns lists the table columns in display order.
var Columns = []Column{
	ColumnID,
	ColumnApplicationID,
	ColumnDate,
	ColumnName,
	ColumnCourse,
	ColumnModules,
	ColumnAverage,
	ColumnCV,
	ColumnStatus,
}

type kind int

const (
	kindString kind = iota
	kindNumber
	kindDate
)

var columnTitles = map[Column]string{
	ColumnID:            "ID",
	ColumnApplicationID: "App. ID",
	ColumnDate:          "Date",
	ColumnName:          "Name",
	ColumnCourse:        "Course",
	ColumnModules:       "# Modules",
	ColumnAverage:       "Average",
	ColumnCV:            "CV",
	ColumnStatus:        "Status",
}

// Title returns the header label.
func (c Column) Title() string {
	return columnTitles[c]
}

// Sortable reports whether the column can be sorted. Only the CV column is not.
func (c Column) Sortable() bool {
	return c != ColumnCV
}

func (c Column) kind() kind {
	switch c {
	case ColumnID, ColumnModules, ColumnAverage:
		return kindNumber
	case ColumnDate:
		return kindDate
	default:
		return kindString
	}
}

// Text renders the cell for r as plain text.
func (c Column) Text(r record.Record, dateLayout string) string {
	switch c {
	case ColumnID:
		return strconv.FormatInt(r.ID, 10)
	case ColumnApplicationID:
		return r.Identifier()
	case ColumnDate:
		return r.DisplayDate(dateLayout)
	case ColumnName:
		return r.FullName
	case ColumnCourse:
		return r.CourseCode
	case ColumnModules:
		return strconv.Itoa(r.ModuleCount())
	case ColumnAverage:
		return r.AverageLabel()
	case ColumnCV:
		return r.CV.Label()
	case ColumnStatus:
		return r.Status.String()
	}
	return ""
}

func (c Column) number(r record.Record) float64 {
	switch c {
	case ColumnID:
		return float64(r.ID)
	case ColumnModules:
		return float64(r.ModuleCount())
	case ColumnAverage:
		return r.Average()
	}
	return 0
}

// compare orders a and b by column c, ascending.
func (c Column) compare(a, b record.Record) int {
	switch c.kind() {
	case kindNumber:
		x, y := c.number(a), c.number(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case kindDate:
		ta, okA := a.SubmittedAt()
		tb, okB := b.SubmittedAt()
		switch {
		case okA && okB:
			return ta.Compare(tb)
		case okA:
			return 1
		case okB:
			return -1
		}
		return strings.Compare(a.SubmissionDate, b.SubmissionDate)
	}
	return strings.Compare(c.Text(a, ""), c.Text(b, ""))
}
