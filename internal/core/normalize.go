package core

import (
	"regexp"
	"strings"
)

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// NormalizeHeader collapses each run of line breaks to one space and trims
// surrounding whitespace.
func NormalizeHeader(s string) string {
	return strings.TrimSpace(lineBreaks.ReplaceAllString(s, " "))
}

// Normalize returns a cleaned copy of t. Headers are normalized and made
// unique again, rows with no non-blank cell are dropped, and when origin is
// non-empty the OriginColumn is stamped with it on every row.
func Normalize(t Table, origin string) Table {
	raw := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		raw[i] = NormalizeHeader(c)
	}

	out := Table{Columns: headerNames(raw), Rows: make([]Row, 0, len(t.Rows))}

	originIdx := -1
	if origin != "" {
		originIdx = out.Index(OriginColumn)
		if originIdx < 0 {
			out.Columns = append(out.Columns, OriginColumn)
			originIdx = len(out.Columns) - 1
		}
	}

	for _, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		r := make(Row, len(out.Columns))
		copy(r, row)
		if originIdx >= 0 {
			r[originIdx] = TextCell(origin)
		}
		out.Rows = append(out.Rows, r)
	}

	return out
}

func blankRow(row Row) bool {
	for _, c := range row {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}
