package core

import (
	"sort"
	"strings"
)

// Evaluate filters t by q. Filters apply in order (origin, category,
// interest, general) and a row must pass all of them. Absent cells never
// match. Contains tests are case-insensitive substring checks. The origin
// filter is ignored for tables without an OriginColumn.
func Evaluate(t Table, roles Roles, q Query) Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}

	originIdx := -1
	if q.Origin != "" && q.Origin != AllOrigins {
		originIdx = t.Index(OriginColumn)
	}
	categoryIdx := roleIndex(t, roles.Category)
	interestIdx := roleIndex(t, roles.Interest)

	filterCategory := q.Category != "" && q.Category != AllCategories && categoryIdx >= 0
	interest := strings.ToLower(q.Interest)
	general := strings.ToLower(q.General)

	// Interest falls back to the category column, then to every column.
	interestCols := []int(nil)
	switch {
	case interestIdx >= 0:
		interestCols = []int{interestIdx}
	case categoryIdx >= 0:
		interestCols = []int{categoryIdx}
	}

	for _, row := range t.Rows {
		if originIdx >= 0 && !cellEquals(row, originIdx, q.Origin) {
			continue
		}
		if filterCategory && !cellEquals(row, categoryIdx, q.Category) {
			continue
		}
		if interest != "" && !rowContains(row, interestCols, interest) {
			continue
		}
		if general != "" && !rowContains(row, nil, general) {
			continue
		}
		out.Rows = append(out.Rows, append(Row(nil), row...))
	}

	return out
}

func roleIndex(t Table, column string) int {
	if column == "" {
		return -1
	}
	return t.Index(column)
}

func cellEquals(row Row, col int, want string) bool {
	if col < 0 || col >= len(row) || !row[col].Valid {
		return false
	}
	return row[col].Value == want
}

// rowContains checks cols, or every cell when cols is nil. needle must be lower-cased.
func rowContains(row Row, cols []int, needle string) bool {
	if cols == nil {
		for _, c := range row {
			if c.Valid && strings.Contains(strings.ToLower(c.Value), needle) {
				return true
			}
		}
		return false
	}
	for _, i := range cols {
		if i < len(row) && row[i].Valid && strings.Contains(strings.ToLower(row[i].Value), needle) {
			return true
		}
	}
	return false
}

// CategoryOptions returns AllCategories followed by the category column's
// distinct values in sorted order.
func CategoryOptions(t Table, roles Roles) []string {
	return withSentinel(AllCategories, distinct(t, roleIndex(t, roles.Category)))
}

// OriginOptions returns AllOrigins followed by the distinct origin tags.
func OriginOptions(t Table) []string {
	return withSentinel(AllOrigins, distinct(t, t.Index(OriginColumn)))
}

func withSentinel(sentinel string, values []string) []string {
	return append([]string{sentinel}, values...)
}

func distinct(t Table, col int) []string {
	if col < 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var values []string
	for _, row := range t.Rows {
		if col >= len(row) || !row[col].Valid {
			continue
		}
		v := row[col].Value
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
