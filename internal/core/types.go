// Package core provides the business logic for tabular search and export.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"strings"
)

// OriginColumn is the synthetic column that records which source a row came from.
// It is only added in multi-source mode.
const OriginColumn = "Origin_File"

// Selector sentinels meaning "no restriction". An empty selection means the same.
const (
	AllOrigins    = "All Databases"
	AllCategories = "All Categories"
)

// Cell is a single table value: text, or absent when Valid is false.
type Cell struct {
	Value string
	Valid bool
}

// Absent is the missing-value marker used for padding and empty input.
var Absent = Cell{}

// TextCell converts raw text to a Cell. Empty text becomes absent.
func TextCell(s string) Cell {
	if s == "" {
		return Absent
	}
	return Cell{Value: s, Valid: true}
}

// IsBlank reports whether the cell is absent or holds only whitespace.
func (c Cell) IsBlank() bool {
	return !c.Valid || strings.TrimSpace(c.Value) == ""
}

// String returns the text projection of the cell; absent cells render empty.
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return c.Value
}

// Row holds one cell per column, aligned with the owning Table's Columns.
type Row []Cell

// Table is an ordered sequence of rows sharing a column schema.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column, or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table schema contains name.
func (t Table) HasColumn(name string) bool {
	return t.Index(name) >= 0
}

// Cell returns the value of column col in row r. Out-of-range positions are absent.
func (t Table) Cell(r, col int) Cell {
	if r < 0 || r >= len(t.Rows) || col < 0 || col >= len(t.Rows[r]) {
		return Absent
	}
	return t.Rows[r][col]
}

// Clone returns a deep copy so callers can hand tables across stages without aliasing.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append(Row(nil), row...)
	}
	return out
}

// Records renders the table as string records for display or CSV output.
// Absent cells become empty strings.
func (t Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j := range t.Columns {
			if j < len(row) {
				rec[j] = row[j].String()
			}
		}
		out[i] = rec
	}
	return out
}

// Role names a classified column dimension.
type Role string

const (
	RoleCategory Role = "category"
	RoleInterest Role = "interest"
)

// Roles is the result of column classification. An empty name means no
// column was found for that role.
type Roles struct {
	Category string `json:"category"`
	Interest string `json:"interest"`
}

// Query is one compound search. Empty fields (or the All* sentinels) do not
// restrict the result.
type Query struct {
	Origin   string `json:"origin"`
	Category string `json:"category"`
	Interest string `json:"interest"`
	General  string `json:"general"`
}

// Mode selects single- or multi-source processing.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// ParseMode converts user input to a Mode. Unknown values fall back to ModeAuto.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSingle:
		return ModeSingle
	case ModeMulti:
		return ModeMulti
	default:
		return ModeAuto
	}
}

// Resolve picks a concrete mode for the given number of sources.
func (m Mode) Resolve(sources int) Mode {
	if m == ModeSingle || m == ModeMulti {
		return m
	}
	if sources > 1 {
		return ModeMulti
	}
	return ModeSingle
}

// SourceSummary describes one source that made it into the workspace.
type SourceSummary struct {
	Name    string `json:"name"`
	Format  Format `json:"format"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// SourceFailure describes a source that was omitted from consolidation.
type SourceFailure struct {
	Name  string `json:"name"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}
