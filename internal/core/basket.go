package core

import (
	"strconv"
	"strings"
	"sync"
)

// Basket accumulates result rows for export. Its schema is the union of every
// table added to it, and it never holds two rows with identical content.
// A Basket is safe for concurrent use.
type Basket struct {
	mu      sync.RWMutex
	columns []string
	index   map[string]int
	rows    []Row
	keys    map[string]struct{}
}

// NewBasket returns an empty basket.
func NewBasket() *Basket {
	return &Basket{
		index: make(map[string]int),
		keys:  make(map[string]struct{}),
	}
}

// Add appends the rows of rs that are not already present, keeping the first
// occurrence of each. Returns the number of rows added.
func (b *Basket) Add(rs Table) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	positions := make([]int, len(rs.Columns))
	for i, c := range rs.Columns {
		pos, ok := b.index[c]
		if !ok {
			pos = len(b.columns)
			b.index[c] = pos
			b.columns = append(b.columns, c)
		}
		positions[i] = pos
	}

	added := 0
	for _, src := range rs.Rows {
		row := make(Row, len(b.columns))
		for i, pos := range positions {
			if i < len(src) {
				row[pos] = src[i]
			}
		}
		key := b.rowKey(row)
		if _, dup := b.keys[key]; dup {
			continue
		}
		b.keys[key] = struct{}{}
		b.rows = append(b.rows, row)
		added++
	}
	return added
}

// rowKey encodes the row's present (column, value) pairs. Absent cells are
// left out so the key is unchanged when later adds widen the schema.
func (b *Basket) rowKey(row Row) string {
	var sb strings.Builder
	for i, c := range row {
		if !c.Valid {
			continue
		}
		name := b.columns[i]
		sb.WriteString(strconv.Itoa(len(name)))
		sb.WriteByte(':')
		sb.WriteString(name)
		sb.WriteString(strconv.Itoa(len(c.Value)))
		sb.WriteByte(':')
		sb.WriteString(c.Value)
	}
	return sb.String()
}

// Reset empties the basket, schema included.
func (b *Basket) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.columns = nil
	b.rows = nil
	b.index = make(map[string]int)
	b.keys = make(map[string]struct{})
}

// Size returns the number of rows held.
func (b *Basket) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rows)
}

// Columns returns a copy of the basket schema.
func (b *Basket) Columns() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.columns...)
}

// Contents returns a copy of the basket as a Table. Rows added before the
// schema widened are padded with absent cells.
func (b *Basket) Contents() Table {
	b.mu.RLock()
	defer b.mu.RUnlock()

	t := Table{
		Columns: append([]string(nil), b.columns...),
		Rows:    make([]Row, len(b.rows)),
	}
	for i, row := range b.rows {
		r := make(Row, len(b.columns))
		copy(r, row)
		t.Rows[i] = r
	}
	return t
}
