package core

// Consolidate stacks tables vertically under the union of their columns.
// Columns keep first-seen order across the inputs and rows keep input order.
// Cells for columns a row's source lacked are absent.
func Consolidate(tables ...Table) Table {
	out := Table{}
	index := make(map[string]int)

	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for _, t := range tables {
		positions := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			positions[i] = index[c]
		}
		for _, row := range t.Rows {
			r := make(Row, len(out.Columns))
			for i, pos := range positions {
				if i < len(row) {
					r[pos] = row[i]
				}
			}
			out.Rows = append(out.Rows, r)
		}
	}

	return out
}
