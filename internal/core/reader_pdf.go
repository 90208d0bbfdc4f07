package core

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

func init() {
	RegisterReader(ReaderDefinition{
		Format:     FormatDocument,
		Label:      "PDF document",
		Extensions: []string{".pdf"},
		Read:       readDocument,
	})
}

// anchorTolerance is how far left of a column anchor (in points) a text
// fragment may start and still belong to that column.
const anchorTolerance = 2.0

// readDocument extracts at most one table per page and concatenates them in
// page order. The first extracted row is the header. A document with no
// table yields an empty Table.
func readDocument(ctx context.Context, src Source) (t Table, err error) {
	// The pdf package panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			t = Table{}
			err = &SourceError{Source: src.Name, Stage: StageParse, Err: fmt.Errorf("malformed document: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(src.Data), int64(len(src.Data)))
	if err != nil {
		return Table{}, &SourceError{Source: src.Name, Stage: StageDecode, Err: err}
	}

	var records [][]string
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return Table{}, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return Table{}, &SourceError{Source: src.Name, Stage: StageParse, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		records = append(records, pageTable(rows)...)
	}

	return tableFromRecords(records, false)
}

// pageTable lays a page's text rows onto columns. The first row with at
// least two fragments is the table header and its fragment positions become
// the column anchors. Rows above it are skipped. Each later fragment joins
// the rightmost anchor at or left of it.
func pageTable(rows pdf.Rows) [][]string {
	var anchors []float64
	var out [][]string

	for _, row := range rows {
		frags := fragments(row)
		if len(frags) == 0 {
			continue
		}

		if anchors == nil {
			if len(frags) < 2 {
				continue
			}
			rec := make([]string, len(frags))
			for i, f := range frags {
				anchors = append(anchors, f.X)
				rec[i] = f.S
			}
			out = append(out, rec)
			continue
		}

		rec := make([]string, len(anchors))
		for _, f := range frags {
			col := anchorFor(anchors, f.X)
			if rec[col] == "" {
				rec[col] = f.S
			} else {
				rec[col] += " " + f.S
			}
		}
		out = append(out, rec)
	}

	return out
}

// fragments returns a row's non-blank text pieces, trimmed, in X order.
func fragments(row *pdf.Row) []pdf.Text {
	if row == nil {
		return nil
	}
	frags := make([]pdf.Text, 0, len(row.Content))
	for _, txt := range row.Content {
		s := strings.TrimSpace(txt.S)
		if s == "" {
			continue
		}
		txt.S = s
		frags = append(frags, txt)
	}
	return frags
}

func anchorFor(anchors []float64, x float64) int {
	col := 0
	for i, a := range anchors {
		if x+anchorTolerance >= a {
			col = i
		}
	}
	return col
}
