package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
)

func TestExport_Metadata(t *testing.T) {
	single, err := Export(table([]string{"a"}), ModeSingle)
	require.NoError(t, err)
	assert.Equal(t, "pi_database_search.xlsx", single.FileName)
	assert.Equal(t, XLSXContentType, single.ContentType)
	assert.NotEmpty(t, single.Data)

	multi, err := Export(table([]string{"a"}), ModeMulti)
	require.NoError(t, err)
	assert.Equal(t, "consolidated_master_list.xlsx", multi.FileName)
}

func TestExport_RoundTrip(t *testing.T) {
	b := NewBasket()
	b.Add(table([]string{"Name", "Research Field", "Interest", OriginColumn},
		[]string{"Ada", "Skin", "DNA repair", "a.csv"},
		[]string{"Bob", "", "Hair growth", "b.csv"},
		[]string{"Cy", "Bone", "0042", "b.csv"},
	))
	contents := b.Contents()

	art, err := Export(contents, ModeMulti)
	require.NoError(t, err)

	t.Run("excelize", func(t *testing.T) {
		f, err := excelize.OpenReader(bytes.NewReader(art.Data))
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, []string{ExportSheet}, f.GetSheetList())

		rows, err := f.GetRows(ExportSheet)
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, contents.Columns, rows[0])
		for i, want := range contents.Records() {
			assert.Equal(t, want, pad(rows[i+1], len(want)), "row %d", i)
		}
	})

	t.Run("independent reader", func(t *testing.T) {
		wb, err := xlsx.OpenBinary(art.Data)
		require.NoError(t, err)
		require.Len(t, wb.Sheets, 1)

		sheet := wb.Sheets[0]
		var got [][]string
		for _, row := range sheet.Rows {
			var rec []string
			for _, cell := range row.Cells {
				rec = append(rec, cell.String())
			}
			got = append(got, pad(rec, len(contents.Columns)))
		}

		require.Len(t, got, 4)
		assert.Equal(t, contents.Columns, got[0])
		assert.Equal(t, contents.Records(), got[1:])
	})
}

func TestExport_EmptyBasket(t *testing.T) {
	art, err := Export(NewBasket().Contents(), ModeSingle)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(art.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExport_HeaderOnly(t *testing.T) {
	art, err := Export(table([]string{"Name", "Field"}), ModeSingle)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(art.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "Field"}}, rows)
}

func pad(rec []string, n int) []string {
	for len(rec) < n {
		rec = append(rec, "")
	}
	return rec
}
