package core

import (
	"bytes"
	"context"
	"errors"

	"github.com/xuri/excelize/v2"
)

func init() {
	RegisterReader(ReaderDefinition{
		Format:     FormatSpreadsheet,
		Label:      "Spreadsheet",
		Extensions: []string{".xlsx", ".xlsm", ".xls"},
		Fallback:   true,
		Read:       readSpreadsheet,
	})
}

// ErrNoSheets is returned for a workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// readSpreadsheet reads the first sheet. The first row is the header.
func readSpreadsheet(ctx context.Context, src Source) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(src.Data))
	if err != nil {
		return Table{}, &SourceError{Source: src.Name, Stage: StageDecode, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, &SourceError{Source: src.Name, Stage: StageParse, Err: ErrNoSheets}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, &SourceError{Source: src.Name, Stage: StageParse, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}

	return tableFromRecords(rows, false)
}
