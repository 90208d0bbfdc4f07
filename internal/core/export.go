package core

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Export file names and content type.
const (
	SingleExportName = "pi_database_search.xlsx"
	MultiExportName  = "consolidated_master_list.xlsx"
	XLSXContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ExportSheet      = "Sheet1"
)

// Artifact is a generated download.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportName returns the download name used for mode.
func ExportName(mode Mode) string {
	if mode == ModeMulti {
		return MultiExportName
	}
	return SingleExportName
}

// Export writes t to a single-sheet workbook. Row 1 holds the column names.
// Absent cells are left empty. An empty table produces a header-only sheet.
func Export(t Table, mode Mode) (Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	if name := f.GetSheetName(0); name != ExportSheet {
		if err := f.SetSheetName(name, ExportSheet); err != nil {
			return Artifact{}, fmt.Errorf("name sheet: %w", err)
		}
	}

	for col, name := range t.Columns {
		if err := setCell(f, col, 1, name); err != nil {
			return Artifact{}, err
		}
	}

	for r, row := range t.Rows {
		for col := range t.Columns {
			if col >= len(row) || !row[col].Valid {
				continue
			}
			if err := setCell(f, col, r+2, row[col].Value); err != nil {
				return Artifact{}, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Artifact{}, fmt.Errorf("write workbook: %w", err)
	}

	return Artifact{
		FileName:    ExportName(mode),
		ContentType: XLSXContentType,
		Data:        buf.Bytes(),
	}, nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellStr(ExportSheet, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}
