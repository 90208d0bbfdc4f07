package core

import (
	"context"
	"encoding/csv"
	"fmt"
)

func init() {
	RegisterReader(ReaderDefinition{
		Format:     FormatDelimited,
		Label:      "Delimited text",
		Extensions: []string{".csv"},
		Read:       readDelimited,
	})
}

// readDelimited decodes UTF-8 with a Windows-1252 retry, then parses the
// records. Quotes are lenient and short rows are padded, but a row wider
// than its header fails the source.
func readDelimited(ctx context.Context, src Source) (Table, error) {
	text, _, err := NewTextReader(src.Data)
	if err != nil {
		return Table{}, &SourceError{Source: src.Name, Stage: StageDecode, Err: err}
	}

	r := csv.NewReader(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return Table{}, &SourceError{Source: src.Name, Stage: StageParse, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}

	t, err := tableFromRecords(records, true)
	if err != nil {
		return Table{}, &SourceError{Source: src.Name, Stage: StageParse, Err: fmt.Errorf("tokenizing data: %w", err)}
	}
	return t, nil
}
