package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Format is the declared shape of an uploaded source.
type Format string

const (
	FormatDelimited   Format = "delimited"
	FormatSpreadsheet Format = "spreadsheet"
	FormatDocument    Format = "document"
)

// Failure stages reported on SourceError.
const (
	StageRead   = "read"
	StageDecode = "decode"
	StageParse  = "parse"
)

// MaxFileSize is the maximum accepted source size. Overridden from config by the service.
var MaxFileSize int64 = 100 * 1024 * 1024

var (
	// ErrEmptySource is returned for zero-byte uploads.
	ErrEmptySource = errors.New("empty file")

	// ErrFileTooLarge is returned when a source exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedFormat is returned when no reader handles a format.
	ErrUnsupportedFormat = errors.New("unsupported source format")
)

// Source is one uploaded file.
type Source struct {
	Name string
	Data []byte
}

// Format returns the format implied by the source's file name.
func (s Source) Format() Format {
	return DetectFormat(s.Name)
}

// SourceError reports a failure reading one specific source.
type SourceError struct {
	Source string
	Stage  string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("could not read %s: %s: %v", e.Source, e.Stage, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// DetectFormat maps a file name to a Format using only its extension:
// .csv is delimited text, .pdf is a document, anything else is a spreadsheet.
func DetectFormat(name string) Format {
	return formatForExtension(strings.ToLower(filepath.Ext(name)))
}

// ReadSource converts a source into a raw Table using the reader registered
// for its format. Errors are always *SourceError.
func ReadSource(ctx context.Context, src Source) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, &SourceError{Source: src.Name, Stage: StageRead, Err: err}
	}
	if len(src.Data) == 0 {
		return Table{}, &SourceError{Source: src.Name, Stage: StageRead, Err: ErrEmptySource}
	}
	if int64(len(src.Data)) > MaxFileSize {
		return Table{}, &SourceError{
			Source: src.Name,
			Stage:  StageRead,
			Err:    fmt.Errorf("%w: %d bytes exceeds %dMB limit", ErrFileTooLarge, len(src.Data), MaxFileSize/(1024*1024)),
		}
	}

	format := src.Format()
	def, ok := ReaderFor(format)
	if !ok {
		return Table{}, &SourceError{Source: src.Name, Stage: StageRead, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)}
	}

	t, err := def.Read(ctx, src)
	if err != nil {
		var se *SourceError
		if errors.As(err, &se) {
			return Table{}, se
		}
		return Table{}, &SourceError{Source: src.Name, Stage: StageParse, Err: err}
	}
	return t, nil
}

// tableFromRecords treats the first record as the header and the rest as data.
// Short rows are padded with absent cells. A row longer than the header is an
// error when strict is set; otherwise the header is widened with unnamed columns.
func tableFromRecords(records [][]string, strict bool) (Table, error) {
	if len(records) == 0 {
		return Table{}, nil
	}

	rawHeader := records[0]
	width := len(rawHeader)
	for i, rec := range records[1:] {
		if len(rec) <= width {
			continue
		}
		if strict {
			return Table{}, fmt.Errorf("line %d: expected %d fields, saw %d", i+2, len(rawHeader), len(rec))
		}
		width = len(rec)
	}
	if width > len(rawHeader) {
		rawHeader = append(append([]string(nil), rawHeader...), make([]string, width-len(rawHeader))...)
	}

	t := Table{Columns: headerNames(rawHeader), Rows: make([]Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := make(Row, width)
		for j, v := range rec {
			row[j] = TextCell(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// headerNames names unnamed columns "Unnamed: <i>" and suffixes repeats
// with ".1", ".2" so every column name is unique.
func headerNames(raw []string) []string {
	names := make([]string, len(raw))
	for i, h := range raw {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		names[i] = h
	}
	return uniqueNames(names)
}

// uniqueNames suffixes duplicate names in place order, first occurrence unchanged.
func uniqueNames(names []string) []string {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	counts := make(map[string]int)
	for i, n := range names {
		name := n
		for used[name] {
			counts[n]++
			name = n + "." + strconv.Itoa(counts[n])
		}
		used[name] = true
		out[i] = name
	}
	return out
}
