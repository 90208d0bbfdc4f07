package core

// streaming.go provides the text decoding layer for delimited sources.
//
//   - BOMSkippingReader: Removes UTF-8 BOM (0xEF 0xBB 0xBF) from Windows files
//   - NewTextReader: UTF-8 first, Windows-1252 on invalid UTF-8

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Text encodings tried for delimited sources, in order.
const (
	EncodingUTF8   = "utf-8"
	EncodingCP1252 = "cp1252"
)

// ErrUndecodable is returned when text is neither UTF-8 nor Windows-1252.
var ErrUndecodable = fmt.Errorf("text is not %s or %s", EncodingUTF8, EncodingCP1252)

// NewTextReader returns a UTF-8 reader over data and the encoding it was
// decoded from. Data that is not valid UTF-8 is retried once as Windows-1252.
// Bytes that code page leaves undefined fail the retry.
func NewTextReader(data []byte) (io.Reader, string, error) {
	if utf8.Valid(data) {
		return NewBOMSkippingReader(bytes.NewReader(data)), EncodingUTF8, nil
	}

	if i := undefinedCP1252(data); i >= 0 {
		return nil, "", fmt.Errorf("%w: byte 0x%02X at offset %d", ErrUndecodable, data[i], i)
	}

	return transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder()), EncodingCP1252, nil
}

// undefinedCP1252 returns the offset of the first byte with no Windows-1252
// mapping, or -1.
func undefinedCP1252(data []byte) int {
	for i, b := range data {
		switch b {
		case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
			return i
		}
	}
	return -1
}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
// The UTF-8 BOM is 0xEF 0xBB 0xBF and is commonly added by Windows programs.
type BOMSkippingReader struct {
	reader     io.Reader
	bomChecked bool
	buf        [3]byte
	pending    []byte // Non-BOM bytes consumed during the check
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{
		reader: r,
	}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.bomChecked {
		r.bomChecked = true

		n, err := io.ReadFull(r.reader, r.buf[:])
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return 0, err
		}
		if !(n == 3 && r.buf[0] == 0xEF && r.buf[1] == 0xBB && r.buf[2] == 0xBF) {
			r.pending = r.buf[:n]
		}
	}

	if len(r.pending) > 0 {
		copied := copy(p, r.pending)
		r.pending = r.pending[copied:]
		return copied, nil
	}

	return r.reader.Read(p)
}
