package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode/utf8"
)

// ReadCSV parses CSV data into a Table. The first record is the header. Rows
// may have ragged lengths; short rows are padded with empty cells against the
// header.
func ReadCSV(data []byte) (*Table, error) {
	data = sanitizeUTF8(skipBOM(data))

	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return tableFromRows(records)
}

// skipBOM removes a UTF-8 byte order mark. Excel prepends one to every CSV
// export.
func skipBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// sanitizeUTF8 replaces invalid byte sequences with the Unicode replacement
// character so downstream string handling is safe regardless of the source
// encoding.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			out = append(out, []byte("�")...)
		} else {
			out = append(out, data[:size]...)
		}
		data = data[size:]
	}
	return out
}
