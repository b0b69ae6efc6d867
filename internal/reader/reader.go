// Package reader turns uploaded order files into the generic table the
// conversion engine consumes: a header of column labels plus rows of cell
// text. Three formats are supported — CSV, Excel workbooks (.xlsx) and
// text-based PDFs — all reduced to the same Table shape so the engine never
// sees a format difference.
package reader

import (
	"fmt"
	"strings"

	"github.com/frescosur/conversor/internal/engine"
)

// Table is the generic tabular form of an input file.
type Table struct {
	// Columns holds the header labels in original order, cleaned of
	// spreadsheet artifacts.
	Columns []string

	// Rows holds one RawRow per data row, in source document order.
	Rows []engine.RawRow
}

// Kind identifies a supported input file format.
type Kind string

const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
	KindPDF  Kind = "pdf"
)

// Read sniffs the file format and parses the data into a Table.
func Read(filename string, data []byte) (*Table, error) {
	kind, err := Detect(filename, data)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindXLSX:
		return ReadXLSX(data)
	case KindPDF:
		return ReadPDF(data)
	default:
		return ReadCSV(data)
	}
}

// Detect determines the file kind from magic bytes first and the filename
// extension second. Content sniffing matters because operators routinely
// upload files with the wrong extension.
func Detect(filename string, data []byte) (Kind, error) {
	if len(data) >= 4 {
		// XLSX is a ZIP container (PK\x03\x04).
		if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
			return KindXLSX, nil
		}
		if string(data[:4]) == "%PDF" {
			return KindPDF, nil
		}
		// Legacy .xls is an OLE2 compound document, which excelize can
		// not open.
		if data[0] == 0xD0 && data[1] == 0xCF && data[2] == 0x11 && data[3] == 0xE0 {
			return "", fmt.Errorf("unsupported file type: legacy .xls workbook (save as .xlsx)")
		}
	}

	switch strings.ToLower(ext(filename)) {
	case ".csv", ".txt", "":
		return KindCSV, nil
	case ".xlsx":
		return KindXLSX, nil
	case ".pdf":
		return KindPDF, nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext(filename))
	}
}

func ext(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i:]
	}
	return ""
}

// tableFromRows builds a Table from a header row plus data rows, trimming
// labels and dropping rows past the header's width. Shared by the CSV and
// XLSX paths.
func tableFromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no table found: file is empty")
	}

	header := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		header = append(header, CleanCell(h))
	}

	t := &Table{Columns: header}
	for _, raw := range rows[1:] {
		row := make(engine.RawRow, len(header))
		for i, label := range header {
			if label == "" {
				continue
			}
			if i < len(raw) {
				row[label] = CleanCell(raw[i])
			} else {
				row[label] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("no data rows: file has a header but no data")
	}
	return t, nil
}

// CleanCell removes common spreadsheet export artifacts from a cell value:
// surrounding whitespace, the Excel formula prefix (="..."), and stray
// quoting.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
