package reader

// pdf.go recovers a table from text-based PDFs. PDF has no table structure,
// only positioned text chunks, so the reader groups chunks into visual rows
// by Y coordinate (within a small tolerance), orders each row by X, and
// treats the first recovered row as the header. This works for the
// machine-generated order PDFs the destination systems email around; scanned
// documents have no text layer and are rejected with a clear error.

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// yTolerance is the maximum vertical distance, in PDF points, between text
// chunks considered part of the same visual row.
const yTolerance = 2.0

type pdfRow struct {
	y     float64
	cells []pdfCell
}

type pdfCell struct {
	x    float64
	text string
}

// ReadPDF extracts positioned text from every page and reassembles it into a
// Table.
func ReadPDF(data []byte) (_ *Table, err error) {
	// The pdf library panics on some malformed files instead of returning
	// an error; a corrupt upload must not take the server down.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("open pdf: malformed file: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var rows []pdfRow
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows = append(rows, groupPageRows(page.Content().Text)...)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no text found in pdf; the file may contain only scanned images")
	}

	return tableFromRows(rowsToCells(rows))
}

// groupPageRows clusters one page's text chunks into visual rows by Y
// coordinate. Rows come back ordered top to bottom (PDF Y grows upward).
func groupPageRows(texts []pdf.Text) []pdfRow {
	var rows []pdfRow

	for _, t := range texts {
		content := strings.TrimSpace(t.S)
		if content == "" {
			continue
		}

		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) < yTolerance {
				rows[i].cells = append(rows[i].cells, pdfCell{x: t.X, text: content})
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, pdfRow{y: t.Y, cells: []pdfCell{{x: t.X, text: content}}})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	return rows
}

// rowsToCells orders each row's cells left to right.
func rowsToCells(rows []pdfRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row.cells, func(i, j int) bool { return row.cells[i].x < row.cells[j].x })

		cells := make([]string, 0, len(row.cells))
		for _, c := range row.cells {
			cells = append(cells, c.text)
		}
		out = append(out, cells)
	}
	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
