package reader

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes a small xlsx in memory so the reader is tested against
// real excelize output rather than fixtures.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"EAN", "Descripcion", "Bultos", "Precio"},
		{"7798162980843", "Palta Hass Grande", 70, 1100.5},
		{"2979900003580", "Limon X Un", 21, 260},
	})

	table, err := ReadXLSX(data)
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}

	if len(table.Columns) != 4 || table.Columns[0] != "EAN" {
		t.Fatalf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if got := table.Rows[0]["Bultos"]; got != "70" {
		t.Errorf("numeric cell = %q, want display text 70", got)
	}
	if got := table.Rows[1]["Descripcion"]; got != "Limon X Un" {
		t.Errorf("cell = %q", got)
	}
}

func TestReadXLSX_DetectedByMagic(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"a", "b"},
		{1, 2},
	})

	// Wrong extension on purpose: content sniffing must route to xlsx.
	table, err := Read("orders.csv", data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(table.Rows))
	}
}

func TestReadXLSX_Garbage(t *testing.T) {
	if _, err := ReadXLSX([]byte("not a zip archive")); err == nil {
		t.Error("expected error for non-xlsx data")
	}
}
