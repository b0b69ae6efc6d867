package engine

// format.go renders normalized records as output lines. Fixed-width fields
// are padded or cut to exactly their declared width; variable-width fields
// are joined with the template delimiter. Widths and total lengths count
// characters (runes), never bytes, so multi-byte text can not be split
// mid-character.

import (
	"fmt"
	"strings"

	"github.com/frescosur/conversor/internal/layout"
)

// formatRecord renders one normalized record into a single output line.
// Truncation warnings for the record are appended to warns with the given
// row index.
func formatRecord(rec Record, spec layout.RecordSpec, delimiter string, rowIdx int, warns *[]Warning) string {
	var b strings.Builder

	for i, fv := range rec {
		if i > 0 && (isVariable(rec[i-1].Field) || isVariable(fv.Field)) {
			b.WriteString(delimiter)
		}

		if isVariable(fv.Field) {
			b.WriteString(fv.Value)
			continue
		}

		seg, truncated := fitField(fv.Value, fv.Field)
		if truncated {
			*warns = append(*warns, Warning{
				Row:    rowIdx,
				Field:  fv.Field.Name,
				Code:   WarnFieldTruncated,
				Detail: truncDetail(fv.Value, fv.Field.Width),
			})
		}
		b.WriteString(seg)
	}

	line := b.String()
	if spec.TotalLen > 0 {
		line = fitLine(line, spec.TotalLen)
	}
	return line
}

func isVariable(f layout.Field) bool {
	return f.Width == 0
}

// fitField pads or cuts a value to exactly the field width. Right
// justification places padding before the value; left (and none) after it.
// Overlong values keep their first width characters.
func fitField(value string, f layout.Field) (seg string, truncated bool) {
	runes := []rune(value)
	if len(runes) > f.Width {
		return string(runes[:f.Width]), true
	}

	pad := strings.Repeat(string(f.PadRune()), f.Width-len(runes))
	if f.Justify == layout.JustifyRight {
		return pad + value, false
	}
	return value + pad, false
}

// fitLine enforces the record spec's total length with space padding. Length
// enforcement is a layout property, not a data problem, so no warning is
// raised.
func fitLine(line string, total int) string {
	runes := []rune(line)
	if len(runes) > total {
		return string(runes[:total])
	}
	return line + strings.Repeat(" ", total-len(runes))
}

func truncDetail(value string, width int) string {
	return fmt.Sprintf("length %d exceeds width %d", len([]rune(value)), width)
}
