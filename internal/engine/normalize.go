package engine

// normalize.go maps raw input rows onto the ordered field values a record
// spec expects. Resolution is independent per field: look the source column
// up in the row, fall back to the declared default, and coerce to the field
// type. Problems degrade the value and surface as warnings; they never drop
// the row. Only rows that are blank across every declared field are skipped,
// which guards against trailing empty rows in real spreadsheets.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frescosur/conversor/internal/layout"
)

// Date layouts accepted during coercion. Input files mix ISO dates, slashed
// dates and bare YYYYMMDD depending on which system exported them. Two-digit
// years follow time.Parse's fixed 1969-2068 window ("69" is the last 19xx
// year); the rule must not depend on the wall clock, or the same input would
// render differently across calendar years.
var (
	fourDigitYearLayouts = []string{
		"20060102",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"2/1/2006", "02/01/2006", "2-1-2006", "02-01-2006", "2.1.2006", "02.01.2006",
		"Jan 2, 2006", "2 Jan 2006",
	}
	twoDigitYearLayouts = []string{
		"2/1/06", "02/01/06", "2-1-06", "2.1.06", "02.01.06",
	}
)

// normalizeRow resolves one raw row against a record spec.
//
// extra supplies the synthetic '@' values for this record; it is consulted
// only for '@' source labels and never counts toward the blank check. rowIdx
// is used on warnings (HeadRow for the head context).
//
// Blank-row skipping is the caller's decision (via isBlank): the head context
// is normalized through the same path but is always emitted.
func normalizeRow(row RawRow, extra RawRow, spec layout.RecordSpec, rowIdx int) (rec Record, warns []Warning) {
	rec = make(Record, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		value, warn := resolveField(row, extra, f, rowIdx)
		if warn != nil {
			warns = append(warns, *warn)
		}
		rec = append(rec, FieldValue{Field: f, Value: value})
	}
	return rec, warns
}

// isBlank reports whether every declared source column of the spec is absent
// or empty in the row. Specs with no sourced fields (pure literals) never
// produce blank rows.
func isBlank(row RawRow, spec layout.RecordSpec) bool {
	sourced := 0
	for _, f := range spec.Fields {
		if f.Source == "" || strings.HasPrefix(f.Source, "@") {
			continue
		}
		sourced++
		if raw, ok := lookupColumn(row, f.Source); ok && strings.TrimSpace(raw) != "" {
			return false
		}
	}
	return sourced > 0
}

// resolveField applies the per-field resolution rule: source lookup, type
// coercion, default substitution. The returned warning is nil when the value
// resolved cleanly.
func resolveField(row RawRow, extra RawRow, f layout.Field, rowIdx int) (string, *Warning) {
	var raw string
	var found bool

	switch {
	case f.Source == "":
		// No input column: literal fields render their default below.
	case strings.HasPrefix(f.Source, "@"):
		raw, found = extra[f.Source]
	default:
		raw, found = lookupColumn(row, f.Source)
	}
	raw = strings.TrimSpace(raw)

	if !found || raw == "" {
		if f.Default != nil {
			// Declared defaults are template-author literals and render
			// verbatim, without coercion.
			return *f.Default, nil
		}
		return "", &Warning{
			Row:    rowIdx,
			Field:  f.Name,
			Code:   WarnMissingRequiredField,
			Detail: fmt.Sprintf("source column %q missing or empty", f.Source),
		}
	}

	value, err := coerce(raw, f)
	if err != nil {
		return "", &Warning{
			Row:    rowIdx,
			Field:  f.Name,
			Code:   WarnTypeCoercionFailed,
			Detail: fmt.Sprintf("value %q: %v", raw, err),
		}
	}
	return value, nil
}

// lookupColumn finds a cell by column label. Exact match first, then a folded
// match (case-insensitive, underscores and spaces equivalent) so templates
// survive cosmetic header differences.
func lookupColumn(row RawRow, label string) (string, bool) {
	if v, ok := row[label]; ok {
		return v, true
	}
	want := foldLabel(label)
	for k, v := range row {
		if foldLabel(k) == want {
			return v, true
		}
	}
	return "", false
}

func foldLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", " ")
}

// coerce converts a non-empty raw cell to the field's rendered text form.
func coerce(raw string, f layout.Field) (string, error) {
	switch f.EffectiveType() {
	case layout.TypeNumber:
		return coerceNumber(raw, f.Decimals)
	case layout.TypeDate:
		return coerceDate(raw, f.DateFormat)
	default:
		return raw, nil
	}
}

// coerceNumber parses the messy numeric formats real order files contain:
// currency symbols, thousands separators, accounting negatives in
// parentheses, and comma decimal points from Spanish-locale exports. The
// value renders with exactly decimals digits after the point.
func coerceNumber(raw string, decimals int) (string, error) {
	s := strings.TrimSpace(raw)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	for _, sym := range []string{"$", "€", "£"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)

	// Comma handling: with both separators present the comma is a
	// thousands separator; a lone comma is a decimal point.
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("not a number")
	}
	if negative {
		v = -v
	}
	return strconv.FormatFloat(v, 'f', decimals, 64), nil
}

// coerceDate parses the supported date formats and renders with the field's
// output layout (default YYYYMMDD). 4-digit-year layouts are tried first
// because they are unambiguous.
func coerceDate(raw string, outFormat string) (string, error) {
	if outFormat == "" {
		outFormat = "20060102"
	}

	for _, l := range fourDigitYearLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t.Format(outFormat), nil
		}
	}
	for _, l := range twoDigitYearLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t.Format(outFormat), nil
		}
	}
	return "", fmt.Errorf("not a date")
}
