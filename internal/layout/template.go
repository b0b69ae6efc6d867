// Package layout defines the per-client output layouts used to render tabular
// order data into fixed-width text files.
//
// A Template describes the shape of one output file: a single HEAD record
// followed by one LINE record per data row. Each record is an ordered list of
// fields with a source column, an optional fixed width, justification, pad
// character and type-specific formatting rules. Templates are stored per
// client and are editable, so every accessor validates before use.
package layout

import (
	"errors"
	"fmt"
	"strings"
)

// FieldType is the declared data type of a field's value.
type FieldType string

const (
	TypeText   FieldType = "text"
	TypeNumber FieldType = "number"
	TypeDate   FieldType = "date"
)

// Justify is the alignment of a value inside a fixed-width field.
type Justify string

const (
	JustifyLeft  Justify = "left"
	JustifyRight Justify = "right"
	JustifyNone  Justify = "none"
)

// Field describes one output field of a HEAD or LINE record.
type Field struct {
	// Name identifies the field within its record spec. Unique per spec.
	Name string `json:"name" yaml:"name"`

	// Source is the column label used to look up the value in an input row.
	// Labels starting with '@' are synthetic values supplied by the
	// conversion engine (for example "@line"). Empty means the field has no
	// input column and renders its default value.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Width is the fixed rendered width in characters. Zero means the field
	// is variable-width and is separated from its neighbours by the
	// template delimiter.
	Width int `json:"width,omitempty" yaml:"width,omitempty"`

	// Justify controls padding placement for fixed-width fields.
	// Empty and "none" behave like "left".
	Justify Justify `json:"justify,omitempty" yaml:"justify,omitempty"`

	// Pad is the padding character for fixed-width fields. Default space.
	Pad string `json:"pad,omitempty" yaml:"pad,omitempty"`

	// Type selects coercion and rendering rules. Empty means text.
	Type FieldType `json:"type,omitempty" yaml:"type,omitempty"`

	// Default is substituted when the source column is missing or empty.
	// A nil Default marks the field as required: a missing value produces
	// a warning and renders empty.
	Default *string `json:"default,omitempty" yaml:"default,omitempty"`

	// Decimals is the number of digits after the decimal point for number
	// fields.
	Decimals int `json:"decimals,omitempty" yaml:"decimals,omitempty"`

	// DateFormat is the Go reference layout used to render date fields.
	// Default "20060102".
	DateFormat string `json:"date_format,omitempty" yaml:"date_format,omitempty"`
}

// Required reports whether a missing source value must be warned about.
// A field with no declared default is required.
func (f Field) Required() bool {
	return f.Default == nil
}

// PadRune returns the padding rune, defaulting to a space.
func (f Field) PadRune() rune {
	if f.Pad == "" {
		return ' '
	}
	return []rune(f.Pad)[0]
}

// EffectiveType returns the field type with the empty value mapped to text.
func (f Field) EffectiveType() FieldType {
	if f.Type == "" {
		return TypeText
	}
	return f.Type
}

// RecordSpec is the ordered field list of a HEAD or LINE record.
type RecordSpec struct {
	Fields []Field `json:"fields" yaml:"fields"`

	// TotalLen, when positive, forces the assembled line to exactly this
	// length: shorter lines are space-padded, longer lines cut. The target
	// systems reject lines of the wrong total length.
	TotalLen int `json:"total_len,omitempty" yaml:"total_len,omitempty"`
}

// Template is a client's full output layout.
type Template struct {
	ClientID    int64  `json:"-" yaml:"-"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     int    `json:"version,omitempty" yaml:"version,omitempty"`

	// Delimiter separates variable-width fields. Default ",".
	Delimiter string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`

	Head RecordSpec `json:"head" yaml:"head"`
	Line RecordSpec `json:"line" yaml:"line"`
}

// FieldDelimiter returns the delimiter for variable-width fields.
func (t *Template) FieldDelimiter() string {
	if t.Delimiter == "" {
		return ","
	}
	return t.Delimiter
}

// Sentinel errors for template resolution. Stores wrap these so callers can
// classify failures with errors.Is.
var (
	ErrNotFound = errors.New("template not found")
	ErrInvalid  = errors.New("template invalid")
)

// InvalidError reports every invariant violated by a stored template.
type InvalidError struct {
	Problems []string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("template invalid: %s", strings.Join(e.Problems, "; "))
}

// Is makes errors.Is(err, ErrInvalid) true for InvalidError values.
func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalid
}

// Validate checks the template invariants: both specs non-empty, field names
// unique per spec, widths non-negative, pad characters single, known types
// and justifications. Returns an *InvalidError listing all problems, or nil.
func (t *Template) Validate() error {
	var problems []string

	if len(t.Head.Fields) == 0 {
		problems = append(problems, "head spec has no fields")
	}
	if len(t.Line.Fields) == 0 {
		problems = append(problems, "line spec has no fields")
	}

	problems = append(problems, validateSpec("head", t.Head)...)
	problems = append(problems, validateSpec("line", t.Line)...)

	if len(problems) > 0 {
		return &InvalidError{Problems: problems}
	}
	return nil
}

func validateSpec(which string, spec RecordSpec) []string {
	var problems []string

	seen := make(map[string]bool, len(spec.Fields))
	for i, f := range spec.Fields {
		where := fmt.Sprintf("%s field %d (%s)", which, i, f.Name)

		if f.Name == "" {
			problems = append(problems, fmt.Sprintf("%s field %d has no name", which, i))
		} else if seen[f.Name] {
			problems = append(problems, fmt.Sprintf("%s: duplicate field name", where))
		}
		seen[f.Name] = true

		if f.Width < 0 {
			problems = append(problems, fmt.Sprintf("%s: negative width %d", where, f.Width))
		}
		if len([]rune(f.Pad)) > 1 {
			problems = append(problems, fmt.Sprintf("%s: pad %q must be a single character", where, f.Pad))
		}
		switch f.Type {
		case "", TypeText, TypeNumber, TypeDate:
		default:
			problems = append(problems, fmt.Sprintf("%s: unknown type %q", where, f.Type))
		}
		switch f.Justify {
		case "", JustifyLeft, JustifyRight, JustifyNone:
		default:
			problems = append(problems, fmt.Sprintf("%s: unknown justification %q", where, f.Justify))
		}
		if f.Decimals < 0 {
			problems = append(problems, fmt.Sprintf("%s: negative decimals %d", where, f.Decimals))
		}
	}

	if spec.TotalLen < 0 {
		problems = append(problems, fmt.Sprintf("%s spec: negative total length %d", which, spec.TotalLen))
	}

	return problems
}
