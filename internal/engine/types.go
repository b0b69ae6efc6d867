package engine

import (
	"context"
	"fmt"

	"github.com/frescosur/conversor/internal/layout"
)

// RawRow is one parsed input row: a mapping from column label to cell text.
// Rows are produced by the external readers and are never mutated by the
// engine.
type RawRow map[string]string

// Reserved source labels for values the engine computes itself.
const (
	SourceLine    = "@line"
	SourceLineTag = "@line_tag"
	SourceRows    = "@rows"
)

// FieldValue pairs a layout field with its resolved value.
type FieldValue struct {
	Field layout.Field
	Value string
}

// Record is a normalized record: one resolved value per spec field, in spec
// order.
type Record []FieldValue

// HeadRow is the row index used on warnings raised while building the HEAD
// record.
const HeadRow = -1

// WarningCode classifies a recoverable per-field problem.
type WarningCode string

const (
	WarnMissingRequiredField WarningCode = "missing_required_field"
	WarnTypeCoercionFailed   WarningCode = "type_coercion_failed"
	WarnFieldTruncated       WarningCode = "field_truncated"
)

// Warning records a recoverable problem encountered for one field of one row.
// The affected value was degraded (to empty text or a truncated rendering)
// and the row was still emitted.
type Warning struct {
	// Row is the 0-based index into the input rows, or HeadRow for the
	// head record.
	Row int `json:"row"`

	// Field is the layout field name the warning applies to.
	Field string `json:"field"`

	Code   WarningCode `json:"code"`
	Detail string      `json:"detail,omitempty"`
}

func (w Warning) String() string {
	where := fmt.Sprintf("row %d", w.Row)
	if w.Row == HeadRow {
		where = "head"
	}
	return fmt.Sprintf("%s, field %s: %s (%s)", where, w.Field, w.Code, w.Detail)
}

// Result is the outcome of one conversion call. It is created fresh per
// invocation, immutable once returned, and owned by the caller.
type Result struct {
	// Lines holds the rendered output: the head line first, then one line
	// per accepted data row in original input order.
	Lines []string `json:"lines"`

	// Accepted is the number of data rows that produced an output line.
	Accepted int `json:"accepted"`

	// Skipped is the number of rows excluded because they were blank
	// across every declared field.
	Skipped int `json:"skipped"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// Request carries the inputs of one conversion call. The engine borrows the
// template and rows for the duration of the call and owns only the Result it
// produces.
type Request struct {
	ClientID int64

	// Head is the synthetic single-row context the HEAD record resolves
	// against: client metadata, the order number, derived dates. Built by
	// the caller, typically from the client record.
	Head RawRow

	Rows []RawRow
}

// TemplateSource resolves the layout template registered for a client.
// Implementations must return an error wrapping layout.ErrNotFound when no
// template exists and layout.ErrInvalid when the stored definition violates
// the template invariants.
type TemplateSource interface {
	ResolveTemplate(ctx context.Context, clientID int64) (*layout.Template, error)
}
