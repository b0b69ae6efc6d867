package engine

import (
	"context"
	"fmt"
	"strconv"
)

// Engine converts normalized tables into layout-formatted text lines. It is
// stateless and safe for concurrent use; each Convert call works exclusively
// on its own inputs and template snapshot.
type Engine struct {
	templates TemplateSource
}

// New creates an Engine that resolves client templates through src.
func New(src TemplateSource) *Engine {
	return &Engine{templates: src}
}

// Convert runs one full conversion: one HEAD line from the request's head
// context, then one LINE per accepted data row in original order.
//
// Template resolution or validation failure is fatal for the whole call and
// produces no partial output. Everything else (missing values, coercion
// failures, truncation) degrades the affected field and accumulates on the
// result's warning list. The returned result always satisfies
// len(Lines) == 1 + Accepted.
func (e *Engine) Convert(ctx context.Context, req Request) (*Result, error) {
	tpl, err := e.templates.ResolveTemplate(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolve template for client %d: %w", req.ClientID, err)
	}
	// Revalidate the snapshot: templates are editable and the engine's
	// formatting invariants depend on a well-formed spec.
	if err := tpl.Validate(); err != nil {
		return nil, fmt.Errorf("template for client %d: %w", req.ClientID, err)
	}

	delimiter := tpl.FieldDelimiter()

	// Line records first: the head context needs the accepted row count.
	var (
		lines        []string
		lineWarnings []Warning
		accepted     int
		skipped      int
	)
	for i, row := range req.Rows {
		if isBlank(row, tpl.Line) {
			skipped++
			continue
		}

		extra := RawRow{
			SourceLine:    strconv.Itoa(accepted + 1),
			SourceLineTag: "LINE" + strconv.Itoa(accepted+1),
		}

		rec, warns := normalizeRow(row, extra, tpl.Line, i)
		lineWarnings = append(lineWarnings, warns...)

		lines = append(lines, formatRecord(rec, tpl.Line, delimiter, i, &lineWarnings))
		accepted++
	}

	// Head record from the synthetic single-row context.
	headExtra := RawRow{SourceRows: strconv.Itoa(accepted)}
	headRec, headWarnings := normalizeRow(req.Head, headExtra, tpl.Head, HeadRow)
	headLine := formatRecord(headRec, tpl.Head, delimiter, HeadRow, &headWarnings)

	result := &Result{
		Lines:    make([]string, 0, 1+accepted),
		Accepted: accepted,
		Skipped:  skipped,
	}
	result.Lines = append(result.Lines, headLine)
	result.Lines = append(result.Lines, lines...)
	result.Warnings = append(result.Warnings, headWarnings...)
	result.Warnings = append(result.Warnings, lineWarnings...)

	return result, nil
}
