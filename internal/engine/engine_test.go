package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/frescosur/conversor/internal/layout"
)

// fakeSource resolves templates from a map, standing in for the SQLite store.
type fakeSource struct {
	templates map[int64]*layout.Template
	err       error
}

func (s *fakeSource) ResolveTemplate(_ context.Context, clientID int64) (*layout.Template, error) {
	if s.err != nil {
		return nil, s.err
	}
	tpl, ok := s.templates[clientID]
	if !ok {
		return nil, fmt.Errorf("client %d: %w", clientID, layout.ErrNotFound)
	}
	return tpl, nil
}

func lit(s string) *string { return &s }

// qtySkuTemplate is the worked example from the layout documentation: a
// 5-wide right-justified quantity followed by a 10-wide left-justified SKU.
func qtySkuTemplate() *layout.Template {
	return &layout.Template{
		Head: layout.RecordSpec{Fields: []layout.Field{
			{Name: "record_type", Width: 4, Default: lit("HEAD")},
			{Name: "rows", Source: SourceRows, Width: 4, Justify: layout.JustifyRight, Pad: "0"},
		}},
		Line: layout.RecordSpec{Fields: []layout.Field{
			{Name: "qty", Source: "qty", Width: 5, Justify: layout.JustifyRight},
			{Name: "sku", Source: "sku", Width: 10},
		}},
	}
}

func newTestEngine(tpl *layout.Template) *Engine {
	return New(&fakeSource{templates: map[int64]*layout.Template{1: tpl}})
}

func TestConvert_WorkedExample(t *testing.T) {
	e := newTestEngine(qtySkuTemplate())

	res, err := e.Convert(context.Background(), Request{
		ClientID: 1,
		Rows:     []RawRow{{"qty": "7", "sku": "AB12"}},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	want := []string{
		"HEAD0001",
		"    7AB12      ",
	}
	if diff := cmp.Diff(want, res.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if res.Accepted != 1 || res.Skipped != 0 {
		t.Errorf("accepted=%d skipped=%d, want 1/0", res.Accepted, res.Skipped)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestConvert_LineCountInvariant(t *testing.T) {
	e := newTestEngine(qtySkuTemplate())

	rows := []RawRow{
		{"qty": "1", "sku": "A"},
		{"qty": "", "sku": ""}, // blank, skipped
		{"qty": "2", "sku": "B"},
		{"qty": "3", "sku": "C"},
	}
	res, err := e.Convert(context.Background(), Request{ClientID: 1, Rows: rows})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if len(res.Lines) != 1+res.Accepted {
		t.Errorf("len(Lines)=%d, want 1+accepted=%d", len(res.Lines), 1+res.Accepted)
	}
	if res.Accepted != 3 || res.Skipped != 1 {
		t.Errorf("accepted=%d skipped=%d, want 3/1", res.Accepted, res.Skipped)
	}

	// Input order preserved: A then B then C.
	for i, sku := range []string{"A", "B", "C"} {
		if !strings.Contains(res.Lines[i+1], sku) {
			t.Errorf("line %d = %q, want sku %q", i+1, res.Lines[i+1], sku)
		}
	}
}

func TestConvert_Idempotent(t *testing.T) {
	rows := []RawRow{
		{"qty": "12", "sku": "X-100"},
		{"qty": "3", "sku": "Y-200"},
	}

	e := newTestEngine(qtySkuTemplate())
	first, err := e.Convert(context.Background(), Request{ClientID: 1, Rows: rows})
	if err != nil {
		t.Fatalf("first Convert: %v", err)
	}
	second, err := e.Convert(context.Background(), Request{ClientID: 1, Rows: rows})
	if err != nil {
		t.Fatalf("second Convert: %v", err)
	}

	if diff := cmp.Diff(first.Lines, second.Lines); diff != "" {
		t.Errorf("repeated conversion differs (-first +second):\n%s", diff)
	}
}

func TestConvert_WidthInvariant(t *testing.T) {
	e := newTestEngine(qtySkuTemplate())

	rows := []RawRow{
		{"qty": "7", "sku": "AB12"},
		{"qty": "1234567", "sku": "THIS-SKU-IS-FAR-TOO-LONG"},
		{"qty": "", "sku": "ONLY-SKU"},
	}
	res, err := e.Convert(context.Background(), Request{ClientID: 1, Rows: rows})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	for i, line := range res.Lines[1:] {
		if got := len([]rune(line)); got != 15 {
			t.Errorf("line %d length = %d, want 15 (%q)", i, got, line)
		}
	}
}

func TestConvert_Truncation(t *testing.T) {
	e := newTestEngine(qtySkuTemplate())

	res, err := e.Convert(context.Background(), Request{
		ClientID: 1,
		Rows:     []RawRow{{"qty": "1", "sku": "ABCDEFGHIJKLMNOP"}},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	// Left justification keeps the first width characters.
	if got := res.Lines[1][5:]; got != "ABCDEFGHIJ" {
		t.Errorf("sku segment = %q, want first 10 characters", got)
	}

	found := false
	for _, w := range res.Warnings {
		if w.Code == WarnFieldTruncated && w.Field == "sku" && w.Row == 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected field_truncated warning for sku, got %v", res.Warnings)
	}
}

func TestConvert_MissingRequiredField(t *testing.T) {
	e := newTestEngine(qtySkuTemplate())

	res, err := e.Convert(context.Background(), Request{
		ClientID: 1,
		Rows: []RawRow{
			{"qty": "5", "sku": "OK-1"},
			{"sku": "NO-QTY"}, // qty column absent entirely
		},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	// The row is still emitted, with qty rendered as padding only.
	if res.Accepted != 2 {
		t.Fatalf("accepted=%d, want 2", res.Accepted)
	}
	if got := res.Lines[2][:5]; got != "     " {
		t.Errorf("qty segment = %q, want all padding", got)
	}

	found := false
	for _, w := range res.Warnings {
		if w.Code == WarnMissingRequiredField && w.Field == "qty" && w.Row == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing_required_field warning for row 1, got %v", res.Warnings)
	}
}

func TestConvert_BlankRowSkipped(t *testing.T) {
	e := newTestEngine(qtySkuTemplate())

	res, err := e.Convert(context.Background(), Request{
		ClientID: 1,
		Rows: []RawRow{
			{"qty": "", "sku": ""},
			{"qty": "   ", "sku": ""},
		},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if res.Skipped != 2 {
		t.Errorf("skipped=%d, want 2", res.Skipped)
	}
	if res.Accepted != 0 {
		t.Errorf("accepted=%d, want 0", res.Accepted)
	}
	if len(res.Lines) != 1 {
		t.Errorf("len(Lines)=%d, want head only", len(res.Lines))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("blank rows must not warn, got %v", res.Warnings)
	}
}

func TestConvert_TypeCoercionFailed(t *testing.T) {
	tpl := qtySkuTemplate()
	tpl.Line.Fields[0].Type = layout.TypeNumber
	e := newTestEngine(tpl)

	res, err := e.Convert(context.Background(), Request{
		ClientID: 1,
		Rows:     []RawRow{{"qty": "seven", "sku": "AB12"}},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if res.Accepted != 1 {
		t.Fatalf("coercion failure must not drop the row, accepted=%d", res.Accepted)
	}
	if got := res.Lines[1][:5]; got != "     " {
		t.Errorf("qty segment = %q, want empty padding after failed coercion", got)
	}

	found := false
	for _, w := range res.Warnings {
		if w.Code == WarnTypeCoercionFailed && w.Field == "qty" && w.Row == 0 &&
			strings.Contains(w.Detail, "seven") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected type_coercion_failed warning, got %v", res.Warnings)
	}
}

func TestConvert_HeadSynthetics(t *testing.T) {
	e := newTestEngine(qtySkuTemplate())

	res, err := e.Convert(context.Background(), Request{
		ClientID: 1,
		Rows: []RawRow{
			{"qty": "1", "sku": "A"},
			{"qty": "", "sku": ""},
			{"qty": "2", "sku": "B"},
		},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	// @rows reflects accepted rows only, zero-padded to the field width.
	if res.Lines[0] != "HEAD0002" {
		t.Errorf("head line = %q, want HEAD0002", res.Lines[0])
	}
}

func TestConvert_LineTagOrdinals(t *testing.T) {
	tpl := qtySkuTemplate()
	tpl.Line.Fields = append([]layout.Field{
		{Name: "line_tag", Source: SourceLineTag, Width: 8},
	}, tpl.Line.Fields...)
	e := newTestEngine(tpl)

	res, err := e.Convert(context.Background(), Request{
		ClientID: 1,
		Rows: []RawRow{
			{"qty": "1", "sku": "A"},
			{"qty": "", "sku": ""}, // skipped rows do not consume ordinals
			{"qty": "2", "sku": "B"},
		},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if !strings.HasPrefix(res.Lines[1], "LINE1   ") {
		t.Errorf("first line tag = %q", res.Lines[1][:8])
	}
	if !strings.HasPrefix(res.Lines[2], "LINE2   ") {
		t.Errorf("second line tag = %q", res.Lines[2][:8])
	}
}

func TestConvert_DelimiterMode(t *testing.T) {
	tpl := &layout.Template{
		Delimiter: ";",
		Head: layout.RecordSpec{Fields: []layout.Field{
			{Name: "record_type", Default: lit("HEAD")},
			{Name: "rows", Source: SourceRows},
		}},
		Line: layout.RecordSpec{Fields: []layout.Field{
			{Name: "ean", Source: "ean"},
			{Name: "qty", Source: "qty"},
			{Name: "price", Source: "price", Type: layout.TypeNumber, Decimals: 2},
		}},
	}
	e := newTestEngine(tpl)

	res, err := e.Convert(context.Background(), Request{
		ClientID: 1,
		Rows:     []RawRow{{"ean": "779123", "qty": "4", "price": "1.5"}},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if res.Lines[0] != "HEAD;1" {
		t.Errorf("head = %q, want HEAD;1", res.Lines[0])
	}
	if res.Lines[1] != "779123;4;1.50" {
		t.Errorf("line = %q, want 779123;4;1.50", res.Lines[1])
	}
}

func TestConvert_TotalLenEnforced(t *testing.T) {
	tpl := qtySkuTemplate()
	tpl.Line.TotalLen = 20
	tpl.Head.TotalLen = 12
	e := newTestEngine(tpl)

	res, err := e.Convert(context.Background(), Request{
		ClientID: 1,
		Rows:     []RawRow{{"qty": "7", "sku": "AB12"}},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if got := len([]rune(res.Lines[0])); got != 12 {
		t.Errorf("head length = %d, want 12", got)
	}
	if res.Lines[1] != "    7AB12           " {
		t.Errorf("line = %q, want 20-char padded line", res.Lines[1])
	}
}

func TestConvert_TemplateNotFound(t *testing.T) {
	e := New(&fakeSource{templates: map[int64]*layout.Template{}})

	_, err := e.Convert(context.Background(), Request{
		ClientID: 99,
		Rows:     []RawRow{{"qty": "1"}},
	})
	if !errors.Is(err, layout.ErrNotFound) {
		t.Fatalf("error = %v, want layout.ErrNotFound", err)
	}
}

func TestConvert_TemplateInvalidIsFatal(t *testing.T) {
	tpl := qtySkuTemplate()
	tpl.Line.Fields = nil
	e := newTestEngine(tpl)

	res, err := e.Convert(context.Background(), Request{
		ClientID: 1,
		Rows:     []RawRow{{"qty": "1", "sku": "A"}},
	})
	if !errors.Is(err, layout.ErrInvalid) {
		t.Fatalf("error = %v, want layout.ErrInvalid", err)
	}
	if res != nil {
		t.Error("no partial output may be produced on a fatal error")
	}
}

func TestConvert_HeadAlwaysEmitted(t *testing.T) {
	// An empty head context still produces a head line; missing required
	// head fields warn with the head row marker.
	tpl := qtySkuTemplate()
	tpl.Head.Fields = append(tpl.Head.Fields, layout.Field{
		Name: "order", Source: "order", Width: 7,
	})
	e := newTestEngine(tpl)

	res, err := e.Convert(context.Background(), Request{ClientID: 1, Head: RawRow{}})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("len(Lines)=%d, want 1", len(res.Lines))
	}

	found := false
	for _, w := range res.Warnings {
		if w.Row == HeadRow && w.Field == "order" && w.Code == WarnMissingRequiredField {
			found = true
		}
	}
	if !found {
		t.Errorf("expected head-row warning for order, got %v", res.Warnings)
	}
}
