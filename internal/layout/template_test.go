package layout

import (
	"errors"
	"strings"
	"testing"
)

func validTemplate() *Template {
	return &Template{
		Head: RecordSpec{Fields: []Field{
			{Name: "record_type", Width: 4, Default: lit("HEAD")},
			{Name: "order", Source: "order", Width: 7},
		}},
		Line: RecordSpec{Fields: []Field{
			{Name: "qty", Source: "qty", Width: 5, Justify: JustifyRight},
			{Name: "sku", Source: "sku", Width: 10},
		}},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validTemplate().Validate(); err != nil {
		t.Fatalf("expected valid template, got %v", err)
	}
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Template)
		want   string
	}{
		{
			name:   "empty head spec",
			mutate: func(tpl *Template) { tpl.Head.Fields = nil },
			want:   "head spec has no fields",
		},
		{
			name:   "empty line spec",
			mutate: func(tpl *Template) { tpl.Line.Fields = nil },
			want:   "line spec has no fields",
		},
		{
			name: "duplicate field name",
			mutate: func(tpl *Template) {
				tpl.Line.Fields = append(tpl.Line.Fields, Field{Name: "qty", Width: 3})
			},
			want: "duplicate field name",
		},
		{
			name:   "negative width",
			mutate: func(tpl *Template) { tpl.Line.Fields[0].Width = -5 },
			want:   "negative width",
		},
		{
			name:   "multi-character pad",
			mutate: func(tpl *Template) { tpl.Line.Fields[0].Pad = "00" },
			want:   "single character",
		},
		{
			name:   "unknown type",
			mutate: func(tpl *Template) { tpl.Line.Fields[0].Type = "decimal" },
			want:   "unknown type",
		},
		{
			name:   "unknown justification",
			mutate: func(tpl *Template) { tpl.Line.Fields[0].Justify = "center" },
			want:   "unknown justification",
		},
		{
			name:   "unnamed field",
			mutate: func(tpl *Template) { tpl.Line.Fields[0].Name = "" },
			want:   "has no name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := validTemplate()
			tt.mutate(tpl)

			err := tpl.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected errors.Is(err, ErrInvalid), got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	tpl := validTemplate()
	tpl.Head.Fields = nil
	tpl.Line.Fields[0].Width = -1
	tpl.Line.Fields[1].Pad = "ab"

	err := tpl.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	var inv *InvalidError
	if !errors.As(err, &inv) {
		t.Fatalf("expected *InvalidError, got %T", err)
	}
	if len(inv.Problems) != 3 {
		t.Errorf("expected 3 problems, got %d: %v", len(inv.Problems), inv.Problems)
	}
}

func TestFieldHelpers(t *testing.T) {
	f := Field{Name: "qty"}
	if !f.Required() {
		t.Error("field without default should be required")
	}
	if f.PadRune() != ' ' {
		t.Errorf("default pad rune = %q, want space", f.PadRune())
	}
	if f.EffectiveType() != TypeText {
		t.Errorf("default type = %q, want text", f.EffectiveType())
	}

	f = Field{Name: "filler", Pad: "0", Default: lit(""), Type: TypeNumber}
	if f.Required() {
		t.Error("field with empty-string default should not be required")
	}
	if f.PadRune() != '0' {
		t.Errorf("pad rune = %q, want '0'", f.PadRune())
	}
	if f.EffectiveType() != TypeNumber {
		t.Errorf("type = %q, want number", f.EffectiveType())
	}
}

func TestDefaultTemplateIsValid(t *testing.T) {
	tpl := Default()
	if err := tpl.Validate(); err != nil {
		t.Fatalf("built-in template must be valid: %v", err)
	}

	if got := tpl.Head.Fields[0].Default; got == nil || *got != "HEAD" {
		t.Error("head record must start with the HEAD literal")
	}
	if tpl.Head.TotalLen != 512 {
		t.Errorf("head total length = %d, want 512", tpl.Head.TotalLen)
	}
	if tpl.Line.TotalLen != 384 {
		t.Errorf("line total length = %d, want 384", tpl.Line.TotalLen)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tpl := Default()

	data, err := EncodeJSON(tpl)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("round-tripped template invalid: %v", err)
	}

	if len(got.Line.Fields) != len(tpl.Line.Fields) {
		t.Fatalf("line fields = %d, want %d", len(got.Line.Fields), len(tpl.Line.Fields))
	}
	if got.Line.Fields[9].Decimals != 2 {
		t.Errorf("unit_price decimals = %d, want 2", got.Line.Fields[9].Decimals)
	}
	if got.FieldDelimiter() != "," {
		t.Errorf("default delimiter = %q, want comma", got.FieldDelimiter())
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	for _, bad := range []string{"{", `{"head": 3}`, `{"unknown_key": true}`} {
		if _, err := ParseJSON([]byte(bad)); !errors.Is(err, ErrInvalid) {
			t.Errorf("ParseJSON(%q) error = %v, want ErrInvalid", bad, err)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	tpl := validTemplate()
	tpl.Name = "test layout"
	tpl.Delimiter = ";"

	data, err := EncodeYAML(tpl)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Name != "test layout" {
		t.Errorf("name = %q", got.Name)
	}
	if got.FieldDelimiter() != ";" {
		t.Errorf("delimiter = %q, want ;", got.FieldDelimiter())
	}
	if got.Line.Fields[0].Justify != JustifyRight {
		t.Errorf("justify = %q, want right", got.Line.Fields[0].Justify)
	}
	if got.Head.Fields[0].Default == nil || *got.Head.Fields[0].Default != "HEAD" {
		t.Error("literal default lost in YAML round trip")
	}
}
