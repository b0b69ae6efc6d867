package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/frescosur/conversor/internal/layout"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil", err: nil, wantCode: "GEN001"},
		{name: "template missing", err: fmt.Errorf("client 7: %w", layout.ErrNotFound), wantCode: "TPL001"},
		{name: "template invalid", err: fmt.Errorf("parse: %w", layout.ErrInvalid), wantCode: "TPL002"},
		{name: "unsupported file", err: errors.New("unsupported file type .docx"), wantCode: "FILE001"},
		{name: "oversized upload", err: errors.New("file too large: 99 bytes (limit 10)"), wantCode: "FILE002"},
		{name: "locked database", err: errors.New("exec: database is locked (5)"), wantCode: "DB001"},
		{name: "record missing", err: errors.New(`client 404: not found`), wantCode: "DB002"},
		{name: "unclassified", err: errors.New("something odd"), wantCode: "GEN001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if got.Message == "" {
				t.Errorf("MapError(%v) has empty message", tt.err)
			}
		})
	}
}
