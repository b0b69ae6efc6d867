package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	w := New(t.TempDir())

	tests := []struct {
		name                             string
		order, client, dest, extra, want string
	}{
		{
			name:  "full components",
			order: "4447", client: "7798355160007", dest: "9930709088447", extra: "000000",
			want: "ORDERS_4447_7798355160007_9930709088447_000000.txt",
		},
		{
			name:  "unsafe characters replaced",
			order: "PO 44/47", client: "7798355160007", dest: "", extra: "",
			want: "ORDERS_PO_44_47_7798355160007.txt",
		},
		{
			name:  "missing order keeps remaining parts",
			order: "", client: "7798355160007", dest: "9930709088447", extra: "",
			want: "ORDERS_7798355160007_9930709088447.txt",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Filename(tt.order, tt.client, tt.dest, tt.extra)
			if got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilename_EmptyFallsBackToTimestamp(t *testing.T) {
	w := New(t.TempDir())
	w.now = func() time.Time {
		return time.Date(2025, 8, 17, 9, 30, 0, 0, time.UTC)
	}
	got := w.Filename("", "", "", "")
	if got != "ORDERS_20250817_093000.txt" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestFilename_LongOrderKeepsIdentifiers(t *testing.T) {
	w := New(t.TempDir())

	got := w.Filename(strings.Repeat("9", 100), "7798355160007", "9930709088447", "000000")
	want := "ORDERS_" + strings.Repeat("9", maxOrderLen) + "_7798355160007_9930709088447_000000.txt"
	if got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}

	// Two long orders differing only past the cap still collide on the order
	// token, but distinct destinations never do.
	a := w.Filename(strings.Repeat("9", 100), "7798355160007", "9930709088447", "000000")
	b := w.Filename(strings.Repeat("9", 100), "7798355160007", "9930709088311", "000000")
	if a == b {
		t.Errorf("distinct destinations collide: %q", a)
	}
}

func TestWrite_CreatesDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	w := New(dir)

	name, err := w.Write([]string{"HEAD0001", "LINE0001"}, "4447", "777", "999", "0")
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "HEAD0001\nLINE0001\n" {
		t.Errorf("content = %q", data)
	}
}
