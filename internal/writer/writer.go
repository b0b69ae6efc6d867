// Package writer emits converted order files into the configured output
// directory using the deterministic ORDERS_ naming convention.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Order numbers come straight from the uploaded file and can be arbitrarily
// long; the GLN and extra-code components are fixed-size identifiers that
// must survive intact or distinct orders would collide on disk.
const maxOrderLen = 20

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Writer persists converted files under Dir, creating it on first use.
type Writer struct {
	Dir string
	now func() time.Time
}

func New(dir string) *Writer {
	return &Writer{Dir: dir, now: time.Now}
}

// Filename builds the output name for one purchase order:
//
//	ORDERS_<order>_<glnClient>_<glnDestination>_<extraCode>.txt
//
// Unsafe characters are replaced with underscores and an overlong order
// number is capped before the identifiers are appended. When every
// component is empty a timestamp keeps the name unique.
func (w *Writer) Filename(order, glnClient, glnDestination, extraCode string) string {
	ord := sanitize(order)
	if len(ord) > maxOrderLen {
		ord = ord[:maxOrderLen]
	}
	parts := []string{
		ord,
		sanitize(glnClient),
		sanitize(glnDestination),
		sanitize(extraCode),
	}
	joined := strings.Trim(strings.Join(parts, "_"), "_")
	if joined == "" {
		joined = w.now().Format("20060102_150405")
	}
	return "ORDERS_" + joined + ".txt"
}

// Write stores the record lines joined with newlines and returns the name
// of the written file.
func (w *Writer) Write(lines []string, order, glnClient, glnDestination, extraCode string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := w.Filename(order, glnClient, glnDestination, extraCode)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(w.Dir, name), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

func sanitize(s string) string {
	return unsafeChars.ReplaceAllString(strings.TrimSpace(s), "_")
}
