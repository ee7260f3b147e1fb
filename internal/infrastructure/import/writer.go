package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Writer writes CSV exports. The first line carries a UTF-8 BOM so
// spreadsheet apps on Windows pick the right encoding for ₹ and Devanagari.
type Writer struct {
	w      *csv.Writer
	header []string
}

// NewWriter writes the BOM and header to out
func NewWriter(out io.Writer, header []string) (*Writer, error) {
	if _, err := io.WriteString(out, "\ufeff"); err != nil {
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &Writer{w: w, header: header}, nil
}

// Write writes one record. Cells starting with a formula character are prefixed
// with a quote so spreadsheets do not evaluate them.
func (w *Writer) Write(record []string) error {
	if len(record) != len(w.header) {
		return fmt.Errorf("record has %d fields, header has %d", len(record), len(w.header))
	}
	safe := make([]string, len(record))
	for i, v := range record {
		safe[i] = escapeFormula(v)
	}
	return w.w.Write(safe)
}

// Flush writes buffered data and reports any write error
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

func escapeFormula(v string) string {
	if v != "" && strings.ContainsRune("=+@\t\r", rune(v[0])) {
		return "'" + v
	}
	if v != "" && v[0] == '-' && len(v) > 1 && !(v[1] >= '0' && v[1] <= '9') {
		return "'" + v
	}
	return v
}
