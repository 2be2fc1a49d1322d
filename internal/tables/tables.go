// Package tables holds the flat tabular artifacts the study aggregator
// produces. A table has a fixed, ordered column schema and string-formatted
// cells; persistence is tab-delimited text with a header row and no index
// column, matching the study folder contract.
package tables

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Table is an ordered-column table. Rows are appended in key order by the
// aggregator; the writer never reorders them.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// New returns an empty table with the given schema.
func New(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Append adds a row. The cell count must match the schema.
func (t *Table) Append(cells ...string) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("tables: %s row has %d cells, schema has %d columns", t.Name, len(cells), len(t.Columns))
	}
	t.Rows = append(t.Rows, cells)
	return nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// WriteTSV persists the table as <dir>/<name>.csv, tab-delimited with a
// header row. The directory is created if absent and an existing file of the
// same name is overwritten.
func (t *Table) WriteTSV(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("tables: create %s: %w", dir, err)
	}

	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, "\t"))
	b.WriteByte('\n')
	for _, row := range t.Rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}

	path := filepath.Join(dir, t.Name+".csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("tables: write %s: %w", path, err)
	}
	return nil
}

// Float formats a float cell. Shortest round-trip representation so reading
// the file back reproduces the value exactly.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Int formats an integer cell.
func Int(v int) string { return strconv.Itoa(v) }
