package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"crash-severity-prep/models"
)

// Table is an in-memory CSV file: a header row plus string cells.
type Table struct {
	Source string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// ReadTable loads the CSV file at path. Every row is padded or cut to the
// header width so cells can be addressed by column index.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", path, err)
	}
	t.Source = path
	return t, nil
}

// ParseTable reads a CSV stream with a header row.
func ParseTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(bufio.NewReaderSize(r, 1<<20))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file, header row required")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{
		Header: header,
		index:  make(map[string]int, len(header)),
	}
	for i, col := range header {
		if _, dup := t.index[col]; !dup {
			t.index[col] = i
		}
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		} else if len(row) > len(header) {
			row = row[:len(header)]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Has reports whether the table carries column col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Index returns the position of column col.
func (t *Table) Index(col string) (int, error) {
	if i, ok := t.index[col]; ok {
		return i, nil
	}
	return -1, &models.MissingColumnError{Source: t.Source, Column: col}
}

// Indexes resolves several columns at once, failing on the first absent one.
func (t *Table) Indexes(cols ...string) (map[string]int, error) {
	out := make(map[string]int, len(cols))
	for _, col := range cols {
		i, err := t.Index(col)
		if err != nil {
			return nil, err
		}
		out[col] = i
	}
	return out, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }
