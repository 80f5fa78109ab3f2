package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"crash-severity-prep/models"
)

// CSVWriter writes records to a temporary file next to the target path.
// The target only appears once Commit succeeds, so a failed run never
// leaves a half-written output behind.
type CSVWriter struct {
	path      string
	tmpPath   string
	file      *os.File
	buf       *bufio.Writer
	writer    *csv.Writer
	committed bool
}

// NewCSVWriter creates the temporary file for path and writes the header row.
// Intermediate directories are created automatically.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", tmpPath, err)
	}

	buf := bufio.NewWriterSize(f, 1<<20)
	w := csv.NewWriter(buf)

	if err := w.Write(header); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("csv: write header: %w", err)
	}

	return &CSVWriter{path: path, tmpPath: tmpPath, file: f, buf: buf, writer: w}, nil
}

// Write appends one row per record.
func (c *CSVWriter) Write(records ...models.CSVRecord) error {
	for _, r := range records {
		if err := c.writer.Write(r.CSVRow()); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	return nil
}

// Commit flushes the data and moves the file into place.
func (c *CSVWriter) Commit() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	if err := c.buf.Flush(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	if err := c.file.Close(); err != nil {
		return fmt.Errorf("csv: close %q: %w", c.tmpPath, err)
	}
	if err := os.Rename(c.tmpPath, c.path); err != nil {
		return fmt.Errorf("csv: rename %q: %w", c.tmpPath, err)
	}
	c.committed = true
	return nil
}

// Close discards the temporary file unless Commit already succeeded.
func (c *CSVWriter) Close() error {
	if c.committed {
		return nil
	}
	_ = c.file.Close()
	return os.Remove(c.tmpPath)
}

// WriteFile writes a complete file of records with the given header.
func WriteFile[T models.CSVRecord](path string, header []string, records []T) error {
	w, err := NewCSVWriter(path, header)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, r := range records {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return w.Commit()
}
