package storage

import "crash-severity-prep/models"

// MergedWriter is the interface any export backend for merged records must satisfy.
type MergedWriter interface {
	Write(runID string, records []*models.MergedRecord) error
	Close() error
}

var _ MergedWriter = (*PostgresWriter)(nil)
