package models

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is matched by every MissingColumnError via errors.Is.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError reports a required column absent from a source file.
type MissingColumnError struct {
	Source string
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%q column is missing in the dataset", e.Column)
	}
	return fmt.Sprintf("%q column is missing in %s", e.Column, e.Source)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}
