package punch

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognizedFormat = errors.New("unrecognized time clock export format")
	ErrMissingColumn      = errors.New("missing required column")
	ErrEmptySheet         = errors.New("spreadsheet has no data rows")
)

// MissingColumnError names the required column absent from the first row.
type MissingColumnError struct {
	Schema Schema
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q for format %s", e.Column, e.Schema)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}
