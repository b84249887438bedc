package importing

import "errors"

var (
	ErrFileRequired       = errors.New("time clock file is required")
	ErrDualSchemaMismatch = errors.New("dual import expects a without-errors export first and a with-errors export second")
	ErrInvalidPeriod      = errors.New("period_end must not be before period_start")
)
