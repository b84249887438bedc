package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrExternalIDRequired = errors.New("employee external id is required")
)
