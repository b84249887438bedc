package attendance

import "errors"

var (
	ErrInvalidMode = errors.New("calculation mode must be either 'tolerant' or 'strict'")
)
