package repository

import "errors"

// Sentinel errors returned by repository implementations.
var (
	ErrAlarmNotFound = errors.New("alarm not found")
)
