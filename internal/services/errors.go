package services

import "errors"

// Common service errors
var (
	ErrValidation = errors.New("validation failed")
)
