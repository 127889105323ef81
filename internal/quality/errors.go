package quality

import "codeberg.org/mutker/laserscanqa/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig

	// Input Errors
	ErrEmptyInput = errors.ErrorCode("quality_empty_input")

	// Operation Errors
	ErrTimeout  = errors.ErrTimeout
	ErrCanceled = errors.ErrorCode("quality_assessment_canceled")
)
