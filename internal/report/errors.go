package report

import "codeberg.org/mutker/laserscanqa/internal/errors"

const (
	ErrWriteFailed = errors.ErrorCode("report_write_failed")
	ErrReadFailed  = errors.ErrorCode("report_read_failed")
	ErrInvalid     = errors.ErrorCode("report_invalid")
)
