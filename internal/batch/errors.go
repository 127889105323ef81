package batch

import "codeberg.org/mutker/laserscanqa/internal/errors"

const (
	ErrAssessFile     = errors.ErrAssessFile
	ErrRunBatch       = errors.ErrRunBatch
	ErrOutputDir      = errors.ErrorCode("batch_output_dir_failed")
	ErrAlreadyRunning = errors.ErrAlreadyRunning

	// ErrReportCollision marks a scan whose report name was already written
	// by an earlier scan of the same run, e.g. a/scan.csv and b/scan.csv.
	ErrReportCollision = errors.ErrorCode("batch_report_collision")
)
