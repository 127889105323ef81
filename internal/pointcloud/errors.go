package pointcloud

import (
	"fmt"

	"codeberg.org/mutker/laserscanqa/internal/errors"
)

const (
	// Load Errors
	ErrUnsupportedFormat = errors.ErrorCode("pointcloud_unsupported_format")
	ErrLoadFailed        = errors.ErrorCode("pointcloud_load_failed")

	// Write Errors
	ErrWriteFailed = errors.ErrorCode("pointcloud_write_failed")

	// Discovery Errors
	ErrDiscoveryFailed = errors.ErrorCode("pointcloud_discovery_failed")
)

var errNonFinite = fmt.Errorf("coordinate is not a finite number")
