package quality

import (
	"context"
	"time"

	"codeberg.org/mutker/laserscanqa/internal/pointcloud"
)

// Assessor runs the full metric set over a cloud.
type Assessor interface {
	Run(ctx context.Context, cloud, reference *pointcloud.Cloud) (*ScanMetrics, error)
	Config() Config
}

// ScanMetrics is the result of one assessment.
type ScanMetrics struct {
	PointCount        int
	Density           float64
	NoiseLevel        float64
	Completeness      float64
	GeometricAccuracy float64
	Timestamp         time.Time
	ProcessingTime    time.Duration
}
