package history

import (
	"context"
	"time"

	"codeberg.org/mutker/laserscanqa/internal/quality"
)

// Recorder is the assessment history consumed by batch runs and the CLI.
type Recorder interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	// Recent returns up to limit snapshots, newest first. A limit of zero
	// or less returns everything.
	Recent(ctx context.Context, limit int) ([]*Snapshot, error)
	Close() error
}

// Repository is the storage behind a Recorder.
type Repository interface {
	Record(snapshot *Snapshot) error
	Recent(limit int) ([]*Snapshot, error)
	Close() error
}

// Snapshot is one stored assessment.
type Snapshot struct {
	ID                string
	RunID             string
	Source            string
	Timestamp         time.Time
	PointCount        int
	Density           float64
	NoiseLevel        float64
	Completeness      float64
	GeometricAccuracy float64
	OverallQuality    float64
	ProcessingTime    time.Duration
}

// NewSnapshot captures m for the scan at source.
func NewSnapshot(runID, source string, m *quality.ScanMetrics, overall float64) *Snapshot {
	return &Snapshot{
		RunID:             runID,
		Source:            source,
		Timestamp:         m.Timestamp,
		PointCount:        m.PointCount,
		Density:           m.Density,
		NoiseLevel:        m.NoiseLevel,
		Completeness:      m.Completeness,
		GeometricAccuracy: m.GeometricAccuracy,
		OverallQuality:    overall,
		ProcessingTime:    m.ProcessingTime,
	}
}
