package report

import (
	"math"
	"time"

	"codeberg.org/mutker/laserscanqa/internal/quality"
)

// Status is the grade given to a single metric.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusWarn Status = "WARN"
)

// Metric names used as keys in detailed_metrics.
const (
	MetricDensity           = "density"
	MetricNoiseLevel        = "noise_level"
	MetricCompleteness      = "completeness"
	MetricGeometricAccuracy = "geometric_accuracy"
)

// AccuracyPassThreshold is the geometric accuracy needed for PASS. Below it
// the metric is only a warning; it never fails a scan.
const AccuracyPassThreshold = 0.7

// Each metric contributes equally to the overall score.
const (
	densityWeight      = 0.25
	noiseWeight        = 0.25
	completenessWeight = 0.25
	accuracyWeight     = 0.25
)

type Summary struct {
	TotalPoints    int   `json:"total_points"`
	OverallQuality Float `json:"overall_quality"`
	ProcessingTime Float `json:"processing_time"` // seconds
}

type Metric struct {
	Value     Float  `json:"value"`
	Status    Status `json:"status"`
	Threshold *Float `json:"threshold,omitempty"`
}

type DetailedMetrics struct {
	Density           Metric `json:"density"`
	NoiseLevel        Metric `json:"noise_level"`
	Completeness      Metric `json:"completeness"`
	GeometricAccuracy Metric `json:"geometric_accuracy"`
}

// NamedMetric pairs a metric with its detailed_metrics key.
type NamedMetric struct {
	Name string
	Metric
}

// Named returns the metrics in report order.
func (d DetailedMetrics) Named() []NamedMetric {
	return []NamedMetric{
		{Name: MetricDensity, Metric: d.Density},
		{Name: MetricNoiseLevel, Metric: d.NoiseLevel},
		{Name: MetricCompleteness, Metric: d.Completeness},
		{Name: MetricGeometricAccuracy, Metric: d.GeometricAccuracy},
	}
}

// Report is the structured outcome of one assessment. It is not modified
// after Build returns it.
type Report struct {
	Summary         Summary         `json:"summary"`
	DetailedMetrics DetailedMetrics `json:"detailed_metrics"`
	Timestamp       Float           `json:"timestamp"` // epoch seconds
}

// MeetsStandards reports whether every thresholded metric passed.
func (r *Report) MeetsStandards() bool {
	for _, m := range r.DetailedMetrics.Named() {
		if m.Threshold != nil && m.Status != StatusPass {
			return false
		}
	}
	return true
}

// OverallQuality combines the metrics into a single score in [0, 1].
func OverallQuality(m *quality.ScanMetrics, t quality.Thresholds) float64 {
	densityScore := math.Min(m.Density/t.Density, 1)
	noiseScore := math.Max(0, 1-m.NoiseLevel/t.Noise)

	return densityWeight*densityScore +
		noiseWeight*noiseScore +
		completenessWeight*m.Completeness +
		accuracyWeight*m.GeometricAccuracy
}

// Build grades m against t and assembles the report.
func Build(m *quality.ScanMetrics, t quality.Thresholds) *Report {
	return &Report{
		Summary: Summary{
			TotalPoints:    m.PointCount,
			OverallQuality: Float(OverallQuality(m, t)),
			ProcessingTime: Float(m.ProcessingTime.Seconds()),
		},
		DetailedMetrics: DetailedMetrics{
			Density: Metric{
				Value:     Float(m.Density),
				Status:    passIf(m.Density >= t.Density, StatusFail),
				Threshold: threshold(t.Density),
			},
			NoiseLevel: Metric{
				Value:     Float(m.NoiseLevel),
				Status:    passIf(m.NoiseLevel <= t.Noise, StatusFail),
				Threshold: threshold(t.Noise),
			},
			Completeness: Metric{
				Value:     Float(m.Completeness),
				Status:    passIf(m.Completeness >= t.Completeness, StatusFail),
				Threshold: threshold(t.Completeness),
			},
			GeometricAccuracy: Metric{
				Value:  Float(m.GeometricAccuracy),
				Status: passIf(m.GeometricAccuracy >= AccuracyPassThreshold, StatusWarn),
			},
		},
		Timestamp: epochSeconds(m.Timestamp),
	}
}

func passIf(ok bool, otherwise Status) Status {
	if ok {
		return StatusPass
	}
	return otherwise
}

func threshold(v float64) *Float {
	f := Float(v)
	return &f
}

func epochSeconds(t time.Time) Float {
	return Float(float64(t.UnixNano()) / float64(time.Second))
}
