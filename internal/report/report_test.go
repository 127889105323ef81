package report_test

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/laserscanqa/internal/errors"
	"codeberg.org/mutker/laserscanqa/internal/quality"
	"codeberg.org/mutker/laserscanqa/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultThresholds = quality.DefaultConfig().Thresholds

func cubeMetrics() *quality.ScanMetrics {
	return &quality.ScanMetrics{
		PointCount:        8,
		Density:           8,
		NoiseLevel:        1,
		Completeness:      0.008,
		GeometricAccuracy: 0.5,
		Timestamp:         time.Unix(1700000000, 500000000),
		ProcessingTime:    250 * time.Millisecond,
	}
}

func TestBuildSparseCube(t *testing.T) {
	r := report.Build(cubeMetrics(), defaultThresholds)

	assert.Equal(t, 8, r.Summary.TotalPoints)
	assert.InDelta(t, 0.25*(0.008+0+0.008+0.5), float64(r.Summary.OverallQuality), 1e-12)
	assert.InDelta(t, 0.25, float64(r.Summary.ProcessingTime), 1e-12)
	assert.InDelta(t, 1700000000.5, float64(r.Timestamp), 1e-6)

	d := r.DetailedMetrics
	assert.Equal(t, report.StatusFail, d.Density.Status)
	assert.Equal(t, report.StatusFail, d.NoiseLevel.Status)
	assert.Equal(t, report.StatusFail, d.Completeness.Status)
	assert.Equal(t, report.StatusWarn, d.GeometricAccuracy.Status)

	require.NotNil(t, d.Density.Threshold)
	assert.InDelta(t, 1000.0, float64(*d.Density.Threshold), 0)
	assert.Nil(t, d.GeometricAccuracy.Threshold)

	assert.False(t, r.MeetsStandards())
}

func TestBuildPassingScan(t *testing.T) {
	m := &quality.ScanMetrics{
		PointCount:        8000,
		Density:           1000,
		NoiseLevel:        0.05,
		Completeness:      0.9,
		GeometricAccuracy: 0.7,
	}

	r := report.Build(m, defaultThresholds)

	for _, nm := range r.DetailedMetrics.Named() {
		assert.Equal(t, report.StatusPass, nm.Status, nm.Name)
	}
	assert.True(t, r.MeetsStandards())
}

func TestAccuracyNeverFails(t *testing.T) {
	m := &quality.ScanMetrics{
		PointCount:        8000,
		Density:           2000,
		NoiseLevel:        0.01,
		Completeness:      1,
		GeometricAccuracy: 0,
	}

	r := report.Build(m, defaultThresholds)

	assert.Equal(t, report.StatusWarn, r.DetailedMetrics.GeometricAccuracy.Status)
	assert.True(t, r.MeetsStandards())
}

func TestOverallQualityBounds(t *testing.T) {
	tests := []struct {
		name string
		m    quality.ScanMetrics
		want float64
	}{
		{
			name: "best",
			m:    quality.ScanMetrics{Density: math.Inf(1), NoiseLevel: 0, Completeness: 1, GeometricAccuracy: 1},
			want: 1,
		},
		{
			name: "worst",
			m:    quality.ScanMetrics{Density: 0, NoiseLevel: 1, Completeness: 0, GeometricAccuracy: 0},
			want: 0,
		},
		{
			name: "density capped",
			m:    quality.ScanMetrics{Density: 5000, NoiseLevel: 1, Completeness: 0, GeometricAccuracy: 0},
			want: 0.25,
		},
		{
			name: "half noise",
			m:    quality.ScanMetrics{Density: 0, NoiseLevel: 0.025, Completeness: 0, GeometricAccuracy: 0},
			want: 0.125,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.OverallQuality(&tt.m, defaultThresholds)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestFloatJSON(t *testing.T) {
	tests := []struct {
		in   report.Float
		want string
	}{
		{in: 1.5, want: "1.5"},
		{in: 0, want: "0"},
		{in: report.Float(math.Inf(1)), want: `"Infinity"`},
		{in: report.Float(math.Inf(-1)), want: `"-Infinity"`},
		{in: report.Float(math.NaN()), want: `"NaN"`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(data))
	}

	var f report.Float
	require.NoError(t, json.Unmarshal([]byte(`"Infinity"`), &f))
	assert.True(t, math.IsInf(float64(f), 1))

	require.NoError(t, json.Unmarshal([]byte(`42.25`), &f))
	assert.InDelta(t, 42.25, float64(f), 0)

	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &f))
}

func TestReportJSONLayout(t *testing.T) {
	m := cubeMetrics()
	m.Density = math.Inf(1)
	r := report.Build(m, defaultThresholds)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var doc map[string]map[string]any
	raw := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "summary")
	assert.Contains(t, raw, "detailed_metrics")
	assert.Contains(t, raw, "timestamp")

	require.NoError(t, json.Unmarshal(raw["detailed_metrics"], &doc))
	assert.Equal(t, "Infinity", doc["density"]["value"])
	assert.Equal(t, "PASS", doc["density"]["status"])
	assert.Contains(t, doc["noise_level"], "threshold")
	assert.NotContains(t, doc["geometric_accuracy"], "threshold")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := cubeMetrics()
	m.Density = math.Inf(1)
	want := report.Build(m, defaultThresholds)

	path := filepath.Join(t.TempDir(), "scan_report.json")
	require.NoError(t, report.Save(want, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"summary\": {")

	got, err := report.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan_report.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, report.Save(report.Build(cubeMetrics(), defaultThresholds), path))

	got, err := report.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Summary.TotalPoints)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "scan_report.json")

	err := report.Save(report.Build(cubeMetrics(), defaultThresholds), path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, report.ErrWriteFailed))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := report.Load(filepath.Join(dir, "nope.json"))
	assert.True(t, errors.HasCode(err, report.ErrReadFailed))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = report.Load(bad)
	assert.True(t, errors.HasCode(err, report.ErrInvalid))
}
