package quality

import (
	"context"
	"math"

	"codeberg.org/mutker/laserscanqa/internal/pointcloud"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

const (
	// minVolume is the bounding-box volume below which a cloud is degenerate.
	minVolume = 1e-10

	// degenerateAccuracy is reported when spread cannot be assessed.
	degenerateAccuracy = 0.5

	// uniformityGain scales the spread-based accuracy estimate.
	uniformityGain = 1.5

	// errorScale is the mean reference distance that maps to zero accuracy.
	errorScale = 0.1
)

// Density returns points per cubic unit of the bounding box. A degenerate
// box yields +Inf and an empty cloud yields 0.
func Density(points []r3.Vec) float64 {
	if len(points) == 0 {
		return 0
	}

	volume := pointcloud.Volume(points)
	if volume < minVolume {
		return math.Inf(1)
	}

	return float64(len(points)) / volume
}

// Centroid returns the mean of points.
func Centroid(points []r3.Vec) r3.Vec {
	xs, ys, zs := pointcloud.Axes(points)
	return r3.Vec{
		X: stat.Mean(xs, nil),
		Y: stat.Mean(ys, nil),
		Z: stat.Mean(zs, nil),
	}
}

// NoiseLevel estimates noise in [0, 1] as the mean distance to the centroid,
// normalised by the largest such distance. Clouds with fewer than k+1 points
// do not carry enough samples and report 0.
func NoiseLevel(points []r3.Vec, k int) float64 {
	if len(points) < k+1 || len(points) == 0 {
		return 0
	}

	centroid := Centroid(points)
	distances := make([]float64, len(points))
	for i, p := range points {
		distances[i] = r3.Norm(r3.Sub(p, centroid))
	}

	maxDistance := floats.Max(distances)
	if maxDistance <= 0 {
		maxDistance = 1
	}
	floats.Scale(1/maxDistance, distances)

	return math.Min(stat.Mean(distances, nil), 1)
}

// Completeness is the ratio of actual to expected density, capped at 1.
func Completeness(points []r3.Vec, expectedDensity float64) float64 {
	if expectedDensity == 0 {
		return 0
	}

	return math.Min(Density(points)/expectedDensity, 1)
}

// GeometricAccuracy scores a cloud in [0, 1]. Without a reference it is
// derived from the per-axis spread; with one it falls off linearly with the
// mean nearest-reference distance.
func GeometricAccuracy(ctx context.Context, points, reference []r3.Vec) (float64, error) {
	if len(reference) == 0 {
		return spreadAccuracy(points), nil
	}
	if len(points) == 0 {
		return 0, nil
	}

	index := NewReferenceIndex(reference)
	meanError, err := index.MeanDistance(ctx, points)
	if err != nil {
		return 0, err
	}

	return math.Max(0, 1-meanError/errorScale), nil
}

func spreadAccuracy(points []r3.Vec) float64 {
	if pointcloud.Volume(points) < minVolume {
		return degenerateAccuracy
	}

	xs, ys, zs := pointcloud.Axes(points)
	meanStdDev := (stat.PopStdDev(xs, nil) + stat.PopStdDev(ys, nil) + stat.PopStdDev(zs, nil)) / 3
	uniformity := 1 / (1 + meanStdDev)

	return math.Min(uniformity*uniformityGain, 1)
}
