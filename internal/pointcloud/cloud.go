package pointcloud

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Cloud is an ordered set of 3D points read from one scan.
type Cloud struct {
	Source string
	Points []r3.Vec
}

// New wraps points in a Cloud without copying them.
func New(points ...r3.Vec) *Cloud {
	return &Cloud{Points: points}
}

// Len returns the number of points, treating a nil Cloud as empty.
func (c *Cloud) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Points)
}

// Empty reports whether the cloud holds no points.
func (c *Cloud) Empty() bool {
	return c.Len() == 0
}

// Bounds returns the axis-aligned bounding box of the cloud. An empty cloud
// yields the zero Box.
func Bounds(points []r3.Vec) r3.Box {
	if len(points) == 0 {
		return r3.Box{}
	}

	box := r3.Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min.X = min(box.Min.X, p.X)
		box.Min.Y = min(box.Min.Y, p.Y)
		box.Min.Z = min(box.Min.Z, p.Z)
		box.Max.X = max(box.Max.X, p.X)
		box.Max.Y = max(box.Max.Y, p.Y)
		box.Max.Z = max(box.Max.Z, p.Z)
	}

	return box
}

// Volume returns the volume of the bounding box of points.
func Volume(points []r3.Vec) float64 {
	size := Bounds(points).Size()
	return size.X * size.Y * size.Z
}

// Axes splits points into per-axis coordinate slices.
func Axes(points []r3.Vec) (xs, ys, zs []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	zs = make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}

	return xs, ys, zs
}
