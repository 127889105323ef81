package quality

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// ctxCheckInterval is how many queries run between context checks.
const ctxCheckInterval = 4096

// ReferenceIndex answers nearest-point queries against a reference cloud.
type ReferenceIndex struct {
	tree *kdtree.Tree
}

// NewReferenceIndex builds a k-d tree over reference. The input is copied.
func NewReferenceIndex(reference []r3.Vec) *ReferenceIndex {
	pts := make(kdtree.Points, len(reference))
	for i, p := range reference {
		pts[i] = kdtree.Point{p.X, p.Y, p.Z}
	}

	return &ReferenceIndex{tree: kdtree.New(pts, false)}
}

// Len returns the number of indexed reference points.
func (ri *ReferenceIndex) Len() int {
	return ri.tree.Len()
}

// Nearest returns the Euclidean distance from p to the closest reference
// point, or +Inf for an empty index.
func (ri *ReferenceIndex) Nearest(p r3.Vec) float64 {
	_, d2 := ri.tree.Nearest(kdtree.Point{p.X, p.Y, p.Z})
	return math.Sqrt(d2)
}

// MeanDistance averages Nearest over points.
func (ri *ReferenceIndex) MeanDistance(ctx context.Context, points []r3.Vec) (float64, error) {
	var sum float64
	for i, p := range points {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		sum += ri.Nearest(p)
	}

	return sum / float64(len(points)), nil
}
