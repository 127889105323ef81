package pointcloud

import (
	"bufio"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"codeberg.org/mutker/laserscanqa/internal/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

const defaultFilePerm = 0o644

// Profile describes a synthetic scan: Count points uniform in [0, Size)^3,
// each coordinate jittered by Gaussian noise with standard deviation Sigma.
type Profile struct {
	Name  string
	Count int
	Size  float64
	Sigma float64
}

// SampleProfiles are the good, medium and poor reference scans.
var SampleProfiles = []Profile{
	{Name: "scan_good", Count: 8000, Size: 2.0},
	{Name: "scan_medium", Count: 4000, Size: 1.5, Sigma: 0.05},
	{Name: "scan_poor", Count: 1500, Size: 1.0, Sigma: 0.1},
}

// Synthesize generates the points for p using rng.
func Synthesize(p Profile, rng *rand.Rand) []r3.Vec {
	points := make([]r3.Vec, p.Count)
	for i := range points {
		v := r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
		v = r3.Scale(p.Size, v)
		if p.Sigma > 0 {
			v = r3.Add(v, r3.Vec{
				X: rng.NormFloat64() * p.Sigma,
				Y: rng.NormFloat64() * p.Sigma,
				Z: rng.NormFloat64() * p.Sigma,
			})
		}
		points[i] = v
	}

	return points
}

// Save writes points to path as headerless x,y,z lines.
func Save(path string, points []r3.Vec) error {
	errFactory := errors.New()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, defaultFilePerm)
	if err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	w := bufio.NewWriter(f)
	buf := make([]byte, 0, 96)
	for _, p := range points {
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, p.X, 'g', -1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, p.Y, 'g', -1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, p.Z, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			f.Close()
			return errFactory.Wrap(ErrWriteFailed, err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	if err := f.Close(); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	return nil
}

// WriteSamples writes every SampleProfiles scan into dir and returns the paths.
func WriteSamples(dir string, seed int64) ([]string, error) {
	rng := rand.New(rand.NewSource(seed))

	paths := make([]string, 0, len(SampleProfiles))
	for _, p := range SampleProfiles {
		path := filepath.Join(dir, p.Name+Extension)
		if err := Save(path, Synthesize(p, rng)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}
