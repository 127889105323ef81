package pointcloud

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/laserscanqa/internal/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// Extension is the only file extension Load accepts.
	Extension = ".csv"

	fieldsPerPoint = 3
)

// Supported reports whether path carries the delimited-text extension.
func Supported(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// Load reads a comma-separated x,y,z file into a Cloud. A single leading
// header line is detected and skipped. Loading an empty file is not an error.
func Load(path string) (*Cloud, error) {
	errFactory := errors.New()

	if !Supported(path) {
		return nil, errFactory.WithData(ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errFactory.Wrap(ErrLoadFailed, err)
	}
	defer f.Close()

	points, err := Read(f)
	if err != nil {
		return nil, errFactory.Wrap(ErrLoadFailed, fmt.Errorf("%s: %w", path, err))
	}

	return &Cloud{Source: path, Points: points}, nil
}

// Read parses x,y,z records from r. The first record is strictly parsed as a
// point; if that fails it is taken to be a header. Blank lines and lines
// starting with '#' are ignored.
func Read(r io.Reader) ([]r3.Vec, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var points []r3.Vec
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		p, err := parsePoint(record)
		if err != nil {
			// A non-finite coordinate is a bad point, never a header
			if first && !errors.Is(err, errNonFinite) {
				first = false
				continue
			}
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		first = false

		points = append(points, p)
	}

	return points, nil
}

func parsePoint(record []string) (r3.Vec, error) {
	if len(record) != fieldsPerPoint {
		return r3.Vec{}, fmt.Errorf("expected %d fields, got %d", fieldsPerPoint, len(record))
	}

	var coords [fieldsPerPoint]float64
	for i, field := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return r3.Vec{}, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return r3.Vec{}, fmt.Errorf("%w: %q", errNonFinite, field)
		}
		coords[i] = v
	}

	return r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
