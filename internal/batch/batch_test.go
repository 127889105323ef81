package batch_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"codeberg.org/mutker/laserscanqa/internal/batch"
	"codeberg.org/mutker/laserscanqa/internal/errors"
	"codeberg.org/mutker/laserscanqa/internal/history"
	"codeberg.org/mutker/laserscanqa/internal/pid"
	"codeberg.org/mutker/laserscanqa/internal/pointcloud"
	"codeberg.org/mutker/laserscanqa/internal/quality"
	"codeberg.org/mutker/laserscanqa/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

type memRecorder struct {
	mu        sync.Mutex
	snapshots []*history.Snapshot
}

func (m *memRecorder) Record(_ context.Context, s *history.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, s)
	return nil
}

func (m *memRecorder) Recent(context.Context, int) ([]*history.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshots, nil
}

func (*memRecorder) Close() error { return nil }

func unitCube() []r3.Vec {
	var points []r3.Vec
	for _, x := range []float64{0, 1} {
		for _, y := range []float64{0, 1} {
			for _, z := range []float64{0, 1} {
				points = append(points, r3.Vec{X: x, Y: y, Z: z})
			}
		}
	}
	return points
}

func writeCube(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, pointcloud.Save(path, unitCube()))
	return path
}

func newCoordinator(t *testing.T, opts ...batch.Option) *batch.Coordinator {
	t.Helper()
	engine, err := quality.NewEngine(quality.DefaultConfig(), nil)
	require.NoError(t, err)
	return batch.New(engine, opts...)
}

func TestReportPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "scan_good_report.json"), batch.ReportPath("out", "/data/scan_good.csv"))
	assert.Equal(t, filepath.Join("out", "noext_report.json"), batch.ReportPath("out", "noext"))
}

func TestProcessSkipsUnsupported(t *testing.T) {
	dir := t.TempDir()
	a := writeCube(t, filepath.Join(dir, "a.csv"))
	b := writeCube(t, filepath.Join(dir, "b.csv"))
	c := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(c, []byte("1,2,3\n"), 0o644))

	rec := &memRecorder{}
	var seen []string
	coord := newCoordinator(t,
		batch.WithRecorder(rec),
		batch.WithProgress(func(fr batch.FileResult) { seen = append(seen, fr.Path) }))

	out := filepath.Join(dir, "reports")
	result, err := coord.Process(context.Background(), []string{a, b, c}, out)
	require.NoError(t, err)

	require.Len(t, result.Reports, 2)
	require.Len(t, result.Files, 3)
	assert.Equal(t, []string{a, b, c}, seen)

	assert.Equal(t, batch.StatusOK, result.Files[0].Status)
	assert.Equal(t, batch.StatusOK, result.Files[1].Status)
	assert.Equal(t, batch.StatusSkipped, result.Files[2].Status)
	assert.True(t, errors.HasCode(result.Files[2].Err, pointcloud.ErrUnsupportedFormat))
	assert.Equal(t, 2, result.Count(batch.StatusOK))
	assert.Len(t, result.Problems(), 1)

	for _, name := range []string{"a_report.json", "b_report.json"} {
		rep, err := report.Load(filepath.Join(out, name))
		require.NoError(t, err)
		assert.Equal(t, 8, rep.Summary.TotalPoints)
	}
	_, err = os.Stat(filepath.Join(out, "c_report.json"))
	assert.True(t, os.IsNotExist(err))

	// The lock is released when the run ends
	_, err = os.Stat(pid.Path(out))
	assert.True(t, os.IsNotExist(err))

	require.Len(t, rec.snapshots, 2)
	for _, s := range rec.snapshots {
		assert.Equal(t, result.RunID, s.RunID)
	}
	assert.Equal(t, a, rec.snapshots[0].Source)
}

func TestProcessEmptyFileContinues(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("x,y,z\n"), 0o644))
	good := writeCube(t, filepath.Join(dir, "good.csv"))

	result, err := newCoordinator(t).Process(context.Background(), []string{empty, good}, filepath.Join(dir, "out"))
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, batch.StatusFailed, result.Files[0].Status)
	assert.True(t, errors.HasCode(result.Files[0].Err, quality.ErrEmptyInput))
	assert.Equal(t, batch.StatusOK, result.Files[1].Status)
	assert.Len(t, result.Reports, 1)
}

func TestProcessWriteFailure(t *testing.T) {
	dir := t.TempDir()
	a := writeCube(t, filepath.Join(dir, "a.csv"))
	b := writeCube(t, filepath.Join(dir, "b.csv"))

	out := filepath.Join(dir, "out")
	// A directory where the report should go makes the final rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(out, "a_report.json"), 0o755))

	result, err := newCoordinator(t).Process(context.Background(), []string{a, b}, out)
	require.NoError(t, err)

	assert.Len(t, result.Reports, 2)
	assert.Equal(t, batch.StatusWriteFailed, result.Files[0].Status)
	assert.True(t, errors.HasCode(result.Files[0].Err, report.ErrWriteFailed))
	assert.NotNil(t, result.Files[0].Report)
	assert.Equal(t, batch.StatusOK, result.Files[1].Status)
}

func TestProcessSameStemDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	first := writeCube(t, filepath.Join(dir, "a", "scan.csv"))
	second := filepath.Join(dir, "b", "scan.csv")
	require.NoError(t, pointcloud.Save(second, append(unitCube(), r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})))

	out := filepath.Join(dir, "out")
	result, err := newCoordinator(t).Process(context.Background(), []string{first, second}, out)
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, batch.StatusOK, result.Files[0].Status)
	assert.Equal(t, batch.StatusWriteFailed, result.Files[1].Status)
	assert.True(t, errors.HasCode(result.Files[1].Err, batch.ErrReportCollision))
	assert.Contains(t, result.Files[1].Err.Error(), first)

	saved, err := report.Load(filepath.Join(out, "scan_report.json"))
	require.NoError(t, err)
	assert.Equal(t, 8, saved.Summary.TotalPoints)
}

func TestWriteFailureStillRecorded(t *testing.T) {
	dir := t.TempDir()
	a := writeCube(t, filepath.Join(dir, "a.csv"))
	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(out, "a_report.json"), 0o755))

	batchRec := &memRecorder{}
	result, err := newCoordinator(t, batch.WithRecorder(batchRec)).
		Process(context.Background(), []string{a}, out)
	require.NoError(t, err)
	assert.Equal(t, batch.StatusWriteFailed, result.Files[0].Status)
	assert.Len(t, batchRec.snapshots, 1)

	singleRec := &memRecorder{}
	rep, err := newCoordinator(t, batch.WithRecorder(singleRec)).
		AssessFile(context.Background(), a, filepath.Join(out, "a_report.json"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, report.ErrWriteFailed))
	require.NotNil(t, rep)
	assert.Len(t, singleRec.snapshots, 1)
}

func TestProcessLocked(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.WriteFile(pid.Path(out), []byte(strconv.Itoa(os.Getppid())), 0o644))

	_, err := newCoordinator(t).Process(context.Background(), nil, out)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, batch.ErrAlreadyRunning))
}

func TestProcessCanceled(t *testing.T) {
	dir := t.TempDir()
	a := writeCube(t, filepath.Join(dir, "a.csv"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newCoordinator(t).Process(ctx, []string{a}, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, batch.ErrRunBatch))
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, result)
	assert.Empty(t, result.Reports)
}

func TestProcessOutputDirFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := newCoordinator(t).Process(context.Background(), nil, filepath.Join(blocker, "out"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, batch.ErrOutputDir))
}

func TestAssessFile(t *testing.T) {
	dir := t.TempDir()
	a := writeCube(t, filepath.Join(dir, "a.csv"))
	out := filepath.Join(dir, "scan_quality_report.json")

	rec := &memRecorder{}
	rep, err := newCoordinator(t, batch.WithRecorder(rec)).AssessFile(context.Background(), a, out)
	require.NoError(t, err)

	assert.Equal(t, 8, rep.Summary.TotalPoints)
	assert.InDelta(t, 8.0, float64(rep.DetailedMetrics.Density.Value), 1e-9)
	assert.False(t, rep.MeetsStandards())

	saved, err := report.Load(out)
	require.NoError(t, err)
	assert.Equal(t, rep, saved)
	assert.Len(t, rec.snapshots, 1)
}

func TestAssessFileWithReference(t *testing.T) {
	dir := t.TempDir()
	a := writeCube(t, filepath.Join(dir, "a.csv"))

	coord := newCoordinator(t, batch.WithReference(pointcloud.New(unitCube()...)))
	rep, err := coord.AssessFile(context.Background(), a, "")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, float64(rep.DetailedMetrics.GeometricAccuracy.Value), 1e-9)
	assert.Equal(t, report.StatusPass, rep.DetailedMetrics.GeometricAccuracy.Status)
}

func TestAssessFileErrors(t *testing.T) {
	dir := t.TempDir()
	coord := newCoordinator(t)

	_, err := coord.AssessFile(context.Background(), filepath.Join(dir, "scan.ply"), "")
	assert.True(t, errors.HasCode(err, pointcloud.ErrUnsupportedFormat))

	_, err = coord.AssessFile(context.Background(), filepath.Join(dir, "missing.csv"), "")
	assert.True(t, errors.HasCode(err, pointcloud.ErrLoadFailed))

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = coord.AssessFile(context.Background(), empty, "")
	assert.True(t, errors.HasCode(err, batch.ErrAssessFile))
	assert.True(t, errors.HasCode(err, quality.ErrEmptyInput))
}
