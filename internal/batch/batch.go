package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/laserscanqa/internal/errors"
	"codeberg.org/mutker/laserscanqa/internal/history"
	"codeberg.org/mutker/laserscanqa/internal/logger"
	"codeberg.org/mutker/laserscanqa/internal/pid"
	"codeberg.org/mutker/laserscanqa/internal/pointcloud"
	"codeberg.org/mutker/laserscanqa/internal/quality"
	"codeberg.org/mutker/laserscanqa/internal/report"
	"github.com/google/uuid"
)

const (
	defaultDirPerm = 0o755
	reportSuffix   = "_report.json"
)

// Coordinator drives load, assess, report and record for one or many scans.
type Coordinator struct {
	engine     quality.Assessor
	thresholds quality.Thresholds
	logger     logger.Logger
	recorder   history.Recorder
	reference  *pointcloud.Cloud
	progress   func(FileResult)
}

type Option func(*Coordinator)

func WithLogger(log logger.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithRecorder stores a snapshot of every generated report.
func WithRecorder(rec history.Recorder) Option {
	return func(c *Coordinator) {
		if rec != nil {
			c.recorder = rec
		}
	}
}

// WithReference compares every scan against ref.
func WithReference(ref *pointcloud.Cloud) Option {
	return func(c *Coordinator) {
		c.reference = ref
	}
}

// WithProgress calls fn after each file of a batch is handled.
func WithProgress(fn func(FileResult)) Option {
	return func(c *Coordinator) {
		c.progress = fn
	}
}

func New(engine quality.Assessor, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine:     engine,
		thresholds: engine.Config().Thresholds,
		logger:     logger.Nop(),
		recorder:   history.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReportPath names the report for the scan at path inside outputDir.
func ReportPath(outputDir, path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+reportSuffix)
}

// AssessFile assesses a single scan, saves the report to reportPath unless
// it is empty, and records it in the history. Every completed assessment is
// recorded, saved or not. A report that could not be saved is returned
// together with the error.
func (c *Coordinator) AssessFile(ctx context.Context, path, reportPath string) (*report.Report, error) {
	errFactory := errors.New()

	rep, m, err := c.assess(ctx, path)
	if err != nil {
		return nil, err
	}

	var saveErr error
	if reportPath != "" {
		if err := report.Save(rep, reportPath); err != nil {
			c.logger.Error().Err(err).Str("path", reportPath).Msg("Failed to save report")
			saveErr = errFactory.Wrap(ErrAssessFile, err)
		} else {
			c.logger.Info().Str("path", reportPath).Msg("Report saved")
		}
	}

	c.record(ctx, uuid.NewString(), path, m, rep)

	return rep, saveErr
}

// Process assesses paths in order and writes {stem}_report.json files into
// outputDir. Files that cannot be loaded are skipped; files that fail
// assessment or saving are reported in Result.Files and the batch carries
// on. Only setup failures and cancellation of ctx abort the run, in which
// case the partial result is returned with the error.
func (c *Coordinator) Process(ctx context.Context, paths []string, outputDir string) (*Result, error) {
	errFactory := errors.New()

	if err := os.MkdirAll(outputDir, defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrOutputDir, err)
	}

	if err := pid.Write(outputDir); err != nil {
		return nil, err
	}
	defer func() {
		if err := pid.Remove(outputDir); err != nil {
			c.logger.Warn().Err(err).Str("dir", outputDir).Msg("Failed to remove lock file")
		}
	}()

	result := &Result{
		RunID: uuid.NewString(),
		Files: make([]FileResult, 0, len(paths)),
	}

	written := make(map[string]string, len(paths))

	c.logger.Info().
		Str("run_id", result.RunID).
		Int("files", len(paths)).
		Str("output_dir", outputDir).
		Msg("Starting batch")

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, errFactory.Wrap(ErrRunBatch, err)
		}

		fr := c.processFile(ctx, result.RunID, path, outputDir, written)
		if fr.Status == StatusFailed && ctx.Err() != nil {
			return result, errFactory.Wrap(ErrRunBatch, fr.Err)
		}

		result.Files = append(result.Files, fr)
		if fr.Report != nil {
			result.Reports = append(result.Reports, fr.Report)
		}
		if c.progress != nil {
			c.progress(fr)
		}
	}

	c.logger.Info().
		Str("run_id", result.RunID).
		Int("reports", len(result.Reports)).
		Int("skipped", result.Count(StatusSkipped)).
		Int("failed", result.Count(StatusFailed)+result.Count(StatusWriteFailed)).
		Msg("Batch complete")

	return result, nil
}

// processFile handles one path. written maps the report files saved so far in
// this run to the scan that produced them.
func (c *Coordinator) processFile(ctx context.Context, runID, path, outputDir string, written map[string]string) FileResult {
	fr := FileResult{Path: path}

	cloud, err := pointcloud.Load(path)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("Skipping scan")
		fr.Status = StatusSkipped
		fr.Err = err
		return fr
	}

	rep, m, err := c.run(ctx, cloud)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Assessment failed")
		fr.Status = StatusFailed
		fr.Err = err
		return fr
	}
	fr.Report = rep

	fr.ReportPath = ReportPath(outputDir, path)
	if owner, taken := written[fr.ReportPath]; taken {
		fr.Err = errors.New().WithData(ErrReportCollision, struct {
			Report string
			Owner  string
		}{
			Report: fr.ReportPath,
			Owner:  owner,
		})
		c.logger.Error().Err(fr.Err).Str("path", path).Msg("Report name already used in this run")
		fr.Status = StatusWriteFailed
	} else if err := report.Save(rep, fr.ReportPath); err != nil {
		c.logger.Error().Err(err).Str("path", fr.ReportPath).Msg("Failed to save report")
		fr.Status = StatusWriteFailed
		fr.Err = err
	} else {
		c.logger.Info().Str("path", fr.ReportPath).Msg("Report saved")
		fr.Status = StatusOK
		written[fr.ReportPath] = path
	}

	c.record(ctx, runID, path, m, rep)

	return fr
}

func (c *Coordinator) assess(ctx context.Context, path string) (*report.Report, *quality.ScanMetrics, error) {
	errFactory := errors.New()

	cloud, err := pointcloud.Load(path)
	if err != nil {
		return nil, nil, err
	}

	rep, m, err := c.run(ctx, cloud)
	if err != nil {
		return nil, nil, errFactory.Wrap(ErrAssessFile, err)
	}

	return rep, m, nil
}

func (c *Coordinator) run(ctx context.Context, cloud *pointcloud.Cloud) (*report.Report, *quality.ScanMetrics, error) {
	m, err := c.engine.Run(ctx, cloud, c.reference)
	if err != nil {
		return nil, nil, err
	}
	return report.Build(m, c.thresholds), m, nil
}

func (c *Coordinator) record(ctx context.Context, runID, source string, m *quality.ScanMetrics, rep *report.Report) {
	snapshot := history.NewSnapshot(runID, source, m, float64(rep.Summary.OverallQuality))
	if err := c.recorder.Record(ctx, snapshot); err != nil {
		c.logger.Warn().Err(err).Str("path", source).Msg("Failed to record assessment history")
	}
}
