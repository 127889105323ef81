package quality

import (
	"context"
	"time"

	"codeberg.org/mutker/laserscanqa/internal/errors"
	"codeberg.org/mutker/laserscanqa/internal/logger"
	"codeberg.org/mutker/laserscanqa/internal/pointcloud"
	"gonum.org/v1/gonum/spatial/r3"
)

// Engine computes ScanMetrics and keeps a bounded history of its results.
type Engine struct {
	cfg     Config
	history *History
	logger  logger.Logger
}

func NewEngine(cfg Config, log logger.Logger) (*Engine, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if log == nil {
		log = logger.Nop()
	}

	return &Engine{
		cfg:     cfg,
		history: NewHistory(cfg.HistorySize),
		logger:  log,
	}, nil
}

func (e *Engine) Config() Config {
	return e.cfg
}

// History returns the engine's bounded assessment history.
func (e *Engine) History() *History {
	return e.history
}

// Run assesses cloud, optionally against reference. An empty cloud is an
// error. The run is bounded by MaxProcessingTime when it is set.
func (e *Engine) Run(ctx context.Context, cloud, reference *pointcloud.Cloud) (*ScanMetrics, error) {
	errFactory := errors.New()

	if cloud.Empty() {
		return nil, errFactory.New(ErrEmptyInput)
	}

	if e.cfg.MaxProcessingTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.MaxProcessingTime)
		defer cancel()
	}

	start := time.Now()
	points := cloud.Points

	m := ScanMetrics{PointCount: len(points)}

	m.Density = Density(points)
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	m.NoiseLevel = NoiseLevel(points, e.cfg.NoiseNeighbors)
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	m.Completeness = Completeness(points, e.cfg.Density)

	var refPoints []r3.Vec
	if reference != nil {
		refPoints = reference.Points
	}
	accuracy, err := GeometricAccuracy(ctx, points, refPoints)
	if err != nil {
		return nil, contextError(err)
	}
	m.GeometricAccuracy = accuracy
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	m.Timestamp = time.Now()
	m.ProcessingTime = m.Timestamp.Sub(start)

	e.history.Add(m)

	e.logger.Debug().
		Str("source", cloud.Source).
		Int("points", m.PointCount).
		Float64("density", m.Density).
		Float64("noise_level", m.NoiseLevel).
		Float64("completeness", m.Completeness).
		Float64("geometric_accuracy", m.GeometricAccuracy).
		Dur("processing_time", m.ProcessingTime).
		Msg("Assessment complete")

	return &m, nil
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return contextError(err)
	}
	return nil
}

func contextError(err error) error {
	errFactory := errors.New()
	if errors.Is(err, context.DeadlineExceeded) {
		return errFactory.Wrap(ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return errFactory.Wrap(ErrCanceled, err)
	}
	return err
}
