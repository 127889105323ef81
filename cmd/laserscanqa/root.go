package main

import (
	"context"

	"codeberg.org/mutker/laserscanqa/internal/batch"
	"codeberg.org/mutker/laserscanqa/internal/config"
	"codeberg.org/mutker/laserscanqa/internal/history"
	"codeberg.org/mutker/laserscanqa/internal/logger"
	"codeberg.org/mutker/laserscanqa/internal/quality"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "laserscanqa",
	Short: "Laser scan quality assessment",
	Long: `Assess point clouds from laser scans for density, noise,
completeness and geometric accuracy, and write JSON quality reports`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(config.WithConfigFile(cfgFile), config.WithFlags(cmd.Flags()))
		if err != nil {
			return err
		}

		if err := logger.Init(cfg.GetLogLevel().String(), logger.IsService()); err != nil {
			return err
		}

		logger.Debug().
			Str("config_file", cfg.ConfigFile).
			Str("log_level", cfg.GetLogLevel().String()).
			Msg("Config loaded")

		return nil
	},
}

// Execute runs the command line with ctx cancelled on shutdown signals.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default searches ./laserscanqa.toml, $HOME/.config/laserscanqa, /etc/laserscanqa)")
	config.RegisterFlags(rootCmd.PersistentFlags())
}

// newCoordinator wires the engine and the history recorder from the loaded
// config. The caller closes the returned recorder.
func newCoordinator(p config.Provider, opts ...batch.Option) (*batch.Coordinator, history.Recorder, error) {
	log := logger.Get()

	engine, err := quality.NewEngine(p.Quality(), log)
	if err != nil {
		return nil, nil, err
	}

	rec, err := history.NewService(p.HistoryConfig(), log)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]batch.Option{batch.WithLogger(log), batch.WithRecorder(rec)}, opts...)

	return batch.New(engine, opts...), rec, nil
}

func closeRecorder(rec history.Recorder) {
	if err := rec.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close history")
	}
}
