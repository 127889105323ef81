package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/laserscanqa/internal/errors"
	"codeberg.org/mutker/laserscanqa/internal/history"
	"codeberg.org/mutker/laserscanqa/internal/quality"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix  = "LASERSCANQA"
	DefaultConfigName = "laserscanqa"
	DefaultLogLevel   = LogLevelInfo
	DefaultOutputDir  = "reports"
)

// Configuration keys, shared by the TOML file, the environment
// (LASERSCANQA_<KEY>) and the command line.
const (
	KeyDensityThreshold      = "density_threshold"
	KeyNoiseThreshold        = "noise_threshold"
	KeyCompletenessThreshold = "completeness_threshold"
	KeyMaxProcessingTime     = "max_processing_time"
	KeyNoiseNeighbors        = "noise_neighbors"
	KeyHistorySize           = "history_size"
	KeyLogLevel              = "log_level"
	KeyOutputDir             = "output_dir"
	KeyHistory               = "history"
	KeyHistoryDB             = "history_db"
	KeyDebug                 = "debug"
	KeyVerbose               = "verbose"
)

type Config struct {
	DensityThreshold      float64  `mapstructure:"density_threshold"`
	NoiseThreshold        float64  `mapstructure:"noise_threshold"`
	CompletenessThreshold float64  `mapstructure:"completeness_threshold"`
	MaxProcessingTime     float64  `mapstructure:"max_processing_time"` // seconds, 0 disables
	NoiseNeighbors        int      `mapstructure:"noise_neighbors"`
	HistorySize           int      `mapstructure:"history_size"`
	LogLevel              LogLevel `mapstructure:"log_level"`
	OutputDir             string   `mapstructure:"output_dir"`
	History               bool     `mapstructure:"history"`
	HistoryDB             string   `mapstructure:"history_db"`
	Debug                 bool     `mapstructure:"debug"`
	Verbose               bool     `mapstructure:"verbose"`

	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

var _ Provider = (*Config)(nil)

// Load merges defaults, the config file, the environment and any flags,
// in increasing order of precedence, and validates the result.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, o); err != nil {
		return nil, err
	}

	if o.flags != nil {
		if err := bindFlags(v, o.flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.LogLevel = normalizeLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	q := quality.DefaultConfig()

	v.SetDefault(KeyDensityThreshold, q.Density)
	v.SetDefault(KeyNoiseThreshold, q.Noise)
	v.SetDefault(KeyCompletenessThreshold, q.Completeness)
	v.SetDefault(KeyMaxProcessingTime, q.MaxProcessingTime.Seconds())
	v.SetDefault(KeyNoiseNeighbors, q.NoiseNeighbors)
	v.SetDefault(KeyHistorySize, q.HistorySize)
	v.SetDefault(KeyLogLevel, string(DefaultLogLevel))
	v.SetDefault(KeyOutputDir, DefaultOutputDir)
	v.SetDefault(KeyHistory, false)
	v.SetDefault(KeyHistoryDB, history.DefaultDBPath())
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyVerbose, false)
}

func readConfigFile(v *viper.Viper, o *options) error {
	errFactory := errors.New()

	v.SetConfigType("toml")

	path := o.configPath
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
		return nil
	}

	v.SetConfigName(DefaultConfigName)
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
	}
	v.AddConfigPath(filepath.Join("/etc", DefaultConfigName))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errFactory.Wrap(errors.ErrReadConfig, err)
	}

	return nil
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"density-threshold":      KeyDensityThreshold,
	"noise-threshold":        KeyNoiseThreshold,
	"completeness-threshold": KeyCompletenessThreshold,
	"max-processing-time":    KeyMaxProcessingTime,
	"noise-neighbors":        KeyNoiseNeighbors,
	"history-size":           KeyHistorySize,
	"log-level":              KeyLogLevel,
	"output-dir":             KeyOutputDir,
	"history":                KeyHistory,
	"history-db":             KeyHistoryDB,
	"debug":                  KeyDebug,
	"verbose":                KeyVerbose,
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	errFactory := errors.New()

	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errFactory.WithData(errors.ErrBindFlags, struct {
				Flag  string
				Error string
			}{
				Flag:  name,
				Error: err.Error(),
			})
		}
	}

	return nil
}

// RegisterFlags adds the global configuration flags to fs. Their defaults
// are only shown in help; unset flags never override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	q := quality.DefaultConfig()

	fs.Float64("density-threshold", q.Density, "minimum point density (points per cubic unit)")
	fs.Float64("noise-threshold", q.Noise, "maximum acceptable noise level")
	fs.Float64("completeness-threshold", q.Completeness, "minimum completeness ratio")
	fs.Float64("max-processing-time", q.MaxProcessingTime.Seconds(), "per-scan time limit in seconds, 0 disables it")
	fs.Int("noise-neighbors", q.NoiseNeighbors, "neighbourhood size used for noise estimation")
	fs.Int("history-size", q.HistorySize, "number of assessments kept in memory, 0 disables it")
	fs.String("log-level", string(DefaultLogLevel), "log level (debug, info, warning, error)")
	fs.Bool("history", false, "record assessments in the history database")
	fs.String("history-db", history.DefaultDBPath(), "path to the history database")
	fs.Bool("debug", false, "enable debug logging")
	fs.Bool("verbose", false, "enable verbose logging")
}

func normalizeLogLevel(l LogLevel) LogLevel {
	l = LogLevel(strings.ToLower(strings.TrimSpace(string(l))))
	if l == "warn" {
		return LogLevelWarning
	}
	return l
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationErrors

	add := func(field string, value any, reason string) {
		errs = append(errs, &fieldError{field: field, value: value, reason: reason})
	}

	if c.DensityThreshold <= 0 {
		add(KeyDensityThreshold, c.DensityThreshold, "must be positive")
	}
	if c.NoiseThreshold <= 0 {
		add(KeyNoiseThreshold, c.NoiseThreshold, "must be positive")
	}
	if c.CompletenessThreshold < 0 || c.CompletenessThreshold > 1 {
		add(KeyCompletenessThreshold, c.CompletenessThreshold, "must be between 0 and 1")
	}
	if c.MaxProcessingTime < 0 {
		add(KeyMaxProcessingTime, c.MaxProcessingTime, "must not be negative")
	}
	if c.NoiseNeighbors < 1 {
		add(KeyNoiseNeighbors, c.NoiseNeighbors, "must be at least 1")
	}
	if c.HistorySize < 0 {
		add(KeyHistorySize, c.HistorySize, "must not be negative")
	}
	if !c.LogLevel.IsValid() {
		add(KeyLogLevel, c.LogLevel, "must be one of debug, info, warning, error")
	}
	if c.OutputDir == "" {
		add(KeyOutputDir, c.OutputDir, "must not be empty")
	}
	if c.History && c.HistoryDB == "" {
		add(KeyHistoryDB, c.HistoryDB, "must be set when history is enabled")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (c *Config) GetLogLevel() LogLevel {
	switch {
	case c.Debug:
		return LogLevelDebug
	case c.Verbose && (c.LogLevel == LogLevelWarning || c.LogLevel == LogLevelError):
		return LogLevelInfo
	default:
		return c.LogLevel
	}
}

func (c *Config) GetOutputDir() string {
	return c.OutputDir
}

func (c *Config) IsHistoryEnabled() bool {
	return c.History
}

func (c *Config) GetHistoryDBPath() string {
	return c.HistoryDB
}

func (c *Config) Quality() quality.Config {
	return quality.Config{
		Thresholds: quality.Thresholds{
			Density:      c.DensityThreshold,
			Noise:        c.NoiseThreshold,
			Completeness: c.CompletenessThreshold,
		},
		NoiseNeighbors:    c.NoiseNeighbors,
		MaxProcessingTime: time.Duration(c.MaxProcessingTime * float64(time.Second)),
		HistorySize:       c.HistorySize,
	}
}

func (c *Config) HistoryConfig() history.Config {
	cfg := history.DefaultConfig()
	cfg.Enabled = c.History
	cfg.DBPath = c.HistoryDB
	return cfg
}
