// Package config loads cxscan settings from defaults, an optional YAML file,
// a .env file and CXSCAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/phobologic/cxscan/internal/lang"
	"github.com/phobologic/cxscan/internal/logging"
	"github.com/phobologic/cxscan/internal/metrics"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "CXSCAN"

// FileName is the base name of the config file searched for when none is given.
const FileName = ".cxscan"

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOON = "toon"
)

// Config holds the complete scanner configuration.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan" yaml:"scan"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
}

// ScanConfig controls discovery and the worker pool.
type ScanConfig struct {
	Limit        int           `mapstructure:"limit" yaml:"limit"`
	Workers      int           `mapstructure:"workers" yaml:"workers"`
	MaxFileSize  int64         `mapstructure:"max_file_size" yaml:"max_file_size"`
	FileTimeout  time.Duration `mapstructure:"file_timeout" yaml:"file_timeout"`
	Gitignore    bool          `mapstructure:"gitignore" yaml:"gitignore"`
	Exclude      []string      `mapstructure:"exclude" yaml:"exclude"`
	Languages    []string      `mapstructure:"languages" yaml:"languages"`
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url"`
	IndentBodies bool          `mapstructure:"indent_bodies" yaml:"indent_bodies"`
	CacheSize    int           `mapstructure:"cache_size" yaml:"cache_size"`
}

// MetricsConfig controls metric calculation.
type MetricsConfig struct {
	CognitiveMode string `mapstructure:"cognitive_mode" yaml:"cognitive_mode"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// OutputConfig selects the report encoding.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	// Scan defaults
	v.SetDefault("scan.limit", 100)
	v.SetDefault("scan.workers", runtime.GOMAXPROCS(0))
	v.SetDefault("scan.max_file_size", 1_000_000)
	v.SetDefault("scan.file_timeout", "5s")
	v.SetDefault("scan.gitignore", false)
	v.SetDefault("scan.exclude", []string{})
	v.SetDefault("scan.languages", []string{})
	v.SetDefault("scan.base_url", "")
	v.SetDefault("scan.indent_bodies", false)
	v.SetDefault("scan.cache_size", 4096)

	v.SetDefault("metrics.cognitive_mode", string(metrics.CognitiveCompat))

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("output.format", FormatJSON)
}

// Default returns the configuration produced by the defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		panic(fmt.Errorf("invalid default configuration: %w", err))
	}
	return cfg
}

// NewViper builds a viper instance with defaults, environment overrides and
// the config file at path. With an empty path, .cxscan.yaml is looked up in
// the working directory and then the home directory; a missing file is not
// an error.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return v, nil
}

// LoadDotEnv loads variables from the given .env files (default ./.env)
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Scan.Exclude = splitList(cfg.Scan.Exclude)
	cfg.Scan.Languages = splitList(cfg.Scan.Languages)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Scan.Limit < 0 {
		return errors.New("scan.limit must not be negative")
	}
	if c.Scan.Workers < 1 {
		return errors.New("scan.workers must be at least 1")
	}
	if c.Scan.MaxFileSize < 1 {
		return errors.New("scan.max_file_size must be positive")
	}
	if c.Scan.FileTimeout <= 0 {
		return errors.New("scan.file_timeout must be positive")
	}
	if c.Scan.CacheSize < 0 {
		return errors.New("scan.cache_size must not be negative")
	}
	for _, pattern := range c.Scan.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("scan.exclude: invalid pattern %q", pattern)
		}
	}
	for _, name := range c.Scan.Languages {
		if _, ok := lang.Get(name); !ok {
			return fmt.Errorf("scan.languages: unsupported language %q (supported: %s)",
				name, strings.Join(lang.Names(), ", "))
		}
	}
	if _, err := metrics.ParseCognitiveMode(c.Metrics.CognitiveMode); err != nil {
		return fmt.Errorf("metrics.cognitive_mode: %w", err)
	}
	if _, err := logging.LevelFromString(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	switch c.Output.Format {
	case FormatJSON, FormatYAML, FormatTOON:
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	return nil
}

// splitList flattens comma-separated entries, as produced by a single
// environment variable, and drops blanks.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
