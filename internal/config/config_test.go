package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, 100, cfg.Scan.Limit)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Scan.Workers)
	assert.Equal(t, int64(1_000_000), cfg.Scan.MaxFileSize)
	assert.Equal(t, 5*time.Second, cfg.Scan.FileTimeout)
	assert.False(t, cfg.Scan.Gitignore)
	assert.Empty(t, cfg.Scan.Exclude)
	assert.Equal(t, "compat", cfg.Metrics.CognitiveMode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
}

func TestLoadFromYAML(t *testing.T) {
	t.Parallel()

	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(`
scan:
  limit: 25
  workers: 2
  file_timeout: 250ms
  exclude: ["**/*_gen.go"]
  languages: [go, python]
metrics:
  cognitive_mode: scoped
output:
  format: toon
`)))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Scan.Limit)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Scan.FileTimeout)
	assert.Equal(t, []string{"**/*_gen.go"}, cfg.Scan.Exclude)
	assert.Equal(t, []string{"go", "python"}, cfg.Scan.Languages)
	assert.Equal(t, "scoped", cfg.Metrics.CognitiveMode)
	assert.Equal(t, FormatTOON, cfg.Output.Format)
	// untouched keys keep their defaults
	assert.Equal(t, int64(1_000_000), cfg.Scan.MaxFileSize)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative limit", func(c *Config) { c.Scan.Limit = -1 }, "scan.limit"},
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }, "scan.workers"},
		{"zero size", func(c *Config) { c.Scan.MaxFileSize = 0 }, "scan.max_file_size"},
		{"zero timeout", func(c *Config) { c.Scan.FileTimeout = 0 }, "scan.file_timeout"},
		{"bad glob", func(c *Config) { c.Scan.Exclude = []string{"[oops"} }, "scan.exclude"},
		{"unknown language", func(c *Config) { c.Scan.Languages = []string{"cobol"} }, "unsupported language"},
		{"bad cognitive mode", func(c *Config) { c.Metrics.CognitiveMode = "fancy" }, "metrics.cognitive_mode"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad output format", func(c *Config) { c.Output.Format = "csv" }, "output.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewViperConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  limit: 7\n"), 0o644))

	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Scan.Limit)
}

func TestNewViperMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := NewViper(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestNewViperBrokenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan: [unclosed\n"), 0o644))

	_, err := NewViper(path)
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("CXSCAN_SCAN_LIMIT", "3")
	t.Setenv("CXSCAN_SCAN_LANGUAGES", "go, rust")
	t.Setenv("CXSCAN_OUTPUT_FORMAT", "yaml")

	v, err := NewViper("")
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scan.Limit)
	assert.Equal(t, []string{"go", "rust"}, cfg.Scan.Languages)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CXSCAN_TEST_DOTENV=from-file\n"), 0o644))
	t.Setenv("CXSCAN_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("CXSCAN_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("CXSCAN_TEST_DOTENV"))
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", " ", "c"}))
	assert.Nil(t, splitList(nil))
}
