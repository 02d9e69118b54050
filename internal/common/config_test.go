package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 2019, config.Period.MinYear)
	assert.Equal(t, 2021, config.Period.MaxYear)
	assert.Equal(t, ',', config.Source.DelimiterRune())
	assert.NoError(t, config.Validate())
}

func TestLoadFromFiles_LaterFilesOverride(t *testing.T) {
	dir := t.TempDir()
	base := writeConfigFile(t, dir, "base.toml", `
[server]
port = 9000

[source]
path = "/data/base.csv"

[period]
min_year = 2018
max_year = 2022
`)
	override := writeConfigFile(t, dir, "override.toml", `
[source]
path = "/data/override.csv"
encoding = "windows-1252"
`)

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, "/data/override.csv", config.Source.Path)
	assert.Equal(t, "windows-1252", config.Source.Encoding)
	assert.Equal(t, 2018, config.Period.MinYear)
	assert.Equal(t, 2022, config.Period.MaxYear)
	assert.NoError(t, config.Validate())
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("TREATYVIEW_SERVER_PORT", "9191")
	t.Setenv("TREATYVIEW_SOURCE_PATH", "/env/policies.csv")
	t.Setenv("TREATYVIEW_LOG_OUTPUT", "stdout, file ,")
	t.Setenv("TREATYVIEW_REFRESH_ENABLED", "true")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 9191, config.Server.Port)
	assert.Equal(t, "/env/policies.csv", config.Source.Path)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
	assert.True(t, config.Refresh.Enabled)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()
	ApplyFlagOverrides(config, 7000, "0.0.0.0", "/flag/policies.csv")

	assert.Equal(t, 7000, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "/flag/policies.csv", config.Source.Path)

	ApplyFlagOverrides(config, 0, "", "")
	assert.Equal(t, 7000, config.Server.Port)
}

func TestConfigValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"inverted year range", func(c *Config) { c.Period.MinYear, c.Period.MaxYear = 2021, 2019 }},
		{"unknown encoding", func(c *Config) { c.Source.Encoding = "latin-9" }},
		{"empty source path", func(c *Config) { c.Source.Path = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad throttle", func(c *Config) { c.WebSocket.Throttle = "soon" }},
		{"every-minute refresh", func(c *Config) {
			c.Refresh.Enabled = true
			c.Refresh.Schedule = "* * * * *"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.NoError(t, ValidateSchedule("0 6 * * *"))
	assert.Error(t, ValidateSchedule("*/2 * * * *"))
	assert.Error(t, ValidateSchedule("not a cron"))
}
