package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	require.NoError(t, LoadConfig("", nil))
	require.Equal(t, "timekit", Config.AppName)
	require.Equal(t, int64(10), Config.TickSpanMs)
	require.Equal(t, int64(10), Config.PollIntervalMs)
}

func TestLoadFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "conf.json")
	body := `{"app_name":"demo","tick_span_ms":5,"poll_interval_ms":20,"log_level":2}`
	require.NoError(t, os.WriteFile(file, []byte(body), 0644))

	require.NoError(t, LoadConfig(file, nil))
	require.Equal(t, "demo", Config.AppName)
	require.Equal(t, int64(5), Config.TickSpanMs)
	require.Equal(t, int64(20), Config.PollIntervalMs)
	require.Equal(t, 2, Config.LogLevel)
	// 没写的字段保持默认
	require.True(t, Config.LogStdOut)
}

func TestLoadEnvOverride(t *testing.T) {
	require.NoError(t, LoadConfig("", func(c *AppConfig) error {
		c.TickSpanMs = 1
		return nil
	}))
	require.Equal(t, int64(1), Config.TickSpanMs)
}

func TestJsonFormat(t *testing.T) {
	require.NoError(t, LoadConfig("", nil))
	require.Contains(t, Config.JsonFormat(), `"app_name": "timekit"`)

	var nilConf *AppConfig
	require.Equal(t, "{}", nilConf.JsonFormat())
}

func TestLoadMissingFile(t *testing.T) {
	require.Error(t, LoadConfig("/no/such/file.json", nil))
}
