package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[log]
output = "stdout"
level = "debug"

[http]
host = "127.0.0.1"
port = 9090
accessLog = true
defaultLang = "zh"

[database]
type = "sqlite"

[database.sqlite]
path = "./data/roleadmin.db"

[redis]
mode = ""

[metrics]
enable = true

[role]
txMaxAttempts = 5
txBackoffMs = 20
selectCacheTTL = 60

[trace]
enabled = true
protocol = "http"
endpoint = "otel-collector:4318"
sampleRatio = 0.5
`

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	conf, err := LoadConfigFile(writeConf(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "debug", conf.Log.Level)
	assert.Equal(t, "127.0.0.1", conf.Http.Host)
	assert.Equal(t, 9090, conf.Http.Port)
	assert.True(t, conf.Http.AccessLog)
	assert.Equal(t, "zh", conf.Http.DefaultLang)
	assert.Equal(t, "sqlite", conf.Database.Type)
	assert.Equal(t, "./data/roleadmin.db", conf.Database.SQLite.Path)
	assert.False(t, conf.Redis.Enabled())
	assert.True(t, conf.Metrics.Enable)
	assert.Equal(t, 5, conf.Role.TxMaxAttempts)
	assert.Equal(t, 60, conf.Role.SelectCacheTTL)

	traceConf := ProvideTraceConfig(conf)
	assert.True(t, traceConf.Enabled)
	assert.Equal(t, "http", traceConf.Protocol)
	assert.Equal(t, "otel-collector:4318", traceConf.Endpoint)
	assert.Equal(t, 0.5, traceConf.SampleRatio)
}

func TestLoadConfigFile_TraceEnvOverride(t *testing.T) {
	t.Setenv("ROLEADMIN_TRACE_ENABLED", "false")

	conf, err := LoadConfigFile(writeConf(t, sample))
	require.NoError(t, err)
	assert.False(t, conf.Trace.Enabled)
}

func TestLoadConfigFile_EnvOverride(t *testing.T) {
	t.Setenv("ROLEADMIN_DATABASE_SQLITE_PATH", "/var/lib/roleadmin.db")

	conf, err := LoadConfigFile(writeConf(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/roleadmin.db", conf.Database.SQLite.Path)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestProviders_ApplyDefaults(t *testing.T) {
	conf, err := LoadConfigFile(writeConf(t, "[log]\nlevel = \"info\"\n"))
	require.NoError(t, err)

	httpConf := ProvideHttpConfig(conf)
	assert.Equal(t, 8080, httpConf.Port)

	roleConf := ProvideRoleConfig(conf)
	assert.Equal(t, 3, roleConf.TxMaxAttempts)
	assert.Equal(t, 300, roleConf.SelectCacheTTL)

	assert.Equal(t, "/metrics", ProvideMetricsConfig(conf).Path)
	assert.False(t, ProvideTraceConfig(conf).Enabled)
}
