package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.Client.Origin)
	assert.Equal(t, 2*time.Minute, cfg.Client.UploadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Client.ListingTimeout)
	assert.Equal(t, 2, cfg.Server.DailyQuota)
	assert.Equal(t, int64(50*1024*1024), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "newest", cfg.Client.DefaultOrder)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
client:
  api_url: https://api.example.com
  upload_timeout: 45s
server:
  listen: ":9000"
  daily_quota: 5
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Client.APIURL)
	assert.Equal(t, 45*time.Second, cfg.Client.UploadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Client.ListingTimeout)
	assert.Equal(t, ":9000", cfg.Server.Listen)
	assert.Equal(t, 5, cfg.Server.DailyQuota)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PDF24_API_URL", "https://env.example.com")
	t.Setenv("PDF24_DAILY_QUOTA", "9")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("PDF24_DEFAULT_ORDER", "oldest")

	path := writeConfig(t, "client:\n  api_url: https://file.example.com\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Client.APIURL)
	assert.Equal(t, 9, cfg.Server.DailyQuota)
	assert.True(t, cfg.Storage.MinIO.UseSSL)
	assert.Equal(t, "oldest", cfg.Client.DefaultOrder)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "client: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Server.DailyQuota = 0
	cfg.Storage.Driver = "ftp"
	err := cfg.Validate()
	assert.ErrorContains(t, err, "daily_quota")
	assert.ErrorContains(t, err, "ftp")

	cfg = Default()
	cfg.Storage.Driver = "minio"
	assert.ErrorContains(t, cfg.Validate(), "endpoint")
	cfg.Storage.MinIO.Endpoint = "localhost:9000"
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Client.DefaultOrder = "Oldest"
	assert.NoError(t, cfg.Validate())
	cfg.Client.DefaultOrder = "alphabetical"
	assert.ErrorContains(t, cfg.Validate(), "client.default_order")
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("PDF24_TEST_INT", "123")
	t.Setenv("PDF24_TEST_BAD_INT", "x")
	t.Setenv("PDF24_TEST_BOOL", "invalid")

	assert.Equal(t, 123, getEnvInt("PDF24_TEST_INT", 0))
	assert.Equal(t, 10, getEnvInt("PDF24_TEST_BAD_INT", 10))
	assert.True(t, getEnvBool("PDF24_TEST_BOOL", true))
	assert.Equal(t, "default", getEnv("PDF24_TEST_UNSET", "default"))
}
