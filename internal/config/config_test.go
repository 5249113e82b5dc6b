package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  http_port: ":8080"
storage:
  driver: local
  base_dir: /var/lib/images
sweeper:
  retention: 30m
kafka:
  enabled: true
  brokers: ["kafka:9092"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.HTTPPort)
	require.Equal(t, "local", cfg.Storage.Driver)
	require.Equal(t, "/var/lib/images", cfg.Storage.BaseDir)
	require.Equal(t, 30*time.Minute, cfg.Sweeper.Retention)
	require.True(t, cfg.Kafka.Enabled)
	require.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  http_port: \":9000\"\n"))
	require.NoError(t, err)

	require.Equal(t, time.Hour, cfg.Sweeper.Retention)
	require.Equal(t, 10*time.Minute, cfg.Sweeper.Interval)
	require.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	require.Equal(t, int64(1<<20), cfg.Upload.MaxBytes)
	require.Equal(t, 95, cfg.Storage.JPEGQuality)
	require.Equal(t, "sweep-requests", cfg.Kafka.Topic)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STORAGE_BASE_DIR", "/tmp/from-env")

	cfg, err := Load(writeConfig(t, "storage:\n  base_dir: ./static\n"))
	require.NoError(t, err)

	require.Equal(t, "/tmp/from-env", cfg.Storage.BaseDir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
