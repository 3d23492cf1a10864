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
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
server:
  jwt_secret: test-secret
  upload_dir: `+filepath.Join(dir, "uploads")+`
database:
  path: `+filepath.Join(dir, "db", "app.db")+`
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 59, cfg.Scheduler.TickSeconds)
	assert.Equal(t, 59*time.Second, cfg.SchedulerTick())
	assert.Equal(t, 10, cfg.Scheduler.MaxConcurrentNotifications)
	assert.Equal(t, "gemini-1.5-flash-latest", cfg.Gemini.Model)

	// Directory for the database is created on load.
	_, err = os.Stat(filepath.Join(dir, "db"))
	assert.NoError(t, err)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "expanded-secret")
	dir := t.TempDir()
	path := writeConfig(t, `
server:
  jwt_secret: ${TEST_JWT_SECRET}
  upload_dir: `+filepath.Join(dir, "uploads")+`
database:
  path: `+filepath.Join(dir, "app.db")+`
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded-secret", cfg.Server.JWTSecret)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
