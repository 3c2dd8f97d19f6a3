package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:8080/api/v1/")
	t.Setenv("CONSOLE_ADDR", ":9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "http://backend:8080/api/v1", cfg.BackendURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "admin_activity", cfg.AuditTopic)
	assert.Equal(t, "console.db", cfg.StatePath)
}

func TestLoad_FileFillsBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "console.yaml")
	body := `
listen_addr: ":7070"
backend_url: "http://file-backend/api/v1"
state_path: "/var/lib/console/state.db"
log_level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("BACKEND_URL", "")
	t.Setenv("CONSOLE_ADDR", "")
	t.Setenv("STATE_PATH", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, "http://file-backend/api/v1", cfg.BackendURL)
	assert.Equal(t, "/var/lib/console/state.db", cfg.StatePath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`listen_addr: ":7070"`+"\n"+`backend_url: "http://file"`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CONSOLE_ADDR", ":1234")
	t.Setenv("BACKEND_URL", "http://env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":1234", cfg.ListenAddr)
	assert.Equal(t, "http://env", cfg.BackendURL)
}

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV("a, ,b,"))
}
