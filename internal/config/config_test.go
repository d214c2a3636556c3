package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "Europe/Dublin", cfg.Timezone)
	assert.Equal(t, "name_stage", cfg.Identity)
	assert.Equal(t, "2025-07-25", cfg.Festival.StartDate)
	assert.Equal(t, 3, cfg.Festival.Days)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, 30, cfg.Notifications.DefaultLeadMinutes)
	assert.Equal(t, "0 */3 * * *", cfg.Weather.Refresh)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_PartialFileIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9090"
identity: slot
storage:
  driver: SQLite
  path: /tmp/ff
notifications:
  default_lead_minutes: 15
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "slot", cfg.Identity)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/ff", cfg.Storage.Path)
	assert.Equal(t, 15, cfg.Notifications.DefaultLeadMinutes)
	assert.Equal(t, "log", cfg.Notifications.Driver)
	assert.Equal(t, "forestfest/reminders", cfg.Notifications.MQTT.Topic)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_EnvOverridesAreNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("FORESTFEST_WEATHER_API_KEY", "from-env")
	t.Setenv("FORESTFEST_LISTEN", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Weather.APIKey)
	assert.Equal(t, ":7070", cfg.Listen)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "from-env")
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"FORESTFEST_STORAGE_DRIVER":      "redis",
		"FORESTFEST_REDIS_ADDR":          "localhost:6379",
		"FORESTFEST_REDIS_DB":            "2",
		"FORESTFEST_NOTIFY_DRIVER":       "mqtt",
		"FORESTFEST_MQTT_BROKER":         "tcp://broker:1883",
		"FORESTFEST_BASIC_AUTH_USERNAME": "crew",
		"FORESTFEST_BASIC_AUTH_PASSWORD": "hunter2",
		"FORESTFEST_LEAD_MINUTES":        "45",
		"UNRELATED_STORAGE_DRIVER":       "badger",
	}))
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "localhost:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, 2, cfg.Storage.RedisDB)
	assert.Equal(t, "mqtt", cfg.Notifications.Driver)
	assert.Equal(t, 45, cfg.Notifications.DefaultLeadMinutes)
	require.NotNil(t, cfg.BasicAuth)
	assert.Equal(t, "crew", cfg.BasicAuth.Username)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_BadNumber(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{"FORESTFEST_REDIS_DB": "two"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORESTFEST_REDIS_DB")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Identity = "uuid"
	cfg.Storage.Driver = "redis"
	cfg.Notifications.Driver = "mqtt"
	cfg.Festival.Days = 4
	cfg.Festival.RRule = "FREQ=FORTNIGHTLY"
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"identity", "storage.redis_addr", "notifications.mqtt.broker", "festival.days", "festival.rrule"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestNormalize_DropsEmptyBasicAuth(t *testing.T) {
	cfg := &Config{BasicAuth: &BasicAuthConfig{}}
	cfg.Normalize()
	assert.Nil(t, cfg.BasicAuth)
}

func TestRedacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weather.APIKey = "abc"
	cfg.BasicAuth = &BasicAuthConfig{Username: "crew", Password: "hunter2"}

	r := cfg.Redacted()
	assert.Equal(t, "********", r.Weather.APIKey)
	assert.Equal(t, "********", r.BasicAuth.Password)
	assert.Equal(t, "crew", r.BasicAuth.Username)
	assert.Empty(t, r.Storage.RedisPassword)
	assert.Equal(t, "hunter2", cfg.BasicAuth.Password, "original untouched")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Notifications.DefaultLeadMinutes = 10
	cfg.Festival.Name = "Forest Fest 2025"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FORESTFEST_TEST_DOTENV=loaded\n"), 0o600))
	t.Setenv("FORESTFEST_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("FORESTFEST_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "loaded", os.Getenv("FORESTFEST_TEST_DOTENV"))
	require.NoError(t, os.Unsetenv("FORESTFEST_TEST_DOTENV"))
}
