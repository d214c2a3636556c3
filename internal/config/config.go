package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FORESTFEST_"

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// FestivalConfig pins the festival days to calendar dates.
type FestivalConfig struct {
	Name string `yaml:"name" json:"name"`
	// StartDate is the first festival day, YYYY-MM-DD.
	StartDate string `yaml:"start_date" json:"start_date"`
	Days      int    `yaml:"days" json:"days"`
	// RRule picks the festival dates from StartDate, e.g.
	// "FREQ=WEEKLY;BYDAY=FR,SA" for a festival split across weekends.
	// Empty means consecutive days.
	RRule string `yaml:"rrule,omitempty" json:"rrule,omitempty"`
}

// StorageConfig selects the key-value driver.
type StorageConfig struct {
	// Driver is one of file, badger, sqlite, redis, memory.
	Driver        string `yaml:"driver" json:"driver"`
	Path          string `yaml:"path" json:"path"`
	RedisAddr     string `yaml:"redis_addr,omitempty" json:"redis_addr,omitempty"`
	RedisPassword string `yaml:"redis_password,omitempty" json:"redis_password,omitempty"`
	RedisDB       int    `yaml:"redis_db,omitempty" json:"redis_db,omitempty"`
	KeyPrefix     string `yaml:"key_prefix" json:"key_prefix"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker" json:"broker"`
	ClientID string `yaml:"client_id" json:"client_id"`
	Topic    string `yaml:"topic" json:"topic"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
}

// NotificationsConfig selects where due reminders go.
type NotificationsConfig struct {
	// Driver is log or mqtt.
	Driver             string     `yaml:"driver" json:"driver"`
	DefaultLeadMinutes int        `yaml:"default_lead_minutes" json:"default_lead_minutes"`
	MQTT               MQTTConfig `yaml:"mqtt" json:"mqtt"`
}

type WeatherConfig struct {
	BaseURL   string  `yaml:"base_url" json:"base_url"`
	APIKey    string  `yaml:"api_key" json:"api_key"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
	// Refresh is a five-field cron spec (e.g. "0 */3 * * *").
	Refresh  string `yaml:"refresh" json:"refresh"`
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone of the festival site.
	Timezone string `yaml:"timezone" json:"timezone"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// Identity chooses how performance IDs are derived: name_stage keeps
	// the historical IDs, slot adds day and start time.
	Identity string `yaml:"identity" json:"identity"`

	Festival      FestivalConfig      `yaml:"festival" json:"festival"`
	Storage       StorageConfig       `yaml:"storage" json:"storage"`
	Notifications NotificationsConfig `yaml:"notifications" json:"notifications"`
	Weather       WeatherConfig       `yaml:"weather" json:"weather"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Dublin"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.Identity == "" {
		c.Identity = "name_stage"
	}

	if c.Festival.Name == "" {
		c.Festival.Name = "Forest Fest"
	}
	if c.Festival.StartDate == "" {
		c.Festival.StartDate = "2025-07-25"
	}
	if c.Festival.Days <= 0 {
		c.Festival.Days = 3
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	if c.Storage.Path == "" {
		c.Storage.Path = "./var/forestfest"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "forestfest:"
	}

	if c.Notifications.Driver == "" {
		c.Notifications.Driver = "log"
	}
	c.Notifications.Driver = strings.ToLower(c.Notifications.Driver)
	if c.Notifications.DefaultLeadMinutes <= 0 {
		c.Notifications.DefaultLeadMinutes = 30
	}
	if c.Notifications.MQTT.ClientID == "" {
		c.Notifications.MQTT.ClientID = "forestfest"
	}
	if c.Notifications.MQTT.Topic == "" {
		c.Notifications.MQTT.Topic = "forestfest/reminders"
	}

	if c.Weather.BaseURL == "" {
		c.Weather.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if c.Weather.Latitude == 0 && c.Weather.Longitude == 0 {
		c.Weather.Latitude, c.Weather.Longitude = 53.0869, -7.3375
	}
	if c.Weather.Refresh == "" {
		c.Weather.Refresh = "0 */3 * * *"
	}
	if c.Weather.CacheDir == "" {
		c.Weather.CacheDir = "./var/weather-cache"
	}

	if c.BasicAuth != nil && c.BasicAuth.Username == "" && c.BasicAuth.Password == "" {
		c.BasicAuth = nil
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Identity {
	case "name_stage", "slot":
	default:
		errs = append(errs, fmt.Errorf("identity: unknown strategy %q", c.Identity))
	}
	switch c.Storage.Driver {
	case "file", "badger", "sqlite", "memory":
	case "redis":
		if c.Storage.RedisAddr == "" {
			errs = append(errs, errors.New("storage.redis_addr: required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}
	switch c.Notifications.Driver {
	case "log":
	case "mqtt":
		if c.Notifications.MQTT.Broker == "" {
			errs = append(errs, errors.New("notifications.mqtt.broker: required for the mqtt driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("notifications.driver: unknown driver %q", c.Notifications.Driver))
	}
	if c.Festival.Days > 3 {
		errs = append(errs, fmt.Errorf("festival.days: %d exceeds the three festival days", c.Festival.Days))
	}
	if c.Festival.RRule != "" {
		if _, err := rrule.StrToROption(c.Festival.RRule); err != nil {
			errs = append(errs, fmt.Errorf("festival.rrule: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	out.Storage.RedisPassword = mask(c.Storage.RedisPassword)
	out.Notifications.MQTT.Password = mask(c.Notifications.MQTT.Password)
	out.Weather.APIKey = mask(c.Weather.APIKey)
	if c.BasicAuth != nil {
		ba := *c.BasicAuth
		ba.Password = mask(ba.Password)
		out.BasicAuth = &ba
	}
	return &out
}

// LoadDotEnv loads KEY=VALUE files into the process environment. Missing
// files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from FORESTFEST_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var errs []error
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	str("LISTEN", &c.Listen)
	str("TIMEZONE", &c.Timezone)
	str("LOG_LEVEL", &c.LogLevel)
	str("IDENTITY", &c.Identity)
	str("STORAGE_DRIVER", &c.Storage.Driver)
	str("STORAGE_PATH", &c.Storage.Path)
	str("REDIS_ADDR", &c.Storage.RedisAddr)
	str("REDIS_PASSWORD", &c.Storage.RedisPassword)
	num("REDIS_DB", &c.Storage.RedisDB)
	str("NOTIFY_DRIVER", &c.Notifications.Driver)
	num("LEAD_MINUTES", &c.Notifications.DefaultLeadMinutes)
	str("MQTT_BROKER", &c.Notifications.MQTT.Broker)
	str("MQTT_USERNAME", &c.Notifications.MQTT.Username)
	str("MQTT_PASSWORD", &c.Notifications.MQTT.Password)
	str("WEATHER_API_KEY", &c.Weather.APIKey)

	user, hasUser := lookup(EnvPrefix + "BASIC_AUTH_USERNAME")
	pass, hasPass := lookup(EnvPrefix + "BASIC_AUTH_PASSWORD")
	if hasUser || hasPass {
		if c.BasicAuth == nil {
			c.BasicAuth = &BasicAuthConfig{}
		}
		if hasUser {
			c.BasicAuth.Username = user
		}
		if hasPass {
			c.BasicAuth.Password = pass
		}
	}
	return errors.Join(errs...)
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - FORESTFEST_* variables are applied after the file and are never
//     written back.
//   - The result is normalized and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = *DefaultConfig()
		if err := Save(path, &cfg); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg atomically to path with 0600 permissions, creating the
// parent directory (0700) if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return renameio.WriteFile(path, data, 0o600, renameio.WithStaticPermissions(0o600))
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
