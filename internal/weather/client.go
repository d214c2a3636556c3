package weather

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/renameio/v2"

	"forestfest/internal/festival"
	appLog "forestfest/internal/log"
)

const (
	DefaultBaseURL   = "https://api.openweathermap.org/data/2.5"
	DefaultLatitude  = 53.0869
	DefaultLongitude = -7.3375
)

// Config selects the forecast endpoint and location.
type Config struct {
	BaseURL   string
	APIKey    string
	Latitude  float64
	Longitude float64
	// CacheDir holds the last good response and its validators. Empty
	// disables the disk cache.
	CacheDir string
	Timeout  time.Duration
}

// Client fetches the 5-day forecast with ETag / Last-Modified revalidation
// and falls back to the cached body when the network fails.
type Client struct {
	cfg  Config
	cal  *festival.Calendar
	http *http.Client
}

// cacheMeta holds HTTP validators for the cached forecast.
type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Result is a fetched forecast plus where it came from.
type Result struct {
	Forecasts []DayForecast
	FromCache bool
}

func NewClient(cfg Config, cal *festival.Calendar) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Latitude == 0 && cfg.Longitude == 0 {
		cfg.Latitude, cfg.Longitude = DefaultLatitude, DefaultLongitude
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		cal:  cal,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Fetch downloads and summarises the forecast for the festival dates.
func (c *Client) Fetch(ctx context.Context) (Result, error) {
	body, fromCache, err := c.fetchBody(ctx)
	if err != nil {
		return Result{}, err
	}
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return Result{}, fmt.Errorf("weather: decode forecast: %w", err)
	}
	appLog.Debug("weather forecast received", "points", len(resp.List), "from_cache", fromCache)

	days, err := summarise(resp, c.cal)
	if err != nil {
		return Result{}, err
	}
	return Result{Forecasts: days, FromCache: fromCache}, nil
}

func (c *Client) endpoint() (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("weather: base url: %w", err)
	}
	u = u.JoinPath("forecast")
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(c.cfg.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.cfg.Longitude, 'f', -1, 64))
	q.Set("appid", c.cfg.APIKey)
	q.Set("units", "metric")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) fetchBody(ctx context.Context) ([]byte, bool, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, false, err
	}

	cachePath := c.cachePath(endpoint)
	var (
		meta       cacheMeta
		cachedBody []byte
	)
	if cachePath != "" {
		meta, _ = loadMeta(cachePath)
		cachedBody, _ = os.ReadFile(filepath.Join(cachePath, "body.json"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if len(cachedBody) > 0 {
			appLog.Error("weather fetch failed; using cached forecast", err, "url", redactURL(endpoint))
			return cachedBody, true, nil
		}
		return nil, false, fmt.Errorf("weather: fetch: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, false, fmt.Errorf("weather: read body: %w", err)
		}
		if cachePath != "" {
			next := cacheMeta{
				URL:          redactURL(endpoint),
				ETag:         resp.Header.Get("ETag"),
				LastModified: resp.Header.Get("Last-Modified"),
			}
			if err := saveCache(cachePath, next, body); err != nil {
				appLog.Error("weather cache save failed", err)
			}
		}
		return body, false, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return nil, false, errors.New("weather: 304 Not Modified without a cached body")
		}
		appLog.Debug("weather forecast not modified; using cache")
		return cachedBody, true, nil

	default:
		if len(cachedBody) > 0 {
			appLog.Error("weather fetch non-OK; using cached forecast", errors.New(resp.Status), "status", resp.StatusCode)
			return cachedBody, true, nil
		}
		return nil, false, fmt.Errorf("weather: unexpected status %s", resp.Status)
	}
}

// cachePath keys the cache on the endpoint so a location change starts
// fresh.
func (c *Client) cachePath(endpoint string) string {
	if c.cfg.CacheDir == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(endpoint))
	return filepath.Join(c.cfg.CacheDir, hex.EncodeToString(sum[:8]))
}

func loadMeta(dir string) (cacheMeta, error) {
	var meta cacheMeta
	data, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func saveCache(dir string, meta cacheMeta, body []byte) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	// Body first so meta never points at a missing body.
	if err := renameio.WriteFile(filepath.Join(dir, "body.json"), body, 0o600); err != nil {
		return err
	}
	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(filepath.Join(dir, "meta.json"), data, 0o600)
}

// redactURL keeps only scheme and host; the query carries the API key.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "weather://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
