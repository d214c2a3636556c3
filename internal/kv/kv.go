package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("kv: key not found")

// Store is a small durable key-value store. Values are JSON documents; the
// typed helpers below take care of encoding.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Options selects and configures a driver.
type Options struct {
	Driver string // file (default), badger, sqlite, redis, memory
	Path   string // file path (file, sqlite) or directory (badger)

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// Open builds the configured store.
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	switch driver {
	case "", "file":
		path := opts.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "state.json")
		}
		return OpenFile(path)
	case "badger":
		return OpenBadger(opts.Path)
	case "sqlite":
		path := opts.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "state.db")
		}
		return OpenSQLite(ctx, path)
	case "redis":
		return OpenRedis(ctx, RedisConfig{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.KeyPrefix,
		})
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("kv: unknown driver %q", opts.Driver)
	}
}

func getJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return nil
}

func setJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// GetStrings reads an ordered string list.
func GetStrings(ctx context.Context, s Store, key string) ([]string, error) {
	var out []string
	if err := getJSON(ctx, s, key, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStrings writes the whole list. A nil list is stored as [].
func SetStrings(ctx context.Context, s Store, key string, v []string) error {
	if v == nil {
		v = []string{}
	}
	return setJSON(ctx, s, key, v)
}

func GetBool(ctx context.Context, s Store, key string) (bool, error) {
	var out bool
	err := getJSON(ctx, s, key, &out)
	return out, err
}

func SetBool(ctx context.Context, s Store, key string, v bool) error {
	return setJSON(ctx, s, key, v)
}

func GetInt(ctx context.Context, s Store, key string) (int, error) {
	var out int
	err := getJSON(ctx, s, key, &out)
	return out, err
}

func SetInt(ctx context.Context, s Store, key string, v int) error {
	return setJSON(ctx, s, key, v)
}

// BoolOr returns def when the key is missing. Other errors are returned.
func BoolOr(ctx context.Context, s Store, key string, def bool) (bool, error) {
	v, err := GetBool(ctx, s, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return v, err
}

// IntOr returns def when the key is missing. Other errors are returned.
func IntOr(ctx context.Context, s Store, key string, def int) (int, error) {
	v, err := GetInt(ctx, s, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return v, err
}
