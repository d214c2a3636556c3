package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

// Config captures options for the global logger.
type Config struct {
	Level  string    // "debug", "info", "error"; empty keeps the current level
	Output io.Writer // defaults to os.Stderr
	Pretty bool      // human readable console output instead of JSON
}

var (
	mu   sync.RWMutex
	base = newLogger(os.Stderr, false)
)

func newLogger(w io.Writer, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Str("service", "forestfest").Logger()
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Configure replaces the global logger. Safe to call more than once; the CLI
// calls it after flags are parsed.
func Configure(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	mu.Lock()
	base = newLogger(out, cfg.Pretty)
	mu.Unlock()

	if cfg.Level != "" {
		SetLevel(Level(strings.ToUpper(cfg.Level)))
	}
}

// SetLevel sets the minimum level. Unknown values enable everything.
func SetLevel(l Level) {
	switch Level(strings.ToUpper(string(l))) {
	case LevelDebug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case LevelInfo:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case LevelError:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
}

// Base returns the configured logger.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with component.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}

func Debug(msg string, kv ...any) {
	l := Base()
	withKVs(l.Debug(), kv).Msg(msg)
}

func Info(msg string, kv ...any) {
	l := Base()
	withKVs(l.Info(), kv).Msg(msg)
}

func Error(msg string, err error, kv ...any) {
	l := Base()
	withKVs(l.Error().Err(err), kv).Msg(msg)
}

// withKVs expects kv as pairs: key, value, key, value, ...
// Non-string keys are skipped and a trailing odd value is ignored.
func withKVs(ev *zerolog.Event, kv []any) *zerolog.Event {
	if ev == nil {
		return nil
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	return ev
}
