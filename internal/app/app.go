// Package app builds the forestfest object graph from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"forestfest/internal/config"
	"forestfest/internal/conflict"
	"forestfest/internal/favorites"
	"forestfest/internal/festival"
	"forestfest/internal/kv"
	"forestfest/internal/lineup"
	appLog "forestfest/internal/log"
	"forestfest/internal/metrics"
	"forestfest/internal/model"
	"forestfest/internal/notify"
	"forestfest/internal/reminder"
	"forestfest/internal/weather"
	"forestfest/internal/web"
)

// App holds the wired services. Weather is nil when no API key is set.
type App struct {
	Config    *config.Config
	Catalog   *lineup.Catalog
	Calendar  *festival.Calendar
	Store     kv.Store
	Favorites *favorites.Store
	Notifier  *notify.Local
	Reminders *reminder.Scheduler
	Weather   *weather.Service
}

type options struct {
	store   kv.Store
	sink    notify.Sink
	clock   notify.Clock
	now     func() time.Time
	fetcher weather.Fetcher
}

// Option overrides a dependency, mostly for tests.
type Option func(*options)

// WithStore uses s instead of opening the configured driver.
func WithStore(s kv.Store) Option { return func(o *options) { o.store = s } }

// WithSink delivers reminders to s instead of the configured driver.
func WithSink(s notify.Sink) Option { return func(o *options) { o.sink = s } }

func WithClock(c notify.Clock) Option {
	return func(o *options) {
		o.clock = c
		o.now = c.Now
	}
}

// WithWeatherFetcher enables the weather service with f regardless of the
// API key.
func WithWeatherFetcher(f weather.Fetcher) Option { return func(o *options) { o.fetcher = f } }

// New opens storage, loads favorites and settings, and arms the reminders.
// The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	ids, err := model.ParseIDStrategy(cfg.Identity)
	if err != nil {
		return nil, err
	}
	catalog := lineup.Default()
	if ids != model.NameStageIDs {
		catalog = lineup.New(lineup.Dataset(), ids)
	}

	cal, err := festival.NewFromRule(cfg.Festival.StartDate, cfg.Festival.RRule, cfg.Festival.Days, festival.ResolveLocation(cfg.Timezone))
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		store, err = kv.Open(ctx, kv.Options{
			Driver:        cfg.Storage.Driver,
			Path:          cfg.Storage.Path,
			RedisAddr:     cfg.Storage.RedisAddr,
			RedisPassword: cfg.Storage.RedisPassword,
			RedisDB:       cfg.Storage.RedisDB,
			KeyPrefix:     cfg.Storage.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("app: open storage: %w", err)
		}
	}

	a := &App{Config: cfg, Catalog: catalog, Calendar: cal, Store: store}
	if err := a.wire(ctx, o); err != nil {
		_ = store.Close()
		return nil, err
	}
	appLog.Info("forestfest ready",
		"identity", ids.Name(),
		"storage", cfg.Storage.Driver,
		"notifications", cfg.Notifications.Driver,
		"favorites", a.Favorites.Count(),
		"reminders_enabled", a.Reminders.Settings().Enabled,
		"weather", a.Weather != nil,
	)
	return a, nil
}

func (a *App) wire(ctx context.Context, o options) error {
	a.Favorites = favorites.New(a.Store, a.Catalog)
	if err := a.Favorites.Load(ctx); err != nil {
		return err
	}

	sink := o.sink
	if sink == nil {
		var err error
		if sink, err = newSink(a.Config.Notifications); err != nil {
			return err
		}
	}

	// The notifier reports deliveries back to the scheduler, which is built
	// after it.
	var sched *reminder.Scheduler
	nopts := []notify.Option{notify.WithOnFire(func(id string) { sched.MarkFired(id) })}
	if o.clock != nil {
		nopts = append(nopts, notify.WithClock(o.clock))
	}
	a.Notifier = notify.NewLocal(sink, nopts...)

	sched = reminder.New(reminder.Options{
		Store:       a.Store,
		Catalog:     a.Catalog,
		Calendar:    a.Calendar,
		Notifier:    a.Notifier,
		Now:         o.now,
		DefaultLead: a.Config.Notifications.DefaultLeadMinutes,
	})
	if err := sched.Load(ctx, a.Favorites.IDs()); err != nil {
		_ = a.Notifier.Close()
		return err
	}
	a.Reminders = sched

	a.Favorites.Subscribe(sched)
	a.Favorites.Subscribe(favorites.ListenerFunc(a.recordFavorites))
	a.recordFavorites(ctx, a.Favorites.IDs())
	sched.Reschedule(ctx)

	switch {
	case o.fetcher != nil:
		a.Weather = weather.NewService(o.fetcher)
	case a.Config.Weather.APIKey != "":
		a.Weather = weather.NewService(weather.NewClient(weather.Config{
			BaseURL:   a.Config.Weather.BaseURL,
			APIKey:    a.Config.Weather.APIKey,
			Latitude:  a.Config.Weather.Latitude,
			Longitude: a.Config.Weather.Longitude,
			CacheDir:  a.Config.Weather.CacheDir,
		}, a.Calendar))
	default:
		appLog.Info("weather disabled: no API key configured")
	}
	return nil
}

// recordFavorites keeps the favorites gauges current. It runs inside the
// favorites commit, so it must only use ids.
func (a *App) recordFavorites(_ context.Context, ids []string) {
	metrics.RecordFavorites(len(ids), conflict.ClashCount(a.Catalog.Resolve(ids)))
}

func newSink(cfg config.NotificationsConfig) (notify.Sink, error) {
	switch cfg.Driver {
	case "", "log":
		return notify.NewLogSink(), nil
	case "mqtt":
		return notify.NewMQTTSink(notify.MQTTConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			QoS:      1,
		})
	default:
		return nil, fmt.Errorf("app: unknown notifications driver %q", cfg.Driver)
	}
}

// Server returns the HTTP API over the wired services.
func (a *App) Server() *web.Server {
	return web.NewServer(web.Deps{
		Config:    a.Config,
		Catalog:   a.Catalog,
		Calendar:  a.Calendar,
		Favorites: a.Favorites,
		Reminders: a.Reminders,
		Weather:   a.Weather,
	})
}

// Serve starts the weather refresh and the HTTP server, and blocks until
// ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if a.Weather != nil {
		if err := a.Weather.Start(ctx, a.Config.Weather.Refresh, a.Calendar.Location()); err != nil {
			return err
		}
		defer a.Weather.Stop()
	}
	return a.Server().ListenAndServe(ctx)
}

// Close cancels pending reminders and releases the sink and storage.
func (a *App) Close() error {
	var errs []error
	if a.Notifier != nil {
		if err := a.Notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("app: close notifier: %w", err))
		}
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("app: close storage: %w", err))
	}
	return errors.Join(errs...)
}
