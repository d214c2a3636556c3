package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "forestfest/internal/log"
	"forestfest/internal/metrics"
)

// DefaultRefresh refreshes every three hours, matching the forecast step.
const DefaultRefresh = "0 */3 * * *"

// Fetcher is implemented by Client.
type Fetcher interface {
	Fetch(ctx context.Context) (Result, error)
}

// Snapshot is the state served to callers.
type Snapshot struct {
	Forecasts   []DayForecast `json:"forecasts"`
	Tips        []string      `json:"tips"`
	Err         string        `json:"error,omitempty"`
	FromCache   bool          `json:"fromCache"`
	LastUpdated time.Time     `json:"lastUpdated,omitzero"`
}

// Service keeps the latest forecast. A failed refresh records a message but
// keeps the previous forecast.
type Service struct {
	fetcher Fetcher
	now     func() time.Time

	mu   sync.RWMutex
	snap Snapshot

	cron *cron.Cron
	wg   sync.WaitGroup
}

func NewService(f Fetcher) *Service {
	return &Service{fetcher: f, now: time.Now}
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snap
	out.Forecasts = append([]DayForecast(nil), s.snap.Forecasts...)
	out.Tips = append([]string(nil), s.snap.Tips...)
	return out
}

// Refresh fetches once and updates the snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	res, err := s.fetcher.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		metrics.WeatherFetches.WithLabelValues("error").Inc()
		s.snap.Err = fmt.Sprintf("Weather data unavailable: %v", err)
		appLog.Error("weather refresh failed", err)
		return err
	}

	outcome := "ok"
	if res.FromCache {
		outcome = "cached"
	}
	metrics.WeatherFetches.WithLabelValues(outcome).Inc()

	s.snap = Snapshot{
		Forecasts:   res.Forecasts,
		Tips:        Tips(res.Forecasts),
		FromCache:   res.FromCache,
		LastUpdated: s.now(),
	}
	appLog.Info("weather refreshed", "days", len(res.Forecasts), "from_cache", res.FromCache)
	return nil
}

// Start runs an initial refresh and schedules periodic ones with a standard
// five-field cron spec. An empty spec uses DefaultRefresh.
func (s *Service) Start(ctx context.Context, spec string, loc *time.Location) error {
	if spec == "" {
		spec = DefaultRefresh
	}
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() { _ = s.Refresh(ctx) }); err != nil {
		return fmt.Errorf("weather: refresh schedule %q: %w", spec, err)
	}

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.Refresh(ctx)
	}()
	c.Start()
	return nil
}

// Stop halts the cron scheduler and waits for a running refresh.
func (s *Service) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
	s.wg.Wait()
}
