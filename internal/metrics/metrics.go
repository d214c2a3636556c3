// Package metrics exposes Prometheus metrics for favorites, reminders and
// the weather feed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FavoritesToggles counts toggle requests that were persisted.
	FavoritesToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forestfest_favorites_toggles_total",
		Help: "Total number of persisted favorite toggles, by direction (added/removed).",
	}, []string{"direction"})

	// FavoritesCount is the current size of the favorites set.
	FavoritesCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forestfest_favorites_count",
		Help: "Current number of favorited performance identifiers.",
	})

	// FavoriteConflicts is the number of favorited performances that clash
	// with another favorite.
	FavoriteConflicts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forestfest_favorite_conflicts",
		Help: "Current number of favorited performances overlapping another favorite.",
	})

	// RemindersScheduled counts reminders handed to the notifier.
	RemindersScheduled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forestfest_reminders_scheduled_total",
		Help: "Total number of reminders scheduled, by kind.",
	}, []string{"kind"})

	// ReminderDeliveryFailures counts notifier errors. Failures are never retried.
	ReminderDeliveryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forestfest_reminder_delivery_failures_total",
		Help: "Total number of reminders the notifier failed to accept or deliver, by kind.",
	}, []string{"kind"})

	// RemindersFired counts reminders that reached a sink.
	RemindersFired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forestfest_reminders_fired_total",
		Help: "Total number of reminders delivered.",
	})

	// RescheduleRuns counts cancel-then-reschedule passes.
	RescheduleRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forestfest_reschedule_runs_total",
		Help: "Total number of full reminder reschedule runs.",
	})

	// WeatherFetches counts forecast fetches by outcome (ok, cached, error).
	WeatherFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forestfest_weather_fetch_total",
		Help: "Total number of weather forecast fetches, by outcome.",
	}, []string{"outcome"})
)

// RecordFavorites updates the favorites gauges after a change.
func RecordFavorites(count, clashing int) {
	FavoritesCount.Set(float64(count))
	FavoriteConflicts.Set(float64(clashing))
}

// RecordToggle counts a persisted toggle.
func RecordToggle(added bool) {
	if added {
		FavoritesToggles.WithLabelValues("added").Inc()
		return
	}
	FavoritesToggles.WithLabelValues("removed").Inc()
}
