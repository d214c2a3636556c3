// Package weather fetches the festival forecast from OpenWeatherMap and
// derives packing tips from it.
package weather

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"forestfest/internal/festival"
)

// Hourly is one forecast point within a day.
type Hourly struct {
	Time      string `json:"time"` // HH:mm in the festival timezone
	Temp      int    `json:"temp"`
	Condition string `json:"condition"`
	Icon      string `json:"icon"`
}

// DayForecast summarises one festival day.
type DayForecast struct {
	Date      string    `json:"date"` // e.g. "Friday, July 25"
	DayOfWeek string    `json:"dayOfWeek"`
	HighTemp  int       `json:"highTemp"`
	LowTemp   int       `json:"lowTemp"`
	Condition string    `json:"condition"`
	Icon      string    `json:"icon"`
	Hourly    []Hourly  `json:"hourlyForecast"`
	Day       time.Time `json:"-"`
}

// ErrNoFestivalData is returned when the forecast window misses every
// festival date.
var ErrNoFestivalData = errors.New("weather: no forecast for festival dates")

// response is the subset of the /forecast payload we read.
type response struct {
	List []item `json:"list"`
}

type item struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp    float64 `json:"temp"`
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

func (it item) condition() string {
	if len(it.Weather) == 0 || it.Weather[0].Main == "" {
		return "Clear"
	}
	return it.Weather[0].Main
}

// tiePriority breaks ties between equally frequent conditions.
var tiePriority = []string{"Rain", "Drizzle", "Thunderstorm", "Snow", "Clouds", "Clear"}

// summarise maps 3-hourly points to one DayForecast per festival date that
// has data, in festival order.
func summarise(resp response, cal *festival.Calendar) ([]DayForecast, error) {
	loc := cal.Location()
	byDate := make(map[string][]item)
	for _, it := range resp.List {
		key := time.Unix(it.Dt, 0).In(loc).Format(time.DateOnly)
		byDate[key] = append(byDate[key], it)
	}

	dates := cal.Dates()
	out := make([]DayForecast, 0, len(dates))
	for _, d := range dates {
		items := byDate[d.Format(time.DateOnly)]
		if len(items) == 0 {
			continue
		}
		slices.SortFunc(items, func(a, b item) int { return cmp.Compare(a.Dt, b.Dt) })

		high, low := math.Inf(-1), math.Inf(1)
		conditions := make([]string, 0, len(items))
		hourly := make([]Hourly, 0, len(items))
		for _, it := range items {
			high = math.Max(high, it.Main.Temp)
			low = math.Min(low, it.Main.Temp)
			c := it.condition()
			conditions = append(conditions, c)
			hourly = append(hourly, Hourly{
				Time:      time.Unix(it.Dt, 0).In(loc).Format("15:04"),
				Temp:      int(math.Round(it.Main.Temp)),
				Condition: c,
				Icon:      Icon(c),
			})
		}

		primary := primaryCondition(conditions)
		out = append(out, DayForecast{
			Date:      d.Format("Monday, January 2"),
			DayOfWeek: d.Format("Monday"),
			HighTemp:  int(math.Round(high)),
			LowTemp:   int(math.Round(low)),
			Condition: primary,
			Icon:      Icon(primary),
			Hourly:    hourly,
			Day:       d,
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: Weather forecast not available for festival dates (%s)", ErrNoFestivalData, dateRange(dates))
	}
	return out, nil
}

// primaryCondition picks the most frequent condition.
func primaryCondition(conditions []string) string {
	if len(conditions) == 0 {
		return "Clear"
	}
	counts := make(map[string]int)
	best := 0
	for _, c := range conditions {
		counts[c]++
		best = max(best, counts[c])
	}

	var tied []string
	for _, c := range conditions {
		if counts[c] == best && !slices.Contains(tied, c) {
			tied = append(tied, c)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}
	for _, p := range tiePriority {
		if slices.Contains(tied, p) {
			return p
		}
	}
	return tied[0]
}

// Icon maps a condition to an SF Symbols style icon name.
func Icon(condition string) string {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "clear"):
		return "sun.max.fill"
	case strings.Contains(c, "thunderstorm"):
		return "cloud.bolt.fill"
	case strings.Contains(c, "drizzle"):
		return "cloud.drizzle.fill"
	case strings.Contains(c, "rain"):
		return "cloud.rain.fill"
	case strings.Contains(c, "snow"):
		return "cloud.snow.fill"
	case strings.Contains(c, "cloud"):
		return "cloud.fill"
	case strings.Contains(c, "mist"), strings.Contains(c, "fog"),
		strings.Contains(c, "haze"), strings.Contains(c, "smoke"):
		return "cloud.fog.fill"
	default:
		return "cloud.sun.fill"
	}
}

func dateRange(dates []time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	first, last := dates[0], dates[len(dates)-1]
	if first.Month() == last.Month() {
		return fmt.Sprintf("%s %d-%d, %d", first.Format("January"), first.Day(), last.Day(), first.Year())
	}
	return first.Format("January 2") + " - " + last.Format("January 2, 2006")
}
