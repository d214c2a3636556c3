package weather

import (
	"fmt"
	"strings"

	"forestfest/internal/model"
)

const (
	maxTips = 6

	hotAbove      = 25
	coldBelow     = 10
	wideSwing     = 8
	chillyEvening = 12
	eveningFrom   = 18 * 60
)

// Tips derives packing advice from the forecast. Rules run in a fixed order
// and the first six that apply are returned.
func Tips(days []DayForecast) []string {
	if len(days) == 0 {
		return nil
	}

	var tips []string
	add := func(format string, args ...any) {
		tips = append(tips, fmt.Sprintf(format, args...))
	}

	var (
		hottest, coldest = days[0].HighTemp, days[0].LowTemp
		anyRain, anySun  bool
	)
	for _, d := range days {
		hottest = max(hottest, d.HighTemp)
		coldest = min(coldest, d.LowTemp)
		for _, h := range d.Hourly {
			hottest = max(hottest, h.Temp)
			coldest = min(coldest, h.Temp)
			anyRain = anyRain || rainy(h.Condition)
			anySun = anySun || sunny(h.Condition)
		}
	}

	if hottest > hotAbove {
		add("Temperatures up to %d°C: bring sunscreen and a hat", hottest)
	}
	if coldest < coldBelow {
		add("Lows of %d°C expected: pack a warm jacket for the night", coldest)
	}
	if hottest-coldest > wideSwing {
		add("Big temperature swings: dress in layers")
	}
	if anyRain {
		add("Rain in the forecast: pack a light rain jacket and wellies")
	}
	if anySun {
		add("Sunny spells ahead: don't forget sunscreen")
	}
	add("Stay hydrated throughout the day")

	rainyDays, sunnyDays := 0, 0
	for _, d := range days {
		dayRain := rainy(d.Condition)
		for _, h := range d.Hourly {
			dayRain = dayRain || rainy(h.Condition)
		}
		if dayRain {
			rainyDays++
			add("Rain expected on %s: keep a poncho handy", d.DayOfWeek)
		}
		if d.HighTemp > hotAbove {
			add("%s will be hot (%d°C): find shade between sets", d.DayOfWeek, d.HighTemp)
		}
		if eveningCold(d) {
			add("%s evening gets chilly: bring an extra layer for late sets", d.DayOfWeek)
		}
		if sunny(d.Condition) {
			sunnyDays++
		}
	}
	if rainyDays >= 2 {
		add("Rain on %d festival days: waterproof your tent and bags", rainyDays)
	}
	if sunnyDays >= 2 {
		add("Mostly sunny festival: reapply sunscreen every few hours")
	}

	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	return tips
}

func eveningCold(d DayForecast) bool {
	for _, h := range d.Hourly {
		tc := model.ParseTimeCode(h.Time)
		if tc.Valid() && tc.RemappedMinutes() >= eveningFrom && h.Temp < chillyEvening {
			return true
		}
	}
	return false
}

func rainy(condition string) bool {
	c := strings.ToLower(condition)
	return strings.Contains(c, "rain") || strings.Contains(c, "drizzle")
}

func sunny(condition string) bool {
	c := strings.ToLower(condition)
	return strings.Contains(c, "clear") || strings.Contains(c, "sun")
}
