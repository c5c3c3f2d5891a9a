package snow

import (
	"math"
	"time"
)

// MaxForecastHours bounds the normalized series length.
const MaxForecastHours = 48

// defaultSymbolCode is used when an hour carries no precipitation summary.
const defaultSymbolCode = "clearsky_day"

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// classifyPhase buckets an hour into snow/sleet/rain for display and
// notification purposes. The band here deliberately differs from the 2°C
// gate used for the snow contribution.
func classifyPhase(temperature, precipitation float64) Phase {
	if precipitation <= 0 {
		return PhaseRain
	}
	if temperature < 0.5 {
		return PhaseSnow
	}
	if temperature < 3 {
		return PhaseSleet
	}
	return PhaseRain
}

// Normalize converts a raw hourly series into the simplified forecast view.
//
// Per entry: the 1-hour precipitation figure is used verbatim when the block
// is present, else the 6-hour figure divided by 6, else 0. The symbol code
// falls back the same way, defaulting to clear sky. Snow contribution equals
// the precipitation amount when the temperature is below 2°C and there is any
// precipitation. Entry 0 additionally becomes the current snapshot. The
// returned UpdatedAt is the supplied wall-clock time.
func Normalize(raw []RawHour, now time.Time) *WeatherData {
	if len(raw) > MaxForecastHours {
		raw = raw[:MaxForecastHours]
	}

	hourly := make([]HourlyForecast, 0, len(raw))
	for _, h := range raw {
		var precip float64
		switch {
		case h.Next1Hours != nil:
			precip = h.Next1Hours.PrecipitationAmount
		case h.Next6Hours != nil:
			precip = h.Next6Hours.PrecipitationAmount / 6
		}

		symbol := defaultSymbolCode
		switch {
		case h.Next1Hours != nil && h.Next1Hours.SymbolCode != "":
			symbol = h.Next1Hours.SymbolCode
		case h.Next6Hours != nil && h.Next6Hours.SymbolCode != "":
			symbol = h.Next6Hours.SymbolCode
		}

		var snowAmount float64
		if h.Temperature < 2 && precip > 0 {
			snowAmount = precip
		}

		hourly = append(hourly, HourlyForecast{
			Time:          h.Time,
			Snow:          round1(snowAmount),
			Phase:         classifyPhase(h.Temperature, precip),
			Temperature:   round1(h.Temperature),
			Precipitation: round1(precip),
			SymbolCode:    symbol,
		})
	}

	data := &WeatherData{
		UpdatedAt: now,
		Hourly:    hourly,
	}

	if len(hourly) > 0 {
		first := hourly[0]
		data.Current = Current{
			Temperature:   first.Temperature,
			WindSpeed:     raw[0].WindSpeed,
			Snow:          first.Snow,
			Phase:         first.Phase,
			SymbolCode:    first.SymbolCode,
			Precipitation: first.Precipitation,
		}
	}

	return data
}
