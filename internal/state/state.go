package state

import (
	"time"

	"github.com/mjelle/snowwatch/internal/snow"
)

// AppState is the whole application state tree. Readers receive copies;
// mutation happens only through Store.Dispatch.
type AppState struct {
	Settings    snow.Settings
	Weather     *snow.WeatherData
	History     []snow.SnowEntry
	Contractors []snow.Contractor

	// LastNotifiedSnow is the debounce marker for snow notifications. It is
	// set when one fires and cleared when the current phase leaves snow.
	LastNotifiedSnow *time.Time

	// Transient flags, never persisted.
	LastError  string
	Refreshing bool
}

// Clone returns a copy with its own slices, safe to hand to readers.
// Pointer targets inside entries are treated as immutable.
func (s AppState) Clone() AppState {
	out := s
	if s.Weather != nil {
		w := *s.Weather
		w.Hourly = append([]snow.HourlyForecast(nil), s.Weather.Hourly...)
		out.Weather = &w
	}
	out.History = append([]snow.SnowEntry(nil), s.History...)
	out.Contractors = append([]snow.Contractor(nil), s.Contractors...)
	if s.LastNotifiedSnow != nil {
		t := *s.LastNotifiedSnow
		out.LastNotifiedSnow = &t
	}
	return out
}
