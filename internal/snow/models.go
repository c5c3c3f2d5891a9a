package snow

import (
	"time"
)

// Phase classifies an hour's precipitation for display and notifications.
type Phase string

const (
	PhaseSnow  Phase = "snow"
	PhaseSleet Phase = "sleet"
	PhaseRain  Phase = "rain"
)

// Level is the severity derived from accumulated snow against the threshold.
type Level string

const (
	LevelNormal   Level = "normal"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Location is the place forecasts are fetched for. Owned by Settings and
// mutated only through settings edits.
type Location struct {
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Settings is the single per-installation configuration, persisted on every
// change. SnowThreshold is millimeters of accumulated snow over 24 hours.
type Settings struct {
	Location      Location `json:"location"`
	SnowThreshold float64  `json:"snowThreshold" validate:"gt=0"`
	NotifyNight   bool     `json:"notifyNight"`
	NotifyDay     bool     `json:"notifyDay"`
	NotifyEnabled bool     `json:"notifyEnabled"`
	NotifyOnSnow  bool     `json:"notifyOnSnow"`
}

// DefaultSettings apply on first run, before the user has saved anything.
// Notifications stay disabled until explicitly enabled.
func DefaultSettings() Settings {
	return Settings{
		Location: Location{
			Name:      "Oslo",
			Latitude:  59.9139,
			Longitude: 10.7522,
		},
		SnowThreshold: 10,
		NotifyNight:   false,
		NotifyDay:     true,
		NotifyEnabled: false,
		NotifyOnSnow:  true,
	}
}

// HourlyForecast is one normalized hour of the forecast.
type HourlyForecast struct {
	Time          time.Time `json:"time"`
	Snow          float64   `json:"snow"`
	Phase         Phase     `json:"precipitationType"`
	Temperature   float64   `json:"temperature"`
	Precipitation float64   `json:"precipitation"`
	SymbolCode    string    `json:"weatherCondition"`
}

// Current is the hour-zero snapshot shown as "right now".
type Current struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windSpeed"`
	Snow          float64 `json:"snow"`
	Phase         Phase   `json:"precipitationType"`
	SymbolCode    string  `json:"weatherCondition"`
	Precipitation float64 `json:"precipitation"`
}

// WeatherData is the full normalized forecast view. It is replaced wholesale
// on every successful refresh and cached across restarts for offline display.
type WeatherData struct {
	UpdatedAt time.Time        `json:"updatedAt"`
	Current   Current          `json:"current"`
	Hourly    []HourlyForecast `json:"hourly"`
}

// SnowEntry is one user-recorded snow-clearing event.
type SnowEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	SnowDepth  *float64  `json:"snowDepth,omitempty"`
	Comment    string    `json:"comment,omitempty"`
	Contractor string    `json:"contractor,omitempty"`
}

// Contractor is a snow-clearing contact. At most one contractor is primary;
// the primary is the default target for call/SMS actions.
type Contractor struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	IsPrimary bool   `json:"isPrimary"`
}
