package notify

import (
	"time"

	"github.com/mjelle/snowwatch/internal/snow"
)

// Debounce is the minimum gap between consecutive snowfall alerts.
const Debounce = time.Hour

// Daytime spans 09:00 to 17:59 local time.
const (
	dayStartHour = 9
	dayEndHour   = 18
)

// Decision is the outcome of evaluating one forecast refresh. At most one of
// Fire and Clear is set.
type Decision struct {
	Fire  bool
	Clear bool
}

// Evaluate decides whether current conditions warrant an alert. lastNotified
// is the time of the previous alert, nil if none is pending. The marker is
// cleared as soon as precipitation stops falling as snow, so the next
// snowfall alerts immediately.
func Evaluate(settings snow.Settings, current snow.Current, lastNotified *time.Time, now time.Time) Decision {
	if current.Phase != snow.PhaseSnow {
		return Decision{Clear: lastNotified != nil}
	}

	if !settings.NotifyEnabled || !settings.NotifyOnSnow {
		return Decision{}
	}

	hour := now.Hour()
	daytime := hour >= dayStartHour && hour < dayEndHour
	if daytime && !settings.NotifyDay {
		return Decision{}
	}
	if !daytime && !settings.NotifyNight {
		return Decision{}
	}

	if lastNotified != nil && now.Sub(*lastNotified) <= Debounce {
		return Decision{}
	}
	return Decision{Fire: true}
}
