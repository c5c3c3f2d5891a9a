package snow

import "time"

// StatusWindowHours is the look-ahead window behind the user-facing status.
const StatusWindowHours = 24

// Accumulate sums the snow contribution of hours that are not yet past,
// scanning at most windowHours records from the start of the sequence.
// The sequence is chronological, so the scan bound limits the look-ahead
// to the requested window. Result is rounded to one decimal.
func Accumulate(hourly []HourlyForecast, windowHours int, now time.Time) float64 {
	if windowHours <= 0 || len(hourly) == 0 {
		return 0
	}

	n := windowHours
	if len(hourly) < n {
		n = len(hourly)
	}

	var total float64
	for _, h := range hourly[:n] {
		if !h.Time.Before(now) {
			total += h.Snow
		}
	}
	return round1(total)
}

// Classify maps accumulated snow against the configured threshold. It is
// recomputed from the live snapshot on every read and never cached.
func Classify(accumulated, threshold float64) Level {
	switch {
	case accumulated >= threshold*1.5:
		return LevelCritical
	case accumulated >= threshold:
		return LevelWarning
	default:
		return LevelNormal
	}
}
