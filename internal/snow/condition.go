package snow

import "github.com/mjelle/snowwatch/internal/common"

// ConditionCategory groups MET symbol codes (e.g. "lightsnowshowers_day")
// into coarse buckets for display. Sleet is checked before snow because
// several sleet codes embed "snow".
func ConditionCategory(symbolCode string) string {
	switch {
	case common.HasAny(symbolCode, "sleet"):
		return "sleet"
	case common.HasAny(symbolCode, "snow"):
		return "snow"
	case common.HasAny(symbolCode, "thunder"):
		return "storm"
	case common.HasAny(symbolCode, "rain", "drizzle"):
		return "rain"
	case common.HasAny(symbolCode, "fog"):
		return "fog"
	case common.HasAny(symbolCode, "cloudy"):
		return "cloudy"
	case common.HasAny(symbolCode, "clearsky", "fair"):
		return "clear"
	default:
		return "unknown"
	}
}
