package snow

import (
	"context"
	"time"
)

// RawSummary is a short-range precipitation aggregate attached to an hour.
type RawSummary struct {
	SymbolCode          string
	PrecipitationAmount float64
}

// RawHour is one entry of a provider's hourly time series before
// normalization. The 1-hour and 6-hour summaries are optional; far hours
// typically carry only the 6-hour aggregate.
type RawHour struct {
	Time        time.Time
	Temperature float64
	WindSpeed   float64
	Next1Hours  *RawSummary
	Next6Hours  *RawSummary
}

// Provider abstracts the forecast source (e.g. MET Norway Locationforecast).
type Provider interface {
	Name() string
	FetchHourly(ctx context.Context, loc Location) ([]RawHour, error)
}
