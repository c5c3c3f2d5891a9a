package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mjelle/snowwatch/internal/snow"
)

const defaultMetNoBaseURL = "https://api.met.no/weatherapi/locationforecast/2.0/compact"

// MetNoProvider implements the snow.Provider interface for the MET Norway
// location forecast API.
type MetNoProvider struct {
	name      string
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewMetNoProvider creates a MET Norway provider. The API rejects requests
// without an identifying User-Agent.
func NewMetNoProvider(client *http.Client, baseURL, userAgent string) *MetNoProvider {
	if baseURL == "" {
		baseURL = defaultMetNoBaseURL
	}
	return &MetNoProvider{
		name:      "metno",
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    client,
	}
}

func (p *MetNoProvider) Name() string {
	return p.name
}

// FetchHourly performs a single request per call. Refreshes run on a fixed
// interval, so failures surface immediately instead of retrying.
func (p *MetNoProvider) FetchHourly(ctx context.Context, loc snow.Location) ([]snow.RawHour, error) {
	values := url.Values{}
	// The API caps coordinate precision at four decimals.
	values.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', 4, 64))
	values.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', 4, 64))

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("weather fetch failed: status %d", resp.StatusCode)
	}

	var payload metnoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("weather fetch failed: %w", err)
	}

	hours := make([]snow.RawHour, 0, len(payload.Properties.Timeseries))
	for _, step := range payload.Properties.Timeseries {
		hours = append(hours, snow.RawHour{
			Time:        step.Time,
			Temperature: step.Data.Instant.Details.AirTemperature,
			WindSpeed:   step.Data.Instant.Details.WindSpeed,
			Next1Hours:  toRawSummary(step.Data.Next1Hours),
			Next6Hours:  toRawSummary(step.Data.Next6Hours),
		})
	}
	return hours, nil
}

func toRawSummary(n *metnoNext) *snow.RawSummary {
	if n == nil {
		return nil
	}
	return &snow.RawSummary{
		SymbolCode:          n.Summary.SymbolCode,
		PrecipitationAmount: n.Details.PrecipitationAmount,
	}
}

// MET API response types.

type metnoResponse struct {
	Properties metnoProperties `json:"properties"`
}

type metnoProperties struct {
	Timeseries []metnoTimestep `json:"timeseries"`
}

type metnoTimestep struct {
	Time time.Time `json:"time"`
	Data metnoData `json:"data"`
}

type metnoData struct {
	Instant struct {
		Details metnoInstantDetails `json:"details"`
	} `json:"instant"`
	Next1Hours *metnoNext `json:"next_1_hours"`
	Next6Hours *metnoNext `json:"next_6_hours"`
}

type metnoInstantDetails struct {
	AirTemperature float64 `json:"air_temperature"`
	WindSpeed      float64 `json:"wind_speed"`
}

type metnoNext struct {
	Summary struct {
		SymbolCode string `json:"symbol_code"`
	} `json:"summary"`
	Details struct {
		PrecipitationAmount float64 `json:"precipitation_amount"`
	} `json:"details"`
}
