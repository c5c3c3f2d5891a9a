package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjelle/snowwatch/internal/snow"
)

const metnoFixture = `{
	"properties": {
		"timeseries": [
			{
				"time": "2024-01-15T12:00:00Z",
				"data": {
					"instant": {"details": {"air_temperature": -3.2, "wind_speed": 4.1}},
					"next_1_hours": {
						"summary": {"symbol_code": "snow"},
						"details": {"precipitation_amount": 0.6}
					},
					"next_6_hours": {
						"summary": {"symbol_code": "heavysnow"},
						"details": {"precipitation_amount": 4.2}
					}
				}
			},
			{
				"time": "2024-01-17T18:00:00Z",
				"data": {
					"instant": {"details": {"air_temperature": 1.0, "wind_speed": 2.0}},
					"next_6_hours": {
						"summary": {"symbol_code": "cloudy"},
						"details": {"precipitation_amount": 0.0}
					}
				}
			}
		]
	}
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *MetNoProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewMetNoProvider(srv.Client(), srv.URL, "snowwatch-test/1.0")
}

func TestFetchHourlyParsesTimeseries(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(metnoFixture))
	})

	hours, err := p.FetchHourly(context.Background(), snow.Location{Latitude: 59.9139, Longitude: 10.7522})
	require.NoError(t, err)
	require.Len(t, hours, 2)

	first := hours[0]
	assert.Equal(t, -3.2, first.Temperature)
	assert.Equal(t, 4.1, first.WindSpeed)
	require.NotNil(t, first.Next1Hours)
	assert.Equal(t, "snow", first.Next1Hours.SymbolCode)
	assert.Equal(t, 0.6, first.Next1Hours.PrecipitationAmount)
	require.NotNil(t, first.Next6Hours)
	assert.Equal(t, 4.2, first.Next6Hours.PrecipitationAmount)

	second := hours[1]
	assert.Nil(t, second.Next1Hours)
	require.NotNil(t, second.Next6Hours)
	assert.Equal(t, "cloudy", second.Next6Hours.SymbolCode)
}

func TestFetchHourlySendsUserAgentAndCoordinates(t *testing.T) {
	var gotUA, gotLat, gotLon string

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLat = r.URL.Query().Get("lat")
		gotLon = r.URL.Query().Get("lon")
		w.Write([]byte(`{"properties": {"timeseries": []}}`))
	})

	_, err := p.FetchHourly(context.Background(), snow.Location{Latitude: 59.913868, Longitude: 10.752245})
	require.NoError(t, err)

	assert.Equal(t, "snowwatch-test/1.0", gotUA)
	assert.Equal(t, "59.9139", gotLat, "coordinates should be capped at four decimals")
	assert.Equal(t, "10.7522", gotLon)
}

func TestFetchHourlyErrorStatus(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusTooManyRequests, http.StatusBadGateway} {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := p.FetchHourly(context.Background(), snow.Location{Latitude: 59.9, Longitude: 10.7})
		require.Error(t, err)
		assert.Equal(t, fmt.Sprintf("weather fetch failed: status %d", status), err.Error())
	}
}

func TestFetchHourlyAcceptsNonOK2xx(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		w.Write([]byte(`{"properties": {"timeseries": []}}`))
	})

	hours, err := p.FetchHourly(context.Background(), snow.Location{Latitude: 59.9, Longitude: 10.7})
	require.NoError(t, err)
	assert.Empty(t, hours)
}
