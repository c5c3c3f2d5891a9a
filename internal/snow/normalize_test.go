package snow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

// hoursFrom assigns consecutive hourly timestamps starting at start.
func hoursFrom(start time.Time, entries ...RawHour) []RawHour {
	out := make([]RawHour, len(entries))
	for i, e := range entries {
		e.Time = start.Add(time.Duration(i) * time.Hour)
		out[i] = e
	}
	return out
}

func TestNormalizePrecipitationSource(t *testing.T) {
	raw := hoursFrom(testNow,
		RawHour{Temperature: -1, Next1Hours: &RawSummary{SymbolCode: "snow", PrecipitationAmount: 3.2}, Next6Hours: &RawSummary{SymbolCode: "heavysnow", PrecipitationAmount: 12}},
		RawHour{Temperature: 1, Next6Hours: &RawSummary{SymbolCode: "sleet", PrecipitationAmount: 6.0}},
		RawHour{Temperature: 5},
	)

	data := Normalize(raw, testNow)
	require.Len(t, data.Hourly, 3)

	// The 1-hour figure wins over the 6-hour aggregate, verbatim.
	assert.Equal(t, 3.2, data.Hourly[0].Precipitation)
	assert.Equal(t, 3.2, data.Hourly[0].Snow)
	assert.Equal(t, PhaseSnow, data.Hourly[0].Phase)
	assert.Equal(t, "snow", data.Hourly[0].SymbolCode)

	// Only the 6-hour figure present: divided by six.
	assert.Equal(t, 1.0, data.Hourly[1].Precipitation)
	assert.Equal(t, 1.0, data.Hourly[1].Snow)
	assert.Equal(t, PhaseSleet, data.Hourly[1].Phase)
	assert.Equal(t, "sleet", data.Hourly[1].SymbolCode)

	// No summaries at all.
	assert.Equal(t, 0.0, data.Hourly[2].Precipitation)
	assert.Equal(t, 0.0, data.Hourly[2].Snow)
	assert.Equal(t, PhaseRain, data.Hourly[2].Phase)
	assert.Equal(t, "clearsky_day", data.Hourly[2].SymbolCode)
}

func TestNormalizeSnowRequiresCold(t *testing.T) {
	cases := []struct {
		name string
		temp float64
		amt  float64
		want float64
	}{
		{"below gate", 1.9, 4.0, 4.0},
		{"at gate", 2.0, 4.0, 0},
		{"above gate", 7.5, 4.0, 0},
		{"cold but dry", -5, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := hoursFrom(testNow, RawHour{
				Temperature: tc.temp,
				Next1Hours:  &RawSummary{PrecipitationAmount: tc.amt},
			})
			data := Normalize(raw, testNow)
			require.Len(t, data.Hourly, 1)
			assert.Equal(t, tc.want, data.Hourly[0].Snow)
		})
	}
}

func TestNormalizePhaseBands(t *testing.T) {
	cases := []struct {
		name   string
		temp   float64
		precip float64
		want   Phase
	}{
		{"dry is rain regardless of temperature", -10, 0, PhaseRain},
		{"well below freezing", -3, 1, PhaseSnow},
		{"just under snow bound", 0.4, 1, PhaseSnow},
		{"snow bound is sleet", 0.5, 1, PhaseSleet},
		{"just under sleet bound", 2.9, 1, PhaseSleet},
		{"sleet bound is rain", 3.0, 1, PhaseRain},
		{"warm", 12, 1, PhaseRain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := hoursFrom(testNow, RawHour{
				Temperature: tc.temp,
				Next1Hours:  &RawSummary{PrecipitationAmount: tc.precip},
			})
			data := Normalize(raw, testNow)
			assert.Equal(t, tc.want, data.Hourly[0].Phase)
		})
	}
}

func TestNormalizeRounding(t *testing.T) {
	raw := hoursFrom(testNow,
		RawHour{Temperature: -0.25, Next1Hours: &RawSummary{PrecipitationAmount: 0.25}},
		RawHour{Temperature: 1, Next6Hours: &RawSummary{PrecipitationAmount: 1.0}},
	)

	data := Normalize(raw, testNow)

	// Half away from zero on value*10.
	assert.Equal(t, 0.3, data.Hourly[0].Precipitation)
	assert.Equal(t, 0.3, data.Hourly[0].Snow)
	assert.Equal(t, -0.3, data.Hourly[0].Temperature)

	// 1.0/6 = 0.1666... rounds up to 0.2.
	assert.Equal(t, 0.2, data.Hourly[1].Precipitation)
}

func TestNormalizeCapsSeries(t *testing.T) {
	raw := make([]RawHour, 0, 60)
	for i := 0; i < 60; i++ {
		raw = append(raw, RawHour{Time: testNow.Add(time.Duration(i) * time.Hour)})
	}

	data := Normalize(raw, testNow)
	assert.Len(t, data.Hourly, 48)
}

func TestNormalizeCurrentSnapshot(t *testing.T) {
	raw := hoursFrom(testNow,
		RawHour{Temperature: -2, WindSpeed: 4.7, Next1Hours: &RawSummary{SymbolCode: "lightsnow", PrecipitationAmount: 1.2}},
		RawHour{Temperature: -1},
	)

	data := Normalize(raw, testNow)

	assert.Equal(t, testNow, data.UpdatedAt)
	assert.Equal(t, data.Hourly[0].Temperature, data.Current.Temperature)
	assert.Equal(t, 4.7, data.Current.WindSpeed)
	assert.Equal(t, 1.2, data.Current.Snow)
	assert.Equal(t, PhaseSnow, data.Current.Phase)
	assert.Equal(t, "lightsnow", data.Current.SymbolCode)
	assert.Equal(t, 1.2, data.Current.Precipitation)
}

func TestNormalizeEmptySeries(t *testing.T) {
	data := Normalize(nil, testNow)

	assert.Equal(t, testNow, data.UpdatedAt)
	assert.Empty(t, data.Hourly)
	assert.Equal(t, Current{}, data.Current)
}
