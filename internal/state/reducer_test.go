package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjelle/snowwatch/internal/snow"
)

var testNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

func countPrimaries(cs []snow.Contractor) int {
	n := 0
	for _, c := range cs {
		if c.IsPrimary {
			n++
		}
	}
	return n
}

func TestReduceFirstContractorBecomesPrimary(t *testing.T) {
	st, err := reduce(AppState{}, ContractorAdded{Contractor: snow.Contractor{ID: "a", Name: "Anna", Phone: "123"}}, testNow)
	require.NoError(t, err)

	require.Len(t, st.Contractors, 1)
	assert.True(t, st.Contractors[0].IsPrimary)
}

func TestReduceAddPrimaryDemotesOthers(t *testing.T) {
	st := AppState{Contractors: []snow.Contractor{
		{ID: "a", Name: "Anna", IsPrimary: true},
		{ID: "b", Name: "Bjorn"},
	}}

	next, err := reduce(st, ContractorAdded{Contractor: snow.Contractor{ID: "c", Name: "Clara", IsPrimary: true}}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, countPrimaries(next.Contractors))
	assert.True(t, next.Contractors[2].IsPrimary)
}

func TestReduceDeletePrimaryPromotesOne(t *testing.T) {
	st := AppState{Contractors: []snow.Contractor{
		{ID: "a", Name: "Anna", IsPrimary: true},
		{ID: "b", Name: "Bjorn"},
		{ID: "c", Name: "Clara"},
	}}

	next, err := reduce(st, ContractorDeleted{ID: "a"}, testNow)
	require.NoError(t, err)

	require.Len(t, next.Contractors, 2)
	assert.Equal(t, 1, countPrimaries(next.Contractors))
	assert.True(t, next.Contractors[0].IsPrimary)
}

func TestReduceDeleteNonPrimaryKeepsPrimary(t *testing.T) {
	st := AppState{Contractors: []snow.Contractor{
		{ID: "a", Name: "Anna", IsPrimary: true},
		{ID: "b", Name: "Bjorn"},
	}}

	next, err := reduce(st, ContractorDeleted{ID: "b"}, testNow)
	require.NoError(t, err)

	require.Len(t, next.Contractors, 1)
	assert.True(t, next.Contractors[0].IsPrimary)
}

func TestReduceDeleteLastContractor(t *testing.T) {
	st := AppState{Contractors: []snow.Contractor{{ID: "a", Name: "Anna", IsPrimary: true}}}

	next, err := reduce(st, ContractorDeleted{ID: "a"}, testNow)
	require.NoError(t, err)

	assert.Empty(t, next.Contractors)
	assert.Equal(t, 0, countPrimaries(next.Contractors))
}

func TestReduceSetPrimaryContractor(t *testing.T) {
	st := AppState{Contractors: []snow.Contractor{
		{ID: "a", Name: "Anna", IsPrimary: true},
		{ID: "b", Name: "Bjorn"},
	}}

	next, err := reduce(st, PrimaryContractorSet{ID: "b"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, countPrimaries(next.Contractors))
	assert.True(t, next.Contractors[1].IsPrimary)
	assert.False(t, next.Contractors[0].IsPrimary)
}

func TestReduceContractorUnknownID(t *testing.T) {
	st := AppState{Contractors: []snow.Contractor{{ID: "a", Name: "Anna"}}}

	for _, a := range []Action{
		ContractorUpdated{Contractor: snow.Contractor{ID: "nope"}},
		ContractorDeleted{ID: "nope"},
		PrimaryContractorSet{ID: "nope"},
	} {
		_, err := reduce(st, a, testNow)
		assert.ErrorIs(t, err, ErrNotFound, "action %s", Kind(a))
	}
}

func TestReduceHistoryAddPrunesOldEntries(t *testing.T) {
	old := snow.SnowEntry{ID: "old", Timestamp: testNow.AddDate(0, -7, 0)}
	st := AppState{History: []snow.SnowEntry{old}}

	next, err := reduce(st, HistoryAdded{Entry: snow.SnowEntry{ID: "new", Timestamp: testNow}}, testNow)
	require.NoError(t, err)

	require.Len(t, next.History, 1)
	assert.Equal(t, "new", next.History[0].ID)
}

func TestReduceHistoryDelete(t *testing.T) {
	st := AppState{History: []snow.SnowEntry{
		{ID: "one", Timestamp: testNow},
		{ID: "two", Timestamp: testNow},
	}}

	next, err := reduce(st, HistoryDeleted{ID: "one"}, testNow)
	require.NoError(t, err)
	require.Len(t, next.History, 1)
	assert.Equal(t, "two", next.History[0].ID)

	_, err = reduce(st, HistoryDeleted{ID: "missing"}, testNow)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReduceRefreshCycle(t *testing.T) {
	st := AppState{LastError: "previous failure"}

	started, err := reduce(st, RefreshStarted{}, testNow)
	require.NoError(t, err)
	assert.True(t, started.Refreshing)
	assert.Empty(t, started.LastError)

	failed, err := reduce(started, RefreshFailed{Message: "weather fetch failed: status 502"}, testNow)
	require.NoError(t, err)
	assert.False(t, failed.Refreshing)
	assert.Equal(t, "weather fetch failed: status 502", failed.LastError)

	data := &snow.WeatherData{UpdatedAt: testNow}
	received, err := reduce(failed, WeatherReceived{Data: data}, testNow)
	require.NoError(t, err)
	assert.False(t, received.Refreshing)
	assert.Empty(t, received.LastError)
	assert.Equal(t, data, received.Weather)
}

func TestReduceFailureKeepsCachedWeather(t *testing.T) {
	cached := &snow.WeatherData{UpdatedAt: testNow.Add(-time.Hour)}
	st := AppState{Weather: cached}

	next, err := reduce(st, RefreshFailed{Message: "boom"}, testNow)
	require.NoError(t, err)

	require.NotNil(t, next.Weather)
	assert.Equal(t, cached.UpdatedAt, next.Weather.UpdatedAt)
}

func TestReduceNotificationMarker(t *testing.T) {
	marked, err := reduce(AppState{}, NotificationMarked{At: testNow}, testNow)
	require.NoError(t, err)
	require.NotNil(t, marked.LastNotifiedSnow)
	assert.Equal(t, testNow, *marked.LastNotifiedSnow)

	cleared, err := reduce(marked, NotificationCleared{}, testNow)
	require.NoError(t, err)
	assert.Nil(t, cleared.LastNotifiedSnow)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	st := AppState{Contractors: []snow.Contractor{
		{ID: "a", Name: "Anna", IsPrimary: true},
		{ID: "b", Name: "Bjorn"},
	}}

	_, err := reduce(st, ContractorDeleted{ID: "a"}, testNow)
	require.NoError(t, err)

	require.Len(t, st.Contractors, 2)
	assert.True(t, st.Contractors[0].IsPrimary)
	assert.False(t, st.Contractors[1].IsPrimary)
}
