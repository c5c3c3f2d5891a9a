package state

import (
	"time"

	"github.com/mjelle/snowwatch/internal/snow"
)

// Action is a state transition command. The reducer treats actions as plain
// values; persistence and notifications happen after the transition, keyed
// off the action that caused it.
type Action interface {
	kind() string
}

// RefreshStarted marks a forecast refresh in flight and clears the previous
// error, whether or not the new attempt succeeds.
type RefreshStarted struct{}

// RefreshFailed records the user-visible fetch error. The cached weather
// snapshot is left untouched.
type RefreshFailed struct {
	Message string
}

// WeatherReceived replaces the weather snapshot wholesale.
type WeatherReceived struct {
	Data *snow.WeatherData
}

// SettingsUpdated replaces the settings.
type SettingsUpdated struct {
	Settings snow.Settings
}

// HistoryAdded appends one snow log entry and re-prunes the log.
type HistoryAdded struct {
	Entry snow.SnowEntry
}

// HistoryDeleted removes one snow log entry by id.
type HistoryDeleted struct {
	ID string
}

// ContractorAdded appends a contractor. The first contractor in an empty set
// becomes primary; an explicit primary demotes the others.
type ContractorAdded struct {
	Contractor snow.Contractor
}

// ContractorUpdated replaces a contractor by id.
type ContractorUpdated struct {
	Contractor snow.Contractor
}

// ContractorDeleted removes a contractor by id. Deleting the primary promotes
// the first remaining contractor.
type ContractorDeleted struct {
	ID string
}

// PrimaryContractorSet marks one contractor primary and demotes the rest.
type PrimaryContractorSet struct {
	ID string
}

// NotificationMarked records that a snow notification fired at At.
type NotificationMarked struct {
	At time.Time
}

// NotificationCleared resets the debounce marker.
type NotificationCleared struct{}

func (RefreshStarted) kind() string       { return "refresh_started" }
func (RefreshFailed) kind() string        { return "refresh_failed" }
func (WeatherReceived) kind() string      { return "weather_received" }
func (SettingsUpdated) kind() string      { return "settings_updated" }
func (HistoryAdded) kind() string         { return "history_added" }
func (HistoryDeleted) kind() string       { return "history_deleted" }
func (ContractorAdded) kind() string      { return "contractor_added" }
func (ContractorUpdated) kind() string    { return "contractor_updated" }
func (ContractorDeleted) kind() string    { return "contractor_deleted" }
func (PrimaryContractorSet) kind() string { return "primary_contractor_set" }
func (NotificationMarked) kind() string   { return "notification_marked" }
func (NotificationCleared) kind() string  { return "notification_cleared" }

// Kind exposes the action name for logging and metrics labels.
func Kind(a Action) string {
	if a == nil {
		return "none"
	}
	return a.kind()
}
