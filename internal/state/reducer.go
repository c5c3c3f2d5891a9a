package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/mjelle/snowwatch/internal/snow"
)

var (
	// ErrNotFound is returned when an action references an unknown entity id.
	ErrNotFound = errors.New("entity not found")
)

// reduce applies one action and returns the next state. It is pure: no I/O
// and no clock reads; the current time arrives as an argument. On error the
// previous state is returned unchanged.
func reduce(st AppState, a Action, now time.Time) (AppState, error) {
	next := st.Clone()

	switch act := a.(type) {
	case RefreshStarted:
		next.Refreshing = true
		next.LastError = ""

	case RefreshFailed:
		next.Refreshing = false
		next.LastError = act.Message

	case WeatherReceived:
		next.Refreshing = false
		next.LastError = ""
		next.Weather = act.Data

	case SettingsUpdated:
		next.Settings = act.Settings

	case HistoryAdded:
		next.History = snow.PruneHistory(append(next.History, act.Entry), now)

	case HistoryDeleted:
		idx := indexOfEntry(next.History, act.ID)
		if idx < 0 {
			return st, fmt.Errorf("history entry %s: %w", act.ID, ErrNotFound)
		}
		next.History = append(next.History[:idx], next.History[idx+1:]...)

	case ContractorAdded:
		c := act.Contractor
		if len(next.Contractors) == 0 {
			c.IsPrimary = true
		} else if c.IsPrimary {
			demoteAll(next.Contractors)
		}
		next.Contractors = append(next.Contractors, c)

	case ContractorUpdated:
		idx := indexOfContractor(next.Contractors, act.Contractor.ID)
		if idx < 0 {
			return st, fmt.Errorf("contractor %s: %w", act.Contractor.ID, ErrNotFound)
		}
		if act.Contractor.IsPrimary {
			demoteAll(next.Contractors)
		}
		next.Contractors[idx] = act.Contractor

	case ContractorDeleted:
		idx := indexOfContractor(next.Contractors, act.ID)
		if idx < 0 {
			return st, fmt.Errorf("contractor %s: %w", act.ID, ErrNotFound)
		}
		wasPrimary := next.Contractors[idx].IsPrimary
		next.Contractors = append(next.Contractors[:idx], next.Contractors[idx+1:]...)
		if wasPrimary && len(next.Contractors) > 0 {
			next.Contractors[0].IsPrimary = true
		}

	case PrimaryContractorSet:
		idx := indexOfContractor(next.Contractors, act.ID)
		if idx < 0 {
			return st, fmt.Errorf("contractor %s: %w", act.ID, ErrNotFound)
		}
		demoteAll(next.Contractors)
		next.Contractors[idx].IsPrimary = true

	case NotificationMarked:
		at := act.At
		next.LastNotifiedSnow = &at

	case NotificationCleared:
		next.LastNotifiedSnow = nil

	default:
		return st, fmt.Errorf("unhandled action %T", a)
	}

	return next, nil
}

func demoteAll(cs []snow.Contractor) {
	for i := range cs {
		cs[i].IsPrimary = false
	}
}

func indexOfContractor(cs []snow.Contractor, id string) int {
	for i, c := range cs {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func indexOfEntry(es []snow.SnowEntry, id string) int {
	for i, e := range es {
		if e.ID == id {
			return i
		}
	}
	return -1
}
