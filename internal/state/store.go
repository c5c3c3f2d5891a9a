package state

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/mjelle/snowwatch/internal/snow"
)

// Persister mirrors each entity to durable storage after a transition. Each
// entity occupies its own key and is rewritten in full.
type Persister interface {
	SaveSettings(snow.Settings) error
	SaveHistory([]snow.SnowEntry) error
	SaveContractors([]snow.Contractor) error
	SaveWeather(*snow.WeatherData) error
	SaveNotifyState(*time.Time) error
}

// Subscriber observes every applied action together with the resulting state.
type Subscriber func(a Action, st AppState)

// Store owns the application state tree. All writes flow through Dispatch,
// which serializes the pure transition, mirrors the touched entity to
// persistence, and then notifies subscribers with a copy of the new state.
type Store struct {
	mu      sync.Mutex
	st      AppState
	persist Persister
	clock   clockwork.Clock
	logger  *zap.SugaredLogger

	subMu  sync.RWMutex
	subs   map[int]Subscriber
	nextID int
}

// NewStore creates a Store seeded with initial. persist may be nil, in which
// case transitions are memory-only (used by tests).
func NewStore(initial AppState, persist Persister, clock clockwork.Clock, logger *zap.SugaredLogger) *Store {
	return &Store{
		st:      initial.Clone(),
		persist: persist,
		clock:   clock,
		logger:  logger,
		subs:    make(map[int]Subscriber),
	}
}

// State returns a copy of the current state tree.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// Dispatch applies one action. The reduce/mirror pair runs under the store
// lock so persisted blobs can never lag behind a later transition; subscriber
// callbacks run after the lock is released.
func (s *Store) Dispatch(a Action) error {
	s.mu.Lock()
	next, err := reduce(s.st, a, s.clock.Now())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.st = next
	s.mirror(a, next)
	snapshot := next.Clone()
	s.mu.Unlock()

	s.notify(a, snapshot)
	return nil
}

// Subscribe registers fn for every applied action. The returned func
// unregisters it.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// mirror rewrites the entity touched by the action. Failures are logged and
// never fail the dispatch; the in-memory tree stays authoritative.
func (s *Store) mirror(a Action, st AppState) {
	if s.persist == nil {
		return
	}

	var err error
	switch a.(type) {
	case SettingsUpdated:
		err = s.persist.SaveSettings(st.Settings)
	case HistoryAdded, HistoryDeleted:
		err = s.persist.SaveHistory(st.History)
	case ContractorAdded, ContractorUpdated, ContractorDeleted, PrimaryContractorSet:
		err = s.persist.SaveContractors(st.Contractors)
	case WeatherReceived:
		err = s.persist.SaveWeather(st.Weather)
	case NotificationMarked, NotificationCleared:
		err = s.persist.SaveNotifyState(st.LastNotifiedSnow)
	}
	if err != nil {
		s.logger.Errorw("persist failed", "action", Kind(a), "error", err)
	}
}

func (s *Store) notify(a Action, st AppState) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, fn := range s.subs {
		fn(a, st)
	}
}
