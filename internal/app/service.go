// Package app wires the forecast provider, state store, and notification
// backend into the refresh workflow.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/mjelle/snowwatch/internal/common"
	"github.com/mjelle/snowwatch/internal/notify"
	"github.com/mjelle/snowwatch/internal/observability"
	"github.com/mjelle/snowwatch/internal/snow"
	"github.com/mjelle/snowwatch/internal/state"
)

const (
	refreshTimeout  = 30 * time.Second
	maxLocationName = 40
)

// Service owns the fetch-normalize-store cycle.
type Service struct {
	store    *state.Store
	provider snow.Provider
	notifier notify.Notifier
	metrics  *observability.Metrics
	clock    clockwork.Clock
	logger   *zap.SugaredLogger
}

func NewService(
	store *state.Store,
	provider snow.Provider,
	notifier notify.Notifier,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	logger *zap.SugaredLogger,
) *Service {
	return &Service{
		store:    store,
		provider: provider,
		notifier: notifier,
		metrics:  metrics,
		clock:    clock,
		logger:   logger,
	}
}

// Refresh fetches the forecast for the configured location and folds the
// result into the store. Overlapping refreshes are not coordinated; the last
// response to arrive wins. A failed fetch leaves the previous forecast in
// place and records the error for the next read.
func (s *Service) Refresh(ctx context.Context) error {
	start := s.clock.Now()
	if err := s.store.Dispatch(state.RefreshStarted{}); err != nil {
		return err
	}

	loc := s.store.State().Settings.Location
	raw, err := s.provider.FetchHourly(ctx, loc)
	if err != nil {
		s.metrics.RefreshTotal.WithLabelValues("error").Inc()
		if derr := s.store.Dispatch(state.RefreshFailed{Message: err.Error()}); derr != nil {
			s.logger.Errorw("failed to record refresh failure", "error", derr)
		}
		return err
	}

	data := snow.Normalize(raw, s.clock.Now())
	if err := s.store.Dispatch(state.WeatherReceived{Data: data}); err != nil {
		return err
	}

	s.metrics.RefreshTotal.WithLabelValues("success").Inc()
	s.metrics.RefreshDuration.Observe(s.clock.Since(start).Seconds())

	st := s.store.State()
	accumulated := snow.Accumulate(data.Hourly, snow.StatusWindowHours, s.clock.Now())
	s.metrics.SnowAccumulation.Set(accumulated)
	s.metrics.StatusLevel.Set(levelValue(snow.Classify(accumulated, st.Settings.SnowThreshold)))

	s.evaluateNotification(st, data.Current, accumulated)

	s.logger.Debugw("forecast refreshed",
		"provider", s.provider.Name(),
		"hours", len(data.Hourly),
		"accumulated", accumulated,
	)
	return nil
}

// TriggerRefresh runs Refresh in the background. Used by the scheduler and
// the HTTP layer, where callers must not block on the network.
func (s *Service) TriggerRefresh() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			s.logger.Warnw("background refresh failed", "error", err)
		}
	}()
}

// evaluateNotification applies the alert gate to the freshly stored forecast.
// Delivery is fire-and-forget: the marker is set before the send so a slow or
// broken backend cannot hold up refreshes or re-alert in a tight loop.
func (s *Service) evaluateNotification(st state.AppState, current snow.Current, accumulated float64) {
	now := s.clock.Now()
	d := notify.Evaluate(st.Settings, current, st.LastNotifiedSnow, now)

	switch {
	case d.Fire:
		if err := s.store.Dispatch(state.NotificationMarked{At: now}); err != nil {
			s.logger.Errorw("failed to mark notification", "error", err)
			return
		}
		s.metrics.NotificationsSent.Inc()

		title := "Snow is falling"
		body := fmt.Sprintf("%s: %.1f mm expected over the next %d hours",
			common.Truncate(st.Settings.Location.Name, maxLocationName), accumulated, snow.StatusWindowHours)
		go func() {
			if err := s.notifier.Send(context.Background(), title, body); err != nil {
				s.logger.Debugw("notification delivery failed", "error", err)
			}
		}()
	case d.Clear:
		if err := s.store.Dispatch(state.NotificationCleared{}); err != nil {
			s.logger.Errorw("failed to clear notification marker", "error", err)
		}
	}
}

func levelValue(level snow.Level) float64 {
	switch level {
	case snow.LevelCritical:
		return 2
	case snow.LevelWarning:
		return 1
	default:
		return 0
	}
}
