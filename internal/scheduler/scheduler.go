package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mjelle/snowwatch/internal/log"
)

const defaultIntervalMinutes = 15

// Refresher triggers a forecast refresh without blocking.
type Refresher interface {
	TriggerRefresh()
}

// Scheduler refreshes the forecast on a fixed interval.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
}

// New creates a new Scheduler.
func New(refresher Refresher, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
	}
}

// Start schedules the periodic refresh and runs the first one immediately,
// so a fresh forecast is available right after startup.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = defaultIntervalMinutes
	}

	_, err := s.scheduler.Every(minutes).Minutes().StartImmediately().Do(func() {
		log.Debug("scheduler: triggering forecast refresh")
		s.refresher.TriggerRefresh()
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
