package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler fires the dashboard's periodic refresh.
type Scheduler struct {
	Cron    *cron.Cron
	Refresh func()
	entries int
}

// NewScheduler creates a scheduler whose specs include a seconds field.
func NewScheduler(refresh func()) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Refresh: refresh,
	}
}

// Register adds the auto-refresh job. An empty cron expression disables it.
func (s *Scheduler) Register(refreshCron string) error {
	if refreshCron == "" {
		log.Info().Msg("auto refresh disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	s.entries++
	return nil
}

// Enabled reports whether any job is registered.
func (s *Scheduler) Enabled() bool { return s.entries > 0 }

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", s.entries).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	log.Debug().Msg("scheduled refresh")
	s.Refresh()
}
