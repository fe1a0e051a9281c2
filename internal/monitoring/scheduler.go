package monitoring

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/fastcm/shophub-be/internal/models"
	"github.com/fastcm/shophub-be/internal/services"
)

// defaultRetentionDays applies when a schedule's payload carries no "days"
// value.
const defaultRetentionDays = 30

// CartSweeper drops session carts untouched since the cutoff. The in-memory
// cart store implements it; the Redis store expires keys by TTL instead and
// needs no sweep.
type CartSweeper interface {
	Sweep(olderThan time.Time) int
}

// Scheduler checks for and executes scheduled maintenance tasks.
type Scheduler struct {
	scheduleSvc services.ScheduleServiceProvider
	userSvc     services.UserServiceProvider
	eventSvc    services.EventServiceProvider
	carts       CartSweeper // may be nil
	ticker      *time.Ticker
	done        chan bool
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(scheduleSvc services.ScheduleServiceProvider, userSvc services.UserServiceProvider, eventSvc services.EventServiceProvider, carts CartSweeper) *Scheduler {
	return &Scheduler{
		scheduleSvc: scheduleSvc,
		userSvc:     userSvc,
		eventSvc:    eventSvc,
		carts:       carts,
		done:        make(chan bool),
	}
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	log.Info().Msg("Starting background scheduler...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	// Run once immediately on start
	s.checkAndRunSchedules()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping background scheduler.")
			return
		case <-s.ticker.C:
			s.checkAndRunSchedules()
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// checkAndRunSchedules queries for due tasks and executes them.
func (s *Scheduler) checkAndRunSchedules() {
	schedules, err := s.scheduleSvc.GetAllActiveSchedules()
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: Failed to retrieve active schedules")
		return
	}

	for _, schedule := range schedules {
		cronSchedule, err := cron.ParseStandard(schedule.CronExpression)
		if err != nil {
			log.Error().Err(err).Str("schedule_id", schedule.ID).Msg("Scheduler: Invalid cron expression")
			continue
		}

		now := time.Now()
		// If NextRunAt is in the past, it's time to run
		if schedule.NextRunAt != nil && now.After(*schedule.NextRunAt) {
			go s.executeTask(schedule) // Run in a goroutine to not block the scheduler

			lastRun := now
			nextRun := cronSchedule.Next(now)
			if err := s.scheduleSvc.UpdateScheduleRunTimes(schedule.ID, lastRun, nextRun); err != nil {
				log.Error().Err(err).Str("schedule_id", schedule.ID).Msg("Scheduler: Failed to update run times")
			}
		}
	}
}

// executeTask performs the action defined by the schedule.
func (s *Scheduler) executeTask(schedule models.Schedule) {
	log.Info().Str("task", schedule.TaskType).Str("schedule", schedule.Name).Msg("Scheduler: Executing task")

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays(schedule.Payload))

	var removed int64
	var err error
	switch schedule.TaskType {
	case "prune_events":
		removed, err = s.eventSvc.PruneEvents(cutoff)
	case "purge_users":
		removed, err = s.userSvc.PurgeDeactivated(cutoff)
	case "sweep_carts":
		if s.carts == nil {
			err = fmt.Errorf("cart store for schedule %s does not support sweeping", schedule.ID)
		} else {
			removed = int64(s.carts.Sweep(cutoff))
		}
	default:
		err = fmt.Errorf("unknown task type '%s' for schedule %s", schedule.TaskType, schedule.ID)
	}

	if err != nil {
		log.Error().Err(err).Str("schedule_id", schedule.ID).Msg("Scheduler: Task failed")
		s.eventSvc.CreateEvent("schedule.error", "error",
			fmt.Sprintf("Scheduled task '%s' failed: %v", schedule.Name, err), nil)
		return
	}

	s.eventSvc.CreateEvent("schedule.run", "info",
		fmt.Sprintf("Scheduled task '%s' removed %d rows.", schedule.Name, removed), nil)
}

// retentionDays reads the "days" field from a schedule payload, falling
// back to the default retention window.
func retentionDays(payload json.RawMessage) int {
	if payload == nil {
		return defaultRetentionDays
	}
	var p struct {
		Days int `json:"days"`
	}
	if json.Unmarshal(payload, &p) != nil || p.Days <= 0 {
		return defaultRetentionDays
	}
	return p.Days
}
