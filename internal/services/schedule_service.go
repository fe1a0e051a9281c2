package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/fastcm/shophub-be/internal/apperrors"
	"github.com/fastcm/shophub-be/internal/models"
)

// ScheduleServiceProvider defines the interface for schedule services.
type ScheduleServiceProvider interface {
	CreateSchedule(schedule models.Schedule) (models.Schedule, error)
	GetScheduleByID(scheduleID string) (models.Schedule, error)
	GetAllSchedules() ([]models.Schedule, error)
	GetAllActiveSchedules() ([]models.Schedule, error)
	UpdateSchedule(scheduleID string, schedule models.Schedule) (models.Schedule, error)
	DeleteSchedule(scheduleID string) error
	UpdateScheduleRunTimes(scheduleID string, lastRun time.Time, nextRun time.Time) error
}

// ScheduleService provides business logic for maintenance schedules
// (event pruning, deactivated-account purges).
type ScheduleService struct {
	db *sql.DB
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(db *sql.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// validateCronExpression checks if a cron expression is valid.
func (s *ScheduleService) validateCronExpression(spec string) (cron.Schedule, error) {
	return cron.ParseStandard(spec)
}

// CreateSchedule creates a new schedule and saves it to the database.
func (s *ScheduleService) CreateSchedule(schedule models.Schedule) (models.Schedule, error) {
	cronSchedule, err := s.validateCronExpression(schedule.CronExpression)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("invalid cron expression: %w", err)
	}

	schedule.ID = uuid.New().String()
	schedule.PrepareForDB()
	nextRun := cronSchedule.Next(time.Now())
	schedule.NextRunAt = &nextRun
	schedule.CreatedAt = time.Now().UTC()

	stmt, err := s.db.Prepare(`
		INSERT INTO schedules (id, name, cron_expression, task_type, payload_json, is_active, next_run_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return models.Schedule{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(schedule.ID, schedule.Name, schedule.CronExpression, schedule.TaskType, schedule.PayloadJSON, schedule.IsActive, schedule.NextRunAt, schedule.CreatedAt)
	if err != nil {
		return models.Schedule{}, err
	}

	return s.GetScheduleByID(schedule.ID)
}

// GetScheduleByID retrieves a single schedule.
func (s *ScheduleService) GetScheduleByID(scheduleID string) (models.Schedule, error) {
	row := s.db.QueryRow(`
		SELECT id, name, cron_expression, task_type, payload_json, is_active, last_run_at, next_run_at, created_at
		FROM schedules WHERE id = ?`, scheduleID)
	schedule, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Schedule{}, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("schedule %s not found", scheduleID))
		}
		return models.Schedule{}, err
	}
	return schedule, nil
}

// GetAllSchedules retrieves every schedule, newest first.
func (s *ScheduleService) GetAllSchedules() ([]models.Schedule, error) {
	rows, err := s.db.Query(`
		SELECT id, name, cron_expression, task_type, payload_json, is_active, last_run_at, next_run_at, created_at
		FROM schedules ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchedules(rows)
}

// GetAllActiveSchedules retrieves the schedules the background scheduler
// should consider.
func (s *ScheduleService) GetAllActiveSchedules() ([]models.Schedule, error) {
	rows, err := s.db.Query(`
		SELECT id, name, cron_expression, task_type, payload_json, is_active, last_run_at, next_run_at, created_at
		FROM schedules WHERE is_active = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchedules(rows)
}

// UpdateSchedule replaces a schedule's definition and recomputes its next
// run time.
func (s *ScheduleService) UpdateSchedule(scheduleID string, schedule models.Schedule) (models.Schedule, error) {
	cronSchedule, err := s.validateCronExpression(schedule.CronExpression)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("invalid cron expression: %w", err)
	}

	schedule.PrepareForDB()
	nextRun := cronSchedule.Next(time.Now())

	res, err := s.db.Exec(`
		UPDATE schedules SET name = ?, cron_expression = ?, task_type = ?, payload_json = ?, is_active = ?, next_run_at = ?
		WHERE id = ?`,
		schedule.Name, schedule.CronExpression, schedule.TaskType, schedule.PayloadJSON, schedule.IsActive, nextRun, scheduleID)
	if err != nil {
		return models.Schedule{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Schedule{}, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("schedule %s not found", scheduleID))
	}

	return s.GetScheduleByID(scheduleID)
}

// DeleteSchedule removes a schedule.
func (s *ScheduleService) DeleteSchedule(scheduleID string) error {
	res, err := s.db.Exec("DELETE FROM schedules WHERE id = ?", scheduleID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("schedule %s not found", scheduleID))
	}
	return nil
}

// UpdateScheduleRunTimes records the last execution and the computed next
// execution of a schedule.
func (s *ScheduleService) UpdateScheduleRunTimes(scheduleID string, lastRun time.Time, nextRun time.Time) error {
	_, err := s.db.Exec("UPDATE schedules SET last_run_at = ?, next_run_at = ? WHERE id = ?", lastRun, nextRun, scheduleID)
	return err
}

func scanSchedule(row interface{ Scan(...interface{}) error }) (models.Schedule, error) {
	var schedule models.Schedule
	var name, payload sql.NullString
	err := row.Scan(&schedule.ID, &name, &schedule.CronExpression, &schedule.TaskType, &payload,
		&schedule.IsActive, &schedule.LastRunAt, &schedule.NextRunAt, &schedule.CreatedAt)
	if err != nil {
		return models.Schedule{}, err
	}
	schedule.Name = name.String
	schedule.PayloadJSON = payload.String
	schedule.PrepareForAPI()
	return schedule, nil
}

func collectSchedules(rows *sql.Rows) ([]models.Schedule, error) {
	schedules := []models.Schedule{}
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, rows.Err()
}
