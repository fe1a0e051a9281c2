package services

import (
	"testing"
	"time"

	"github.com/fastcm/shophub-be/internal/models"
)

func TestCreateScheduleComputesNextRun(t *testing.T) {
	svc := NewScheduleService(newTestDB(t))

	created, err := svc.CreateSchedule(models.Schedule{
		Name:           "nightly event prune",
		CronExpression: "0 4 * * *",
		TaskType:       "prune_events",
		Payload:        []byte(`{"days": 14}`),
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}
	if created.NextRunAt == nil || !created.NextRunAt.After(time.Now()) {
		t.Errorf("expected a future NextRunAt, got %v", created.NextRunAt)
	}
	if string(created.Payload) != `{"days": 14}` {
		t.Errorf("payload not round-tripped: %s", created.Payload)
	}

	active, err := svc.GetAllActiveSchedules()
	if err != nil {
		t.Fatalf("GetAllActiveSchedules failed: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("expected 1 active schedule, got %d", len(active))
	}
}

func TestCreateScheduleRejectsBadCron(t *testing.T) {
	svc := NewScheduleService(newTestDB(t))

	_, err := svc.CreateSchedule(models.Schedule{
		Name:           "broken",
		CronExpression: "not a cron line",
		TaskType:       "prune_events",
	})
	if err == nil {
		t.Fatal("expected invalid cron expression to fail")
	}
}

func TestScheduleRunTimes(t *testing.T) {
	svc := NewScheduleService(newTestDB(t))
	created, err := svc.CreateSchedule(models.Schedule{
		Name:           "weekly purge",
		CronExpression: "@weekly",
		TaskType:       "purge_users",
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}

	lastRun := time.Now().UTC().Truncate(time.Second)
	nextRun := lastRun.Add(7 * 24 * time.Hour)
	if err := svc.UpdateScheduleRunTimes(created.ID, lastRun, nextRun); err != nil {
		t.Fatalf("UpdateScheduleRunTimes failed: %v", err)
	}

	got, err := svc.GetScheduleByID(created.ID)
	if err != nil {
		t.Fatalf("GetScheduleByID failed: %v", err)
	}
	if got.LastRunAt == nil || !got.LastRunAt.Equal(lastRun) {
		t.Errorf("last run not recorded: %v", got.LastRunAt)
	}
	if got.NextRunAt == nil || !got.NextRunAt.Equal(nextRun) {
		t.Errorf("next run not recorded: %v", got.NextRunAt)
	}

	// Deactivated schedules leave the scheduler's work set.
	created.IsActive = false
	created.CronExpression = "@weekly"
	if _, err := svc.UpdateSchedule(created.ID, created); err != nil {
		t.Fatalf("UpdateSchedule failed: %v", err)
	}
	active, err := svc.GetAllActiveSchedules()
	if err != nil {
		t.Fatalf("GetAllActiveSchedules failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active schedules, got %d", len(active))
	}
}
