package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fastcm/shophub-be/internal/models"
	"github.com/fastcm/shophub-be/internal/services"
)

// ScheduleHandler handles HTTP requests for maintenance schedules. All its
// routes sit behind the admin middleware.
type ScheduleHandler struct {
	service services.ScheduleServiceProvider
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(service services.ScheduleServiceProvider) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// List handles retrieving every schedule.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.service.GetAllSchedules()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list schedules")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, schedules)
}

// Get handles retrieving a single schedule.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	schedule, err := h.service.GetScheduleByID(id)
	if err != nil {
		log.Warn().Err(err).Str("schedule_id", id).Msg("Failed to get schedule")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, schedule)
}

// Create handles defining a new maintenance task.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var schedule models.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateSchedule(schedule)
	if err != nil {
		log.Error().Err(err).Str("task", schedule.TaskType).Msg("Failed to create schedule")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update handles replacing a schedule's definition.
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var schedule models.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateSchedule(id, schedule)
	if err != nil {
		log.Error().Err(err).Str("schedule_id", id).Msg("Failed to update schedule")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles removing a schedule.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteSchedule(id); err != nil {
		log.Error().Err(err).Str("schedule_id", id).Msg("Failed to delete schedule")
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
