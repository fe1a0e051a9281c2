package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fastcm/shophub-be/internal/models"
	"github.com/fastcm/shophub-be/internal/websocket"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, userID *string) error
	GetRecentEvents(limit int) ([]models.Event, error)
	PruneEvents(olderThan time.Time) (int64, error)
}

// EventService records audit events (sign-in, sign-out, post and like
// activity, system alerts) and pushes each one to connected subscribers.
type EventService struct {
	db  *sql.DB
	hub *websocket.Hub
}

// NewEventService creates a new EventService. The hub may be nil when no
// live notification fan-out is wanted.
func NewEventService(db *sql.DB, hub *websocket.Hub) *EventService {
	return &EventService{db: db, hub: hub}
}

// CreateEvent logs a new event to the database and notifies subscribers.
func (s *EventService) CreateEvent(eventType, level, message string, userID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO events (id, type, level, message, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(event.ID, event.Type, event.Level, event.Message, event.UserID, event.CreatedAt)
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Notify(websocket.NewEventMessage(event))
	}
	return nil
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, user_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.UserID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// PruneEvents deletes events created before the cutoff and reports how many
// rows went away. Used by the maintenance scheduler.
func (s *EventService) PruneEvents(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM events WHERE created_at < ?", olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
