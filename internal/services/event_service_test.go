package services

import (
	"testing"
	"time"
)

func TestEventLifecycle(t *testing.T) {
	svc := NewEventService(newTestDB(t), nil)

	userID := "user-1"
	if err := svc.CreateEvent("auth.login", "info", "User signed in.", &userID); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if err := svc.CreateEvent("post.create", "info", "Post created.", nil); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	events, err := svc.GetRecentEvents(10)
	if err != nil {
		t.Fatalf("GetRecentEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	// Pruning with a future cutoff clears everything.
	n, err := svc.PruneEvents(time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneEvents failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pruned, got %d", n)
	}

	events, err = svc.GetRecentEvents(10)
	if err != nil {
		t.Fatalf("GetRecentEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events after prune, got %d", len(events))
	}
}
