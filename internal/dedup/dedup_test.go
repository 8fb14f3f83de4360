package dedup

import (
	"testing"
	"time"

	"LogonSessionStats/internal/models"
)

var t0 = time.Date(2022, 1, 25, 15, 0, 0, 0, time.UTC)

func session(user, machine string, dur time.Duration, offset time.Duration) models.SessionEvent {
	return models.SessionEvent{
		LoginTime: t0.Add(offset),
		EventID:   4634,
		Machine:   machine,
		User:      user,
		LogonType: 2,
		Duration:  dur,
	}
}

func TestSessionsEmpty(t *testing.T) {
	if result := Sessions(nil); result != nil {
		t.Fatalf("expected nil, got %v", result)
	}
}

func TestSessionsRemovesExactRepeats(t *testing.T) {
	events := []models.SessionEvent{
		session("alice", "PC-01", time.Hour, 0),
		session("bob", "PC-02", time.Hour, time.Minute),
		// same five fields as the first, different login time
		session("alice", "PC-01", time.Hour, 2*time.Hour),
	}
	result := Sessions(events)
	if len(result) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(result))
	}
	if result[0].User != "alice" || result[1].User != "bob" {
		t.Fatalf("first-occurrence order not preserved: %+v", result)
	}
	if !result[0].LoginTime.Equal(t0) {
		t.Fatalf("expected the first alice session to be kept, got %v", result[0].LoginTime)
	}
}

func TestSessionsDifferentDurationIsDistinct(t *testing.T) {
	events := []models.SessionEvent{
		session("alice", "PC-01", time.Hour, 0),
		session("alice", "PC-01", time.Hour+time.Second, 0),
	}
	if result := Sessions(events); len(result) != 2 {
		t.Fatalf("expected 2 distinct sessions, got %d", len(result))
	}
}

func TestSessionsEachFieldMatters(t *testing.T) {
	base := session("alice", "PC-01", time.Hour, 0)
	variants := []func(*models.SessionEvent){
		func(e *models.SessionEvent) { e.User = "bob" },
		func(e *models.SessionEvent) { e.Machine = "PC-02" },
		func(e *models.SessionEvent) { e.EventID = 4647 },
		func(e *models.SessionEvent) { e.LogonType = 10 },
		func(e *models.SessionEvent) { e.Duration = time.Minute },
	}
	for i, mutate := range variants {
		other := base
		mutate(&other)
		if result := Sessions([]models.SessionEvent{base, other}); len(result) != 2 {
			t.Errorf("variant %d: expected 2 sessions, got %d", i, len(result))
		}
	}
}

func TestSessionsIdempotent(t *testing.T) {
	events := []models.SessionEvent{
		session("alice", "PC-01", time.Hour, 0),
		session("alice", "PC-01", time.Hour, time.Hour),
		session("bob", "PC-02", time.Minute, 0),
		session("carol", "PC-03", time.Second, 0),
		session("bob", "PC-02", time.Minute, 3*time.Hour),
	}
	once := Sessions(events)
	twice := Sessions(once)
	if len(once) != len(twice) {
		t.Fatalf("expected idempotent result, got %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("index %d differs: %+v vs %+v", i, once[i], twice[i])
		}
	}
	if len(events) != 5 {
		t.Fatal("input slice must not be modified")
	}
}
