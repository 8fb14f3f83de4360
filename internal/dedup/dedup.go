package dedup

import (
	"time"

	"LogonSessionStats/internal/models"
)

// key — поля, по которым две сессии считаются одинаковыми.
// Время входа и номер строки в сравнение не входят.
type key struct {
	user      string
	duration  time.Duration
	eventID   int
	machine   string
	logonType int
}

func keyOf(ev models.SessionEvent) key {
	return key{
		user:      ev.User,
		duration:  ev.Duration,
		eventID:   ev.EventID,
		machine:   ev.Machine,
		logonType: ev.LogonType,
	}
}

// Sessions убирает повторы, сохраняя порядок первых вхождений.
// Исходный срез не меняется.
func Sessions(events []models.SessionEvent) []models.SessionEvent {
	if len(events) == 0 {
		return nil
	}
	seen := make(map[key]struct{}, len(events))
	result := make([]models.SessionEvent, 0, len(events))
	for _, ev := range events {
		k := keyOf(ev)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, ev)
	}
	return result
}
