package transform

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"LogonSessionStats/internal/models"
)

// ErrNegativeSpan — выход раньше входа, такую сессию выводить нельзя
var ErrNegativeSpan = errors.New("negative session span")

// TimeLayout — формат времени в итоговой таблице
const TimeLayout = "2006-01-02 15:04:05"

// Span возвращает длительность от входа до выхода с точностью до секунды
func Span(logout, login time.Time) (time.Duration, error) {
	d := logout.Sub(login).Truncate(time.Second)
	if d < 0 {
		return 0, ErrNegativeSpan
	}
	return d, nil
}

// FormatSpan форматирует длительность как HH:MM:SS, часы не ограничены
func FormatSpan(d time.Duration) string {
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatDuration считает и форматирует длительность сессии.
// Для отрицательного интервала возвращает ErrNegativeSpan.
func FormatDuration(logout, login time.Time) (string, error) {
	d, err := Span(logout, login)
	if err != nil {
		return "", err
	}
	return FormatSpan(d), nil
}

// ToRow переводит сессию в строку итоговой таблицы
func ToRow(ev models.SessionEvent) models.SessionRow {
	return models.SessionRow{
		TimeGenerated: ev.LoginTime.Format(TimeLayout),
		EventID:       strconv.Itoa(ev.EventID),
		Machine:       ev.Machine,
		User:          ev.User,
		LogonType:     strconv.Itoa(ev.LogonType),
		Duration:      FormatSpan(ev.Duration),
	}
}
