package storage

import (
	"fmt"

	"LogonSessionStats/internal/models"
)

// ProcessedStore — интерфейс для загрузки/сохранения уже выгруженных сессий.
// Ключ — SessionKey, значение — unix-время выгрузки.
type ProcessedStore interface {
	Load() (map[string]int64, error)
	Save(data map[string]int64) error
}

// SessionKey — устойчивый идентификатор сессии для повторных запусков
func SessionKey(ev models.SessionEvent) string {
	return fmt.Sprintf("%s|%s|%d|%s|%d|%d",
		ev.LoginTime.UTC().Format("20060102T150405"),
		ev.User, ev.EventID, ev.Machine, ev.LogonType, int64(ev.Duration.Seconds()))
}
