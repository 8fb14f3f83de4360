package filter

import (
	"strings"
	"unicode/utf8"
)

// Config — настройки отсева служебных учётных записей
type Config struct {
	MaxLength int      // имена длиннее считаются служебными
	Sentinel  string   // пустое значение пользователя в журнале
	Blocklist []string // подстроки служебных учёток
}

// DefaultConfig — значения, с которыми работает выгрузка журнала Windows
func DefaultConfig() Config {
	return Config{
		MaxLength: 8,
		Sentinel:  "-",
		Blocklist: []string{"DWM-", "UMFD-", "USER"},
	}
}

// Filter решает, является ли пользователь интерактивным
type Filter struct {
	cfg Config
}

func New(cfg Config) *Filter {
	return &Filter{cfg: cfg}
}

// Allowed возвращает false для служебных и пустых пользователей
func (f *Filter) Allowed(user string) bool {
	if f.cfg.MaxLength > 0 && utf8.RuneCountInString(user) > f.cfg.MaxLength {
		return false
	}
	if user == f.cfg.Sentinel {
		return false
	}
	for _, blocked := range f.cfg.Blocklist {
		if blocked != "" && strings.Contains(user, blocked) {
			return false
		}
	}
	return true
}
