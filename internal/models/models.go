package models

import "time"

// EventKind — роль строки журнала
type EventKind int

const (
	KindUnknown EventKind = iota
	KindLogon
	KindLogoff
	KindHeader
)

func (k EventKind) String() string {
	switch k {
	case KindLogon:
		return "logon"
	case KindLogoff:
		return "logoff"
	case KindHeader:
		return "header"
	default:
		return "unknown"
	}
}

// Fields — сырые позиционные поля строки журнала.
// Используется и как результат разбора, и как значения по умолчанию:
// поля, которых нет в строке, остаются такими, какими их передал вызывающий.
type Fields struct {
	Date      string // "2022-01-25"
	Time      string // "16:41:17"
	EventID   int
	Machine   string // только для строк входа
	User      string
	LogonType int // только для строк входа
}

// Record — разобранная строка журнала.
// Нулевой Timestamp означает, что дату/время разобрать не удалось.
type Record struct {
	Timestamp time.Time
	Kind      EventKind
	EventID   int
	Machine   string
	User      string
	LogonType int
}

// SessionEvent — восстановленная сессия: выход пользователя и найденный для него вход.
// Duration всегда неотрицательна, объект не меняется после создания.
type SessionEvent struct {
	LoginTime time.Time
	EventID   int // код события строки выхода
	Machine   string
	User      string
	LogonType int
	Duration  time.Duration
	Line      int // номер строки выхода в исходном файле (с 1)
}

// SessionRow — строка итоговой таблицы в текстовом виде
type SessionRow struct {
	TimeGenerated string
	EventID       string
	Machine       string
	User          string
	LogonType     string
	Duration      string
}
