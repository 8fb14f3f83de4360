package parser

import (
	"strconv"
	"strings"
	"time"

	"LogonSessionStats/internal/models"
)

// DefaultHeaderMarker — первый токен строки заголовка выгрузки журнала
const DefaultHeaderMarker = "TimeGenerated"

// TimestampLayout — формат даты и времени в журнале
const TimestampLayout = "2006-01-02 15:04:05"

// LogoffDefaults — значения по умолчанию для строки выхода.
// Короткая строка получает пользователя "USER", который отсекается фильтром.
func LogoffDefaults() models.Fields {
	return models.Fields{
		Date:      "01/25/2022",
		Time:      "16:41:17",
		EventID:   -1,
		User:      "USER",
		LogonType: -1,
	}
}

// LogonDefaults — значения по умолчанию для строки входа.
// Дата и время переносятся из предыдущей разобранной строки.
func LogonDefaults(prev models.Fields) models.Fields {
	return models.Fields{
		Date:      prev.Date,
		Time:      prev.Time,
		EventID:   -1,
		Machine:   "M1",
		User:      "USER",
		LogonType: -1,
	}
}

// IsHeader определяет строку заголовка по первому токену
func IsHeader(line, marker string) bool {
	tokens := strings.Fields(line)
	return len(tokens) > 0 && tokens[0] == marker
}

// ParseLogoff разбирает строку выхода: дата, время, код события, пользователь.
func ParseLogoff(line string, def models.Fields) models.Fields {
	r := newReader(line)
	f := def
	_ = r.str(&f.Date) && r.str(&f.Time) && r.num(&f.EventID) && r.str(&f.User)
	return f
}

// ParseLogon разбирает строку входа: дата, время, код события, машина, пользователь, тип входа.
func ParseLogon(line string, def models.Fields) models.Fields {
	r := newReader(line)
	f := def
	_ = r.str(&f.Date) && r.str(&f.Time) && r.num(&f.EventID) &&
		r.str(&f.Machine) && r.str(&f.User) && r.num(&f.LogonType)
	return f
}

// ParseTimestamp собирает время из даты и времени.
// При ошибке возвращает нулевое время и false — разбор журнала не прерывается.
func ParseTimestamp(date, clock string) (time.Time, bool) {
	ts, err := time.Parse(TimestampLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// ToRecord переводит сырые поля в запись указанного вида
func ToRecord(f models.Fields, kind models.EventKind) models.Record {
	ts, _ := ParseTimestamp(f.Date, f.Time)
	return models.Record{
		Timestamp: ts,
		Kind:      kind,
		EventID:   f.EventID,
		Machine:   f.Machine,
		User:      f.User,
		LogonType: f.LogonType,
	}
}

// --- Последовательное чтение токенов ---

// tokenReader читает токены по порядку.
// После первого нечислового значения в числовом поле чтение прекращается,
// а все оставшиеся поля сохраняют значения по умолчанию.
type tokenReader struct {
	tokens []string
	pos    int
}

func newReader(line string) *tokenReader {
	return &tokenReader{tokens: strings.Fields(line)}
}

func (r *tokenReader) next() (string, bool) {
	if r.pos >= len(r.tokens) {
		return "", false
	}
	t := r.tokens[r.pos]
	r.pos++
	return t, true
}

func (r *tokenReader) str(dst *string) bool {
	t, ok := r.next()
	if !ok {
		return false
	}
	*dst = t
	return true
}

func (r *tokenReader) num(dst *int) bool {
	t, ok := r.next()
	if !ok {
		return false
	}
	n, err := strconv.Atoi(t)
	if err != nil {
		return false
	}
	*dst = n
	return true
}
