package matcher

import (
	"go.uber.org/zap"

	"LogonSessionStats/internal/filter"
	"LogonSessionStats/internal/models"
	"LogonSessionStats/internal/parser"
	"LogonSessionStats/internal/source"
	"LogonSessionStats/internal/transform"
)

// Config — настройки сопоставления выходов и входов
type Config struct {
	HeaderMarker     string
	LongSessionHours int
	// OnLongSession вызывается для сессий не короче LongSessionHours.
	// Сессия при этом всё равно попадает в результат.
	OnLongSession func(models.SessionEvent)
	Logger        *zap.Logger
}

// Stats — счётчики одного прохода
type Stats struct {
	Lines      int // строк данных просмотрено, без заголовков
	Candidates int // строк выхода, с которых начинался поиск
	Matched    int
	Negative   int // пары с отрицательной длительностью
	Unparsed   int // пары с неразобранным временем
	Long       int
}

// Matcher восстанавливает сессии: для каждой строки выхода ищет вперёд
// вход того же пользователя и возвращается к строке выхода.
type Matcher struct {
	cfg    Config
	filter *filter.Filter
	logger *zap.Logger
}

func New(cfg Config, f *filter.Filter) *Matcher {
	if cfg.HeaderMarker == "" {
		cfg.HeaderMarker = parser.DefaultHeaderMarker
	}
	if cfg.LongSessionHours <= 0 {
		cfg.LongSessionHours = 24
	}
	lg := cfg.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Matcher{cfg: cfg, filter: f, logger: lg}
}

// Match проходит источник один раз. Первая строка — заголовок и пропускается.
// Сессии возвращаются в порядке обнаружения, без удаления повторов.
func (m *Matcher) Match(cur *source.Cursor) ([]models.SessionEvent, Stats) {
	var (
		sessions []models.SessionEvent
		st       Stats
	)
	if _, _, ok := cur.Next(); !ok {
		return nil, st
	}
	for {
		line, lineNo, ok := cur.Next()
		if !ok {
			break
		}
		if parser.IsHeader(line, m.cfg.HeaderMarker) {
			continue
		}
		st.Lines++
		logoff := parser.ParseLogoff(line, parser.LogoffDefaults())
		if !m.filter.Allowed(logoff.User) {
			continue
		}
		st.Candidates++

		mark := cur.Mark()
		ev, found := m.search(cur, logoff, lineNo, &st)
		// вложенный поиск не должен съедать строки внешнего прохода
		cur.Reset(mark)
		if !found {
			continue
		}
		st.Matched++
		sessions = append(sessions, ev)
		if int(ev.Duration.Hours()) >= m.cfg.LongSessionHours {
			st.Long++
			if m.cfg.OnLongSession != nil {
				m.cfg.OnLongSession(ev)
			}
		}
	}
	return sessions, st
}

// search читает строки после выхода, пока не найдёт вход того же пользователя.
// Поиск обрывается на заголовке, на конце файла и на строке, где в поле
// машины стоит сам пользователь: это его следующий выход.
func (m *Matcher) search(cur *source.Cursor, logoff models.Fields, lineNo int, st *Stats) (models.SessionEvent, bool) {
	anchor := parser.ToRecord(logoff, models.KindLogoff)
	prev := logoff
	for {
		line, _, ok := cur.Next()
		if !ok {
			return models.SessionEvent{}, false
		}
		if parser.IsHeader(line, m.cfg.HeaderMarker) {
			return models.SessionEvent{}, false
		}
		cand := parser.ParseLogon(line, parser.LogonDefaults(prev))
		prev = cand
		if cand.Machine == logoff.User {
			return models.SessionEvent{}, false
		}
		if cand.User != logoff.User {
			continue
		}

		login := parser.ToRecord(cand, models.KindLogon)
		if anchor.Timestamp.IsZero() || login.Timestamp.IsZero() {
			st.Unparsed++
			m.logger.Debug("Не удалось разобрать время, пара пропущена",
				zap.Int("line", lineNo), zap.String("user", logoff.User))
			return models.SessionEvent{}, false
		}
		d, err := transform.Span(anchor.Timestamp, login.Timestamp)
		if err != nil {
			st.Negative++
			m.logger.Debug("Отрицательная длительность, пара пропущена",
				zap.Int("line", lineNo), zap.String("user", logoff.User), zap.Error(err))
			return models.SessionEvent{}, false
		}
		return models.SessionEvent{
			LoginTime: login.Timestamp,
			EventID:   anchor.EventID,
			Machine:   login.Machine,
			User:      logoff.User,
			LogonType: login.LogonType,
			Duration:  d,
			Line:      lineNo,
		}, true
	}
}
