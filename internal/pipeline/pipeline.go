package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"LogonSessionStats/internal/config"
	"LogonSessionStats/internal/dedup"
	"LogonSessionStats/internal/filter"
	"LogonSessionStats/internal/matcher"
	"LogonSessionStats/internal/models"
	"LogonSessionStats/internal/report"
	"LogonSessionStats/internal/source"
)

// Exporter — необязательная выгрузка сессий после записи отчёта
type Exporter interface {
	Export(ctx context.Context, sessions []models.SessionEvent) (int, error)
}

type Options struct {
	InputPath string
	Config    *config.Config
	Logger    *zap.Logger
	Exporter  Exporter
}

// Result — итог одного прогона
type Result struct {
	Sessions []models.SessionEvent // после удаления повторов
	Found    int                   // до удаления повторов
	Stats    matcher.Stats
	Exported int
}

// Run выполняет один проход: чтение → сопоставление → удаление повторов → CSV → выгрузка.
// Ошибка возвращается, только если не удалось прочитать вход или записать отчёт.
func Run(ctx context.Context, opts Options) (Result, error) {
	lg := opts.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	cfg := opts.Config

	cur, err := source.Load(opts.InputPath, lg)
	if err != nil {
		return Result{}, err
	}

	f := filter.New(filter.Config{
		MaxLength: cfg.Filter.MaxUserLength,
		Sentinel:  cfg.Filter.Sentinel,
		Blocklist: cfg.Filter.Blocklist,
	})
	m := matcher.New(matcher.Config{
		HeaderMarker:     cfg.Input.HeaderMarker,
		LongSessionHours: cfg.LongSessionHours,
		Logger:           lg.Named("matcher"),
		OnLongSession: func(ev models.SessionEvent) {
			lg.Warn("Сессия длиннее порога, проверьте вручную",
				zap.Int("hours", int(ev.Duration.Hours())),
				zap.Int("line", ev.Line),
				zap.String("user", ev.User),
				zap.String("machine", ev.Machine))
		},
	}, f)

	found, st := m.Match(cur)
	sessions := dedup.Sessions(found)
	lg.Info("Сессии восстановлены",
		zap.Int("lines", st.Lines),
		zap.Int("candidates", st.Candidates),
		zap.Int("found", len(found)),
		zap.Int("unique", len(sessions)),
		zap.Int("negative", st.Negative),
		zap.Int("unparsed", st.Unparsed))

	if err := report.WriteCSV(cfg.Output.CSVPath, sessions); err != nil {
		return Result{}, fmt.Errorf("write report %s: %w", cfg.Output.CSVPath, err)
	}
	lg.Info("Отчёт записан", zap.String("file", cfg.Output.CSVPath), zap.Int("rows", len(sessions)))

	res := Result{Sessions: sessions, Found: len(found), Stats: st}
	if opts.Exporter != nil {
		n, err := opts.Exporter.Export(ctx, sessions)
		res.Exported = n
		if err != nil {
			lg.Error("Ошибка выгрузки сессий", zap.Error(err), zap.Int("exported", n))
		} else {
			lg.Info("Сессии выгружены", zap.Int("count", n))
		}
	}
	return res, nil
}
