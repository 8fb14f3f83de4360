package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"LogonSessionStats/internal/config"
)

// уровень файлового ядра и стектрейсов
const fileLevel = zapcore.ErrorLevel

// InitZap собирает логгер отчёта: консоль от cfg.Level, файл cfg.LogFile
// только для ошибок, при EnableSentry ошибки уходят ещё и в Sentry.
func InitZap(cfg *config.LoggingConfig) (*zap.Logger, error) {
	return build(cfg, zapcore.Lock(os.Stdout))
}

func build(cfg *config.LoggingConfig, console zapcore.WriteSyncer) (*zap.Logger, error) {
	enc := zapcore.NewConsoleEncoder(encoderConfig())
	cores := []zapcore.Core{zapcore.NewCore(enc, console, ParseLevel(cfg.Level))}

	if cfg.LogFile != "" {
		ws, err := openLogFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(enc.Clone(), ws, fileLevel))
	}

	lg := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(fileLevel))
	if !cfg.EnableSentry || cfg.SentryDSN == "" {
		return lg, nil
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
		lg.Warn("Sentry не подключён, ошибки остаются только в логе", zap.Error(err))
		return lg, nil
	}
	return lg.WithOptions(zap.Hooks(SentryHook)), nil
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder
	return ec
}

// openLogFile открывает файл на дозапись, создавая недостающие каталоги
func openLogFile(path string) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("каталог лог-файла %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("лог-файл %s: %w", path, err)
	}
	return zapcore.AddSync(f), nil
}

// SentryHook отправляет в Sentry записи уровня Error и выше
func SentryHook(entry zapcore.Entry) error {
	if entry.Level < fileLevel {
		return nil
	}
	sentry.CaptureMessage(fmt.Sprintf("%s: %s", entry.Caller.TrimmedPath(), entry.Message))
	sentry.Flush(2 * time.Second)
	return nil
}

// ParseLevel переводит строку уровня в zapcore.Level, неизвестное значение — Info
func ParseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
