package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"LogonSessionStats/internal/batch"
	"LogonSessionStats/internal/clickhouseclient"
	"LogonSessionStats/internal/config"
	"LogonSessionStats/internal/logger"
	"LogonSessionStats/internal/pipeline"
	"LogonSessionStats/internal/source"
	"LogonSessionStats/internal/storage"
	"LogonSessionStats/internal/watcher"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run возвращает код завершения: 0 — успех, 1 — вход не открыт или ошибка настройки.
// Уведомление о файле по умолчанию и время работы печатаются в stdout
// независимо от уровня логирования.
func run(args []string, stdout io.Writer) int {
	start := time.Now()

	fs := pflag.NewFlagSet("logonsessions", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "config.yaml", "путь к YAML-конфигурации")
	fs.StringP("output", "o", "", "путь к итоговому CSV")
	fs.BoolP("watch", "w", false, "перезапускать обработку при изменении входного файла")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Ошибка разбора аргументов: %v\n", err)
		return 1
	}

	v := config.NewViper()
	if f := fs.Lookup("output"); f.Changed {
		v.Set("Output.CSVPath", f.Value.String())
	}
	if err := v.BindPFlag("Watch", fs.Lookup("watch")); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка привязки флага: %v\n", err)
		return 1
	}
	cfg, err := config.LoadConfig(v, *configPath, fs.Changed("config"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка загрузки конфигурации %s: %v\n", *configPath, err)
		return 1
	}

	rootLogger, err := logger.InitZap(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка инициализации логгера: %v\n", err)
		return 1
	}
	lg := rootLogger.Named("main")
	defer lg.Sync()

	inputPath := cfg.Input.DefaultFile
	if fs.NArg() == 0 {
		fmt.Fprintf(stdout, "Имя входного файла не указано, используется %s\nИспользование: logonsessions [flags] [filename]\n", inputPath)
	} else {
		inputPath = fs.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exporter pipeline.Exporter
	if cfg.ClickHouse.Enabled {
		b, closeFn, err := newExporter(ctx, cfg, rootLogger)
		if err != nil {
			lg.Error("Ошибка подключения выгрузки, продолжаем без неё", zap.Error(err))
		} else {
			defer closeFn()
			exporter = b
		}
	}

	opts := pipeline.Options{
		InputPath: inputPath,
		Config:    cfg,
		Logger:    rootLogger.Named("pipeline"),
		Exporter:  exporter,
	}
	if _, err := pipeline.Run(ctx, opts); err != nil {
		if errors.Is(err, source.ErrOpen) {
			lg.Error("Не удалось открыть входной файл", zap.String("file", inputPath), zap.Error(err))
		} else {
			lg.Error("Ошибка обработки", zap.Error(err))
		}
		return 1
	}
	fmt.Fprintf(stdout, "Обработка завершена за %.3f с\n", time.Since(start).Seconds())

	if !cfg.Watch {
		return 0
	}

	w, err := watcher.New(watcher.Config{
		Path:     inputPath,
		Debounce: time.Duration(cfg.WatchDebounceMs) * time.Millisecond,
		Logger:   rootLogger.Named("watcher"),
	})
	if err != nil {
		lg.Error("Ошибка создания watcher", zap.Error(err))
		return 1
	}
	err = w.Start(ctx, func() {
		started := time.Now()
		if _, err := pipeline.Run(ctx, opts); err != nil {
			// файл мог быть удалён между событием и чтением — ждём следующего
			lg.Warn("Повторная обработка не удалась", zap.Error(err))
			return
		}
		fmt.Fprintf(stdout, "Повторная обработка завершена за %.3f с\n", time.Since(started).Seconds())
	})
	if err != nil {
		lg.Error("Ошибка наблюдения за входным файлом", zap.Error(err))
		return 1
	}
	lg.Info("Сервис завершил работу")
	return 0
}

// newExporter подключает ClickHouse и хранилище выгруженных сессий
func newExporter(ctx context.Context, cfg *config.Config, root *zap.Logger) (*batch.Batcher, func(), error) {
	chClient, err := clickhouseclient.New(cfg.ClickHouse, root.Named("clickhouse"))
	if err != nil {
		return nil, nil, err
	}
	if err := chClient.EnsureTable(ctx); err != nil {
		chClient.Close()
		return nil, nil, err
	}

	var store storage.ProcessedStore
	closeFn := func() { chClient.Close() }
	switch cfg.ProcessedStorage {
	case "redis":
		rs, err := storage.NewRedisStore(&cfg.Redis)
		if err != nil {
			chClient.Close()
			return nil, nil, err
		}
		store = rs
		closeFn = func() {
			chClient.Close()
			rs.Close()
		}
	default:
		store = storage.NewFileStore(cfg.ProcessedFile)
	}

	return batch.NewBatcher(cfg.BatchSize, root.Named("batcher"), chClient, store), closeFn, nil
}
