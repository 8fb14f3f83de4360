package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type Config struct {
	Path     string
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher следит за входным файлом и вызывает обработчик после его изменения.
// Наблюдаем за каталогом: редакторы и выгрузки часто пересоздают файл целиком.
type Watcher struct {
	cfg  Config
	path string
}

func New(cfg Config) (*Watcher, error) {
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", cfg.Path, err)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Watcher{cfg: cfg, path: abs}, nil
}

// Start блокируется до отмены ctx. Серия событий в пределах Debounce
// приводит к одному вызову onChange; вызовы не пересекаются.
func (w *Watcher) Start(ctx context.Context, onChange func()) error {
	dw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer dw.Close()

	dir := filepath.Dir(w.path)
	if err := dw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.cfg.Logger.Info("Наблюдение за входным файлом запущено", zap.String("file", w.path))

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.cfg.Logger.Info("Watcher остановлен по сигналу shutdown")
			return nil
		case ev, ok := <-dw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.cfg.Logger.Debug("Входной файл изменился", zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			timerC = timer.C
		case err, ok := <-dw.Errors:
			if !ok {
				return nil
			}
			w.cfg.Logger.Error("Ошибка watcher-а входного файла", zap.Error(err))
		case <-timerC:
			timerC = nil
			onChange()
		}
	}
}
