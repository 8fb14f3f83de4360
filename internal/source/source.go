package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hpcloud/tail"
	"go.uber.org/zap"
)

// ErrOpen — входной файл не удалось открыть
var ErrOpen = errors.New("open input")

// Load читает файл целиком через tail без ожидания новых строк.
// Нулевые байты (выгрузка в UTF-16) и BOM удаляются.
func Load(path string, logger *zap.Logger) (*Cursor, error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrOpen, path, err)
	}
	defer t.Cleanup()

	var lines []string
	var readErr error
	nulWarned := false
	// канал дочитываем до конца, иначе горутина tail зависнет на отправке
	for line := range t.Lines {
		if line.Err != nil {
			if readErr == nil {
				readErr = line.Err
			}
			continue
		}
		text := line.Text
		if strings.Contains(text, "\x00") {
			if !nulWarned {
				logger.Warn("Обнаружены нулевые байты во входном файле", zap.String("file", path))
				nulWarned = true
			}
			text = strings.ReplaceAll(text, "\x00", "")
		}
		if len(lines) == 0 {
			text = strings.TrimPrefix(text, "\uFEFF")
			text = strings.TrimPrefix(text, "\xFF\xFE")
		}
		lines = append(lines, strings.TrimRight(text, "\r"))
	}
	if readErr != nil {
		return nil, fmt.Errorf("read %s: %w", path, readErr)
	}
	if err := t.Wait(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	logger.Debug("Входной файл прочитан", zap.String("file", path), zap.Int("lines", len(lines)))
	return NewCursor(lines), nil
}
