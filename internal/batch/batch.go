package batch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"LogonSessionStats/internal/models"
	"LogonSessionStats/internal/storage"
)

// Sink принимает пачку сессий (ClickHouse или тестовая заглушка)
type Sink interface {
	InsertSessions(ctx context.Context, sessions []models.SessionEvent) error
}

// Batcher отправляет сессии пачками по batchSize и запоминает выгруженные,
// чтобы повторный запуск по тому же журналу не дублировал строки.
type Batcher struct {
	batchSize int
	logger    *zap.Logger
	sink      Sink
	store     storage.ProcessedStore
}

// NewBatcher создает новый batcher
func NewBatcher(batchSize int, logger *zap.Logger, sink Sink, store storage.ProcessedStore) *Batcher {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Batcher{
		batchSize: batchSize,
		logger:    logger,
		sink:      sink,
		store:     store,
	}
}

// Export отправляет ещё не выгруженные сессии и возвращает их число.
// После каждой успешной пачки список выгруженных сохраняется.
func (b *Batcher) Export(ctx context.Context, sessions []models.SessionEvent) (int, error) {
	processed, err := b.store.Load()
	if err != nil {
		return 0, fmt.Errorf("load processed: %w", err)
	}

	pending := make([]models.SessionEvent, 0, len(sessions))
	for _, ev := range sessions {
		if _, done := processed[storage.SessionKey(ev)]; !done {
			pending = append(pending, ev)
		}
	}
	if skipped := len(sessions) - len(pending); skipped > 0 {
		b.logger.Info("Пропускаем ранее выгруженные сессии", zap.Int("count", skipped))
	}

	exported := 0
	for start := 0; start < len(pending); start += b.batchSize {
		if err := ctx.Err(); err != nil {
			return exported, err
		}
		end := start + b.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		chunk := pending[start:end]

		b.logger.Info("Отправляем batch в ClickHouse", zap.Int("count", len(chunk)))
		if err := b.sink.InsertSessions(ctx, chunk); err != nil {
			return exported, fmt.Errorf("insert batch: %w", err)
		}
		now := time.Now().Unix()
		for _, ev := range chunk {
			processed[storage.SessionKey(ev)] = now
		}
		if err := b.store.Save(processed); err != nil {
			return exported, fmt.Errorf("save processed: %w", err)
		}
		exported += len(chunk)
		b.logger.Info("Batch успешно отправлен", zap.Int("count", len(chunk)))
	}
	return exported, nil
}
