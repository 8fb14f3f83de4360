package clickhouseclient

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"

	"LogonSessionStats/internal/config"
	"LogonSessionStats/internal/models"
	"LogonSessionStats/internal/transform"
)

type Client struct {
	conn   clickhouse.Conn
	Table  string
	Logger *zap.Logger
}

// New создает клиента ClickHouse
func New(cfg config.ClickHouseConfig, logger *zap.Logger) (*Client, error) {
	protocol := clickhouse.Native
	if cfg.Protocol == "http" {
		protocol = clickhouse.HTTP
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Address},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: 5 * time.Second,
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
		Protocol:    protocol,
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	return &Client{
		conn:   conn,
		Table:  cfg.Table,
		Logger: logger,
	}, nil
}

// EnsureTable создаёт таблицу сессий, если её ещё нет
func (c *Client) EnsureTable(ctx context.Context) error {
	query := "CREATE TABLE IF NOT EXISTS " + c.Table + " (" +
		"LoginTime DateTime, EventID Int32, Machine String, User String, " +
		"LogonType Int32, Duration UInt32, DurationText String" +
		") ENGINE = MergeTree ORDER BY (User, LoginTime)"
	if err := c.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", c.Table, err)
	}
	return nil
}

// InsertSessions отправляет пачку сессий в ClickHouse
func (c *Client) InsertSessions(ctx context.Context, sessions []models.SessionEvent) error {
	// Используем отдельный контекст с таймаутом, чтобы отмена сервиса не прерывала операцию
	dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 60*time.Second)
	defer cancel()

	batch, err := c.conn.PrepareBatch(dbCtx,
		"INSERT INTO "+c.Table+" (LoginTime, EventID, Machine, User, LogonType, Duration, DurationText)")
	if err != nil {
		c.Logger.Error("prepare batch", zap.Error(err), zap.String("table", c.Table))
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, ev := range sessions {
		if err := batch.Append(
			ev.LoginTime,
			int32(ev.EventID),
			ev.Machine,
			ev.User,
			int32(ev.LogonType),
			uint32(ev.Duration/time.Second),
			transform.FormatSpan(ev.Duration),
		); err != nil {
			c.Logger.Error("append batch", zap.Error(err), zap.Any("session", ev))
			return fmt.Errorf("append: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		c.Logger.Error("send batch", zap.Error(err), zap.String("table", c.Table))
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Close закрывает соединение с ClickHouse
func (c *Client) Close() error {
	return c.conn.Close()
}
