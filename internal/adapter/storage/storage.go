package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const pingDelay = 200 * time.Millisecond

var (
	ErrNotFound      = port.ErrNotFound
	ErrUnknownDriver = errors.New("unknown storage driver")
)

type Storage interface {
	port.CartStorage
	Close()
}

// New opens the cart storage for the driver.
func New(ctx context.Context, driver, dsn string) (Storage, error) {
	const op = "storage.New"

	var (
		s   Storage
		err error
	)
	switch driver {
	case DriverMemory, "":
		s = NewMemoryStorage()
	case DriverSQLite:
		s, err = NewSQLiteStorage(ctx, dsn)
	case DriverPostgres:
		s, err = NewPostgresStorage(ctx, dsn)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

type sqldb interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Close() error
}

type queries struct {
	get string
	set string
	del string
}

// A SQLStorage keeps cart payloads in the cart_state table.
type SQLStorage struct {
	opPrefix string
	sqldb    sqldb
	q        queries
}

func (s SQLStorage) Get(ctx context.Context, key string) ([]byte, error) {
	op := s.opPrefix + ".Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var payload []byte
	err := s.sqldb.QueryRowContext(ctx, s.q.get, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payload, nil
}

func (s SQLStorage) Set(ctx context.Context, key string, payload []byte) error {
	op := s.opPrefix + ".Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.sqldb.ExecContext(ctx, s.q.set, key, payload); err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

func (s SQLStorage) Delete(ctx context.Context, key string) error {
	op := s.opPrefix + ".Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.sqldb.ExecContext(ctx, s.q.del, key); err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

func (s SQLStorage) Close() {
	op := s.opPrefix + ".Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")

	if err := s.sqldb.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}

func (s SQLStorage) ping(ctx context.Context) error {
	op := s.opPrefix + ".ping"
	log := slog.With("op", op)

	// the database may still be starting up
	retryCfg := retry.RetryConfig{
		MaxAttempts: 5,
		Backoff:     retry.LinearBackoff(pingDelay),
	}

	err := retry.Do(ctx, retryCfg, func() error {
		return s.sqldb.PingContext(ctx)
	})
	if err != nil {
		return fmt.Errorf("%s: database is unavailable: %w", op, err)
	}
	log.Info("database is available")
	return nil
}
