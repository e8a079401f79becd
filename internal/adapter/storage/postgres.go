package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// The cart_state table is created by the migrator.
var postgresQueries = queries{
	get: `SELECT payload FROM cart_state WHERE key = $1`,
	set: `
		INSERT INTO cart_state (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`,
	del: `DELETE FROM cart_state WHERE key = $1`,
}

func NewPostgresStorage(ctx context.Context, dsn string) (SQLStorage, error) {
	const op = "NewPostgresStorage"

	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return SQLStorage{}, fmt.Errorf("%s: %w", op, err)
	}
	connStr := stdlib.RegisterConnConfig(connConfig)

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return SQLStorage{}, fmt.Errorf("%s: %w", op, err)
	}

	s := SQLStorage{opPrefix: "PostgresStorage", sqldb: db, q: postgresQueries}
	if err := s.ping(ctx); err != nil {
		_ = db.Close()
		return SQLStorage{}, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}
