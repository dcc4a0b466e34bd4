package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Database stores daily aggregates in the day_aggregate table created by the migrations.
// The pool is shared by the HTTP handlers and the cron jobs.
type Database struct {
	pool *pgxpool.Pool
}

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{
		pool: pool,
	}
}

// Connect opens a connection pool for the DATABASE_URL.
func Connect(ctx context.Context, url string) (*Database, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	return NewDatabase(pool), nil
}

func (db *Database) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *Database) Close() error {
	if db.pool == nil {
		return nil
	}
	db.pool.Close()
	return nil
}
