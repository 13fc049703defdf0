package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/warden/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is the subset of pgxpool.Pool the repository relies on.
// Keeping it as an interface allows tests to substitute a pgxmock pool.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Filter describes the stored-field predicate the store can evaluate itself:
// a case-insensitive substring match over name/city/state plus an optional
// coordinates-not-null restriction. Active-only is always applied.
type Filter struct {
	SearchText    string // SearchText is matched against name, city and state.
	RequireCoords bool   // RequireCoords excludes properties without coordinates.
}

// Interface defines the primary store operations used by the search service.
type Interface interface {
	FindPage(ctx context.Context, flt Filter, limit, offset int) ([]models.Property, error)
	Count(ctx context.Context, flt Filter) (int64, error)
}

// Repository provides read access to the property store.
type Repository struct {
	db  Database
	log *slog.Logger
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// NewDatabase creates a pgx connection pool for the given PostgreSQL settings
// and verifies connectivity with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
