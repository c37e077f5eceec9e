// Package pg implements crm.Store on PostgreSQL through database/sql and the
// pgx stdlib driver.
package pg

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"epicevents.org/internal/crm"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// Store is a PostgreSQL-backed crm.Store.
type Store struct {
	db *sql.DB
}

var _ crm.Store = (*Store)(nil)

// Option tunes the connection pool.
type Option func(*sql.DB)

// WithPool overrides the pool defaults.
func WithPool(maxOpen, maxIdle int, connLifetime time.Duration) Option {
	return func(db *sql.DB) {
		if maxOpen > 0 {
			db.SetMaxOpenConns(maxOpen)
		}
		if maxIdle > 0 {
			db.SetMaxIdleConns(maxIdle)
		}
		if connLifetime > 0 {
			db.SetConnMaxLifetime(connLifetime)
		}
	}
}

// Open connects to PostgreSQL. The connection is lazy; the first query
// establishes it.
func Open(dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	for _, opt := range opts {
		opt(db)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection, used by tests.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for the migration runner.
func (s *Store) DB() *sql.DB { return s.db }

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
