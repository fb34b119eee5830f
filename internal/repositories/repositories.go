// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/podfetch-console/internal/models"
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// DBTX is satisfied by both [sql.DB] and [sql.Tx].
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements [models.Store] on a database connection.
type Store struct {
	db   *sql.DB
	q    DBTX
	inTx bool
}

// NewStore creates a new [Store] with the given database connection
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// Users returns the account repository bound to the store's connection or transaction.
func (s *Store) Users() models.UserRepository {
	return NewUserRepository(s.q)
}

// Dependents returns the repositories of user-owned records in [models.CascadeOrder].
func (s *Store) Dependents() []models.DependentRepository {
	return []models.DependentRepository{
		NewPodcastHistoryRepository(s.q),
		NewDeviceRepository(s.q),
		NewEpisodeRepository(s.q),
		NewFavoriteRepository(s.q),
		NewSessionRepository(s.q),
		NewSubscriptionRepository(s.q),
	}
}

// WithTx runs fn against a store bound to a single transaction.
//
// The transaction commits when fn returns nil and rolls back otherwise. Nested calls reuse the open transaction.
func (s *Store) WithTx(ctx context.Context, fn func(models.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// deleteByUsername removes every row of table owned by username and reports how many went.
func deleteByUsername(ctx context.Context, q DBTX, table, username string) (int64, error) {
	result, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE username = ?", table), username)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// isUniqueViolation reports duplicate key errors from sqlite3 and mysql.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	return false
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
