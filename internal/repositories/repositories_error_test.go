package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertthunder/podfetch-console/internal/models"
	"github.com/desertthunder/podfetch-console/internal/shared"
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

func TestIsUniqueViolation(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want bool
	}{
		{name: "sqlite unique", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, want: true},
		{name: "sqlite primary key", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, want: true},
		{name: "sqlite not null", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}},
		{name: "mysql duplicate entry", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"}, want: true},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1146}},
		{name: "wrapped", err: fmt.Errorf("exec: %w", &mysql.MySQLError{Number: 1062}), want: true},
		{name: "plain error", err: errors.New("UNIQUE constraint failed")},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestUserRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Insert", func(t *testing.T) {
		t.Run("PlaintextPassword", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUserRepository(db)
			user := models.NewUser("alice", models.RoleUser, "secret1", time.Now())

			err := repo.Insert(ctx, user)
			if !errors.Is(err, shared.ErrPlaintextPassword) {
				t.Fatalf("expected ErrPlaintextPassword, got %v", err)
			}

			if got := countByUsername(t, db, models.EntityUsers, "alice"); got != 0 {
				t.Errorf("plaintext user must not be written, found %d rows", got)
			}
		})

		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUserRepository(db)
			user := models.NewUser("", models.RoleUser, hashedSecret1, time.Now())

			if err := repo.Insert(ctx, user); !errors.Is(err, shared.ErrInvalidUser) {
				t.Fatalf("expected ErrInvalidUser for empty username, got %v", err)
			}
		})

		t.Run("DuplicateUsername", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUserRepository(db)
			if err := repo.Insert(ctx, models.NewUser("alice", models.RoleUser, hashedSecret1, time.Now())); err != nil {
				t.Fatalf("failed to create first user: %v", err)
			}

			err := repo.Insert(ctx, models.NewUser("alice", models.RoleAdmin, hashedSecret1, time.Now()))
			if !errors.Is(err, shared.ErrUserExists) {
				t.Fatalf("expected ErrUserExists, got %v", err)
			}
		})
	})

	t.Run("FindByUsername", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			_, err := NewUserRepository(db).FindByUsername(ctx, "nobody")
			if !errors.Is(err, shared.ErrUserNotFound) {
				t.Fatalf("expected ErrUserNotFound, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			user := models.NewUser("nobody", models.RoleUser, hashedSecret1, time.Now())
			if err := NewUserRepository(db).Update(ctx, user); !errors.Is(err, shared.ErrUserNotFound) {
				t.Fatalf("expected ErrUserNotFound, got %v", err)
			}
		})

		t.Run("PlaintextPassword", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUserRepository(db)
			user := models.NewUser("alice", models.RoleUser, hashedSecret1, time.Now())
			if err := repo.Insert(ctx, user); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}

			user.Password = "hunter2"
			if err := repo.Update(ctx, user); !errors.Is(err, shared.ErrPlaintextPassword) {
				t.Fatalf("expected ErrPlaintextPassword, got %v", err)
			}

			stored, err := repo.FindByUsername(ctx, "alice")
			if err != nil {
				t.Fatalf("failed to get user: %v", err)
			}
			if stored.Password != hashedSecret1 {
				t.Errorf("stored password changed to %q", stored.Password)
			}
		})
	})

	t.Run("DeleteByUsername", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if err := NewUserRepository(db).DeleteByUsername(ctx, "nobody"); !errors.Is(err, shared.ErrUserNotFound) {
				t.Fatalf("expected ErrUserNotFound, got %v", err)
			}
		})
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		repo := NewUserRepository(db)
		if _, err := repo.FindAll(ctx); err == nil {
			t.Error("expected error listing users on a closed database")
		}
		if err := NewDeviceRepository(db).DeleteByUsername(ctx, "alice"); err == nil {
			t.Error("expected error deleting devices on a closed database")
		}
	})
}
