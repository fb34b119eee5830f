package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/podfetch-console/internal/models"
	"github.com/desertthunder/podfetch-console/internal/shared"
)

const hashedSecret1 = "5b11618c2e44027877d0cd0921ed166b9f176f50587fc91e7534dd2946db77d6"

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db, shared.DriverSQLite); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// seedUser inserts username with one record in every dependent table.
func seedUser(t *testing.T, db *sql.DB, username string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := NewUserRepository(db).Insert(ctx, models.NewUser(username, models.RoleUser, hashedSecret1, now)); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if err := NewPodcastHistoryRepository(db).Create(ctx, &models.PodcastHistoryItem{
		PodcastID: 1, EpisodeID: "ep-1", WatchedTime: 120, Date: now, Username: username,
	}); err != nil {
		t.Fatalf("failed to create history item: %v", err)
	}
	if err := NewDeviceRepository(db).Create(ctx, &models.Device{
		DeviceID: "phone", Kind: "mobile", Name: "Phone", Username: username,
	}); err != nil {
		t.Fatalf("failed to create device: %v", err)
	}
	if err := NewEpisodeRepository(db).Create(ctx, &models.Episode{
		Username: username, Device: "phone", Podcast: "https://example.com/feed.xml",
		Episode: "https://example.com/ep1.mp3", Timestamp: now, Action: "play", Position: 30, Total: 300,
	}); err != nil {
		t.Fatalf("failed to create episode: %v", err)
	}
	if err := NewFavoriteRepository(db).Create(ctx, &models.Favorite{
		Username: username, PodcastID: 1, Favored: true,
	}); err != nil {
		t.Fatalf("failed to create favorite: %v", err)
	}
	if err := NewSessionRepository(db).Create(ctx, &models.Session{
		Username: username, Expires: now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if err := NewSubscriptionRepository(db).Create(ctx, &models.Subscription{
		Username: username, Device: "phone", Podcast: "https://example.com/feed.xml", Created: now,
	}); err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}
}

func countByUsername(t *testing.T, db *sql.DB, table, username string) int {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE username = ?", username).Scan(&count); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return count
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Insert", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser("alice", models.RoleUser, hashedSecret1, time.Now())

		if err := repo.Insert(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if user.ID == 0 {
			t.Error("user ID should be set after creation")
		}
	})

	t.Run("FindByUsername", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		created := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
		user := models.NewUser("alice", models.RoleAdmin, hashedSecret1, created)

		if err := repo.Insert(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		retrieved, err := repo.FindByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if retrieved.ID != user.ID {
			t.Errorf("expected ID %d, got %d", user.ID, retrieved.ID)
		}
		if retrieved.Role != models.RoleAdmin {
			t.Errorf("expected role admin, got %s", retrieved.Role)
		}
		if retrieved.Password != hashedSecret1 {
			t.Errorf("expected stored hash, got %q", retrieved.Password)
		}
		if retrieved.ExplicitConsent {
			t.Error("expected explicit consent false")
		}
		if !retrieved.CreatedAt.Equal(created) {
			t.Errorf("expected created_at %v, got %v", created, retrieved.CreatedAt)
		}
	})

	t.Run("FindByUsername without password", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		if err := repo.Insert(ctx, models.NewUser("oidc-user", models.RoleUser, "", time.Now())); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		retrieved, err := repo.FindByUsername(ctx, "oidc-user")
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if retrieved.Password != "" {
			t.Errorf("expected empty password, got %q", retrieved.Password)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser("alice", models.RoleUser, hashedSecret1, time.Now())
		if err := repo.Insert(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		user.Role = models.RoleUploader
		user.ExplicitConsent = true
		if err := repo.Update(ctx, user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		retrieved, err := repo.FindByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if retrieved.Role != models.RoleUploader || !retrieved.ExplicitConsent {
			t.Errorf("update not persisted: %+v", retrieved)
		}
	})

	t.Run("DeleteByUsername", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		if err := repo.Insert(ctx, models.NewUser("alice", models.RoleUser, hashedSecret1, time.Now())); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if err := repo.DeleteByUsername(ctx, "alice"); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := repo.FindByUsername(ctx, "alice"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound after delete, got %v", err)
		}
	})

	t.Run("FindAll", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		for _, name := range []string{"alice", "bob", "carol"} {
			if err := repo.Insert(ctx, models.NewUser(name, models.RoleUser, hashedSecret1, time.Now())); err != nil {
				t.Fatalf("failed to create user %s: %v", name, err)
			}
		}

		users, err := repo.FindAll(ctx)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}

		if len(users) != 3 {
			t.Fatalf("expected 3 users, got %d", len(users))
		}
		if users[0].Username != "alice" || users[2].Username != "carol" {
			t.Errorf("expected users ordered by id, got %+v", users)
		}
	})
}

func TestDependentRepositories(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	seedUser(t, db, "alice")
	seedUser(t, db, "bob")

	store := NewStore(db)
	deps := store.Dependents()

	if len(deps) != len(models.CascadeOrder)-1 {
		t.Fatalf("expected %d dependent repositories, got %d", len(models.CascadeOrder)-1, len(deps))
	}

	for i, dep := range deps {
		if dep.Entity() != models.CascadeOrder[i] {
			t.Errorf("dependent %d is %s, want %s", i, dep.Entity(), models.CascadeOrder[i])
		}

		if got := countByUsername(t, db, dep.Entity(), "alice"); got != 1 {
			t.Fatalf("expected one %s row for alice before delete, got %d", dep.Entity(), got)
		}

		if err := dep.DeleteByUsername(ctx, "alice"); err != nil {
			t.Fatalf("failed to delete %s: %v", dep.Entity(), err)
		}

		if got := countByUsername(t, db, dep.Entity(), "alice"); got != 0 {
			t.Errorf("expected no %s rows for alice, got %d", dep.Entity(), got)
		}
		if got := countByUsername(t, db, dep.Entity(), "bob"); got != 1 {
			t.Errorf("expected bob's %s row to survive, got %d", dep.Entity(), got)
		}
	}

	t.Run("deleting nothing is not an error", func(t *testing.T) {
		for _, dep := range deps {
			if err := dep.DeleteByUsername(ctx, "nobody"); err != nil {
				t.Errorf("%s: expected no error, got %v", dep.Entity(), err)
			}
		}
	})
}

func TestSessionRepositoryGeneratesID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	session := &models.Session{Username: "alice", Expires: time.Now().Add(time.Hour)}
	if err := NewSessionRepository(db).Create(context.Background(), session); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if session.SessionID == "" {
		t.Error("expected a generated session id")
	}
}

func TestStoreWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		seedUser(t, db, "alice")

		store := NewStore(db)
		err := store.WithTx(ctx, func(tx models.Store) error {
			for _, dep := range tx.Dependents() {
				if err := dep.DeleteByUsername(ctx, "alice"); err != nil {
					return err
				}
			}
			return tx.Users().DeleteByUsername(ctx, "alice")
		})
		if err != nil {
			t.Fatalf("transaction failed: %v", err)
		}

		for _, table := range models.CascadeOrder {
			if got := countByUsername(t, db, table, "alice"); got != 0 {
				t.Errorf("expected no %s rows after commit, got %d", table, got)
			}
		}
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		seedUser(t, db, "alice")

		boom := errors.New("boom")
		store := NewStore(db)
		err := store.WithTx(ctx, func(tx models.Store) error {
			deps := tx.Dependents()
			if err := deps[0].DeleteByUsername(ctx, "alice"); err != nil {
				return err
			}
			if err := deps[1].DeleteByUsername(ctx, "alice"); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		for _, table := range models.CascadeOrder {
			if got := countByUsername(t, db, table, "alice"); got != 1 {
				t.Errorf("expected %s row restored by rollback, got %d", table, got)
			}
		}
	})

	t.Run("nested calls share the transaction", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		seedUser(t, db, "alice")

		store := NewStore(db)
		err := store.WithTx(ctx, func(outer models.Store) error {
			return outer.WithTx(ctx, func(inner models.Store) error {
				return inner.Users().DeleteByUsername(ctx, "alice")
			})
		})
		if err != nil {
			t.Fatalf("nested transaction failed: %v", err)
		}
		if got := countByUsername(t, db, models.EntityUsers, "alice"); got != 0 {
			t.Errorf("expected user deleted, got %d rows", got)
		}
	})
}
