package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/podfetch-console/internal/models"
	"github.com/desertthunder/podfetch-console/internal/shared"
)

// PodcastHistoryRepository persists [models.PodcastHistoryItem] records.
type PodcastHistoryRepository struct {
	db DBTX
}

// NewPodcastHistoryRepository creates a new [PodcastHistoryRepository] with the given database connection
func NewPodcastHistoryRepository(db DBTX) *PodcastHistoryRepository {
	return &PodcastHistoryRepository{db: db}
}

func (r *PodcastHistoryRepository) Entity() string { return models.EntityPodcastHistoryItems }

// Create inserts a history item and assigns its ID.
func (r *PodcastHistoryRepository) Create(ctx context.Context, item *models.PodcastHistoryItem) error {
	query := `
		INSERT INTO podcast_history_items (podcast_id, episode_id, watched_time, date, username) VALUES (?, ?, ?, ?, ?)
	`
	id, err := insert(ctx, r.db, query, item.PodcastID, item.EpisodeID, item.WatchedTime, item.Date, item.Username)
	if err != nil {
		return fmt.Errorf("failed to insert podcast history item: %w", err)
	}
	item.ID = id
	return nil
}

// DeleteByUsername removes every history item of username.
func (r *PodcastHistoryRepository) DeleteByUsername(ctx context.Context, username string) error {
	_, err := deleteByUsername(ctx, r.db, r.Entity(), username)
	return err
}

// DeviceRepository persists [models.Device] records.
type DeviceRepository struct {
	db DBTX
}

// NewDeviceRepository creates a new [DeviceRepository] with the given database connection
func NewDeviceRepository(db DBTX) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Entity() string { return models.EntityDevices }

// Create inserts a device and assigns its ID.
func (r *DeviceRepository) Create(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO devices (deviceid, kind, name, username) VALUES (?, ?, ?, ?)
	`
	id, err := insert(ctx, r.db, query, device.DeviceID, device.Kind, device.Name, device.Username)
	if err != nil {
		return fmt.Errorf("failed to insert device: %w", err)
	}
	device.ID = id
	return nil
}

// DeleteByUsername removes every device of username.
func (r *DeviceRepository) DeleteByUsername(ctx context.Context, username string) error {
	_, err := deleteByUsername(ctx, r.db, r.Entity(), username)
	return err
}

// EpisodeRepository persists [models.Episode] actions.
type EpisodeRepository struct {
	db DBTX
}

// NewEpisodeRepository creates a new [EpisodeRepository] with the given database connection
func NewEpisodeRepository(db DBTX) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

func (r *EpisodeRepository) Entity() string { return models.EntityEpisodes }

// Create inserts an episode action and assigns its ID.
func (r *EpisodeRepository) Create(ctx context.Context, episode *models.Episode) error {
	query := `
		INSERT INTO episodes (username, device, podcast, episode, timestamp, guid, action, started, position, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := insert(ctx, r.db, query,
		episode.Username, episode.Device, episode.Podcast, episode.Episode, episode.Timestamp,
		nullString(episode.GUID), episode.Action, episode.Started, episode.Position, episode.Total)
	if err != nil {
		return fmt.Errorf("failed to insert episode: %w", err)
	}
	episode.ID = id
	return nil
}

// DeleteByUsername removes every episode action of username.
func (r *EpisodeRepository) DeleteByUsername(ctx context.Context, username string) error {
	_, err := deleteByUsername(ctx, r.db, r.Entity(), username)
	return err
}

// FavoriteRepository persists [models.Favorite] records.
type FavoriteRepository struct {
	db DBTX
}

// NewFavoriteRepository creates a new [FavoriteRepository] with the given database connection
func NewFavoriteRepository(db DBTX) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Entity() string { return models.EntityFavorites }

// Create inserts a favorite.
func (r *FavoriteRepository) Create(ctx context.Context, favorite *models.Favorite) error {
	query := `
		INSERT INTO favorites (username, podcast_id, favored) VALUES (?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, favorite.Username, favorite.PodcastID, favorite.Favored); err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

// DeleteByUsername removes every favorite of username.
func (r *FavoriteRepository) DeleteByUsername(ctx context.Context, username string) error {
	_, err := deleteByUsername(ctx, r.db, r.Entity(), username)
	return err
}

// SessionRepository persists [models.Session] records.
type SessionRepository struct {
	db DBTX
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Entity() string { return models.EntitySessions }

// Create inserts a session, generating its ID when empty.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.SessionID == "" {
		session.SessionID = shared.GenerateID()
	}

	query := `
		INSERT INTO sessions (session_id, username, expires) VALUES (?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, session.SessionID, session.Username, session.Expires); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// DeleteByUsername removes every session of username.
func (r *SessionRepository) DeleteByUsername(ctx context.Context, username string) error {
	_, err := deleteByUsername(ctx, r.db, r.Entity(), username)
	return err
}

// SubscriptionRepository persists [models.Subscription] records.
type SubscriptionRepository struct {
	db DBTX
}

// NewSubscriptionRepository creates a new [SubscriptionRepository] with the given database connection
func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Entity() string { return models.EntitySubscriptions }

// Create inserts a subscription and assigns its ID.
func (r *SubscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (username, device, podcast, created, deleted) VALUES (?, ?, ?, ?, ?)
	`

	var deleted any
	if subscription.Deleted != nil {
		deleted = *subscription.Deleted
	}

	id, err := insert(ctx, r.db, query,
		subscription.Username, subscription.Device, subscription.Podcast, subscription.Created, deleted)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	subscription.ID = id
	return nil
}

// DeleteByUsername removes every subscription of username.
func (r *SubscriptionRepository) DeleteByUsername(ctx context.Context, username string) error {
	_, err := deleteByUsername(ctx, r.db, r.Entity(), username)
	return err
}

func insert(ctx context.Context, q DBTX, query string, args ...any) (int64, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
