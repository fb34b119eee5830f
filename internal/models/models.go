// package models defines the data model for the podfetch account console
package models

import "context"

// Entity names, shared by repositories, log fields and error messages.
const (
	EntityUsers               = "users"
	EntityPodcastHistoryItems = "podcast_history_items"
	EntityDevices             = "devices"
	EntityEpisodes            = "episodes"
	EntityFavorites           = "favorites"
	EntitySessions            = "sessions"
	EntitySubscriptions       = "subscriptions"
)

// CascadeOrder is the order in which records are deleted when a user is removed.
var CascadeOrder = []string{
	EntityPodcastHistoryItems,
	EntityDevices,
	EntityEpisodes,
	EntityFavorites,
	EntitySessions,
	EntitySubscriptions,
	EntityUsers,
}

// UserRepository defines account persistence.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error) // FindByUsername returns shared.ErrUserNotFound when absent
	FindAll(ctx context.Context) ([]UserSummary, error)                 // FindAll lists every account without passwords
	Insert(ctx context.Context, user *User) error                        // Insert stores a new account and assigns its ID
	Update(ctx context.Context, user *User) error                        // Update writes role, password and consent
	DeleteByUsername(ctx context.Context, username string) error         // DeleteByUsername removes the account row
}

// DependentRepository is implemented by every store holding records owned by a user.
type DependentRepository interface {
	Entity() string                                              // Entity names the store, one of the Entity* constants
	DeleteByUsername(ctx context.Context, username string) error // DeleteByUsername removes every record owned by username
}

// Store hands out repositories that share one connection or transaction.
type Store interface {
	Users() UserRepository
	Dependents() []DependentRepository // Dependents are returned in [CascadeOrder]
	WithTx(ctx context.Context, fn func(Store) error) error
}
