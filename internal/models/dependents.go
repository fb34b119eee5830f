package models

import "time"

// PodcastHistoryItem records how far a user got into an episode.
type PodcastHistoryItem struct {
	ID          int64
	PodcastID   int64
	EpisodeID   string
	WatchedTime int
	Date        time.Time
	Username    string
}

// Device is a gpodder client registered by a user.
type Device struct {
	ID       int64
	DeviceID string
	Kind     string
	Name     string
	Username string
}

// Episode is a gpodder episode action reported by one of a user's devices.
type Episode struct {
	ID        int64
	Username  string
	Device    string
	Podcast   string
	Episode   string
	Timestamp time.Time
	GUID      string
	Action    string
	Started   int
	Position  int
	Total     int
}

// Favorite marks a podcast as favored by a user.
type Favorite struct {
	Username  string
	PodcastID int64
	Favored   bool
}

// Session is a login session. SessionID is generated on insert when empty.
type Session struct {
	SessionID string
	Username  string
	Expires   time.Time
}

// Subscription is a gpodder subscription of one of a user's devices. Deleted is nil while active.
type Subscription struct {
	ID       int64
	Username string
	Device   string
	Podcast  string
	Created  time.Time
	Deleted  *time.Time
}
