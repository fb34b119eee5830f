// Package repositories implements SQL persistence for accounts and the records they own.
//
// Every repository is built on [DBTX], so the same code runs against a *sql.DB or inside a *sql.Tx.
// Queries use "?" placeholders, which both supported drivers (sqlite3 and mysql) accept.
//
// Key Implementations:
//   - [Store] : hands out repositories and opens the transaction used by cascading deletes
//   - [UserRepository] : account persistence with username lookups
//   - [PodcastHistoryRepository], [DeviceRepository], [EpisodeRepository], [FavoriteRepository],
//     [SessionRepository], [SubscriptionRepository] : dependent records, deleted by username
package repositories
