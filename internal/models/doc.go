// Package models defines the account entities and the persistence contracts the console is written against.
//
//   - [User] : an account with a role, an optional hashed password and a consent flag
//   - [UserSummary] : a [User] without its password, used for listings
//   - [Role] : the closed set of permitted roles, see [ParseRole]
//   - [PodcastHistoryItem], [Device], [Episode], [Favorite], [Session], [Subscription] : records owned by a user
//
// Dependent records reference their owner by username only. [CascadeOrder] fixes the order in which
// they are removed when the owning account is deleted; the user row always goes last.
//
// [Store] bundles the repositories and the transaction boundary used by the cascade.
package models
