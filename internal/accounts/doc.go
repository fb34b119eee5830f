// Package accounts implements the operator flows of the account console.
//
// A [Manager] reads answers through a [Prompter], writes to a [models.Store] and prints status
// lines for the operator:
//   - [Manager.Add] creates a user after review and confirmation, hashing the password first
//   - [Manager.Remove] deletes a user and every record it owns in one transaction
//   - [Manager.Update] changes the role, password or explicit consent of a user
//   - [Manager.List] prints every user without passwords
package accounts
