// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the core entity in the system, representing a single account.
type User struct {
	ID        int64     // Store-assigned identifier, unique across all users.
	Email     string    // The user's login identifier. Unique, at most 64 characters.
	Password  string    // The bcrypt hash of the user's password. Never the plaintext.
	Name      string    // The user's display name.
	CreatedAt time.Time // Timestamp of when this account was created. Immutable afterwards.
	Roles     Roles     // Granted roles. Always at least one after creation.
	Enabled   bool      // Whether the account may authenticate. Defaults to true.
}
