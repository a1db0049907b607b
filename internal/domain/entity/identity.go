// Package entity contains the core business objects of the project.
package entity

// Identity is the authenticated principal reconstructed from a validated
// token. It is request-scoped and carries no reference to the persistence
// entity: handlers and route guards only ever need the subject and the
// granted roles.
type Identity struct {
	Subject string // The authenticated user's email.
	Roles   Roles  // Roles decoded from the token's claims, filtered to the closed enum.
}

// HasRole reports whether the identity was granted the given role.
func (i *Identity) HasRole(role Role) bool {
	if i == nil {
		return false
	}

	return i.Roles.Contains(role)
}
