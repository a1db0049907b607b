package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("SUPERUSER").IsValid())
	assert.False(t, Role("user").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestRolesFromStrings_DropsUnknownNames(t *testing.T) {
	roles := RolesFromStrings([]string{"USER", "SUPERUSER", "ADMIN", "", "admin"})

	assert.Equal(t, Roles{RoleUser, RoleAdmin}, roles)
}

func TestRoles_Contains(t *testing.T) {
	roles := Roles{RoleUser}

	assert.True(t, roles.Contains(RoleUser))
	assert.False(t, roles.Contains(RoleAdmin))
}

func TestRoles_ToStrings(t *testing.T) {
	assert.Equal(t, []string{"ADMIN", "USER"}, Roles{RoleAdmin, RoleUser}.ToStrings())
}

func TestIdentity_HasRole(t *testing.T) {
	var none *Identity
	assert.False(t, none.HasRole(RoleUser))

	id := &Identity{Subject: "a@b.com", Roles: Roles{RoleUser}}
	assert.True(t, id.HasRole(RoleUser))
	assert.False(t, id.HasRole(RoleAdmin))
}
