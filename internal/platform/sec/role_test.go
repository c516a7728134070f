// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestUserRole_AtLeast verifies the role ladder: admin over moderator over
user, with unknown roles below everything.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     UserRole
		target   UserRole
		expected bool
	}{
		{"admin meets admin", RoleAdmin, RoleAdmin, true},
		{"admin exceeds moderator", RoleAdmin, RoleModerator, true},
		{"moderator exceeds user", RoleModerator, RoleUser, true},
		{"moderator below admin", RoleModerator, RoleAdmin, false},
		{"user below moderator", RoleUser, RoleModerator, false},
		{"user meets user", RoleUser, RoleUser, true},
		{"unknown below user", UserRole("ghost"), RoleUser, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.role.AtLeast(test.target))
		})
	}
}

/*
TestUserRole_IsValid verifies only the three known roles validate.
*/
func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleModerator.IsValid())
	assert.True(t, RoleUser.IsValid())
	assert.False(t, UserRole("").IsValid())
	assert.False(t, UserRole("superuser").IsValid())
	assert.False(t, UserRole("Admin").IsValid())
}
