// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the registration and token-exchange layer.

It defines the core User entity and the signup handshake: a prospective member
requests signup with a username and email, receives a confirmation code
out-of-band, and exchanges that code for a signed token pair.

# Architecture

This layer is the "Truth" of the system. The User entity has no external
dependencies and encapsulates all business rules related to identity and role.
*/
package auth

import (
	"time"

	"github.com/taibuivan/critica/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Critica platform.
type User struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name,omitempty"`
	LastName    string       `json:"last_name,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"` // Internal flag. Never exposed over the API.
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsAdmin reports whether the user holds admin privileges. The superuser
// flag is admin-equivalent regardless of the stored role.
func (user *User) IsAdmin() bool {
	return user.IsSuperuser || user.Role == sec.RoleAdmin
}

// IsModerator reports whether the user holds moderator rank or above.
func (user *User) IsModerator() bool {
	return user.IsSuperuser || user.Role.AtLeast(sec.RoleModerator)
}

// IsRegular reports whether the user holds only the base role.
func (user *User) IsRegular() bool {
	return !user.IsModerator()
}

// Binding returns the mutable-state fingerprint confirmation codes are bound
// to. Any change to these fields invalidates every outstanding code.
func (user *User) Binding() sec.CodeBinding {
	return sec.CodeBinding{
		UserID:      user.ID,
		Role:        string(user.Role),
		IsSuperuser: user.IsSuperuser,
	}
}

// TokenSubject returns the identity minted into access and refresh tokens.
func (user *User) TokenSubject() sec.TokenSubject {
	return sec.TokenSubject{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        string(user.Role),
		IsSuperuser: user.IsSuperuser,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
)
