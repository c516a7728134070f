// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package perm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/critica/internal/perm"
	"github.com/taibuivan/critica/internal/platform/sec"
)

var (
	anonymous = perm.Actor{}
	regular   = perm.Actor{Authenticated: true, UserID: "u-regular", Role: sec.RoleUser}
	moderator = perm.Actor{Authenticated: true, UserID: "u-mod", Role: sec.RoleModerator}
	admin     = perm.Actor{Authenticated: true, UserID: "u-admin", Role: sec.RoleAdmin}
	superuser = perm.Actor{Authenticated: true, UserID: "u-super", Role: sec.RoleUser, IsSuperuser: true}
)

/*
TestDecide_Catalog exercises the catalog rules: public reads, admin-only writes.
*/
func TestDecide_Catalog(t *testing.T) {
	catalog := perm.Resource{Kind: perm.KindCatalog}

	tests := []struct {
		name    string
		actor   perm.Actor
		action  perm.Action
		allowed bool
		reason  perm.Reason
	}{
		{"anonymous_read", anonymous, perm.ActionRead, true, ""},
		{"regular_read", regular, perm.ActionRead, true, ""},
		{"anonymous_create", anonymous, perm.ActionCreate, false, perm.ReasonUnauthenticated},
		{"regular_create", regular, perm.ActionCreate, false, perm.ReasonInsufficientRole},
		{"moderator_update", moderator, perm.ActionUpdate, false, perm.ReasonInsufficientRole},
		{"admin_create", admin, perm.ActionCreate, true, ""},
		{"admin_delete", admin, perm.ActionDelete, true, ""},
		{"superuser_delete", superuser, perm.ActionDelete, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := perm.Decide(tt.actor, tt.action, catalog)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

/*
TestDecide_Contribution exercises the review/comment rules: public reads,
authenticated creates, author-or-staff mutations.
*/
func TestDecide_Contribution(t *testing.T) {
	ownedByRegular := perm.Resource{Kind: perm.KindContribution, AuthorID: regular.UserID}
	ownedByOther := perm.Resource{Kind: perm.KindContribution, AuthorID: "u-someone-else"}

	tests := []struct {
		name     string
		actor    perm.Actor
		action   perm.Action
		resource perm.Resource
		allowed  bool
		reason   perm.Reason
	}{
		{"anonymous_read", anonymous, perm.ActionRead, ownedByOther, true, ""},
		{"anonymous_create", anonymous, perm.ActionCreate, perm.Resource{Kind: perm.KindContribution}, false, perm.ReasonUnauthenticated},
		{"regular_create", regular, perm.ActionCreate, perm.Resource{Kind: perm.KindContribution}, true, ""},
		{"author_update_own", regular, perm.ActionUpdate, ownedByRegular, true, ""},
		{"author_delete_own", regular, perm.ActionDelete, ownedByRegular, true, ""},
		{"regular_update_foreign", regular, perm.ActionUpdate, ownedByOther, false, perm.ReasonNotAuthor},
		{"regular_delete_foreign", regular, perm.ActionDelete, ownedByOther, false, perm.ReasonNotAuthor},
		{"moderator_delete_foreign", moderator, perm.ActionDelete, ownedByOther, true, ""},
		{"admin_update_foreign", admin, perm.ActionUpdate, ownedByOther, true, ""},
		{"superuser_delete_foreign", superuser, perm.ActionDelete, ownedByOther, true, ""},
		{"anonymous_delete", anonymous, perm.ActionDelete, ownedByOther, false, perm.ReasonUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := perm.Decide(tt.actor, tt.action, tt.resource)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

/*
TestDecide_Account exercises the account rules: admin-only administration,
self-service always allowed on one's own record.
*/
func TestDecide_Account(t *testing.T) {
	ownRecord := perm.Resource{Kind: perm.KindAccount, AuthorID: regular.UserID}
	foreignRecord := perm.Resource{Kind: perm.KindAccount, AuthorID: "u-someone-else"}
	userListing := perm.Resource{Kind: perm.KindAccount}

	tests := []struct {
		name     string
		actor    perm.Actor
		action   perm.Action
		resource perm.Resource
		allowed  bool
		reason   perm.Reason
	}{
		{"anonymous_listing", anonymous, perm.ActionRead, userListing, false, perm.ReasonUnauthenticated},
		{"regular_listing", regular, perm.ActionRead, userListing, false, perm.ReasonInsufficientRole},
		{"moderator_listing", moderator, perm.ActionRead, userListing, false, perm.ReasonInsufficientRole},
		{"admin_listing", admin, perm.ActionRead, userListing, true, ""},
		{"self_read", regular, perm.ActionRead, ownRecord, true, ""},
		{"self_update", regular, perm.ActionUpdate, ownRecord, true, ""},
		{"regular_update_foreign", regular, perm.ActionUpdate, foreignRecord, false, perm.ReasonInsufficientRole},
		{"admin_update_foreign", admin, perm.ActionUpdate, foreignRecord, true, ""},
		{"superuser_delete_foreign", superuser, perm.ActionDelete, foreignRecord, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := perm.Decide(tt.actor, tt.action, tt.resource)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

/*
TestActor_Predicates verifies the role convenience predicates, including the
superuser flag behaving as admin-equivalent.
*/
func TestActor_Predicates(t *testing.T) {
	assert.False(t, anonymous.IsAdmin())
	assert.False(t, anonymous.IsModerator())

	assert.False(t, regular.IsAdmin())
	assert.False(t, regular.IsModerator())

	assert.False(t, moderator.IsAdmin())
	assert.True(t, moderator.IsModerator())

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsModerator())

	// Superuser flag grants admin rights regardless of the stored role.
	assert.True(t, superuser.IsAdmin())
	assert.True(t, superuser.IsModerator())
}
