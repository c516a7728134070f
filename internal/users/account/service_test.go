// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/sec"
	"github.com/taibuivan/critica/internal/users/account"
	"github.com/taibuivan/critica/internal/users/auth"
	"github.com/taibuivan/critica/pkg/pagination"
	"github.com/taibuivan/critica/pkg/pointer"
)

// # Test Doubles

type fakeRepo struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeRepo(seed ...*auth.User) *fakeRepo {
	repo := &fakeRepo{users: make(map[string]*auth.User)}
	for _, user := range seed {
		repo.users[user.ID] = user
	}
	return repo
}

func (repo *fakeRepo) List(_ context.Context, limit, offset int, _ string) ([]auth.User, int, error) {
	all := make([]auth.User, 0, len(repo.users))
	for _, user := range repo.users {
		all = append(all, *user)
	}
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(repo.users), nil
}

func (repo *fakeRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeRepo) Create(_ context.Context, user *auth.User) error {
	repo.users[user.ID] = user
	return nil
}

func (repo *fakeRepo) Update(_ context.Context, user *auth.User) error {
	repo.users[user.ID] = user
	return nil
}

func (repo *fakeRepo) Delete(_ context.Context, username string) error {
	for id, user := range repo.users {
		if user.Username == username {
			delete(repo.users, id)
		}
	}
	return nil
}

func seedUser() *auth.User {
	return &auth.User{
		ID:       "u-1",
		Username: "bob",
		Email:    "bob@x.com",
		Role:     sec.RoleUser,
	}
}

// # Self-Service

/*
TestUpdateSelf_SilentRoleDrop verifies that a non-admin patching their own
profile with a role field keeps their stored role, while the rest of the
payload applies normally. The request succeeds; the field is ignored.
*/
func TestUpdateSelf_SilentRoleDrop(t *testing.T) {
	repo := newFakeRepo(seedUser())
	service := account.NewService(repo)

	updated, err := service.UpdateSelf(context.Background(), "u-1", account.UpdateInput{
		Bio:  pointer.To("hello"),
		Role: pointer.To("admin"),
	}, false)

	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, updated.Role)
	assert.Equal(t, "hello", updated.Bio)
}

/*
TestUpdateSelf_AdminRoleApplies verifies that an admin caller may change the
role through the same path.
*/
func TestUpdateSelf_AdminRoleApplies(t *testing.T) {
	repo := newFakeRepo(seedUser())
	service := account.NewService(repo)

	updated, err := service.UpdateSelf(context.Background(), "u-1", account.UpdateInput{
		Role: pointer.To("moderator"),
	}, true)

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, updated.Role)
}

/*
TestUpdateSelf_PartialFields verifies that nil pointers leave stored values
untouched.
*/
func TestUpdateSelf_PartialFields(t *testing.T) {
	user := seedUser()
	user.FirstName = "Bob"
	user.Bio = "original"
	repo := newFakeRepo(user)
	service := account.NewService(repo)

	updated, err := service.UpdateSelf(context.Background(), "u-1", account.UpdateInput{
		LastName: pointer.To("Smith"),
	}, false)

	require.NoError(t, err)
	assert.Equal(t, "Bob", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
	assert.Equal(t, "original", updated.Bio)
}

// # Administration

/*
TestCreate_RoleValidation verifies that an unknown role is rejected and that
an empty role defaults to the base role.
*/
func TestCreate_RoleValidation(t *testing.T) {
	repo := newFakeRepo()
	service := account.NewService(repo)

	_, err := service.Create(context.Background(), account.CreateInput{
		Username: "eve", Email: "eve@x.com", Role: "overlord",
	})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)

	created, err := service.Create(context.Background(), account.CreateInput{
		Username: "eve", Email: "eve@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, created.Role)
}

/*
TestCreate_ReservedUsername verifies the reserved handle is rejected on the
administrative path too.
*/
func TestCreate_ReservedUsername(t *testing.T) {
	service := account.NewService(newFakeRepo())

	_, err := service.Create(context.Background(), account.CreateInput{
		Username: "me", Email: "me@x.com",
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

/*
TestDelete_UnknownUser verifies that deleting a missing account is a 404,
not a silent no-op.
*/
func TestDelete_UnknownUser(t *testing.T) {
	service := account.NewService(newFakeRepo())

	err := service.Delete(context.Background(), "ghost")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestList_Pagination verifies the page window against the fake store.
*/
func TestList_Pagination(t *testing.T) {
	repo := newFakeRepo(
		&auth.User{ID: "u-1", Username: "a", Email: "a@x.com", Role: sec.RoleUser},
		&auth.User{ID: "u-2", Username: "b", Email: "b@x.com", Role: sec.RoleUser},
		&auth.User{ID: "u-3", Username: "c", Email: "c@x.com", Role: sec.RoleUser},
	)
	service := account.NewService(repo)

	page, total, err := service.List(context.Background(), pagination.Params{Page: 1, Limit: 2}, "")

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)
}
