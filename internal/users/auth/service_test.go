// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/sec"
	"github.com/taibuivan/critica/internal/users/auth"
)

// # Test Doubles

type fakeUserRepo struct {
	byUsername map[string]*auth.User
	byEmail    map[string]*auth.User
	createErr  error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byUsername: make(map[string]*auth.User),
		byEmail:    make(map[string]*auth.User),
	}
}

func (repo *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	for _, user := range repo.byUsername {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	if user, ok := repo.byUsername[username]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if user, ok := repo.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	if repo.createErr != nil {
		return repo.createErr
	}
	repo.byUsername[user.Username] = user
	repo.byEmail[user.Email] = user
	return nil
}

type fakeNotifier struct {
	sent    []string // codes, in dispatch order
	lastTo  string
	sendErr error
}

func (notifier *fakeNotifier) SendConfirmationCode(_ context.Context, email, _ string, code string) error {
	if notifier.sendErr != nil {
		return notifier.sendErr
	}
	notifier.sent = append(notifier.sent, code)
	notifier.lastTo = email
	return nil
}

type fakeTokenProvider struct {
	failing bool
}

func (provider *fakeTokenProvider) GeneratePair(subject sec.TokenSubject, _, _ time.Duration) (sec.TokenPair, error) {
	if provider.failing {
		return sec.TokenPair{}, errors.New("signing failed")
	}
	return sec.TokenPair{
		Access:  "access-" + subject.UserID,
		Refresh: "refresh-" + subject.UserID,
	}, nil
}

func newTestService(t *testing.T) (*auth.Service, *fakeUserRepo, *fakeNotifier) {
	t.Helper()

	codes, err := sec.NewCodeService("test-secret", sec.DefaultCodeValidity)
	require.NoError(t, err)

	repo := newFakeUserRepo()
	notifier := &fakeNotifier{}
	service := auth.NewService(repo, codes, &fakeTokenProvider{}, notifier)

	return service, repo, notifier
}

// # Signup

/*
TestRequestSignup_Success verifies the happy path: user created with the
default role and exactly one code dispatched to the supplied address.
*/
func TestRequestSignup_Success(t *testing.T) {
	service, repo, notifier := newTestService(t)

	result, err := service.RequestSignup(context.Background(), auth.SignupInput{
		Username: "bob",
		Email:    "bob@x.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "bob", result.Username)
	assert.Equal(t, "bob@x.com", result.Email)

	created := repo.byUsername["bob"]
	require.NotNil(t, created)
	assert.Equal(t, sec.RoleUser, created.Role)
	assert.False(t, created.IsSuperuser)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "bob@x.com", notifier.lastTo)
}

/*
TestRequestSignup_ReservedUsername verifies that the reserved handle "me" is
rejected regardless of email and letter case.
*/
func TestRequestSignup_ReservedUsername(t *testing.T) {
	service, _, notifier := newTestService(t)

	for _, username := range []string{"me", "ME", "Me"} {
		_, err := service.RequestSignup(context.Background(), auth.SignupInput{
			Username: username,
			Email:    "a@b.com",
		})

		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	}

	assert.Empty(t, notifier.sent)
}

/*
TestRequestSignup_InvalidCharacters verifies the restricted character class.
*/
func TestRequestSignup_InvalidCharacters(t *testing.T) {
	service, _, _ := newTestService(t)

	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"word_chars", "bob_99", true},
		{"dots_and_at", "bob.smith@home", true},
		{"plus_minus", "bob+alt-1", true},
		{"space", "bob smith", false},
		{"hash", "bob#1", false},
		{"slash", "bob/2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.RequestSignup(context.Background(), auth.SignupInput{
				Username: tt.username,
				Email:    "x@y.com",
			})

			if tt.valid {
				assert.NoError(t, err)
			} else {
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			}
		})
	}
}

/*
TestRequestSignup_Conflicts verifies that a partial identity match is a
conflict, never a merge: same username with a new email, or same email with a
new username, both fail.
*/
func TestRequestSignup_Conflicts(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.RequestSignup(context.Background(), auth.SignupInput{
		Username: "bob", Email: "bob@x.com",
	})
	require.NoError(t, err)

	// Same username, different email.
	_, err = service.RequestSignup(context.Background(), auth.SignupInput{
		Username: "bob", Email: "other@x.com",
	})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)

	// Same email, different username.
	_, err = service.RequestSignup(context.Background(), auth.SignupInput{
		Username: "robert", Email: "bob@x.com",
	})
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestRequestSignup_Idempotent verifies that re-signup with the exact same
(username, email) pair succeeds and dispatches a fresh code instead of
creating a second account.
*/
func TestRequestSignup_Idempotent(t *testing.T) {
	service, repo, notifier := newTestService(t)

	input := auth.SignupInput{Username: "bob", Email: "bob@x.com"}

	_, err := service.RequestSignup(context.Background(), input)
	require.NoError(t, err)
	firstID := repo.byUsername["bob"].ID

	_, err = service.RequestSignup(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, firstID, repo.byUsername["bob"].ID)
	assert.Len(t, notifier.sent, 2)
}

/*
TestRequestSignup_DispatchFailure verifies that a mail transport failure
surfaces as a dependency error rather than being swallowed.
*/
func TestRequestSignup_DispatchFailure(t *testing.T) {
	service, _, notifier := newTestService(t)
	notifier.sendErr = errors.New("smtp: connection refused")

	_, err := service.RequestSignup(context.Background(), auth.SignupInput{
		Username: "bob", Email: "bob@x.com",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "DEPENDENCY_FAILED", ae.Code)
}

// # Token Exchange

/*
TestExchangeCode_Success verifies the full handshake: signup, then exchange
the dispatched code for a token pair.
*/
func TestExchangeCode_Success(t *testing.T) {
	service, _, notifier := newTestService(t)

	_, err := service.RequestSignup(context.Background(), auth.SignupInput{
		Username: "bob", Email: "bob@x.com",
	})
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)

	pair, err := service.ExchangeCode(context.Background(), auth.ExchangeInput{
		Username:         "bob",
		ConfirmationCode: notifier.sent[0],
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
}

/*
TestExchangeCode_UnknownUser verifies the 404 path for a username that was
never registered.
*/
func TestExchangeCode_UnknownUser(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.ExchangeCode(context.Background(), auth.ExchangeInput{
		Username:         "ghost",
		ConfirmationCode: "whatever",
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestExchangeCode_BadCode verifies that a garbage code is rejected.
*/
func TestExchangeCode_BadCode(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.RequestSignup(context.Background(), auth.SignupInput{
		Username: "bob", Email: "bob@x.com",
	})
	require.NoError(t, err)

	_, err = service.ExchangeCode(context.Background(), auth.ExchangeInput{
		Username:         "bob",
		ConfirmationCode: "not-a-real-code",
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

/*
TestExchangeCode_RoleChangeInvalidates verifies the binding invalidation
property: a code issued before a role change fails validation afterwards,
with no explicit revocation step.
*/
func TestExchangeCode_RoleChangeInvalidates(t *testing.T) {
	service, repo, notifier := newTestService(t)

	_, err := service.RequestSignup(context.Background(), auth.SignupInput{
		Username: "bob", Email: "bob@x.com",
	})
	require.NoError(t, err)
	code := notifier.sent[0]

	// An admin promotes the user after the code was issued.
	repo.byUsername["bob"].Role = sec.RoleModerator

	_, err = service.ExchangeCode(context.Background(), auth.ExchangeInput{
		Username:         "bob",
		ConfirmationCode: code,
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}
