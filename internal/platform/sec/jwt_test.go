// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewTokenServiceFromKeys(privateKey, "critica.test")
}

var subject = TokenSubject{
	UserID:   "u-1",
	Username: "alice",
	Role:     "moderator",
}

/*
TestTokenPair_RoundTrip verifies the access token of a freshly minted pair
verifies and carries the subject's identity claims.
*/
func TestTokenPair_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	pair, err := service.GeneratePair(subject, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := service.VerifyToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "moderator", claims.Role)
	assert.False(t, claims.IsSuperuser)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "critica.test", claims.Issuer)
}

/*
TestVerifyToken_RejectsRefresh verifies a refresh token cannot be used to
authenticate a request even though its signature is valid.
*/
func TestVerifyToken_RejectsRefresh(t *testing.T) {
	service := newTestTokenService(t)

	pair, err := service.GeneratePair(subject, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyToken(pair.Refresh)
	assert.Error(t, err)
}

/*
TestVerifyToken_RejectsExpired verifies an access token past its TTL fails
verification.
*/
func TestVerifyToken_RejectsExpired(t *testing.T) {
	service := newTestTokenService(t)

	pair, err := service.GeneratePair(subject, -time.Minute, 24*time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyToken(pair.Access)
	assert.Error(t, err)
}

/*
TestVerifyToken_RejectsForeignKey verifies a token signed with a different
key fails verification.
*/
func TestVerifyToken_RejectsForeignKey(t *testing.T) {
	signer := newTestTokenService(t)
	verifier := newTestTokenService(t)

	pair, err := signer.GeneratePair(subject, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(pair.Access)
	assert.Error(t, err)
}

/*
TestVerifyToken_RejectsGarbage verifies malformed input fails without
panicking.
*/
func TestVerifyToken_RejectsGarbage(t *testing.T) {
	service := newTestTokenService(t)

	for _, token := range []string{"", "not.a.jwt", "a.b"} {
		_, err := service.VerifyToken(token)
		assert.Error(t, err)
	}
}
