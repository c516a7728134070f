// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodeService(t *testing.T, validity time.Duration) *CodeService {
	t.Helper()
	service, err := NewCodeService("test-secret", validity)
	require.NoError(t, err)
	return service
}

var binding = CodeBinding{UserID: "u-1", Role: "user"}

/*
TestCode_RoundTrip verifies that a freshly issued code validates against
the binding it was issued for.
*/
func TestCode_RoundTrip(t *testing.T) {
	service := newTestCodeService(t, DefaultCodeValidity)

	code := service.Issue(binding)

	assert.True(t, service.Check(binding, code))
}

/*
TestCode_ExpiryWindow verifies the validity boundary: a code is accepted
right at the window's edge and rejected one second past it.
*/
func TestCode_ExpiryWindow(t *testing.T) {
	service := newTestCodeService(t, time.Hour)

	issuedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return issuedAt }
	code := service.Issue(binding)

	service.now = func() time.Time { return issuedAt.Add(time.Hour) }
	assert.True(t, service.Check(binding, code), "boundary of the window must pass")

	service.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	assert.False(t, service.Check(binding, code), "one second past the window must fail")
}

/*
TestCode_FutureDated verifies a code stamped ahead of the clock is
rejected.
*/
func TestCode_FutureDated(t *testing.T) {
	service := newTestCodeService(t, time.Hour)

	issuedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return issuedAt }
	code := service.Issue(binding)

	service.now = func() time.Time { return issuedAt.Add(-time.Minute) }
	assert.False(t, service.Check(binding, code))
}

/*
TestCode_BindingChange verifies that any change to the bound account state
invalidates outstanding codes without a revocation list.
*/
func TestCode_BindingChange(t *testing.T) {
	service := newTestCodeService(t, DefaultCodeValidity)

	code := service.Issue(binding)

	promoted := binding
	promoted.Role = "moderator"
	assert.False(t, service.Check(promoted, code))

	elevated := binding
	elevated.IsSuperuser = true
	assert.False(t, service.Check(elevated, code))

	someoneElse := binding
	someoneElse.UserID = "u-2"
	assert.False(t, service.Check(someoneElse, code))
}

/*
TestCode_Tamper verifies malformed and MAC-altered codes are rejected.
*/
func TestCode_Tamper(t *testing.T) {
	service := newTestCodeService(t, DefaultCodeValidity)
	code := service.Issue(binding)

	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"no separator", "abcdef0123456789"},
		{"bad timestamp", "!!!-deadbeef"},
		{"flipped mac byte", code[:len(code)-1] + flip(code[len(code)-1])},
		{"truncated", code[:len(code)-2]},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.False(t, service.Check(binding, test.code))
		})
	}
}

/*
TestCode_SecretRequired verifies construction fails without a secret.
*/
func TestCode_SecretRequired(t *testing.T) {
	_, err := NewCodeService("", time.Hour)
	assert.Error(t, err)
}

// flip returns a different hex digit than the one given.
func flip(b byte) string {
	if b == '0' {
		return "1"
	}
	return "0"
}
