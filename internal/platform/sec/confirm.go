// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// # Confirmation Codes

// CodeBinding is the mutable account state a confirmation code is bound to.
//
// The HMAC covers every field here, so changing ANY of them (an admin role
// grant, a superuser flip) silently invalidates all outstanding codes for
// the account. That property replaces an explicit revocation list.
type CodeBinding struct {
	UserID      string
	Role        string
	IsSuperuser bool
}

// CodeService issues and validates single-purpose email confirmation codes.
//
// # Construction
//
// A code is `base36(unix_ts) + "-" + hex(HMAC-SHA256(secret, uid|role|sup|ts))`.
// Validation recomputes the MAC from the user's CURRENT state, so the code
// is a pure function of (secret, state, issue time) and needs no storage.
//
// # Concurrency
//
// CodeService is immutable after construction and safe for concurrent use.
type CodeService struct {
	secret   []byte
	validity time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// DefaultCodeValidity is the documented expiry window for confirmation codes.
// Long enough for users who do not check email immediately.
const DefaultCodeValidity = 24 * time.Hour

// NewCodeService creates a CodeService with the given HMAC secret and
// validity window. A zero validity falls back to [DefaultCodeValidity].
func NewCodeService(secret string, validity time.Duration) (*CodeService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: confirmation secret must not be empty")
	}

	if validity <= 0 {
		validity = DefaultCodeValidity
	}

	return &CodeService{
		secret:   []byte(secret),
		validity: validity,
		now:      time.Now,
	}, nil
}

// Issue generates a confirmation code bound to the account's current state.
func (service *CodeService) Issue(binding CodeBinding) string {
	timestamp := service.now().Unix()
	return service.encode(binding, timestamp)
}

// Check reports whether code is a valid, unexpired confirmation code for
// the account's current state.
//
// It never returns the reason for failure: a tampered MAC, an expired
// timestamp, and a state change after issuance are all indistinguishable
// to the caller (and to an attacker).
func (service *CodeService) Check(binding CodeBinding, code string) bool {
	timestampPart, _, found := strings.Cut(code, "-")
	if !found {
		return false
	}

	timestamp, err := strconv.ParseInt(timestampPart, 36, 64)
	if err != nil {
		return false
	}

	// Reject future-dated codes as well as expired ones.
	age := service.now().Unix() - timestamp
	if age < 0 || age > int64(service.validity.Seconds()) {
		return false
	}

	expected := service.encode(binding, timestamp)
	return hmac.Equal([]byte(code), []byte(expected))
}

// encode builds the wire format for a code issued at the given timestamp.
func (service *CodeService) encode(binding CodeBinding, timestamp int64) string {
	mac := hmac.New(sha256.New, service.secret)
	fmt.Fprintf(mac, "%s|%s|%t|%d", binding.UserID, binding.Role, binding.IsSuperuser, timestamp)

	return strconv.FormatInt(timestamp, 36) + "-" + hex.EncodeToString(mac.Sum(nil))
}
